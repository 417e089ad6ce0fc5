package students

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shrs/shrs/internal/store"
	"github.com/shrs/shrs/internal/validation"
	"github.com/shrs/shrs/pkg/pagination"
)

type Handler struct {
	svc *Service
	log zerolog.Logger
}

func NewHandler(svc *Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/students", h.list)
	api.POST("/students", h.create)
	api.GET("/students/:id", h.get)
	api.PATCH("/students/:id", h.update)
	api.DELETE("/students/:id", h.remove)
}

func (h *Handler) list(c echo.Context) error {
	p := pagination.FromContext(c)
	items := h.svc.List(c.QueryParam("class"), c.QueryParam("section"))
	page := pagination.Slice(items, p)
	return c.JSON(http.StatusOK, pagination.NewResponse(page, len(items), p))
}

func (h *Handler) create(c echo.Context) error {
	var row validation.StudentRow
	if err := c.Bind(&row); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	student, err := h.svc.Create(c.Request().Context(), row)
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]any{
				"error":  "validation failed",
				"fields": verr.Fields,
			})
		}
		h.log.Error().Err(err).Msg("create student")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create student")
	}
	return c.JSON(http.StatusCreated, student)
}

func (h *Handler) get(c echo.Context) error {
	student, err := h.svc.Get(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "student not found")
	}
	return c.JSON(http.StatusOK, student)
}

func (h *Handler) update(c echo.Context) error {
	var patch Patch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	student, err := h.svc.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "student not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, student)
}

func (h *Handler) remove(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "student not found")
	}
	return c.NoContent(http.StatusNoContent)
}
