package emergency

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shrs/shrs/internal/model"
	"github.com/shrs/shrs/internal/store"
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
	api.GET("/emergency-contacts", h.list)
	api.POST("/emergency-contacts", h.create)
	api.PATCH("/emergency-contacts/:id", h.update)
	api.DELETE("/emergency-contacts/:id", h.remove)
}

func (h *Handler) list(c echo.Context) error {
	p := pagination.FromContext(c)
	items := h.svc.List(c.QueryParam("studentId"))
	return c.JSON(http.StatusOK, pagination.NewResponse(pagination.Slice(items, p), len(items), p))
}

func (h *Handler) create(c echo.Context) error {
	var contact model.EmergencyContact
	if err := c.Bind(&contact); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	created, err := h.svc.Create(c.Request().Context(), contact)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) update(c echo.Context) error {
	var patch Patch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	contact, err := h.svc.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "contact not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, contact)
}

func (h *Handler) remove(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "contact not found")
	}
	return c.NoContent(http.StatusNoContent)
}
