package immunization

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
	api.GET("/vaccinations", h.list)
	api.POST("/vaccinations", h.create)
	api.PATCH("/vaccinations/:id/administer", h.administer)
	api.PATCH("/vaccinations/:id/status", h.setStatus)
}

func (h *Handler) list(c echo.Context) error {
	p := pagination.FromContext(c)
	items := h.svc.List(c.QueryParam("studentId"), model.VaccinationStatus(c.QueryParam("status")))
	return c.JSON(http.StatusOK, pagination.NewResponse(pagination.Slice(items, p), len(items), p))
}

func (h *Handler) create(c echo.Context) error {
	var v model.Vaccination
	if err := c.Bind(&v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	created, err := h.svc.Create(c.Request().Context(), v)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) administer(c echo.Context) error {
	var body struct {
		AdministeredDate model.Date `json:"administeredDate"`
		AdministeredBy   string     `json:"administeredBy"`
		BatchNumber      string     `json:"batchNumber"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	v, err := h.svc.MarkAdministered(c.Request().Context(), c.Param("id"), body.AdministeredDate, body.AdministeredBy, body.BatchNumber)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "vaccination not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) setStatus(c echo.Context) error {
	var body struct {
		Status model.VaccinationStatus `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	v, err := h.svc.SetStatus(c.Request().Context(), c.Param("id"), body.Status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "vaccination not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, v)
}
