package bloodbank

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
	api.GET("/blood-requests", h.list)
	api.POST("/blood-requests", h.create)
	api.PATCH("/blood-requests/:id/status", h.setStatus)
	api.GET("/blood-donors", h.donors)
}

func (h *Handler) list(c echo.Context) error {
	p := pagination.FromContext(c)
	items := h.svc.List(model.BloodRequestStatus(c.QueryParam("status")))
	return c.JSON(http.StatusOK, pagination.NewResponse(pagination.Slice(items, p), len(items), p))
}

func (h *Handler) create(c echo.Context) error {
	var r model.BloodRequest
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	created, err := h.svc.Create(c.Request().Context(), r)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) setStatus(c echo.Context) error {
	var body struct {
		Status model.BloodRequestStatus `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	r, err := h.svc.SetStatus(c.Request().Context(), c.Param("id"), body.Status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "blood request not found")
		}
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) donors(c echo.Context) error {
	donors, err := h.svc.Donors(model.BloodGroup(c.QueryParam("bloodGroup")))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, donors)
}
