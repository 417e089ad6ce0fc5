package alerts

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

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
	api.GET("/alerts", h.list)
	api.POST("/alerts", h.create)
	api.PATCH("/alerts/:id/read", h.markRead)
	api.PATCH("/alerts/:id/resolve", h.resolve)
}

func (h *Handler) list(c echo.Context) error {
	p := pagination.FromContext(c)
	items := h.svc.List(c.QueryParam("studentId"), c.QueryParam("unread") == "true")
	return c.JSON(http.StatusOK, pagination.NewResponse(pagination.Slice(items, p), len(items), p))
}

func (h *Handler) create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	alert, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, alert)
}

func (h *Handler) markRead(c echo.Context) error {
	alert, err := h.svc.MarkRead(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "alert not found")
	}
	return c.JSON(http.StatusOK, alert)
}

func (h *Handler) resolve(c echo.Context) error {
	alert, err := h.svc.Resolve(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "alert not found")
	}
	return c.JSON(http.StatusOK, alert)
}
