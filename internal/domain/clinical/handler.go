package clinical

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
	api.GET("/health-records", h.listRecords)
	api.POST("/health-records", h.createRecord)
	api.GET("/health-records/:id", h.getRecord)
	api.PATCH("/health-records/:id", h.updateRecord)

	api.GET("/conditions", h.listConditions)
	api.POST("/conditions", h.createCondition)
	api.PATCH("/conditions/:id/active", h.setConditionActive)

	api.GET("/allergies", h.listAllergies)
	api.POST("/allergies", h.createAllergy)
	api.DELETE("/allergies/:id", h.removeAllergy)
}

func (h *Handler) listRecords(c echo.Context) error {
	p := pagination.FromContext(c)
	items := h.svc.ListHealthRecords(c.QueryParam("studentId"))
	return c.JSON(http.StatusOK, pagination.NewResponse(pagination.Slice(items, p), len(items), p))
}

func (h *Handler) createRecord(c echo.Context) error {
	var hr model.HealthRecord
	if err := c.Bind(&hr); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	created, err := h.svc.CreateHealthRecord(c.Request().Context(), hr)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) getRecord(c echo.Context) error {
	hr, err := h.svc.GetHealthRecord(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "health record not found")
	}
	return c.JSON(http.StatusOK, hr)
}

func (h *Handler) updateRecord(c echo.Context) error {
	var patch HealthRecordPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	hr, err := h.svc.UpdateHealthRecord(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "health record not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, hr)
}

func (h *Handler) listConditions(c echo.Context) error {
	p := pagination.FromContext(c)
	items := h.svc.ListConditions(c.QueryParam("studentId"))
	return c.JSON(http.StatusOK, pagination.NewResponse(pagination.Slice(items, p), len(items), p))
}

func (h *Handler) createCondition(c echo.Context) error {
	var cond model.MedicalCondition
	if err := c.Bind(&cond); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	created, err := h.svc.CreateCondition(c.Request().Context(), cond)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) setConditionActive(c echo.Context) error {
	var body struct {
		IsActive bool `json:"isActive"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	cond, err := h.svc.SetConditionActive(c.Request().Context(), c.Param("id"), body.IsActive)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "condition not found")
	}
	return c.JSON(http.StatusOK, cond)
}

func (h *Handler) listAllergies(c echo.Context) error {
	p := pagination.FromContext(c)
	items := h.svc.ListAllergies(c.QueryParam("studentId"))
	return c.JSON(http.StatusOK, pagination.NewResponse(pagination.Slice(items, p), len(items), p))
}

func (h *Handler) createAllergy(c echo.Context) error {
	var a model.Allergy
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	created, err := h.svc.CreateAllergy(c.Request().Context(), a)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) removeAllergy(c echo.Context) error {
	if err := h.svc.RemoveAllergy(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "allergy not found")
	}
	return c.NoContent(http.StatusNoContent)
}
