// Package dashboard exposes the aggregated statistics and the bulk roster
// import pipeline. One import session is live at a time; Reset clears it.
package dashboard

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shrs/shrs/internal/importer"
	"github.com/shrs/shrs/internal/stats"
)

type Handler struct {
	stats         *stats.Engine
	pipeline      *importer.Pipeline
	checkupWindow time.Duration
	log           zerolog.Logger
}

func NewHandler(engine *stats.Engine, pipeline *importer.Pipeline, checkupWindow time.Duration, log zerolog.Logger) *Handler {
	if checkupWindow <= 0 {
		checkupWindow = stats.DefaultCheckupWindow
	}
	return &Handler{stats: engine, pipeline: pipeline, checkupWindow: checkupWindow, log: log}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/stats/bmi", h.bmi)
	api.GET("/stats/vaccinations", h.vaccinations)
	api.GET("/stats/blood-groups", h.bloodGroups)
	api.GET("/stats/checkups", h.checkups)

	api.POST("/import/upload", h.upload)
	api.GET("/import/summary", h.summary)
	api.GET("/import/errors", h.errorRows)
	api.POST("/import/commit", h.commit)
	api.GET("/import/progress", h.progress)
	api.POST("/import/reset", h.reset)
	api.GET("/import/report.csv", h.reportCSV)
	api.GET("/import/report.xlsx", h.reportXLSX)
}

func (h *Handler) bmi(c echo.Context) error {
	return c.JSON(http.StatusOK, h.stats.BMIDistribution())
}

func (h *Handler) vaccinations(c echo.Context) error {
	return c.JSON(http.StatusOK, h.stats.VaccinationCompliance())
}

func (h *Handler) bloodGroups(c echo.Context) error {
	return c.JSON(http.StatusOK, h.stats.BloodGroupDistribution())
}

func (h *Handler) checkups(c echo.Context) error {
	return c.JSON(http.StatusOK, h.stats.CheckupReport(time.Now(), h.checkupWindow))
}

// upload receives the roster file as multipart form field "file", parses
// it and runs validation in one step. Structural problems (missing
// columns, broken framing, empty file) reject the whole upload.
func (h *Handler) upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	format, err := importer.FormatForFilename(fh.Filename)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read upload")
	}
	defer f.Close()

	h.pipeline.Reset()
	if err := h.pipeline.Parse(f, format); err != nil {
		h.pipeline.Reset()
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	summary, err := h.pipeline.Validate()
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"summary": summary,
		"errors":  h.pipeline.Errors(),
	})
}

func (h *Handler) summary(c echo.Context) error {
	return c.JSON(http.StatusOK, h.pipeline.Summary())
}

func (h *Handler) errorRows(c echo.Context) error {
	return c.JSON(http.StatusOK, h.pipeline.Errors())
}

func (h *Handler) commit(c echo.Context) error {
	summary, err := h.pipeline.Commit(c.Request().Context(), nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *Handler) progress(c echo.Context) error {
	return c.JSON(http.StatusOK, h.pipeline.Progress())
}

func (h *Handler) reset(c echo.Context) error {
	h.pipeline.Reset()
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) reportCSV(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="import-errors.csv"`)
	c.Response().WriteHeader(http.StatusOK)
	return h.pipeline.WriteErrorReportCSV(c.Response())
}

func (h *Handler) reportXLSX(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="import-errors.xlsx"`)
	c.Response().WriteHeader(http.StatusOK)
	return h.pipeline.WriteErrorReportXLSX(c.Response())
}
