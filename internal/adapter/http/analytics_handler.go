package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"loanverse/internal/usecase/analytics"
)

type AnalyticsHandler struct{ uc *analytics.Usecase }

func NewAnalyticsHandler(uc *analytics.Usecase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

func (h *AnalyticsHandler) Summary(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Summarize())
}

func (h *AnalyticsHandler) StatusDistribution(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.StatusDistribution())
}

func (h *AnalyticsHandler) TopLenders(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.TopLenders())
}

func (h *AnalyticsHandler) Agreements(c echo.Context) error {
	rows := h.uc.Agreements(queryFromParams(c))
	if rows == nil {
		rows = []analytics.AgreementRow{}
	}
	return c.JSON(http.StatusOK, rows)
}

// ExportCSV streams the filtered agreement rows as a CSV attachment.
func (h *AnalyticsHandler) ExportCSV(c echo.Context) error {
	rows := h.uc.Agreements(queryFromParams(c))
	name := analytics.ExportFilename(time.Now())
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", analytics.ExportCSV(rows))
}

func queryFromParams(c echo.Context) analytics.Query {
	return analytics.Query{
		Search: c.QueryParam("q"),
		Status: c.QueryParam("status"),
		Sort:   c.QueryParam("sort"),
	}
}
