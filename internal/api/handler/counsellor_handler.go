package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vitvoice/sadhana-api/internal/api/metrics"
	"github.com/vitvoice/sadhana-api/internal/core/ports"
)

type CounsellorHandler struct {
	service ports.CounsellorService
}

func NewCounsellorHandler(service ports.CounsellorService) *CounsellorHandler {
	return &CounsellorHandler{service: service}
}

// Dashboard returns the counsellor's profile and assignee count.
//
// @Summary      Counsellor dashboard
// @Tags         counsellor
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  counsellorDashboardResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/counsellor/dashboard [get]
func (h *CounsellorHandler) Dashboard(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	dash, err := h.service.Dashboard(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, counsellorDashboardResponse{User: dash.User, AssignedCounsilliCount: dash.AssignedCount})
}

// Counsillis lists the counsellor's assignees with their latest submission.
//
// @Summary      Assigned counsillis
// @Tags         counsellor
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  counsillisResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/counsellor/counsillis [get]
func (h *CounsellorHandler) Counsillis(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	list, err := h.service.ListCounsillis(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, counsillisResponse{Counsillis: summaries(list)})
}

// Report lists every entry of an assigned counsilli.
//
// @Summary      Counsilli full report
// @Tags         counsellor
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      string  true  "Counsilli id"
// @Success      200          {object}  counsilliReportResponse
// @Failure      403          {object}  errorResponse
// @Router       /api/counsellor/counsilli/{id}/sadhana [get]
func (h *CounsellorHandler) Report(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	counsilliID := c.Param("id")
	list, err := h.service.CounsilliReport(c.Request().Context(), userID, counsilliID)
	if err != nil {
		return err
	}
	metrics.ReportsServedTotal.WithLabelValues("counsellor_full").Inc()

	return c.JSON(http.StatusOK, counsilliReportResponse{CounsilliID: counsilliID, SadhanaCards: entries(list)})
}

// MonthlyReport lists one month of an assigned counsilli's entries.
//
// @Summary      Counsilli monthly report
// @Tags         counsellor
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      string  true  "Counsilli id"
// @Param        month        path      string  true  "Month as YYYY-MM"
// @Success      200          {object}  counsilliReportResponse
// @Failure      400          {object}  errorResponse
// @Failure      403          {object}  errorResponse
// @Router       /api/counsellor/counsilli/{id}/sadhana/{month} [get]
func (h *CounsellorHandler) MonthlyReport(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	counsilliID, month := c.Param("id"), c.Param("month")
	list, err := h.service.CounsilliMonthlyReport(c.Request().Context(), userID, counsilliID, month)
	if err != nil {
		return err
	}
	metrics.ReportsServedTotal.WithLabelValues("counsellor_monthly").Inc()

	return c.JSON(http.StatusOK, counsilliReportResponse{CounsilliID: counsilliID, Month: month, SadhanaCards: entries(list)})
}
