package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vitvoice/sadhana-api/internal/api/metrics"
	"github.com/vitvoice/sadhana-api/internal/core/domain"
	"github.com/vitvoice/sadhana-api/internal/core/ports"
)

type CounsilliHandler struct {
	service ports.CounsilliService
}

func NewCounsilliHandler(service ports.CounsilliService) *CounsilliHandler {
	return &CounsilliHandler{service: service}
}

// Dashboard returns the counsilli's profile and latest entries.
//
// @Summary      Counsilli dashboard
// @Tags         counsilli
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  counsilliDashboardResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/counsilli/dashboard [get]
func (h *CounsilliHandler) Dashboard(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	dash, err := h.service.Dashboard(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, counsilliDashboardResponse{User: dash.User, RecentSadhana: entries(dash.Recent)})
}

// AddEntry submits the sadhana card for one day.
//
// @Summary      Submit sadhana card
// @Tags         counsilli
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addEntryRequest  true  "Sadhana card"
// @Success      201   {object}  addEntryResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/counsilli/sadhana/add [post]
func (h *CounsilliHandler) AddEntry(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req addEntryRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.EntriesSubmittedTotal.WithLabelValues("rejected").Inc()
		return err
	}

	entry, err := h.service.AddEntry(c.Request().Context(), userID, toEntryInput(req))
	if err != nil {
		metrics.EntriesSubmittedTotal.WithLabelValues(entryOutcome(err)).Inc()
		return err
	}
	metrics.EntriesSubmittedTotal.WithLabelValues("created").Inc()

	return c.JSON(http.StatusCreated, addEntryResponse{Message: "Sadhana card added", Sadhana: entry})
}

// MonthlyReport lists the counsilli's own entries for one month.
//
// @Summary      Own monthly report
// @Tags         counsilli
// @Produce      json
// @Security     BearerAuth
// @Param        month  path      string  true  "Month as YYYY-MM"
// @Success      200    {object}  monthlyReportResponse
// @Failure      400    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /api/counsilli/sadhana/monthly/{month} [get]
func (h *CounsilliHandler) MonthlyReport(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	month := c.Param("month")
	list, err := h.service.MonthlyReport(c.Request().Context(), userID, month)
	if err != nil {
		return err
	}
	metrics.ReportsServedTotal.WithLabelValues("counsilli_monthly").Inc()

	return c.JSON(http.StatusOK, monthlyReportResponse{Month: month, SadhanaCards: entries(list)})
}

func entryOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateEntry), errors.Is(err, domain.ErrSubmissionInProgress):
		return "duplicate"
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrUnauthenticated):
		return "rejected"
	default:
		return "error"
	}
}
