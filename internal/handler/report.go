package handler

import (
	"github.com/deppfellow/campus-manager/internal/middleware"
	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/model/report"
	"github.com/deppfellow/campus-manager/internal/server"
	"github.com/deppfellow/campus-manager/internal/service"
	"github.com/labstack/echo/v4"
)

type ReportHandler struct {
	Handler
	reportService *service.ReportService
}

func NewReportHandler(s *server.Server, reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		Handler:       NewHandler(s),
		reportService: reportService,
	}
}

// RequestReport answers 202: with jobs enabled the report is still
// PENDING when this returns.
func (h *ReportHandler) RequestReport(c echo.Context, payload *report.RequestReportPayload) (*report.Report, error) {
	payload.RequestedBy = middleware.GetUserID(c)
	return h.reportService.RequestReport(c.Request().Context(), payload)
}

func (h *ReportHandler) GetReportByID(c echo.Context, payload *report.GetReportByIDPayload) (*report.Report, error) {
	return h.reportService.GetReport(c.Request().Context(), payload.ID)
}

func (h *ReportHandler) GetReports(c echo.Context, query *report.GetReportsQuery) (model.PaginatedResponse[report.Report], error) {
	return h.reportService.ListReports(c.Request().Context(), query)
}

func (h *ReportHandler) GenerateReport(c echo.Context, payload *report.GetReportByIDPayload) (*report.Report, error) {
	return h.reportService.GenerateReport(c.Request().Context(), payload.ID)
}

func (h *ReportHandler) DeleteReport(c echo.Context, payload *report.GetReportByIDPayload) error {
	return h.reportService.DeleteReport(c.Request().Context(), payload.ID)
}

func (h *ReportHandler) ExportReport(c echo.Context, payload *report.ExportReportPayload) (*File, error) {
	file, err := h.reportService.Export(c.Request().Context(), payload)
	if err != nil {
		return nil, err
	}
	return &File{Name: file.Name, ContentType: file.ContentType, Data: file.Data}, nil
}
