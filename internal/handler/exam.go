package handler

import (
	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/model/exam"
	"github.com/deppfellow/campus-manager/internal/server"
	"github.com/deppfellow/campus-manager/internal/service"
	"github.com/labstack/echo/v4"
)

type ExamHandler struct {
	Handler
	examService *service.ExamService
}

func NewExamHandler(s *server.Server, examService *service.ExamService) *ExamHandler {
	return &ExamHandler{
		Handler:     NewHandler(s),
		examService: examService,
	}
}

func (h *ExamHandler) CreateExam(c echo.Context, payload *exam.CreateExamPayload) (*exam.Exam, error) {
	return h.examService.CreateExam(c.Request().Context(), payload)
}

func (h *ExamHandler) GetExamByID(c echo.Context, payload *exam.GetExamByIDPayload) (*exam.Exam, error) {
	return h.examService.GetExam(c.Request().Context(), payload.ID)
}

func (h *ExamHandler) GetExams(c echo.Context, query *exam.GetExamsQuery) (model.PaginatedResponse[exam.Exam], error) {
	return h.examService.ListExams(c.Request().Context(), query)
}

func (h *ExamHandler) UpdateExam(c echo.Context, payload *exam.UpdateExamPayload) (*exam.Exam, error) {
	return h.examService.UpdateExam(c.Request().Context(), payload)
}

func (h *ExamHandler) TransitionExam(c echo.Context, payload *exam.TransitionExamPayload) (*exam.Exam, error) {
	return h.examService.TransitionExam(c.Request().Context(), payload)
}

func (h *ExamHandler) AssignInvigilator(c echo.Context, payload *exam.AssignInvigilatorPayload) (*exam.Exam, error) {
	return h.examService.AssignInvigilator(c.Request().Context(), payload)
}

func (h *ExamHandler) RemoveInvigilator(c echo.Context, payload *exam.RemoveInvigilatorPayload) (*exam.Exam, error) {
	return h.examService.RemoveInvigilator(c.Request().Context(), payload)
}

func (h *ExamHandler) RecordResult(c echo.Context, payload *exam.RecordResultPayload) (*exam.ExamResult, error) {
	return h.examService.RecordResult(c.Request().Context(), payload)
}

func (h *ExamHandler) GetResults(c echo.Context, payload *exam.GetExamByIDPayload) ([]exam.ExamResult, error) {
	results, err := h.examService.ListResults(c.Request().Context(), payload.ID)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []exam.ExamResult{}
	}
	return results, nil
}

func (h *ExamHandler) GetStatistics(c echo.Context, payload *exam.GetExamByIDPayload) (*exam.Statistics, error) {
	return h.examService.GetStatistics(c.Request().Context(), payload.ID)
}

func (h *ExamHandler) PublishResults(c echo.Context, payload *exam.PublishResultsPayload) (*exam.Exam, error) {
	return h.examService.PublishResults(c.Request().Context(), payload)
}

func (h *ExamHandler) DeleteExam(c echo.Context, payload *exam.DeleteExamPayload) error {
	return h.examService.DeleteExam(c.Request().Context(), payload.ID)
}
