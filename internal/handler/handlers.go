package handler

import (
	"github.com/deppfellow/campus-manager/internal/server"
	"github.com/deppfellow/campus-manager/internal/service"
)

type Handlers struct {
	Health    *HealthHandler
	OpenAPI   *OpenAPIHandler
	Event     *EventHandler
	Exam      *ExamHandler
	Hostel    *HostelHandler
	Payment   *PaymentHandler
	Transport *TransportHandler
	Report    *ReportHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(s),
		OpenAPI:   NewOpenAPIHandler(s),
		Event:     NewEventHandler(s, services.Events),
		Exam:      NewExamHandler(s, services.Exams),
		Hostel:    NewHostelHandler(s, services.Hostel),
		Payment:   NewPaymentHandler(s, services.Payments),
		Transport: NewTransportHandler(s, services.Transport),
		Report:    NewReportHandler(s, services.Reports),
	}
}
