package router

import (
	"net/http"

	"github.com/deppfellow/campus-manager/internal/handler"
	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/model/event"
	"github.com/deppfellow/campus-manager/internal/model/exam"
	"github.com/deppfellow/campus-manager/internal/model/hostel"
	"github.com/deppfellow/campus-manager/internal/model/payment"
	"github.com/deppfellow/campus-manager/internal/model/report"
	"github.com/deppfellow/campus-manager/internal/model/transport"
	"github.com/labstack/echo/v4"
)

func registerEventRoutes(g *echo.Group, h *handler.Handlers) {
	eh := h.Event
	events := g.Group("/events")

	events.POST("", handler.Handle(eh.Handler, eh.CreateEvent, http.StatusCreated, &event.CreateEventPayload{}))
	events.GET("", handler.Handle(eh.Handler, eh.GetEvents, http.StatusOK, &event.GetEventsQuery{}))
	events.GET("/:id", handler.Handle(eh.Handler, eh.GetEventByID, http.StatusOK, &event.GetEventByIDPayload{}))
	events.PATCH("/:id", handler.Handle(eh.Handler, eh.UpdateEvent, http.StatusOK, &event.UpdateEventPayload{}))
	events.DELETE("/:id", handler.HandleNoContent(eh.Handler, eh.DeleteEvent, http.StatusNoContent, &event.DeleteEventPayload{}))
	events.POST("/:id/transition", handler.Handle(eh.Handler, eh.TransitionEvent, http.StatusOK, &event.TransitionEventPayload{}))
	events.POST("/:id/participants", handler.Handle(eh.Handler, eh.RegisterParticipant, http.StatusOK, &event.RegisterParticipantPayload{}))
	events.DELETE("/:id/participants/:student_id", handler.Handle(eh.Handler, eh.UnregisterParticipant, http.StatusOK, &event.UnregisterParticipantPayload{}))
}

func registerExamRoutes(g *echo.Group, h *handler.Handlers) {
	xh := h.Exam
	exams := g.Group("/exams")

	exams.POST("", handler.Handle(xh.Handler, xh.CreateExam, http.StatusCreated, &exam.CreateExamPayload{}))
	exams.GET("", handler.Handle(xh.Handler, xh.GetExams, http.StatusOK, &exam.GetExamsQuery{}))
	exams.GET("/:id", handler.Handle(xh.Handler, xh.GetExamByID, http.StatusOK, &exam.GetExamByIDPayload{}))
	exams.PATCH("/:id", handler.Handle(xh.Handler, xh.UpdateExam, http.StatusOK, &exam.UpdateExamPayload{}))
	exams.DELETE("/:id", handler.HandleNoContent(xh.Handler, xh.DeleteExam, http.StatusNoContent, &exam.DeleteExamPayload{}))
	exams.POST("/:id/transition", handler.Handle(xh.Handler, xh.TransitionExam, http.StatusOK, &exam.TransitionExamPayload{}))
	exams.POST("/:id/invigilators", handler.Handle(xh.Handler, xh.AssignInvigilator, http.StatusOK, &exam.AssignInvigilatorPayload{}))
	exams.DELETE("/:id/invigilators/:staff_id", handler.Handle(xh.Handler, xh.RemoveInvigilator, http.StatusOK, &exam.RemoveInvigilatorPayload{}))
	exams.PUT("/:id/results/:student_id", handler.Handle(xh.Handler, xh.RecordResult, http.StatusOK, &exam.RecordResultPayload{}))
	exams.GET("/:id/results", handler.Handle(xh.Handler, xh.GetResults, http.StatusOK, &exam.GetExamByIDPayload{}))
	exams.GET("/:id/statistics", handler.Handle(xh.Handler, xh.GetStatistics, http.StatusOK, &exam.GetExamByIDPayload{}))
	exams.POST("/:id/publish", handler.Handle(xh.Handler, xh.PublishResults, http.StatusOK, &exam.PublishResultsPayload{}))
}

func registerHostelRoutes(g *echo.Group, h *handler.Handlers) {
	hh := h.Hostel
	rooms := g.Group("/hostel/rooms")

	rooms.POST("", handler.Handle(hh.Handler, hh.CreateRoom, http.StatusCreated, &hostel.CreateRoomPayload{}))
	rooms.GET("", handler.Handle(hh.Handler, hh.GetRooms, http.StatusOK, &hostel.GetRoomsQuery{}))
	rooms.GET("/:id", handler.Handle(hh.Handler, hh.GetRoomByID, http.StatusOK, &hostel.GetRoomByIDPayload{}))
	rooms.PATCH("/:id", handler.Handle(hh.Handler, hh.UpdateRoom, http.StatusOK, &hostel.UpdateRoomPayload{}))
	rooms.DELETE("/:id", handler.HandleNoContent(hh.Handler, hh.DeleteRoom, http.StatusNoContent, &hostel.DeleteRoomPayload{}))
	rooms.POST("/:id/maintenance", handler.Handle(hh.Handler, hh.SetMaintenance, http.StatusOK, &hostel.SetMaintenancePayload{}))

	allocations := g.Group("/hostel/allocations")

	allocations.POST("", handler.Handle(hh.Handler, hh.AllocateRoom, http.StatusCreated, &hostel.AllocateRoomPayload{}))
	allocations.GET("", handler.Handle(hh.Handler, hh.GetAllocations, http.StatusOK, &hostel.GetAllocationsQuery{}))
	allocations.POST("/:id/vacate", handler.Handle(hh.Handler, hh.VacateAllocation, http.StatusOK, &hostel.VacateAllocationPayload{}))

	g.GET("/hostel/occupancy", handler.Handle(hh.Handler, hh.GetOccupancy, http.StatusOK, &model.NoPayload{}))
}

func registerPaymentRoutes(g *echo.Group, h *handler.Handlers) {
	ph := h.Payment
	payments := g.Group("/payments")

	payments.POST("", handler.Handle(ph.Handler, ph.CreatePayment, http.StatusCreated, &payment.CreatePaymentPayload{}))
	payments.GET("", handler.Handle(ph.Handler, ph.GetPayments, http.StatusOK, &payment.GetPaymentsQuery{}))
	payments.GET("/:id", handler.Handle(ph.Handler, ph.GetPaymentByID, http.StatusOK, &payment.GetPaymentByIDPayload{}))
	payments.POST("/:id/complete", handler.Handle(ph.Handler, ph.CompletePayment, http.StatusOK, &payment.CompletePaymentPayload{}))
	payments.POST("/:id/fail", handler.Handle(ph.Handler, ph.FailPayment, http.StatusOK, &payment.FailPaymentPayload{}))
	payments.POST("/:id/refund", handler.Handle(ph.Handler, ph.RefundPayment, http.StatusOK, &payment.RefundPaymentPayload{}))

	g.GET("/students/:student_id/balance", handler.Handle(ph.Handler, ph.GetBalance, http.StatusOK, &payment.GetBalancePayload{}))
}

func registerTransportRoutes(g *echo.Group, h *handler.Handlers) {
	th := h.Transport
	t := g.Group("/transport")

	t.POST("/vehicles", handler.Handle(th.Handler, th.CreateVehicle, http.StatusCreated, &transport.CreateVehiclePayload{}))
	t.GET("/vehicles", handler.Handle(th.Handler, th.GetVehicles, http.StatusOK, &transport.GetVehiclesQuery{}))
	t.GET("/vehicles/:id", handler.Handle(th.Handler, th.GetVehicleByID, http.StatusOK, &transport.GetByIDPayload{}))
	t.PATCH("/vehicles/:id", handler.Handle(th.Handler, th.UpdateVehicle, http.StatusOK, &transport.UpdateVehiclePayload{}))
	t.DELETE("/vehicles/:id", handler.HandleNoContent(th.Handler, th.DeleteVehicle, http.StatusNoContent, &transport.GetByIDPayload{}))
	t.POST("/vehicles/:id/status", handler.Handle(th.Handler, th.SetVehicleStatus, http.StatusOK, &transport.SetVehicleStatusPayload{}))
	t.POST("/vehicles/:id/driver", handler.Handle(th.Handler, th.AssignDriver, http.StatusOK, &transport.AssignDriverPayload{}))
	t.DELETE("/vehicles/:id/driver", handler.Handle(th.Handler, th.UnassignDriver, http.StatusOK, &transport.GetByIDPayload{}))

	t.POST("/drivers", handler.Handle(th.Handler, th.CreateDriver, http.StatusCreated, &transport.CreateDriverPayload{}))
	t.GET("/drivers", handler.Handle(th.Handler, th.GetDrivers, http.StatusOK, &transport.GetDriversQuery{}))
	t.GET("/drivers/:id", handler.Handle(th.Handler, th.GetDriverByID, http.StatusOK, &transport.GetByIDPayload{}))
	t.PATCH("/drivers/:id", handler.Handle(th.Handler, th.UpdateDriver, http.StatusOK, &transport.UpdateDriverPayload{}))
	t.DELETE("/drivers/:id", handler.HandleNoContent(th.Handler, th.DeleteDriver, http.StatusNoContent, &transport.GetByIDPayload{}))

	t.POST("/routes", handler.Handle(th.Handler, th.CreateRoute, http.StatusCreated, &transport.CreateRoutePayload{}))
	t.GET("/routes", handler.Handle(th.Handler, th.GetRoutes, http.StatusOK, &transport.GetRoutesQuery{}))
	t.GET("/routes/:id", handler.Handle(th.Handler, th.GetRouteByID, http.StatusOK, &transport.GetByIDPayload{}))
	t.PATCH("/routes/:id", handler.Handle(th.Handler, th.UpdateRoute, http.StatusOK, &transport.UpdateRoutePayload{}))
	t.DELETE("/routes/:id", handler.HandleNoContent(th.Handler, th.DeleteRoute, http.StatusNoContent, &transport.GetByIDPayload{}))

	t.POST("/trips", handler.Handle(th.Handler, th.ScheduleTrip, http.StatusCreated, &transport.ScheduleTripPayload{}))
	t.GET("/trips", handler.Handle(th.Handler, th.GetTrips, http.StatusOK, &transport.GetTripsQuery{}))
	t.GET("/trips/:id", handler.Handle(th.Handler, th.GetTripByID, http.StatusOK, &transport.GetByIDPayload{}))
	t.POST("/trips/:id/transition", handler.Handle(th.Handler, th.TransitionTrip, http.StatusOK, &transport.TransitionTripPayload{}))

	t.POST("/schedules", handler.Handle(th.Handler, th.GenerateSchedule, http.StatusCreated, &transport.GenerateSchedulePayload{}))
}

func registerReportRoutes(g *echo.Group, h *handler.Handlers) {
	rh := h.Report
	reports := g.Group("/reports")

	reports.POST("", handler.Handle(rh.Handler, rh.RequestReport, http.StatusAccepted, &report.RequestReportPayload{}))
	reports.GET("", handler.Handle(rh.Handler, rh.GetReports, http.StatusOK, &report.GetReportsQuery{}))
	reports.GET("/:id", handler.Handle(rh.Handler, rh.GetReportByID, http.StatusOK, &report.GetReportByIDPayload{}))
	reports.DELETE("/:id", handler.HandleNoContent(rh.Handler, rh.DeleteReport, http.StatusNoContent, &report.GetReportByIDPayload{}))
	reports.POST("/:id/generate", handler.Handle(rh.Handler, rh.GenerateReport, http.StatusAccepted, &report.GetReportByIDPayload{}))
	reports.GET("/:id/export", handler.HandleFile(rh.Handler, rh.ExportReport, http.StatusOK, &report.ExportReportPayload{}))
}
