package handler

import (
	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/model/event"
	"github.com/deppfellow/campus-manager/internal/server"
	"github.com/deppfellow/campus-manager/internal/service"
	"github.com/labstack/echo/v4"
)

type EventHandler struct {
	Handler
	eventService *service.EventService
}

func NewEventHandler(s *server.Server, eventService *service.EventService) *EventHandler {
	return &EventHandler{
		Handler:      NewHandler(s),
		eventService: eventService,
	}
}

func (h *EventHandler) CreateEvent(c echo.Context, payload *event.CreateEventPayload) (*event.Event, error) {
	return h.eventService.CreateEvent(c.Request().Context(), payload)
}

func (h *EventHandler) GetEventByID(c echo.Context, payload *event.GetEventByIDPayload) (*event.Event, error) {
	return h.eventService.GetEvent(c.Request().Context(), payload.ID)
}

func (h *EventHandler) GetEvents(c echo.Context, query *event.GetEventsQuery) (model.PaginatedResponse[event.Event], error) {
	return h.eventService.ListEvents(c.Request().Context(), query)
}

func (h *EventHandler) UpdateEvent(c echo.Context, payload *event.UpdateEventPayload) (*event.Event, error) {
	return h.eventService.UpdateEvent(c.Request().Context(), payload)
}

func (h *EventHandler) TransitionEvent(c echo.Context, payload *event.TransitionEventPayload) (*event.Event, error) {
	return h.eventService.TransitionEvent(c.Request().Context(), payload)
}

func (h *EventHandler) RegisterParticipant(c echo.Context, payload *event.RegisterParticipantPayload) (*event.Event, error) {
	return h.eventService.RegisterParticipant(c.Request().Context(), payload)
}

func (h *EventHandler) UnregisterParticipant(c echo.Context, payload *event.UnregisterParticipantPayload) (*event.Event, error) {
	return h.eventService.UnregisterParticipant(c.Request().Context(), payload)
}

func (h *EventHandler) DeleteEvent(c echo.Context, payload *event.DeleteEventPayload) error {
	return h.eventService.DeleteEvent(c.Request().Context(), payload.ID)
}
