package handler

import (
	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/model/transport"
	"github.com/deppfellow/campus-manager/internal/server"
	"github.com/deppfellow/campus-manager/internal/service"
	"github.com/labstack/echo/v4"
)

type TransportHandler struct {
	Handler
	transportService *service.TransportService
}

func NewTransportHandler(s *server.Server, transportService *service.TransportService) *TransportHandler {
	return &TransportHandler{
		Handler:          NewHandler(s),
		transportService: transportService,
	}
}

// Vehicles

func (h *TransportHandler) CreateVehicle(c echo.Context, payload *transport.CreateVehiclePayload) (*transport.Vehicle, error) {
	return h.transportService.CreateVehicle(c.Request().Context(), payload)
}

func (h *TransportHandler) GetVehicleByID(c echo.Context, payload *transport.GetByIDPayload) (*transport.Vehicle, error) {
	return h.transportService.GetVehicle(c.Request().Context(), payload.ID)
}

func (h *TransportHandler) GetVehicles(c echo.Context, query *transport.GetVehiclesQuery) (model.PaginatedResponse[transport.Vehicle], error) {
	return h.transportService.ListVehicles(c.Request().Context(), query)
}

func (h *TransportHandler) UpdateVehicle(c echo.Context, payload *transport.UpdateVehiclePayload) (*transport.Vehicle, error) {
	return h.transportService.UpdateVehicle(c.Request().Context(), payload)
}

func (h *TransportHandler) SetVehicleStatus(c echo.Context, payload *transport.SetVehicleStatusPayload) (*transport.Vehicle, error) {
	return h.transportService.SetVehicleStatus(c.Request().Context(), payload)
}

func (h *TransportHandler) AssignDriver(c echo.Context, payload *transport.AssignDriverPayload) (*transport.Vehicle, error) {
	return h.transportService.AssignDriver(c.Request().Context(), payload)
}

func (h *TransportHandler) UnassignDriver(c echo.Context, payload *transport.GetByIDPayload) (*transport.Vehicle, error) {
	return h.transportService.UnassignDriver(c.Request().Context(), payload.ID)
}

func (h *TransportHandler) DeleteVehicle(c echo.Context, payload *transport.GetByIDPayload) error {
	return h.transportService.DeleteVehicle(c.Request().Context(), payload.ID)
}

// Drivers

func (h *TransportHandler) CreateDriver(c echo.Context, payload *transport.CreateDriverPayload) (*transport.Driver, error) {
	return h.transportService.CreateDriver(c.Request().Context(), payload)
}

func (h *TransportHandler) GetDriverByID(c echo.Context, payload *transport.GetByIDPayload) (*transport.Driver, error) {
	return h.transportService.GetDriver(c.Request().Context(), payload.ID)
}

func (h *TransportHandler) GetDrivers(c echo.Context, query *transport.GetDriversQuery) (model.PaginatedResponse[transport.Driver], error) {
	return h.transportService.ListDrivers(c.Request().Context(), query)
}

func (h *TransportHandler) UpdateDriver(c echo.Context, payload *transport.UpdateDriverPayload) (*transport.Driver, error) {
	return h.transportService.UpdateDriver(c.Request().Context(), payload)
}

func (h *TransportHandler) DeleteDriver(c echo.Context, payload *transport.GetByIDPayload) error {
	return h.transportService.DeleteDriver(c.Request().Context(), payload.ID)
}

// Routes

func (h *TransportHandler) CreateRoute(c echo.Context, payload *transport.CreateRoutePayload) (*transport.Route, error) {
	return h.transportService.CreateRoute(c.Request().Context(), payload)
}

func (h *TransportHandler) GetRouteByID(c echo.Context, payload *transport.GetByIDPayload) (*transport.Route, error) {
	return h.transportService.GetRoute(c.Request().Context(), payload.ID)
}

func (h *TransportHandler) GetRoutes(c echo.Context, query *transport.GetRoutesQuery) (model.PaginatedResponse[transport.Route], error) {
	return h.transportService.ListRoutes(c.Request().Context(), query.PageQuery)
}

func (h *TransportHandler) UpdateRoute(c echo.Context, payload *transport.UpdateRoutePayload) (*transport.Route, error) {
	return h.transportService.UpdateRoute(c.Request().Context(), payload)
}

func (h *TransportHandler) DeleteRoute(c echo.Context, payload *transport.GetByIDPayload) error {
	return h.transportService.DeleteRoute(c.Request().Context(), payload.ID)
}

// Trips

func (h *TransportHandler) ScheduleTrip(c echo.Context, payload *transport.ScheduleTripPayload) (*transport.Trip, error) {
	return h.transportService.ScheduleTrip(c.Request().Context(), payload)
}

func (h *TransportHandler) GetTripByID(c echo.Context, payload *transport.GetByIDPayload) (*transport.Trip, error) {
	return h.transportService.GetTrip(c.Request().Context(), payload.ID)
}

func (h *TransportHandler) GetTrips(c echo.Context, query *transport.GetTripsQuery) (model.PaginatedResponse[transport.Trip], error) {
	return h.transportService.ListTrips(c.Request().Context(), query)
}

func (h *TransportHandler) TransitionTrip(c echo.Context, payload *transport.TransitionTripPayload) (*transport.Trip, error) {
	return h.transportService.TransitionTrip(c.Request().Context(), payload)
}

func (h *TransportHandler) GenerateSchedule(c echo.Context, payload *transport.GenerateSchedulePayload) (*transport.Schedule, error) {
	return h.transportService.GenerateSchedule(c.Request().Context(), payload)
}
