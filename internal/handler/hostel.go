package handler

import (
	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/model/hostel"
	"github.com/deppfellow/campus-manager/internal/server"
	"github.com/deppfellow/campus-manager/internal/service"
	"github.com/labstack/echo/v4"
)

type HostelHandler struct {
	Handler
	hostelService *service.HostelService
}

func NewHostelHandler(s *server.Server, hostelService *service.HostelService) *HostelHandler {
	return &HostelHandler{
		Handler:       NewHandler(s),
		hostelService: hostelService,
	}
}

func (h *HostelHandler) CreateRoom(c echo.Context, payload *hostel.CreateRoomPayload) (*hostel.Room, error) {
	return h.hostelService.CreateRoom(c.Request().Context(), payload)
}

func (h *HostelHandler) GetRoomByID(c echo.Context, payload *hostel.GetRoomByIDPayload) (*hostel.Room, error) {
	return h.hostelService.GetRoom(c.Request().Context(), payload.ID)
}

func (h *HostelHandler) GetRooms(c echo.Context, query *hostel.GetRoomsQuery) (model.PaginatedResponse[hostel.Room], error) {
	return h.hostelService.ListRooms(c.Request().Context(), query)
}

func (h *HostelHandler) UpdateRoom(c echo.Context, payload *hostel.UpdateRoomPayload) (*hostel.Room, error) {
	return h.hostelService.UpdateRoom(c.Request().Context(), payload)
}

func (h *HostelHandler) SetMaintenance(c echo.Context, payload *hostel.SetMaintenancePayload) (*hostel.Room, error) {
	return h.hostelService.SetMaintenance(c.Request().Context(), payload)
}

func (h *HostelHandler) DeleteRoom(c echo.Context, payload *hostel.DeleteRoomPayload) error {
	return h.hostelService.DeleteRoom(c.Request().Context(), payload.ID)
}

func (h *HostelHandler) AllocateRoom(c echo.Context, payload *hostel.AllocateRoomPayload) (*hostel.Allocation, error) {
	return h.hostelService.AllocateRoom(c.Request().Context(), payload)
}

func (h *HostelHandler) VacateAllocation(c echo.Context, payload *hostel.VacateAllocationPayload) (*hostel.Allocation, error) {
	return h.hostelService.VacateAllocation(c.Request().Context(), payload.ID)
}

func (h *HostelHandler) GetAllocations(c echo.Context, query *hostel.GetAllocationsQuery) (model.PaginatedResponse[hostel.Allocation], error) {
	return h.hostelService.ListAllocations(c.Request().Context(), query)
}

func (h *HostelHandler) GetOccupancy(c echo.Context, _ *model.NoPayload) (*hostel.OccupancySummary, error) {
	return h.hostelService.OccupancySummary(c.Request().Context())
}
