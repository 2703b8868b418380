package hostel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoom_RefreshStatus(t *testing.T) {
	r := &Room{Capacity: 2, Occupied: 1, Status: RoomStatusAvailable}
	r.RefreshStatus()
	assert.Equal(t, RoomStatusAvailable, r.Status)

	r.Occupied = 2
	r.RefreshStatus()
	assert.Equal(t, RoomStatusFull, r.Status)
	assert.Zero(t, r.Vacancies())

	r.Status = RoomStatusMaintenance
	r.Occupied = 0
	r.RefreshStatus()
	assert.Equal(t, RoomStatusMaintenance, r.Status)
}

func TestSummarize(t *testing.T) {
	rooms := []Room{
		{Block: "A", Capacity: 2, Occupied: 2, Status: RoomStatusFull},
		{Block: "B", Capacity: 4, Occupied: 1, Status: RoomStatusAvailable},
		{Block: "A", Capacity: 2, Occupied: 0, Status: RoomStatusMaintenance},
	}

	s := Summarize(rooms)
	assert.Equal(t, 3, s.TotalRooms)
	assert.Equal(t, 1, s.FullRooms)
	assert.Equal(t, 1, s.AvailableRooms)
	assert.Equal(t, 1, s.MaintenanceRooms)
	assert.Equal(t, 8, s.TotalCapacity)
	assert.Equal(t, 3, s.TotalOccupied)
	assert.InDelta(t, 37.5, s.OccupancyRate, 0.001)

	assert.Equal(t, []BlockOccupancy{
		{Block: "A", Rooms: 2, Capacity: 4, Occupied: 2},
		{Block: "B", Rooms: 1, Capacity: 4, Occupied: 1},
	}, s.Blocks)

	assert.Zero(t, Summarize(nil).OccupancyRate)
}
