// Package hostel holds hostel rooms and the allocations of students to them.
package hostel

import (
	"time"

	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RoomType string

const (
	RoomTypeSingle    RoomType = "SINGLE"
	RoomTypeDouble    RoomType = "DOUBLE"
	RoomTypeTriple    RoomType = "TRIPLE"
	RoomTypeDormitory RoomType = "DORMITORY"
)

type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "AVAILABLE"
	RoomStatusFull        RoomStatus = "FULL"
	RoomStatusMaintenance RoomStatus = "MAINTENANCE"
)

type Room struct {
	model.Base
	Block      string          `json:"block" db:"block"`
	Number     string          `json:"number" db:"number"`
	RoomType   RoomType        `json:"room_type" db:"room_type"`
	Capacity   int             `json:"capacity" db:"capacity"`
	Occupied   int             `json:"occupied" db:"occupied"`
	MonthlyFee decimal.Decimal `json:"monthly_fee" db:"monthly_fee"`
	Status     RoomStatus      `json:"status" db:"status"`
}

// Label is "<block>-<number>".
func (r *Room) Label() string {
	return r.Block + "-" + r.Number
}

func (r *Room) Vacancies() int {
	return max(r.Capacity-r.Occupied, 0)
}

// RefreshStatus recomputes AVAILABLE/FULL from occupancy.
// A room under maintenance stays there.
func (r *Room) RefreshStatus() {
	if r.Status == RoomStatusMaintenance {
		return
	}
	if r.Occupied >= r.Capacity {
		r.Status = RoomStatusFull
		return
	}
	r.Status = RoomStatusAvailable
}

type AllocationStatus string

const (
	AllocationActive  AllocationStatus = "ACTIVE"
	AllocationVacated AllocationStatus = "VACATED"
)

type Allocation struct {
	model.Base
	RoomID    uuid.UUID        `json:"room_id" db:"room_id"`
	StudentID string           `json:"student_id" db:"student_id"`
	StartsOn  time.Time        `json:"starts_on" db:"starts_on"`
	EndsOn    *time.Time       `json:"ends_on" db:"ends_on"`
	Status    AllocationStatus `json:"status" db:"status"`
}

// BlockOccupancy aggregates the rooms of one block.
type BlockOccupancy struct {
	Block    string `json:"block"`
	Rooms    int    `json:"rooms"`
	Capacity int    `json:"capacity"`
	Occupied int    `json:"occupied"`
}

type OccupancySummary struct {
	TotalRooms       int              `json:"total_rooms"`
	AvailableRooms   int              `json:"available_rooms"`
	FullRooms        int              `json:"full_rooms"`
	MaintenanceRooms int              `json:"maintenance_rooms"`
	TotalCapacity    int              `json:"total_capacity"`
	TotalOccupied    int              `json:"total_occupied"`
	OccupancyRate    float64          `json:"occupancy_rate"`
	Blocks           []BlockOccupancy `json:"blocks"`
}

// Summarize aggregates rooms into an OccupancySummary with blocks in the
// order they first appear.
func Summarize(rooms []Room) OccupancySummary {
	summary := OccupancySummary{Blocks: []BlockOccupancy{}}
	index := map[string]int{}

	for _, r := range rooms {
		summary.TotalRooms++
		summary.TotalCapacity += r.Capacity
		summary.TotalOccupied += r.Occupied

		switch r.Status {
		case RoomStatusAvailable:
			summary.AvailableRooms++
		case RoomStatusFull:
			summary.FullRooms++
		case RoomStatusMaintenance:
			summary.MaintenanceRooms++
		}

		i, ok := index[r.Block]
		if !ok {
			i = len(summary.Blocks)
			index[r.Block] = i
			summary.Blocks = append(summary.Blocks, BlockOccupancy{Block: r.Block})
		}
		summary.Blocks[i].Rooms++
		summary.Blocks[i].Capacity += r.Capacity
		summary.Blocks[i].Occupied += r.Occupied
	}

	if summary.TotalCapacity > 0 {
		summary.OccupancyRate = float64(summary.TotalOccupied) / float64(summary.TotalCapacity) * 100
	}
	return summary
}
