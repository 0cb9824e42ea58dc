package appointment

import (
	"context"

	domain "github.com/SonrisaDental01/clinic-scheduler/internal/domain/appointment"
)

type GetAvailability struct {
	repo domain.Repository
	grid domain.SlotGrid
}

func NewGetAvailability(repo domain.Repository, grid domain.SlotGrid) *GetAvailability {
	return &GetAvailability{repo: repo, grid: grid}
}

type DaySlot struct {
	Time   string `json:"time"`
	Booked bool   `json:"booked"`
}

type DayAvailability struct {
	Date      string    `json:"date"`
	Morning   []DaySlot `json:"morning"`
	Afternoon []DaySlot `json:"afternoon"`

	Booked    []string `json:"booked"`
	Available []string `json:"available"`
}

// Execute calcula la vista de disponibilidad de una sucursal y fecha.
// Es solo informativa para deshabilitar botones: la verdad se decide en
// la inserción, no aquí.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	locationID uint,
	date string,
) (*DayAvailability, error) {

	booked, err := uc.repo.ListBookedTimes(ctx, locationID, date)
	if err != nil {
		return nil, err
	}

	bookedSet := make(map[string]bool, len(booked))
	for _, t := range booked {
		bookedSet[t] = true
	}

	out := &DayAvailability{
		Date:      date,
		Morning:   annotate(uc.grid.Morning, bookedSet),
		Afternoon: annotate(uc.grid.Afternoon, bookedSet),
		Booked:    []string{},
		Available: []string{},
	}

	for _, t := range uc.grid.All() {
		if bookedSet[t] {
			out.Booked = append(out.Booked, t)
		} else {
			out.Available = append(out.Available, t)
		}
	}

	return out, nil
}

func annotate(marks []string, bookedSet map[string]bool) []DaySlot {
	slots := make([]DaySlot, 0, len(marks))
	for _, t := range marks {
		slots = append(slots, DaySlot{Time: t, Booked: bookedSet[t]})
	}
	return slots
}
