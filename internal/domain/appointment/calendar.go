package appointment

import (
	"time"

	"github.com/SonrisaDental01/clinic-scheduler/internal/httperr"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ===============================
// Slot Grid
// ===============================

// Grid fijo de horarios de media hora, partido en mañana y tarde.
// Se construye una vez al arrancar y no cambia durante el proceso.
type SlotGrid struct {
	Morning   []string
	Afternoon []string
}

// BuildGrid genera las marcas [start, end) cada step minutos para cada bloque.
func BuildGrid(
	morningStart string,
	morningEnd string,
	afternoonStart string,
	afternoonEnd string,
	stepMinutes int,
) (SlotGrid, error) {

	if stepMinutes <= 0 {
		return SlotGrid{}, httperr.ErrBusiness(httperr.CodeValidation)
	}

	morning, err := buildBlock(morningStart, morningEnd, stepMinutes)
	if err != nil {
		return SlotGrid{}, err
	}

	afternoon, err := buildBlock(afternoonStart, afternoonEnd, stepMinutes)
	if err != nil {
		return SlotGrid{}, err
	}

	return SlotGrid{Morning: morning, Afternoon: afternoon}, nil
}

func buildBlock(startHM, endHM string, stepMinutes int) ([]string, error) {
	start, err := time.Parse(TimeLayout, startHM)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}
	end, err := time.Parse(TimeLayout, endHM)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}
	if !end.After(start) {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}

	var marks []string
	step := time.Duration(stepMinutes) * time.Minute
	for t := start; t.Before(end); t = t.Add(step) {
		marks = append(marks, t.Format(TimeLayout))
	}
	return marks, nil
}

// All regresa el grid completo en orden (mañana y luego tarde).
func (g SlotGrid) All() []string {
	out := make([]string, 0, len(g.Morning)+len(g.Afternoon))
	out = append(out, g.Morning...)
	out = append(out, g.Afternoon...)
	return out
}

func (g SlotGrid) Contains(hm string) bool {
	for _, m := range g.Morning {
		if m == hm {
			return true
		}
	}
	for _, m := range g.Afternoon {
		if m == hm {
			return true
		}
	}
	return false
}

// ===============================
// Calendar Policy
// ===============================

type CalendarPolicy struct {
	// Día fijo de descanso semanal de la clínica.
	ClosedWeekday time.Weekday
	Grid          SlotGrid
}

// IsBookableDate rechaza fechas anteriores a hoy (día local de la clínica)
// y el día de descanso. Función pura del reloj y la configuración.
func (p CalendarPolicy) IsBookableDate(date time.Time, now time.Time) bool {
	if date.Weekday() == p.ClosedWeekday {
		return false
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())

	return !day.Before(today)
}

func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness(httperr.CodeValidation)
	}
	return d, nil
}
