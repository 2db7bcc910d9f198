package workorder

import (
	"slices"
	"strings"

	"github.com/fieldops/backend/internal/domain/shared"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortField is a column the work order table can be sorted by
type SortField string

const (
	SortFieldNone        SortField = ""
	SortFieldOrderNo     SortField = "order_no"
	SortFieldServiceDate SortField = "service_date"
	SortFieldDriver      SortField = "driver"
	SortFieldLocation    SortField = "location"
	SortFieldStatus      SortField = "status"
)

// IsValid reports whether f is a sortable column (or none)
func (f SortField) IsValid() bool {
	switch f {
	case SortFieldNone, SortFieldOrderNo, SortFieldServiceDate, SortFieldDriver, SortFieldLocation, SortFieldStatus:
		return true
	}
	return false
}

// SortDirection is asc, desc, or empty for unsorted
type SortDirection string

const (
	SortNone SortDirection = ""
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortState is the current column sort of the work order table
type SortState struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
}

// NewSortState validates a field/direction pair coming from a request.
// A direction without a field, or a field without a direction, yields the unsorted state.
func NewSortState(field, direction string) (SortState, error) {
	f := SortField(strings.TrimSpace(field))
	if !f.IsValid() {
		return SortState{}, shared.NewDomainError("INVALID_SORT_FIELD", "Unknown sort field: "+field)
	}
	d := SortDirection(strings.ToLower(strings.TrimSpace(direction)))
	switch d {
	case SortNone, SortAsc, SortDesc:
	default:
		return SortState{}, shared.NewDomainError("INVALID_SORT_DIRECTION", "Sort direction must be asc or desc")
	}
	if f == SortFieldNone || d == SortNone {
		return SortState{}, nil
	}
	return SortState{Field: f, Direction: d}, nil
}

// IsSorted reports whether a column sort is active
func (s SortState) IsSorted() bool {
	return s.Field != SortFieldNone && s.Direction != SortNone
}

// Next returns the state after clicking the header of field.
// Clicking the active column cycles asc -> desc -> unsorted; any other column starts at asc.
func (s SortState) Next(field SortField) SortState {
	var next SortDirection
	if field == s.Field {
		switch s.Direction {
		case SortNone:
			next = SortAsc
		case SortAsc:
			next = SortDesc
		default:
			next = SortNone
		}
	} else {
		next = SortAsc
	}

	if next == SortNone {
		return SortState{}
	}
	return SortState{Field: field, Direction: next}
}

// Sort orders work orders in place according to state. The sort is stable.
// With no active column, orders are listed by service date, newest first,
// with missing or malformed dates last.
func Sort(orders []WorkOrder, state SortState) {
	if !state.IsSorted() {
		slices.SortStableFunc(orders, compareDefault)
		return
	}

	cmp := comparator(state.Field, collate.New(language.English))
	if cmp == nil {
		return
	}
	slices.SortStableFunc(orders, func(a, b WorkOrder) int {
		if state.Direction == SortDesc {
			return cmp(b, a)
		}
		return cmp(a, b)
	})
}

func comparator(field SortField, col *collate.Collator) func(a, b WorkOrder) int {
	switch field {
	case SortFieldOrderNo:
		return func(a, b WorkOrder) int { return col.CompareString(a.OrderNo, b.OrderNo) }
	case SortFieldStatus:
		return func(a, b WorkOrder) int { return col.CompareString(string(a.Status), string(b.Status)) }
	case SortFieldDriver:
		return func(a, b WorkOrder) int {
			return col.CompareString(strings.ToLower(a.DriverName()), strings.ToLower(b.DriverName()))
		}
	case SortFieldLocation:
		return func(a, b WorkOrder) int {
			return col.CompareString(strings.ToLower(a.LocationName()), strings.ToLower(b.LocationName()))
		}
	case SortFieldServiceDate:
		return func(a, b WorkOrder) int { return compareServiceDate(a, b, col) }
	}
	return nil
}

// compareServiceDate orders valid dates before invalid ones, invalid dates by their raw text
func compareServiceDate(a, b WorkOrder, col *collate.Collator) int {
	ta, okA := a.ParsedServiceDate()
	tb, okB := b.ParsedServiceDate()
	switch {
	case okA && !okB:
		return -1
	case !okA && okB:
		return 1
	case !okA && !okB:
		return col.CompareString(a.ServiceDate, b.ServiceDate)
	}
	return ta.Compare(tb)
}

func compareDefault(a, b WorkOrder) int {
	ta, okA := a.ParsedServiceDate()
	tb, okB := b.ParsedServiceDate()
	switch {
	case okA && !okB:
		return -1
	case !okA && okB:
		return 1
	case !okA && !okB:
		return 0
	}
	return tb.Compare(ta)
}
