package workorder

import (
	"fmt"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Position locates a work order inside the list the supervisor is paging through
type Position struct {
	Current  uuid.UUID
	Previous *uuid.UUID
	Next     *uuid.UUID
	Index    int // 1-based
	Total    int
}

// Label returns the "Order i of n" caption of the detail view footer
func (p Position) Label() string {
	return fmt.Sprintf("Order %d of %d", p.Index, p.Total)
}

// Locate finds id in the ordered list and returns its neighbours
func Locate(ordered []uuid.UUID, id uuid.UUID) (Position, error) {
	for i, candidate := range ordered {
		if candidate != id {
			continue
		}
		pos := Position{Current: id, Index: i + 1, Total: len(ordered)}
		if i > 0 {
			prev := ordered[i-1]
			pos.Previous = &prev
		}
		if i < len(ordered)-1 {
			next := ordered[i+1]
			pos.Next = &next
		}
		return pos, nil
	}
	return Position{}, shared.NotFound("Work order is not part of the current list")
}
