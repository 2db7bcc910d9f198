package shared

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorMatchesByCode(t *testing.T) {
	err := fmt.Errorf("lookup: %w", NotFound("Work order %s not found", "WO-1"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidState))

	var de *DomainError
	assert.True(t, errors.As(err, &de))
	assert.Equal(t, "Work order WO-1 not found", de.Message)
}

func TestBaseAggregateRootEvents(t *testing.T) {
	agg := NewBaseAggregateRoot()
	assert.Equal(t, 1, agg.GetVersion())

	ev := NewBaseDomainEvent("thing.happened", "Thing", agg.ID)
	agg.AddDomainEvent(&ev)
	agg.IncrementVersion()

	assert.Len(t, agg.GetDomainEvents(), 1)
	assert.Equal(t, 2, agg.GetVersion())
	assert.Equal(t, agg.ID, agg.GetDomainEvents()[0].AggregateID())

	agg.ClearDomainEvents()
	assert.Empty(t, agg.GetDomainEvents())
}

func TestBaseAggregateRootMarkModifiedAndPull(t *testing.T) {
	agg := NewBaseAggregateRoot()
	before := agg.UpdatedAt

	time.Sleep(time.Millisecond)
	agg.MarkModified()
	assert.Equal(t, 2, agg.GetVersion())
	assert.True(t, agg.UpdatedAt.After(before))

	ev := NewBaseDomainEvent("thing.happened", "Thing", agg.ID)
	agg.AddDomainEvent(&ev)
	agg.AddDomainEvent(nil)

	pulled := agg.PullDomainEvents()
	assert.Len(t, pulled, 1)
	assert.Empty(t, agg.GetDomainEvents())
}

func TestFilterPaging(t *testing.T) {
	f := Filter{}
	assert.False(t, f.Paged())
	assert.Equal(t, 0, f.Offset())

	f = f.WithPageDefaults(20)
	assert.True(t, f.Paged())
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 0, f.Offset())

	f.Page = 3
	assert.Equal(t, 40, f.Offset())
	assert.Equal(t, 50, Filter{Page: 2, PageSize: 50}.WithPageDefaults(20).Offset())
}
