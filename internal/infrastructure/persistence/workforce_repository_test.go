package persistence

import (
	"context"
	"testing"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupWorkforceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&workforce.Group{}, &workforce.Technician{}))
	return db
}

func createTechnician(t *testing.T, repo *GormTechnicianRepository, supervisorID uuid.UUID, name string, groupID *uuid.UUID) *workforce.Technician {
	tech, err := workforce.NewTechnician(supervisorID, name)
	require.NoError(t, err)
	if groupID != nil {
		tech.AssignToGroup(*groupID)
	}
	require.NoError(t, repo.Save(context.Background(), tech))
	return tech
}

func TestGormGroupRepository_EnsureUnassigned(t *testing.T) {
	db := setupWorkforceTestDB(t)
	repo := NewGormGroupRepository(db)
	ctx := context.Background()

	first, err := repo.EnsureUnassigned(ctx)
	require.NoError(t, err)
	assert.True(t, first.IsUnassigned())

	second, err := repo.EnsureUnassigned(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	groups, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 1)
}

func TestGormGroupRepository_ExistsByName(t *testing.T) {
	db := setupWorkforceTestDB(t)
	repo := NewGormGroupRepository(db)
	ctx := context.Background()

	g, err := workforce.NewGroup("North Crew", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, g))

	exists, err := repo.ExistsByName(ctx, "north crew", nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByName(ctx, "North Crew", &g.ID)
	require.NoError(t, err)
	assert.False(t, exists, "the group itself is excluded")

	found, err := repo.FindByName(ctx, "NORTH CREW")
	require.NoError(t, err)
	assert.Equal(t, g.ID, found.ID)

	_, err = repo.FindByName(ctx, "South Crew")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormGroupRepository_DeleteAndReassign(t *testing.T) {
	db := setupWorkforceTestDB(t)
	groups := NewGormGroupRepository(db)
	technicians := NewGormTechnicianRepository(db)
	ctx := context.Background()
	supervisorID := uuid.New()

	unassigned, err := groups.EnsureUnassigned(ctx)
	require.NoError(t, err)

	crew, err := workforce.NewGroup("Night Crew", "")
	require.NoError(t, err)
	require.NoError(t, groups.Save(ctx, crew))

	a := createTechnician(t, technicians, supervisorID, "Avery", &crew.ID)
	b := createTechnician(t, technicians, supervisorID, "Blake", &crew.ID)
	other := createTechnician(t, technicians, supervisorID, "Casey", nil)

	moved, err := groups.DeleteAndReassign(ctx, crew.ID, unassigned.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), moved)

	_, err = groups.FindByID(ctx, crew.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	for _, id := range []uuid.UUID{a.ID, b.ID} {
		tech, err := technicians.FindByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, tech.GroupID)
		assert.Equal(t, unassigned.ID, *tech.GroupID)
	}

	untouched, err := technicians.FindByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Nil(t, untouched.GroupID)

	t.Run("unknown group rolls back", func(t *testing.T) {
		moved, err := groups.DeleteAndReassign(ctx, uuid.New(), unassigned.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Zero(t, moved)
	})
}

func TestGormTechnicianRepository_FindAll(t *testing.T) {
	db := setupWorkforceTestDB(t)
	repo := NewGormTechnicianRepository(db)
	ctx := context.Background()

	supervisorID := uuid.New()
	groupID := uuid.New()
	createTechnician(t, repo, supervisorID, "Morgan", &groupID)
	createTechnician(t, repo, supervisorID, "Alex", nil)
	inactive := createTechnician(t, repo, supervisorID, "Riley", nil)
	inactive.SetActive(false)
	require.NoError(t, repo.Save(ctx, inactive))
	createTechnician(t, repo, uuid.New(), "Someone Else", nil)

	t.Run("scopes to supervisor ordered by name", func(t *testing.T) {
		list, total, err := repo.FindAll(ctx, workforce.TechnicianFilter{SupervisorID: supervisorID})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, list, 3)
		assert.Equal(t, "Alex", list[0].Name)
		assert.Equal(t, "Morgan", list[1].Name)
		assert.Equal(t, "Riley", list[2].Name)
	})

	t.Run("active only", func(t *testing.T) {
		list, total, err := repo.FindAll(ctx, workforce.TechnicianFilter{SupervisorID: supervisorID, ActiveOnly: true})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, list, 2)
	})

	t.Run("by group", func(t *testing.T) {
		list, _, err := repo.FindAll(ctx, workforce.TechnicianFilter{SupervisorID: supervisorID, GroupID: &groupID})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Morgan", list[0].Name)
	})

	t.Run("paginates", func(t *testing.T) {
		list, total, err := repo.FindAll(ctx, workforce.TechnicianFilter{
			Filter:       shared.Filter{Page: 2, PageSize: 2},
			SupervisorID: supervisorID,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, list, 1)
		assert.Equal(t, "Riley", list[0].Name)
	})
}

func TestGormTechnicianRepository_FindByIDsAndDelete(t *testing.T) {
	db := setupWorkforceTestDB(t)
	repo := NewGormTechnicianRepository(db)
	ctx := context.Background()

	supervisorID := uuid.New()
	a := createTechnician(t, repo, supervisorID, "Avery", nil)
	b := createTechnician(t, repo, supervisorID, "Blake", nil)

	found, err := repo.FindByIDs(ctx, []uuid.UUID{a.ID, b.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	empty, err := repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, repo.Delete(ctx, a.ID))
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), shared.ErrNotFound)
}
