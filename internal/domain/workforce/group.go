package workforce

import (
	"slices"
	"strings"

	"github.com/fieldops/backend/internal/domain/shared"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// UnassignedGroupName is the name of the group every technician falls back to.
// The group always exists and can be neither renamed nor deleted.
const UnassignedGroupName = "Unassigned"

// Group is a named set of technicians
type Group struct {
	shared.BaseAggregateRoot
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Group) TableName() string {
	return "technician_groups"
}

// NewGroup creates a new group
func NewGroup(name, description string) (*Group, error) {
	name = strings.TrimSpace(name)
	if err := validateGroupName(name); err != nil {
		return nil, err
	}

	g := &Group{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       strings.TrimSpace(description),
	}
	g.AddDomainEvent(NewGroupCreatedEvent(g))
	return g, nil
}

// NewUnassignedGroup creates the fallback group
func NewUnassignedGroup() *Group {
	return &Group{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              UnassignedGroupName,
		Description:       "Technicians not assigned to a group",
	}
}

// IsUnassigned reports whether g is the fallback group
func (g *Group) IsUnassigned() bool {
	return IsUnassignedName(g.Name)
}

// IsUnassignedName reports whether name denotes the fallback group
func IsUnassignedName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), UnassignedGroupName)
}

// Update changes name and description. The Unassigned group keeps its name.
func (g *Group) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if g.IsUnassigned() && name != g.Name {
		return shared.NewDomainError("UNASSIGNED_GROUP_PROTECTED", "The Unassigned group cannot be renamed")
	}
	if err := validateGroupName(name); err != nil {
		return err
	}
	if !g.IsUnassigned() && IsUnassignedName(name) {
		return shared.NewDomainError("GROUP_NAME_RESERVED", "The name Unassigned is reserved")
	}

	g.Name = name
	g.Description = strings.TrimSpace(description)
	g.MarkModified()
	return nil
}

// EnsureDeletable returns an error when the group may not be removed
func (g *Group) EnsureDeletable() error {
	if g.IsUnassigned() {
		return shared.NewDomainError("UNASSIGNED_GROUP_PROTECTED", "Cannot delete the Unassigned group")
	}
	return nil
}

// SortGroupsByName orders groups by name using locale-aware collation
func SortGroupsByName(groups []Group) {
	col := collate.New(language.English, collate.IgnoreCase)
	slices.SortStableFunc(groups, func(a, b Group) int {
		return col.CompareString(a.Name, b.Name)
	})
}

func validateGroupName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_GROUP_NAME", "Group name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_GROUP_NAME", "Group name cannot exceed 100 characters")
	}
	return nil
}
