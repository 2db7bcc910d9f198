package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"DESC uppercase returns DESC", "DESC", "DESC"},
		{"invalid value returns DESC", "sideways", "DESC"},
		{"injection attempt returns DESC", "ASC; DROP TABLE work_orders;--", "DESC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		defaultField string
		expected     string
	}{
		{"empty string returns default", "", "service_date", "service_date"},
		{"valid field returns field", "order_no", "service_date", "order_no"},
		{"unknown field returns default", "technician_name", "service_date", "service_date"},
		{"case sensitive", "ORDER_NO", "service_date", "service_date"},
		{"whitespace around valid field", "  status  ", "service_date", "status"},
		{"quote injection returns default", "status'--", "service_date", "service_date"},
		{"empty default with unknown field", "nope", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, WorkOrderSortFields, tt.defaultField))
		})
	}
}

func TestSortFieldsWhitelists(t *testing.T) {
	whitelists := map[string]map[string]bool{
		"WorkOrderSortFields":  WorkOrderSortFields,
		"TechnicianSortFields": TechnicianSortFields,
		"MaterialSortFields":   MaterialSortFields,
	}

	for name, whitelist := range whitelists {
		t.Run(name, func(t *testing.T) {
			for _, field := range []string{"id", "created_at", "updated_at"} {
				assert.True(t, whitelist[field], "%s should contain '%s'", name, field)
			}
		})
	}
}
