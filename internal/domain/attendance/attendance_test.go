package attendance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNewRecord(t *testing.T) {
	supervisorID, technicianID := uuid.New(), uuid.New()

	t.Run("truncates the date to the day", func(t *testing.T) {
		ts := time.Date(2024, 5, 7, 17, 45, 0, 0, time.UTC)
		r, err := NewRecord(supervisorID, technicianID, ts, StatusPresent)
		require.NoError(t, err)
		assert.Equal(t, "2024-05-07", r.DateString())
		assert.Equal(t, 0, r.Date.Hour())
		assert.Equal(t, StatusPresent, r.Status)
	})

	tests := []struct {
		name       string
		supervisor uuid.UUID
		technician uuid.UUID
		date       time.Time
		status     Status
	}{
		{name: "missing supervisor", supervisor: uuid.Nil, technician: technicianID, date: day("2024-05-07"), status: StatusPresent},
		{name: "missing technician", supervisor: supervisorID, technician: uuid.Nil, date: day("2024-05-07"), status: StatusPresent},
		{name: "invalid status", supervisor: supervisorID, technician: technicianID, date: day("2024-05-07"), status: Status("late")},
		{name: "zero date", supervisor: supervisorID, technician: technicianID, status: StatusAbsent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRecord(tt.supervisor, tt.technician, tt.date, tt.status)
			assert.Nil(t, r)
			assert.Error(t, err)
		})
	}
}

func TestRecord_ChangeStatus(t *testing.T) {
	r, _ := NewRecord(uuid.New(), uuid.New(), day("2024-05-07"), StatusPresent)

	require.NoError(t, r.ChangeStatus(StatusExcused, " doctor "))
	assert.Equal(t, StatusExcused, r.Status)
	assert.Equal(t, "doctor", r.Note)

	assert.Error(t, r.ChangeStatus(Status(""), ""))
	assert.Equal(t, StatusExcused, r.Status)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-12-31")
	require.NoError(t, err)
	assert.Equal(t, time.December, d.Month())

	_, err = ParseDate("31/12/2024")
	assert.Error(t, err)
}

func TestWeekStart(t *testing.T) {
	tests := map[string]string{
		"2024-05-06": "2024-05-06", // Monday
		"2024-05-08": "2024-05-06",
		"2024-05-12": "2024-05-06", // Sunday
		"2024-05-13": "2024-05-13",
		"2025-01-01": "2024-12-30",
	}
	for in, want := range tests {
		assert.Equal(t, want, WeekStart(day(in)).Format(DateLayout), in)
	}
}

func TestGroupByWeek(t *testing.T) {
	techA, techB := uuid.New(), uuid.New()
	rec := func(date string, tech uuid.UUID, status Status) Record {
		return Record{TechnicianID: tech, Date: day(date), Status: status}
	}

	records := []Record{
		rec("2024-05-14", techA, StatusPresent),
		rec("2024-05-14", techB, StatusAbsent),
		rec("2024-05-12", techA, StatusExcused),
		rec("2024-05-06", techA, StatusPresent),
		rec("2024-05-06", techB, StatusPresent),
	}

	weeks := GroupByWeek(records)
	require.Len(t, weeks, 2)

	latest := weeks[0]
	assert.Equal(t, "2024-05-13", latest.StartDate)
	assert.Equal(t, "2024-05-19", latest.EndDate)
	assert.Equal(t, 20, latest.Number)
	assert.Equal(t, 2024, latest.Year)
	require.Len(t, latest.Records, 2)
	require.Len(t, latest.Days, 1)
	assert.Equal(t, "2024-05-14", latest.Days[0].Date)
	assert.Equal(t, 1, latest.Days[0].Present)
	assert.Equal(t, 1, latest.Days[0].Absent)

	previous := weeks[1]
	assert.Equal(t, "2024-05-06", previous.StartDate)
	assert.Equal(t, "2024-05-12", previous.EndDate)
	require.Len(t, previous.Records, 3)
	require.Len(t, previous.Days, 2)
	assert.Equal(t, "2024-05-12", previous.Days[0].Date)
	assert.Equal(t, 1, previous.Days[0].Excused)
	assert.Equal(t, "2024-05-06", previous.Days[1].Date)
	assert.Equal(t, 2, previous.Days[1].Present)
}

func TestGroupByWeek_Empty(t *testing.T) {
	weeks := GroupByWeek(nil)
	assert.NotNil(t, weeks)
	assert.Empty(t, weeks)
}
