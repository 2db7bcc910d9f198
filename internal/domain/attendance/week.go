package attendance

import (
	"slices"
	"time"
)

// DaySummary aggregates the records of one calendar day
type DaySummary struct {
	Date    string
	Present int
	Absent  int
	Excused int
	Records []Record
}

// Week is a Monday to Sunday bucket of attendance history
type Week struct {
	Year      int
	Number    int // ISO week number
	StartDate string
	EndDate   string
	Records   []Record
	Days      []DaySummary
}

// WeekStart returns the Monday of t's week
func WeekStart(t time.Time) time.Time {
	day := TruncateDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// GroupByWeek buckets records into weeks, newest week first. Inside a week,
// records and days are ordered newest first.
func GroupByWeek(records []Record) []Week {
	if len(records) == 0 {
		return []Week{}
	}

	starts := make([]time.Time, 0)
	seen := make(map[time.Time]bool)
	for _, r := range records {
		s := WeekStart(r.Date)
		if !seen[s] {
			seen[s] = true
			starts = append(starts, s)
		}
	}
	slices.SortFunc(starts, func(a, b time.Time) int { return b.Compare(a) })

	weeks := make([]Week, 0, len(starts))
	for _, start := range starts {
		end := start.AddDate(0, 0, 6)
		year, number := start.ISOWeek()
		week := Week{
			Year:      year,
			Number:    number,
			StartDate: start.Format(DateLayout),
			EndDate:   end.Format(DateLayout),
		}
		week.Records = filterRange(records, week.StartDate, week.EndDate)
		week.Days = summarizeDays(week.Records)
		weeks = append(weeks, week)
	}
	return weeks
}

// filterRange keeps records with start <= date <= end, comparing YYYY-MM-DD strings
func filterRange(records []Record, start, end string) []Record {
	out := make([]Record, 0)
	for _, r := range records {
		d := r.DateString()
		if d >= start && d <= end {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b Record) int { return b.Date.Compare(a.Date) })
	return out
}

func summarizeDays(records []Record) []DaySummary {
	days := make([]DaySummary, 0)
	index := make(map[string]int)
	for _, r := range records {
		d := r.DateString()
		i, ok := index[d]
		if !ok {
			i = len(days)
			index[d] = i
			days = append(days, DaySummary{Date: d})
		}
		day := &days[i]
		day.Records = append(day.Records, r)
		switch r.Status {
		case StatusPresent:
			day.Present++
		case StatusAbsent:
			day.Absent++
		case StatusExcused:
			day.Excused++
		}
	}
	return days
}
