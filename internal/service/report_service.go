package service

import (
	"fmt"
	"time"

	"subscriber-tracker/internal/model"
	"subscriber-tracker/internal/repository"
)

// ReportService counts joins over inclusive date ranges for the /report command.
type ReportService struct {
	store repository.JoinStore
	loc   *time.Location
}

func NewReportService(store repository.JoinStore, loc *time.Location) *ReportService {
	return &ReportService{store: store, loc: loc}
}

// BuildReport answers "/report <start> <end>". Each argument is DD.MM or
// DD.MM.YYYY; a bare DD.MM takes the current year. The range is closed on
// both ends, covering whole calendar days.
func (s *ReportService) BuildReport(startArg, endArg string, now time.Time) (string, error) {
	start, err := ParseReportDate(startArg, now, s.loc)
	if err != nil {
		return "", err
	}
	end, err := ParseReportDate(endArg, now, s.loc)
	if err != nil {
		return "", err
	}
	if end.Before(start) {
		return "", fmt.Errorf("start date %s is after end date %s", startArg, endArg)
	}

	count := CountInRange(s.store.Snapshot(), StartOfDay(start), EndOfDay(end))

	return fmt.Sprintf(
		"📊 С %s по %s вступило: <b>%d</b>",
		start.Format("02.01.2006"), end.Format("02.01.2006"), count,
	), nil
}

// ParseReportDate parses a date argument in DD.MM.YYYY or DD.MM form.
// Without a year, the year of now applies.
func ParseReportDate(arg string, now time.Time, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation("02.01.2006", arg, loc); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("02.01", arg, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected DD.MM or DD.MM.YYYY", arg)
	}
	return time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// CountInRange counts records whose timestamp falls inside [from, to].
// Records with a missing or unparsable timestamp are skipped, so a partially
// corrupted log never aborts the scan.
func CountInRange(records []model.JoinRecord, from, to time.Time) int {
	count := 0
	for _, rec := range records {
		ts, err := rec.Time()
		if err != nil {
			continue
		}
		if !ts.Before(from) && !ts.After(to) {
			count++
		}
	}
	return count
}

// StartOfDay returns midnight of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
