package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"subscriber-tracker/internal/model"
	"subscriber-tracker/internal/repository"
)

func recordAt(ts string) model.JoinRecord {
	return model.JoinRecord{TsISO: ts, UserID: 1, FullName: "User"}
}

func TestCountInRange(t *testing.T) {
	records := []model.JoinRecord{
		recordAt("2024-01-10T08:00:00Z"),
		recordAt("2024-01-12T23:59:59Z"),
		recordAt("2024-01-15T00:00:00Z"),
	}

	from := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	to := EndOfDay(time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC))

	if got := CountInRange(records, from, to); got != 2 {
		t.Errorf("CountInRange = %d, want 2", got)
	}
}

func TestCountInRangeInclusiveEndpoints(t *testing.T) {
	from := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)

	records := []model.JoinRecord{
		recordAt("2024-01-10T00:00:00Z"),
		recordAt("2024-01-12T00:00:00Z"),
		recordAt("2024-01-09T23:59:59Z"),
		recordAt("2024-01-12T00:00:01Z"),
	}
	if got := CountInRange(records, from, to); got != 2 {
		t.Errorf("CountInRange = %d, want 2 (both endpoints inclusive)", got)
	}
}

func TestCountInRangeSkipsUnparsable(t *testing.T) {
	records := []model.JoinRecord{
		recordAt("not-a-date"),
		recordAt(""),
		recordAt("2024-01-11T12:00:00Z"),
	}
	from := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)

	if got := CountInRange(records, from, to); got != 1 {
		t.Errorf("CountInRange = %d, want 1 (corrupted records skipped)", got)
	}
}

func TestParseReportDate(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, loc)

	tests := []struct {
		arg     string
		want    time.Time
		wantErr bool
	}{
		{"05.03", time.Date(2025, 3, 5, 0, 0, 0, 0, loc), false},
		{"05.03.2020", time.Date(2020, 3, 5, 0, 0, 0, 0, loc), false},
		{"31.12.2024", time.Date(2024, 12, 31, 0, 0, 0, 0, loc), false},
		{"13.13", time.Time{}, true},
		{"2024-01-05", time.Time{}, true},
		{"", time.Time{}, true},
		{"abc", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := ParseReportDate(tt.arg, now, loc)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseReportDate(%q) expected error, got %v", tt.arg, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseReportDate(%q): %v", tt.arg, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseReportDate(%q) = %v, want %v", tt.arg, got, tt.want)
			}
		})
	}
}

func TestBuildReport(t *testing.T) {
	store := repository.NewFileStore(t.TempDir() + "/joins.json")
	ctx := context.Background()
	for _, ts := range []string{
		"2024-01-10T08:00:00Z",
		"2024-01-12T23:59:59Z",
		"2024-01-15T00:00:00Z",
	} {
		if err := store.Append(ctx, recordAt(ts)); err != nil {
			t.Fatal(err)
		}
	}

	svc := NewReportService(store, time.UTC)
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	text, err := svc.BuildReport("10.01.2024", "12.01.2024", now)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if !strings.Contains(text, "<b>2</b>") {
		t.Errorf("report %q does not contain count 2", text)
	}

	if _, err := svc.BuildReport("13.13", "14.13", now); err == nil {
		t.Error("expected validation error for bad dates")
	}
	if _, err := svc.BuildReport("12.01.2024", "10.01.2024", now); err == nil {
		t.Error("expected validation error for inverted range")
	}
}
