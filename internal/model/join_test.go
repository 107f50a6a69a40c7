package model

import (
	"testing"
	"time"
)

func TestIsJoin(t *testing.T) {
	statuses := []MemberStatus{
		StatusCreator, StatusAdministrator, StatusMember,
		StatusRestricted, StatusLeft, StatusKicked,
	}

	isOut := func(s MemberStatus) bool { return s == StatusLeft || s == StatusKicked }
	isIn := func(s MemberStatus) bool { return s == StatusMember || s == StatusRestricted }

	for _, old := range statuses {
		for _, next := range statuses {
			want := isOut(old) && isIn(next)
			if got := IsJoin(old, next); got != want {
				t.Errorf("IsJoin(%s, %s) = %v, want %v", old, next, got, want)
			}
		}
	}
}

func TestIsJoinExamples(t *testing.T) {
	tests := []struct {
		name string
		old  MemberStatus
		next MemberStatus
		want bool
	}{
		{"left to member", StatusLeft, StatusMember, true},
		{"kicked to restricted", StatusKicked, StatusRestricted, true},
		{"promotion is not a join", StatusMember, StatusAdministrator, false},
		{"unmute is not a join", StatusRestricted, StatusMember, false},
		{"leave is not a join", StatusMember, StatusLeft, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsJoin(tt.old, tt.next); got != tt.want {
				t.Errorf("IsJoin(%s, %s) = %v, want %v", tt.old, tt.next, got, tt.want)
			}
		})
	}
}

func TestNewJoinRecord(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	now := time.Date(2024, 1, 10, 8, 0, 0, 0, loc)

	rec := NewJoinRecord(now, 42, "alice", "Alice A")
	if rec.UserID != 42 || rec.Username != "alice" || rec.FullName != "Alice A" {
		t.Errorf("unexpected record: %+v", rec)
	}

	ts, err := rec.Time()
	if err != nil {
		t.Fatalf("Time() failed: %v", err)
	}
	if !ts.Equal(now) {
		t.Errorf("Time() = %v, want %v", ts, now)
	}
	if ts.Format("-07:00") != "+03:00" {
		t.Errorf("timestamp lost its offset: %s", rec.TsISO)
	}
}

func TestNewJoinRecordEmptyName(t *testing.T) {
	rec := NewJoinRecord(time.Now(), 7, "", "  ")
	if rec.FullName != NoNamePlaceholder {
		t.Errorf("FullName = %q, want placeholder %q", rec.FullName, NoNamePlaceholder)
	}
}

func TestJoinRecordTimeInvalid(t *testing.T) {
	rec := JoinRecord{TsISO: "not-a-date", UserID: 1}
	if _, err := rec.Time(); err == nil {
		t.Error("expected error for unparsable timestamp")
	}
}
