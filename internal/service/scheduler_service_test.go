package service

import "testing"

func TestBuildDailySpec(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"09:30", "0 30 9 * * *", false},
		{"00:00", "0 0 0 * * *", false},
		{"23:59", "0 59 23 * * *", false},
		{"24:00", "", true},
		{"12:60", "", true},
		{"12", "", true},
		{"ab:cd", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := buildDailySpec(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("buildDailySpec(%q) expected error, got %q", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("buildDailySpec(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("buildDailySpec(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
