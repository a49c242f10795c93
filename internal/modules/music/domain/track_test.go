package domain

import (
	"testing"
	"time"
)

func TestTrack_IsValid(t *testing.T) {
	valid := Track{Encoded: "enc", Title: "Song"}
	if !valid.IsValid() {
		t.Error("expected track with encoded data and title to be valid")
	}

	noEncoded := Track{Title: "Song"}
	if noEncoded.IsValid() {
		t.Error("expected track without encoded data to be invalid")
	}

	noTitle := Track{Encoded: "enc"}
	if noTitle.IsValid() {
		t.Error("expected track without title to be invalid")
	}
}

func TestTrack_FormattedDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		isStream bool
		want     string
	}{
		{"seconds only", 42 * time.Second, false, "00:42"},
		{"minutes and seconds", 3*time.Minute + 5*time.Second, false, "03:05"},
		{"exactly one hour", time.Hour, false, "01:00:00"},
		{"hours", 2*time.Hour + 34*time.Minute + 56*time.Second, false, "02:34:56"},
		{"zero", 0, false, "00:00"},
		{"stream", 0, true, "LIVE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := Track{Duration: tt.duration, IsStream: tt.isStream}
			if got := track.FormattedDuration(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
