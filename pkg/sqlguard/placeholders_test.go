package sqlguard

import (
	"errors"
	"testing"

	"github.com/rentora-hq/rentora-engine/pkg/apperrors"
)

func TestCountMarkers(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		expected int
	}{
		{
			name:     "no markers",
			fragment: "p.id = r.property_id",
			expected: 0,
		},
		{
			name:     "two markers",
			fragment: "end_date > ? AND end_date <= ?",
			expected: 2,
		},
		{
			name:     "marker inside string literal not counted",
			fragment: "note = '?' AND id = ?",
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountMarkers(tt.fragment); got != tt.expected {
				t.Errorf("CountMarkers(%q) = %d, want %d", tt.fragment, got, tt.expected)
			}
		})
	}
}

func TestCountPositional(t *testing.T) {
	occurrences, max := CountPositional("SELECT * FROM t WHERE a = $1 AND b = $2 AND c = $3")
	if occurrences != 3 || max != 3 {
		t.Errorf("got (%d, %d), want (3, 3)", occurrences, max)
	}
}

func TestVerifyAlignment(t *testing.T) {
	if err := VerifyAlignment("SELECT * FROM t WHERE a = $1 AND b = $2", 2); err != nil {
		t.Errorf("aligned query rejected: %v", err)
	}

	err := VerifyAlignment("SELECT * FROM t WHERE a = $1 AND b = $2", 1)
	var buildErr *apperrors.BuildError
	if !errors.As(err, &buildErr) {
		t.Fatalf("expected BuildError, got %v", err)
	}
	if buildErr.Placeholders != 2 || buildErr.Params != 1 {
		t.Errorf("BuildError counts = (%d, %d), want (2, 1)", buildErr.Placeholders, buildErr.Params)
	}

	// Gap in numbering is a defect even when counts agree.
	if err := VerifyAlignment("SELECT * FROM t WHERE a = $1 AND b = $3", 2); err == nil {
		t.Error("expected BuildError for non-contiguous numbering")
	}
}

func TestCheckFragment(t *testing.T) {
	if err := CheckFragment("t.room_id = r.id"); err != nil {
		t.Errorf("clean fragment rejected: %v", err)
	}
	if err := CheckFragment("t.status = 'active'"); err == nil {
		t.Error("quoted literal fragment must be rejected")
	}
}

func TestCheckValue(t *testing.T) {
	if result := CheckValue(12345); result != nil {
		t.Errorf("non-string value flagged: %+v", result)
	}
	if result := CheckValue("plain search text"); result != nil {
		t.Errorf("clean string flagged: %+v", result)
	}
	result := CheckValue("' OR '1'='1")
	if result == nil || !result.IsSQLi {
		t.Error("classic injection payload not flagged")
	}
}
