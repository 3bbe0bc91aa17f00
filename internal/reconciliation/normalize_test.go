package reconciliation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAge(t *testing.T) {
	tests := []struct {
		label string
		want  AgeCode
		ok    bool
	}{
		{"U10", "U10", true},
		{"u12", "U12", true},
		{"U08", "U8", true},
		{"12U", "U12", true},
		{"Squirt", "U10", true},
		{"SQUIRT MAJOR", "U10", true},
		{"Pee Wee", "U12", true},
		{"Pee-Wee", "U12", true},
		{"PeeWee", "U12", true},
		{"Bantam", "U14", true},
		{"Midget", "U16", true},
		{"Midget Minor", "U16", true},
		{"Midget Major", "U18", true},
		{"Mite", "U8", true},
		{"Mini Mite", "U6", true},
		{"Midget 16U", "U16", true},
		{"U12 Travel", "U12", true},
		{"Learn to Play", "", false},
		{"Adult League", "", false},
		{"Clinic", "", false},
		{"", "", false},
		{"   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := NormalizeAge(tt.label)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLeagueDivision(t *testing.T) {
	tests := []struct {
		name string
		want Division
	}{
		{"U12C - SILVER", Division{Age: "U12", Level: "C", Tier: "SILVER"}},
		{"U14A", Division{Age: "U14", Level: "A"}},
		{"U10B - GOLD", Division{Age: "U10", Level: "B", Tier: "GOLD"}},
		{"u10b - gold", Division{Age: "U10", Level: "B", Tier: "GOLD"}},
		{"GU12 - RED", Division{Age: "U12", Tier: "RED", Girls: true}},
		{"GU14", Division{Age: "U14", Girls: true}},
		{"U8", Division{Age: "U8"}},
		{"High School - Varsity", Division{}},
		{"", Division{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLeagueDivision(tt.name))
		})
	}
}

func TestDivisionParsed(t *testing.T) {
	assert.True(t, ParseLeagueDivision("U12C").Parsed())
	assert.False(t, ParseLeagueDivision("Open Skate").Parsed())
}

func TestLevelsCompatible(t *testing.T) {
	tests := []struct {
		club   string
		league string
		want   bool
	}{
		{"B", "B", true},
		{"B1", "B", true},
		{"B2", "B", true},
		{"b1", "B", true},
		{"A", "B", false},
		{"C1", "B", false},
		{"", "B", true},
		{"B", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, levelsCompatible(tt.club, tt.league),
			"club %q vs league %q", tt.club, tt.league)
	}
}
