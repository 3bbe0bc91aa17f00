package reconciliation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPatterns(t *testing.T) {
	cfg := DefaultPatternConfig()

	tests := []struct {
		name         string
		abbreviation string
		clubName     string
		town         string
		want         []string
	}{
		{
			name:         "suffix stripped and nickname extracted",
			abbreviation: "CYH",
			clubName:     "Canton Mustangs Youth Hockey",
			town:         "Canton",
			want:         []string{"canton mustangs", "canton mustang", "mustangs", "mustang", "cyh"},
		},
		{
			name:         "denied nickname never stands alone",
			abbreviation: "WHK",
			clubName:     "WHK Hawks Hockey Association",
			town:         "Winchester",
			want:         []string{"whk hawks", "whk hawk", "whk", "winchester"},
		},
		{
			name:         "stacked suffixes strip repeatedly",
			abbreviation: "ABC",
			clubName:     "Arlington Youth Hockey Association",
			town:         "Arlington",
			want:         []string{"arlington", "abc"},
		},
		{
			name:         "multi-word town excluded",
			abbreviation: "NSH",
			clubName:     "North Shore Hockey Club",
			town:         "North Shore",
			want:         []string{"north shore", "shore", "nsh"},
		},
		{
			name:         "town covered by core is not repeated",
			abbreviation: "MED",
			clubName:     "Medford Hockey",
			town:         "Medford",
			want:         []string{"medford", "med"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cfg.BuildPatterns(tt.abbreviation, tt.clubName, tt.town)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDepluralize(t *testing.T) {
	assert.Equal(t, "mustang", depluralize("mustangs"))
	assert.Equal(t, "express", depluralize("express"))
	assert.Equal(t, "wolf", depluralize("wolf"))
}

func TestContainsAnyPattern(t *testing.T) {
	patterns := []string{"whk", "winchester"}
	assert.True(t, containsAnyPattern("WHK U10B", patterns))
	assert.True(t, containsAnyPattern("Winchester Squirt B", patterns))
	assert.False(t, containsAnyPattern("Canton U10B", patterns))
	assert.False(t, containsAnyPattern("Canton U10B", nil))
}
