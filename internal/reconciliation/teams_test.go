package reconciliation

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/crossice/internal/store"
)

func testClub(abbreviation, name, town string) *store.Club {
	return &store.Club{ClubID: 1, Abbreviation: abbreviation, ClubName: name, Town: town}
}

func testClubTeam(id int64, name, ageGroup, level string) *store.ClubTeam {
	t := &store.ClubTeam{ClubTeamID: id, ClubID: 1, SeasonID: "2025-26", TeamName: name, AgeGroup: ageGroup}
	if level != "" {
		t.DivisionLevel = sql.NullString{String: level, Valid: true}
	}
	return t
}

func testLeagueTeam(id, name, division string) *store.LeagueTeam {
	return &store.LeagueTeam{LeagueTeamID: id, SeasonID: "2025-26", TeamName: name, DivisionName: division}
}

func jerseySet(jerseys ...int) map[string]struct{} {
	set := make(map[string]struct{}, len(jerseys))
	for _, j := range jerseys {
		set[fmt.Sprintf("%d", j)] = struct{}{}
	}
	return set
}

func TestTeamMatcherStructuredMatch(t *testing.T) {
	matcher := NewTeamMatcher(DefaultPatternConfig(), 0, 0)

	club := testClub("WHK", "WHK Hawks Hockey Association", "Winchester")
	team := testClubTeam(1, "WHK U10 - B", "Squirt", "B")
	leagueTeams := []*store.LeagueTeam{
		testLeagueTeam("lt-5", "WHK U10B", "U10B - GOLD"),
		testLeagueTeam("lt-6", "Canton U10B", "U10B - GOLD"),
	}

	link, outcome := matcher.Match(team, club, leagueTeams, nil, nil)
	require.Equal(t, OutcomeLinked, outcome)
	assert.Equal(t, "lt-5", link.LeagueTeamID)
	assert.Equal(t, MethodStructured, link.Method)
	assert.Equal(t, "structured", link.MethodLabel())
}

func TestTeamMatcherLevelSubdivisionCompatible(t *testing.T) {
	matcher := NewTeamMatcher(DefaultPatternConfig(), 0, 0)

	club := testClub("WHK", "WHK Hawks Hockey Association", "Winchester")
	team := testClubTeam(1, "WHK Squirt B1", "Squirt", "B1")
	leagueTeams := []*store.LeagueTeam{
		testLeagueTeam("lt-5", "WHK U10B", "U10B - GOLD"),
		testLeagueTeam("lt-7", "WHK U10A", "U10A - GOLD"),
	}

	link, outcome := matcher.Match(team, club, leagueTeams, nil, nil)
	require.Equal(t, OutcomeLinked, outcome)
	assert.Equal(t, "lt-5", link.LeagueTeamID)
}

func TestTeamMatcherSkipsNonCompetitive(t *testing.T) {
	matcher := NewTeamMatcher(DefaultPatternConfig(), 0, 0)

	club := testClub("WHK", "WHK Hawks Hockey Association", "Winchester")
	team := testClubTeam(1, "WHK Learn to Play", "Learn to Play", "")
	leagueTeams := []*store.LeagueTeam{
		testLeagueTeam("lt-5", "WHK U10B", "U10B - GOLD"),
	}

	_, outcome := matcher.Match(team, club, leagueTeams, jerseySet(1, 2, 3, 4), nil)
	assert.Equal(t, OutcomeSkipped, outcome)
}

func TestTeamMatcherAmbiguousStructuredFallsToOverlap(t *testing.T) {
	matcher := NewTeamMatcher(DefaultPatternConfig(), 0, 0)

	club := testClub("WHK", "WHK Hawks Hockey Association", "Winchester")
	team := testClubTeam(1, "WHK U10 - B", "Squirt", "B")
	leagueTeams := []*store.LeagueTeam{
		testLeagueTeam("lt-a", "WHK U10B White", "U10B - GOLD"),
		testLeagueTeam("lt-b", "WHK U10B Blue", "U10B - GOLD"),
	}
	leagueJerseys := map[string]map[string]struct{}{
		"lt-a": jerseySet(4, 7, 9, 12, 15, 20),
		"lt-b": jerseySet(2, 3, 8),
	}

	link, outcome := matcher.Match(team, club, leagueTeams, jerseySet(4, 7, 9, 12, 15), leagueJerseys)
	require.Equal(t, OutcomeLinked, outcome)
	assert.Equal(t, "lt-a", link.LeagueTeamID)
	assert.Equal(t, MethodRosterOverlap, link.Method)
	assert.Equal(t, "roster_overlap(0.83)", link.MethodLabel())
}

func TestTeamMatcherAmbiguousWithoutRosterDataUnmatched(t *testing.T) {
	matcher := NewTeamMatcher(DefaultPatternConfig(), 0, 0)

	club := testClub("WHK", "WHK Hawks Hockey Association", "Winchester")
	team := testClubTeam(1, "WHK U10 - B", "Squirt", "B")
	leagueTeams := []*store.LeagueTeam{
		testLeagueTeam("lt-a", "WHK U10B White", "U10B - GOLD"),
		testLeagueTeam("lt-b", "WHK U10B Blue", "U10B - GOLD"),
	}

	_, outcome := matcher.Match(team, club, leagueTeams, nil, nil)
	assert.Equal(t, OutcomeUnmatched, outcome)
}

func TestTeamMatcherOverlapBelowJerseyFloorUnmatched(t *testing.T) {
	matcher := NewTeamMatcher(DefaultPatternConfig(), 3, 0.5)

	club := testClub("WHK", "WHK Hawks Hockey Association", "Winchester")
	team := testClubTeam(1, "WHK U10 - B", "Squirt", "B")
	leagueTeams := []*store.LeagueTeam{
		testLeagueTeam("lt-a", "WHK U10B White", "U10B - GOLD"),
		testLeagueTeam("lt-b", "WHK U10B Blue", "U10B - GOLD"),
	}
	leagueJerseys := map[string]map[string]struct{}{
		"lt-a": jerseySet(4, 7),
	}

	_, outcome := matcher.Match(team, club, leagueTeams, jerseySet(4, 7), leagueJerseys)
	assert.Equal(t, OutcomeUnmatched, outcome)
}

func TestTeamMatcherThresholdBoundary(t *testing.T) {
	matcher := NewTeamMatcher(DefaultPatternConfig(), 3, 0.5)

	club := testClub("WHK", "WHK Hawks Hockey Association", "Winchester")
	team := testClubTeam(1, "WHK U10 - B", "Squirt", "B")
	leagueTeams := []*store.LeagueTeam{
		testLeagueTeam("lt-a", "WHK U10B White", "U10B - GOLD"),
		testLeagueTeam("lt-b", "WHK U10B Blue", "U10B - GOLD"),
	}

	t.Run("exactly 0.50 accepted", func(t *testing.T) {
		// |A|=4, all shared; |B|=8 -> 4/8 = 0.50.
		leagueJerseys := map[string]map[string]struct{}{
			"lt-a": jerseySet(1, 2, 3, 4, 5, 6, 7, 8),
		}
		link, outcome := matcher.Match(team, club, leagueTeams, jerseySet(1, 2, 3, 4), leagueJerseys)
		require.Equal(t, OutcomeLinked, outcome)
		assert.Equal(t, "lt-a", link.LeagueTeamID)
		assert.InDelta(t, 0.5, link.Score, 1e-9)
	})

	t.Run("0.49 rejected", func(t *testing.T) {
		// |A|=50, 49 shared; |B|=99 -> union 100, intersection 49 -> 0.49.
		clubJerseys := make(map[string]struct{})
		leagueSet := make(map[string]struct{})
		for i := 1; i <= 50; i++ {
			clubJerseys[fmt.Sprintf("%d", i)] = struct{}{}
		}
		for i := 1; i <= 49; i++ {
			leagueSet[fmt.Sprintf("%d", i)] = struct{}{}
		}
		for i := 100; i < 150; i++ {
			leagueSet[fmt.Sprintf("%d", i)] = struct{}{}
		}
		leagueJerseys := map[string]map[string]struct{}{"lt-a": leagueSet}

		_, outcome := matcher.Match(team, club, leagueTeams, clubJerseys, leagueJerseys)
		assert.Equal(t, OutcomeUnmatched, outcome)
	})
}

func TestTeamMatcherOverlapTieUnmatched(t *testing.T) {
	matcher := NewTeamMatcher(DefaultPatternConfig(), 3, 0.5)

	club := testClub("WHK", "WHK Hawks Hockey Association", "Winchester")
	team := testClubTeam(1, "WHK U10 - B", "Squirt", "B")
	leagueTeams := []*store.LeagueTeam{
		testLeagueTeam("lt-a", "WHK U10B White", "U10B - GOLD"),
		testLeagueTeam("lt-b", "WHK U10B Blue", "U10B - GOLD"),
	}
	leagueJerseys := map[string]map[string]struct{}{
		"lt-a": jerseySet(4, 7, 9, 12),
		"lt-b": jerseySet(4, 7, 9, 12),
	}

	_, outcome := matcher.Match(team, club, leagueTeams, jerseySet(4, 7, 9, 12), leagueJerseys)
	assert.Equal(t, OutcomeUnmatched, outcome)
}

func TestJaccard(t *testing.T) {
	assert.Equal(t, 0.0, jaccard(nil, jerseySet(1)))
	assert.Equal(t, 0.0, jaccard(jerseySet(1), nil))
	assert.Equal(t, 1.0, jaccard(jerseySet(1, 2), jerseySet(1, 2)))
	assert.InDelta(t, 5.0/6.0, jaccard(jerseySet(4, 7, 9, 12, 15), jerseySet(4, 7, 9, 12, 15, 20)), 1e-9)
	assert.Equal(t, 0.0, jaccard(jerseySet(1, 2), jerseySet(3, 4)))
}
