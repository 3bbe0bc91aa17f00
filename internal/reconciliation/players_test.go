package reconciliation

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/crossice/internal/store"
)

func testAppearance(playerID, jersey string) *store.RosterAppearance {
	app := &store.RosterAppearance{
		SeasonID:       "2025-26",
		LeagueTeamID:   "lt-1",
		LeaguePlayerID: playerID,
		GameID:         "g-1",
	}
	if jersey != "" {
		app.JerseyNumber = sql.NullString{String: jersey, Valid: true}
	}
	return app
}

func testClubPlayer(id int64, jersey, first, last string) *store.ClubPlayer {
	p := &store.ClubPlayer{ClubPlayerID: id, ClubTeamID: 1, FirstName: first, LastName: last}
	if jersey != "" {
		p.JerseyNumber = sql.NullString{String: jersey, Valid: true}
	}
	return p
}

func TestBuildJerseyIndexMajorityVote(t *testing.T) {
	// p1 wore 7 in three games and 17 once (a typo); p2 always wore 9.
	appearances := []*store.RosterAppearance{
		testAppearance("p1", "7"),
		testAppearance("p1", "7"),
		testAppearance("p1", "17"),
		testAppearance("p1", "7"),
		testAppearance("p2", "9"),
		testAppearance("p2", "9"),
	}

	index := BuildJerseyIndex(appearances)
	assert.Equal(t, map[string]string{"7": "p1", "9": "p2"}, index)
}

func TestBuildJerseyIndexTieBreaksToLowestJersey(t *testing.T) {
	appearances := []*store.RosterAppearance{
		testAppearance("p1", "12"),
		testAppearance("p1", "4"),
	}

	index := BuildJerseyIndex(appearances)
	assert.Equal(t, map[string]string{"4": "p1"}, index)
}

func TestBuildJerseyIndexTieBreakNumericOrdering(t *testing.T) {
	// "9" sorts before "11" numerically even though "11" < "9" as strings.
	appearances := []*store.RosterAppearance{
		testAppearance("p1", "11"),
		testAppearance("p1", "9"),
	}

	index := BuildJerseyIndex(appearances)
	assert.Equal(t, map[string]string{"9": "p1"}, index)
}

func TestBuildJerseyIndexDropsContestedJerseys(t *testing.T) {
	appearances := []*store.RosterAppearance{
		testAppearance("p1", "7"),
		testAppearance("p2", "7"),
		testAppearance("p3", "10"),
	}

	index := BuildJerseyIndex(appearances)
	assert.Equal(t, map[string]string{"10": "p3"}, index)
}

func TestBuildJerseyIndexIgnoresBlankJerseys(t *testing.T) {
	appearances := []*store.RosterAppearance{
		testAppearance("p1", ""),
		testAppearance("p1", "  "),
		testAppearance("p2", "5"),
	}

	index := BuildJerseyIndex(appearances)
	assert.Equal(t, map[string]string{"5": "p2"}, index)
}

func TestMatchPlayers(t *testing.T) {
	index := map[string]string{"7": "p1", "9": "p2"}
	players := []*store.ClubPlayer{
		testClubPlayer(1, "7", "Jane", "Doe"),
		testClubPlayer(2, "9", "Sam", "Smith"),
		testClubPlayer(3, "23", "Alex", "Nguyen"), // jersey absent from index
		testClubPlayer(4, "", "Pat", "Brown"),     // no jersey at all
	}

	links, unmatched := MatchPlayers(players, index)
	require.Len(t, links, 2)
	assert.Equal(t, PlayerLink{ClubPlayerID: 1, LeaguePlayerID: "p1"}, links[0])
	assert.Equal(t, PlayerLink{ClubPlayerID: 2, LeaguePlayerID: "p2"}, links[1])
	assert.Equal(t, 2, unmatched)
}

func TestMatchPlayersSkipsAlreadyLinked(t *testing.T) {
	linked := testClubPlayer(1, "7", "Jane", "Doe")
	linked.LeaguePlayerID = sql.NullString{String: "p1", Valid: true}

	links, unmatched := MatchPlayers([]*store.ClubPlayer{linked}, map[string]string{"7": "p9"})
	assert.Empty(t, links)
	assert.Zero(t, unmatched)
}
