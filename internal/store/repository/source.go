package repository

import (
	"context"
	"fmt"

	"github.com/fortuna/crossice/internal/store"
)

// SourceRepository serves the engine's read-only input collections. It
// implements reconciliation.DataSource over the shared Postgres store.
type SourceRepository struct {
	db *store.Database
}

// NewSourceRepository creates a new source repository.
func NewSourceRepository(db *store.Database) *SourceRepository {
	return &SourceRepository{db: db}
}

// Clubs returns all clubs keyed by club id.
func (r *SourceRepository) Clubs(ctx context.Context) (map[int64]*store.Club, error) {
	query := `
		SELECT club_id, abbreviation, club_name, town, website_url, created_at, updated_at
		FROM clubs
		ORDER BY club_id
	`

	var clubs []*store.Club
	if err := r.db.DB().SelectContext(ctx, &clubs, query); err != nil {
		return nil, fmt.Errorf("querying clubs: %w", err)
	}

	byID := make(map[int64]*store.Club, len(clubs))
	for _, c := range clubs {
		byID[c.ClubID] = c
	}
	return byID, nil
}

// ClubTeams returns all scraped club teams for one season, linked or not.
func (r *SourceRepository) ClubTeams(ctx context.Context, seasonID string) ([]*store.ClubTeam, error) {
	query := `
		SELECT club_team_id, club_id, season_id, team_name, age_group, division_level,
			league_team_id, match_method, matched_at, created_at, updated_at
		FROM club_teams
		WHERE season_id = $1
		ORDER BY club_team_id
	`

	var teams []*store.ClubTeam
	if err := r.db.DB().SelectContext(ctx, &teams, query, seasonID); err != nil {
		return nil, fmt.Errorf("querying club teams: %w", err)
	}
	return teams, nil
}

// ClubPlayers returns one club team's scraped roster.
func (r *SourceRepository) ClubPlayers(ctx context.Context, clubTeamID int64) ([]*store.ClubPlayer, error) {
	query := `
		SELECT club_player_id, club_team_id, jersey_number, first_name, last_name,
			league_player_id, matched_at, created_at, updated_at
		FROM club_players
		WHERE club_team_id = $1
		ORDER BY club_player_id
	`

	var players []*store.ClubPlayer
	if err := r.db.DB().SelectContext(ctx, &players, query, clubTeamID); err != nil {
		return nil, fmt.Errorf("querying club players: %w", err)
	}
	return players, nil
}

// LeagueTeams returns all league-provider teams for one season.
func (r *SourceRepository) LeagueTeams(ctx context.Context, seasonID string) ([]*store.LeagueTeam, error) {
	query := `
		SELECT league_team_id, season_id, team_name, division_name, created_at, updated_at
		FROM league_teams
		WHERE season_id = $1
		ORDER BY league_team_id
	`

	var teams []*store.LeagueTeam
	if err := r.db.DB().SelectContext(ctx, &teams, query, seasonID); err != nil {
		return nil, fmt.Errorf("querying league teams: %w", err)
	}
	return teams, nil
}

// RosterAppearances returns every league roster row for one season, one row
// per game appearance.
func (r *SourceRepository) RosterAppearances(ctx context.Context, seasonID string) ([]*store.RosterAppearance, error) {
	query := `
		SELECT appearance_id, season_id, league_team_id, league_player_id, game_id,
			jersey_number, player_name, created_at, updated_at
		FROM league_roster_appearances
		WHERE season_id = $1
		ORDER BY appearance_id
	`

	var appearances []*store.RosterAppearance
	if err := r.db.DB().SelectContext(ctx, &appearances, query, seasonID); err != nil {
		return nil, fmt.Errorf("querying roster appearances: %w", err)
	}
	return appearances, nil
}
