package repository

import (
	"context"
	"fmt"

	"github.com/fortuna/crossice/internal/reconciliation"
	"github.com/fortuna/crossice/internal/store"
)

// LinkRepository persists match decisions. Each Apply call commits as one
// transaction so a crash mid-phase leaves the store in the pre-phase state.
// The WHERE ... IS NULL guards enforce write-once at the SQL level: a link
// set by an earlier run is never overwritten even if a later run disagrees.
type LinkRepository struct {
	db *store.Database
}

// NewLinkRepository creates a new link repository.
func NewLinkRepository(db *store.Database) *LinkRepository {
	return &LinkRepository{db: db}
}

// ApplyTeamLinks writes league_team_id and the audit method onto previously
// unlinked club teams.
func (r *LinkRepository) ApplyTeamLinks(ctx context.Context, links []reconciliation.TeamLink) error {
	if len(links) == 0 {
		return nil
	}

	tx, err := r.db.DB().BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin team link transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE club_teams
		SET league_team_id = $2,
			match_method = $3,
			matched_at = NOW(),
			updated_at = NOW()
		WHERE club_team_id = $1
			AND league_team_id IS NULL
	`

	for _, link := range links {
		if _, err := tx.ExecContext(ctx, query, link.ClubTeamID, link.LeagueTeamID, link.MethodLabel()); err != nil {
			return fmt.Errorf("link club team %d: %w", link.ClubTeamID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit team links: %w", err)
	}
	return nil
}

// ApplyPlayerLinks writes league_player_id onto previously unlinked club
// players.
func (r *LinkRepository) ApplyPlayerLinks(ctx context.Context, links []reconciliation.PlayerLink) error {
	if len(links) == 0 {
		return nil
	}

	tx, err := r.db.DB().BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin player link transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE club_players
		SET league_player_id = $2,
			matched_at = NOW(),
			updated_at = NOW()
		WHERE club_player_id = $1
			AND league_player_id IS NULL
	`

	for _, link := range links {
		if _, err := tx.ExecContext(ctx, query, link.ClubPlayerID, link.LeaguePlayerID); err != nil {
			return fmt.Errorf("link club player %d: %w", link.ClubPlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit player links: %w", err)
	}
	return nil
}
