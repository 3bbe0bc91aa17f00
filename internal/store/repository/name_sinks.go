package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/fortuna/crossice/internal/store"
)

// nameSink describes one destination record kind that carries a league
// player id next to a name column expected to be blank in anonymized
// divisions. Adding a destination means adding one entry here: both
// statements take (league_player_id, full_name) and must only touch rows
// whose name column is empty or whitespace, which makes backfill a pure
// set-once-per-field operation.
type nameSink struct {
	destination string
	fillSQL     string
	countSQL    string
}

var defaultNameSinks = []nameSink{
	{
		destination: "league_rosters",
		fillSQL: `
			UPDATE league_roster_appearances
			SET player_name = $2, updated_at = NOW()
			WHERE league_player_id = $1
				AND (player_name IS NULL OR btrim(player_name) = '')`,
		countSQL: `
			SELECT COUNT(*) FROM league_roster_appearances
			WHERE league_player_id = $1
				AND (player_name IS NULL OR btrim(player_name) = '')`,
	},
	{
		destination: "goal_scorer",
		fillSQL: `
			UPDATE goals
			SET scorer_name = $2, updated_at = NOW()
			WHERE scorer_player_id = $1
				AND (scorer_name IS NULL OR btrim(scorer_name) = '')`,
		countSQL: `
			SELECT COUNT(*) FROM goals
			WHERE scorer_player_id = $1
				AND (scorer_name IS NULL OR btrim(scorer_name) = '')`,
	},
	{
		destination: "goal_assist1",
		fillSQL: `
			UPDATE goals
			SET assist1_name = $2, updated_at = NOW()
			WHERE assist1_player_id = $1
				AND (assist1_name IS NULL OR btrim(assist1_name) = '')`,
		countSQL: `
			SELECT COUNT(*) FROM goals
			WHERE assist1_player_id = $1
				AND (assist1_name IS NULL OR btrim(assist1_name) = '')`,
	},
	{
		destination: "goal_assist2",
		fillSQL: `
			UPDATE goals
			SET assist2_name = $2, updated_at = NOW()
			WHERE assist2_player_id = $1
				AND (assist2_name IS NULL OR btrim(assist2_name) = '')`,
		countSQL: `
			SELECT COUNT(*) FROM goals
			WHERE assist2_player_id = $1
				AND (assist2_name IS NULL OR btrim(assist2_name) = '')`,
	},
	{
		destination: "penalties",
		fillSQL: `
			UPDATE penalties
			SET player_name = $2, updated_at = NOW()
			WHERE league_player_id = $1
				AND (player_name IS NULL OR btrim(player_name) = '')`,
		countSQL: `
			SELECT COUNT(*) FROM penalties
			WHERE league_player_id = $1
				AND (player_name IS NULL OR btrim(player_name) = '')`,
	},
	{
		destination: "player_stats",
		fillSQL: `
			UPDATE player_season_stats
			SET player_name = $2, updated_at = NOW()
			WHERE league_player_id = $1
				AND (player_name IS NULL OR btrim(player_name) = '')`,
		countSQL: `
			SELECT COUNT(*) FROM player_season_stats
			WHERE league_player_id = $1
				AND (player_name IS NULL OR btrim(player_name) = '')`,
	},
}

// NameBackfillRepository implements reconciliation.NameWriter across every
// destination table.
type NameBackfillRepository struct {
	db    *store.Database
	sinks []nameSink
}

// NewNameBackfillRepository creates a backfill repository over the default
// destination set.
func NewNameBackfillRepository(db *store.Database) *NameBackfillRepository {
	return &NameBackfillRepository{db: db, sinks: defaultNameSinks}
}

// ApplyNames fills the blank name fields of every destination for the given
// league player ids, all within one transaction, and returns filled-row
// counts per destination. With dryRun set it counts fillable rows instead of
// updating them.
func (r *NameBackfillRepository) ApplyNames(ctx context.Context, names map[string]string, dryRun bool) (map[string]int64, error) {
	counts := make(map[string]int64, len(r.sinks))
	for _, sink := range r.sinks {
		counts[sink.destination] = 0
	}

	playerIDs := make([]string, 0, len(names))
	for id := range names {
		playerIDs = append(playerIDs, id)
	}
	sort.Strings(playerIDs)

	if dryRun {
		for _, sink := range r.sinks {
			for _, id := range playerIDs {
				var n int64
				if err := r.db.DB().GetContext(ctx, &n, sink.countSQL, id); err != nil {
					return nil, fmt.Errorf("count blank names in %s: %w", sink.destination, err)
				}
				counts[sink.destination] += n
			}
		}
		return counts, nil
	}

	tx, err := r.db.DB().BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin backfill transaction: %w", err)
	}
	defer tx.Rollback()

	for _, sink := range r.sinks {
		for _, id := range playerIDs {
			res, err := tx.ExecContext(ctx, sink.fillSQL, id, names[id])
			if err != nil {
				return nil, fmt.Errorf("backfill %s for player %s: %w", sink.destination, id, err)
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return nil, fmt.Errorf("backfill %s rows affected: %w", sink.destination, err)
			}
			counts[sink.destination] += affected
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit backfill: %w", err)
	}
	return counts, nil
}
