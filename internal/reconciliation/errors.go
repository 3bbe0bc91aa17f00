package reconciliation

import "github.com/cockroachdb/errors"

var (
	// ErrNoSeason is returned when a run is requested without a season id.
	ErrNoSeason = errors.New("reconciliation: season id is required")

	// ErrUnknownPhase is returned for a phase name outside teams, players,
	// and backfill.
	ErrUnknownPhase = errors.New("reconciliation: unknown phase")
)
