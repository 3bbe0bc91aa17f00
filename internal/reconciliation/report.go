package reconciliation

import "time"

// Report is the sole surface for partial-failure visibility: every team or
// player that could not be matched is counted here rather than raised.
type Report struct {
	RunID    string  `json:"run_id"`
	SeasonID string  `json:"season_id"`
	DryRun   bool    `json:"dry_run"`
	Phases   []Phase `json:"phases"`

	TeamsMatched   int `json:"teams_matched"`
	TeamsSkipped   int `json:"teams_skipped"`
	TeamsUnmatched int `json:"teams_unmatched"`

	PlayersMatched   int `json:"players_matched"`
	PlayersUnmatched int `json:"players_unmatched"`

	// NamesBackfilled counts filled rows per destination table.
	NamesBackfilled map[string]int64 `json:"names_backfilled"`

	// TeamMethods records the audit label per newly linked club team,
	// e.g. "structured" or "roster_overlap(0.83)".
	TeamMethods map[int64]string `json:"team_methods,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// TotalBackfilled sums the backfill counts across all destinations.
func (r *Report) TotalBackfilled() int64 {
	var total int64
	for _, n := range r.NamesBackfilled {
		total += n
	}
	return total
}
