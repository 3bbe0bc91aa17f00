// Package reconciliation implements the cross-source entity reconciliation
// engine: it matches club-scraped teams to league teams, links club players
// to anonymized league player ids within matched teams, and propagates the
// recovered names into every league-side record that references them.
//
// The engine never creates or deletes entities. It only sets nullable link
// fields (write-once) and fills blank name fields, which makes every run
// safely repeatable: completed work is skipped by construction.
package reconciliation

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fortuna/crossice/internal/store"
)

// Phase identifies one independently invocable stage of a run.
type Phase string

const (
	PhaseTeams    Phase = "teams"
	PhasePlayers  Phase = "players"
	PhaseBackfill Phase = "backfill"
)

// AllPhases returns the three phases in execution order.
func AllPhases() []Phase {
	return []Phase{PhaseTeams, PhasePlayers, PhaseBackfill}
}

// DataSource provides the read-only input collections for one season.
type DataSource interface {
	Clubs(ctx context.Context) (map[int64]*store.Club, error)
	ClubTeams(ctx context.Context, seasonID string) ([]*store.ClubTeam, error)
	ClubPlayers(ctx context.Context, clubTeamID int64) ([]*store.ClubPlayer, error)
	LeagueTeams(ctx context.Context, seasonID string) ([]*store.LeagueTeam, error)
	RosterAppearances(ctx context.Context, seasonID string) ([]*store.RosterAppearance, error)
}

// LinkWriter persists match decisions. Each Apply call commits as a single
// transaction and must enforce write-once semantics: a link column already
// set is never overwritten.
type LinkWriter interface {
	ApplyTeamLinks(ctx context.Context, links []TeamLink) error
	ApplyPlayerLinks(ctx context.Context, links []PlayerLink) error
}

// NameWriter fills blank name fields across every destination record kind,
// keyed by league player id, and returns filled-row counts per destination.
// With dryRun set it must count fillable rows without mutating anything.
type NameWriter interface {
	ApplyNames(ctx context.Context, names map[string]string, dryRun bool) (map[string]int64, error)
}

// Config carries the engine's tunables.
type Config struct {
	Patterns         PatternConfig
	MinRosterJerseys int
	OverlapThreshold float64
}

// DefaultConfig returns the production tables and thresholds.
func DefaultConfig() Config {
	return Config{
		Patterns:         DefaultPatternConfig(),
		MinRosterJerseys: 3,
		OverlapThreshold: 0.5,
	}
}

// Options selects what a run covers.
type Options struct {
	SeasonID string
	// Phases defaults to all three, in order. Single-phase runs support
	// partial re-execution and audits.
	Phases []Phase
	// DryRun executes the full matching logic and produces the same report
	// without persisting any link or name change.
	DryRun bool
}

// Engine orchestrates the three reconciliation phases. Runs are synchronous
// and single-threaded; phases are ordered because player matching requires
// completed team links and backfill requires completed player links.
type Engine struct {
	source  DataSource
	links   LinkWriter
	names   NameWriter
	matcher *TeamMatcher
	logger  *zap.Logger
}

// NewEngine wires an engine against a data source and writers.
func NewEngine(source DataSource, links LinkWriter, names NameWriter, cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		source:  source,
		links:   links,
		names:   names,
		matcher: NewTeamMatcher(cfg.Patterns, cfg.MinRosterJerseys, cfg.OverlapThreshold),
		logger:  logger,
	}
}

// teamPair is one linked club/league team pair eligible for player matching.
type teamPair struct {
	clubTeamID   int64
	leagueTeamID string
}

// Run executes the selected phases in order and returns the aggregated
// report. Individual unmatched teams or players never fail a run; only
// whole-phase infrastructure failures (unreadable inputs, failed commits)
// surface as errors.
func (e *Engine) Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.SeasonID == "" {
		return nil, ErrNoSeason
	}
	phases := opts.Phases
	if len(phases) == 0 {
		phases = AllPhases()
	}
	selected := make(map[Phase]bool, len(phases))
	for _, p := range phases {
		switch p {
		case PhaseTeams, PhasePlayers, PhaseBackfill:
			selected[p] = true
		default:
			return nil, errors.Wrapf(ErrUnknownPhase, "%q", p)
		}
	}

	report := &Report{
		RunID:           uuid.NewString(),
		SeasonID:        opts.SeasonID,
		DryRun:          opts.DryRun,
		Phases:          phases,
		NamesBackfilled: map[string]int64{},
		TeamMethods:     map[int64]string{},
		StartedAt:       time.Now().UTC(),
	}

	snap, err := e.load(ctx, opts.SeasonID)
	if err != nil {
		return nil, err
	}

	newTeamLinks := map[int64]string{}
	if selected[PhaseTeams] {
		if err := e.runTeams(ctx, snap, opts.DryRun, report, newTeamLinks); err != nil {
			return nil, err
		}
	}

	pairs := snap.linkedPairs(newTeamLinks)

	newPlayerLinks := map[int64]string{}
	if selected[PhasePlayers] {
		if err := e.runPlayers(ctx, snap, pairs, opts.DryRun, report, newPlayerLinks); err != nil {
			return nil, err
		}
	}

	if selected[PhaseBackfill] {
		if err := e.runBackfill(ctx, snap, pairs, newPlayerLinks, opts.DryRun, report); err != nil {
			return nil, err
		}
	}

	report.FinishedAt = time.Now().UTC()
	e.logger.Info("reconciliation run finished",
		zap.String("run_id", report.RunID),
		zap.String("season_id", report.SeasonID),
		zap.Bool("dry_run", report.DryRun),
		zap.Int("teams_matched", report.TeamsMatched),
		zap.Int("teams_skipped", report.TeamsSkipped),
		zap.Int("teams_unmatched", report.TeamsUnmatched),
		zap.Int("players_matched", report.PlayersMatched),
		zap.Int("players_unmatched", report.PlayersUnmatched),
		zap.Int64("names_backfilled", report.TotalBackfilled()),
	)
	return report, nil
}

// snapshot holds one season's input collections, loaded once per run.
type snapshot struct {
	clubs             map[int64]*store.Club
	clubTeams         []*store.ClubTeam
	leagueTeams       []*store.LeagueTeam
	appearancesByTeam map[string][]*store.RosterAppearance
	jerseysByTeam     map[string]map[string]struct{}

	source  DataSource
	players map[int64][]*store.ClubPlayer
}

func (e *Engine) load(ctx context.Context, seasonID string) (*snapshot, error) {
	clubs, err := e.source.Clubs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load clubs: %w", err)
	}
	clubTeams, err := e.source.ClubTeams(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("load club teams: %w", err)
	}
	leagueTeams, err := e.source.LeagueTeams(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("load league teams: %w", err)
	}
	appearances, err := e.source.RosterAppearances(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("load roster appearances: %w", err)
	}

	snap := &snapshot{
		clubs:             clubs,
		clubTeams:         clubTeams,
		leagueTeams:       leagueTeams,
		appearancesByTeam: map[string][]*store.RosterAppearance{},
		jerseysByTeam:     map[string]map[string]struct{}{},
		source:            e.source,
		players:           map[int64][]*store.ClubPlayer{},
	}
	for _, app := range appearances {
		snap.appearancesByTeam[app.LeagueTeamID] = append(snap.appearancesByTeam[app.LeagueTeamID], app)
		jersey := app.Jersey()
		if jersey == "" {
			continue
		}
		set := snap.jerseysByTeam[app.LeagueTeamID]
		if set == nil {
			set = map[string]struct{}{}
			snap.jerseysByTeam[app.LeagueTeamID] = set
		}
		set[jersey] = struct{}{}
	}
	return snap, nil
}

// clubPlayers lazily loads and caches one club team's roster.
func (s *snapshot) clubPlayers(ctx context.Context, clubTeamID int64) ([]*store.ClubPlayer, error) {
	if players, ok := s.players[clubTeamID]; ok {
		return players, nil
	}
	players, err := s.source.ClubPlayers(ctx, clubTeamID)
	if err != nil {
		return nil, fmt.Errorf("load club players for team %d: %w", clubTeamID, err)
	}
	s.players[clubTeamID] = players
	return players, nil
}

// linkedPairs lists linked team pairs in club-team order: links persisted by
// earlier runs first-class alongside links produced in this run (which, on a
// dry run, exist only in memory).
func (s *snapshot) linkedPairs(newLinks map[int64]string) []teamPair {
	var pairs []teamPair
	for _, ct := range s.clubTeams {
		switch {
		case ct.Linked():
			pairs = append(pairs, teamPair{ct.ClubTeamID, ct.LeagueTeamID.String})
		default:
			if leagueTeamID, ok := newLinks[ct.ClubTeamID]; ok {
				pairs = append(pairs, teamPair{ct.ClubTeamID, leagueTeamID})
			}
		}
	}
	return pairs
}

func (e *Engine) runTeams(ctx context.Context, snap *snapshot, dryRun bool, report *Report, newLinks map[int64]string) error {
	var links []TeamLink
	for _, team := range snap.clubTeams {
		if team.Linked() {
			// Re-runs skip already-linked teams; the link is never revisited.
			continue
		}
		club, ok := snap.clubs[team.ClubID]
		if !ok {
			e.logger.Warn("club team references unknown club",
				zap.Int64("club_team_id", team.ClubTeamID),
				zap.Int64("club_id", team.ClubID))
			report.TeamsUnmatched++
			continue
		}

		players, err := snap.clubPlayers(ctx, team.ClubTeamID)
		if err != nil {
			return err
		}
		clubJerseys := map[string]struct{}{}
		for _, p := range players {
			if jersey := p.Jersey(); jersey != "" {
				clubJerseys[jersey] = struct{}{}
			}
		}

		link, outcome := e.matcher.Match(team, club, snap.leagueTeams, clubJerseys, snap.jerseysByTeam)
		switch outcome {
		case OutcomeLinked:
			links = append(links, link)
			newLinks[team.ClubTeamID] = link.LeagueTeamID
			report.TeamsMatched++
			report.TeamMethods[team.ClubTeamID] = link.MethodLabel()
			e.logger.Debug("team linked",
				zap.Int64("club_team_id", team.ClubTeamID),
				zap.String("league_team_id", link.LeagueTeamID),
				zap.String("method", link.MethodLabel()))
		case OutcomeSkipped:
			report.TeamsSkipped++
		default:
			report.TeamsUnmatched++
		}
	}

	if !dryRun && len(links) > 0 {
		if err := e.links.ApplyTeamLinks(ctx, links); err != nil {
			return fmt.Errorf("persist team links: %w", err)
		}
	}
	return nil
}

func (e *Engine) runPlayers(ctx context.Context, snap *snapshot, pairs []teamPair, dryRun bool, report *Report, newLinks map[int64]string) error {
	var links []PlayerLink
	for _, pair := range pairs {
		players, err := snap.clubPlayers(ctx, pair.clubTeamID)
		if err != nil {
			return err
		}
		index := BuildJerseyIndex(snap.appearancesByTeam[pair.leagueTeamID])
		teamLinks, unmatched := MatchPlayers(players, index)
		links = append(links, teamLinks...)
		report.PlayersMatched += len(teamLinks)
		report.PlayersUnmatched += unmatched
		for _, l := range teamLinks {
			newLinks[l.ClubPlayerID] = l.LeaguePlayerID
		}
	}

	if !dryRun && len(links) > 0 {
		if err := e.links.ApplyPlayerLinks(ctx, links); err != nil {
			return fmt.Errorf("persist player links: %w", err)
		}
	}
	return nil
}

func (e *Engine) runBackfill(ctx context.Context, snap *snapshot, pairs []teamPair, newPlayerLinks map[int64]string, dryRun bool, report *Report) error {
	// Resolve names for every linked player: links persisted by earlier runs
	// plus links produced this run. Player identity is only ever resolved
	// within linked teams, so the linked pairs cover all of them.
	names := map[string]string{}
	for _, pair := range pairs {
		players, err := snap.clubPlayers(ctx, pair.clubTeamID)
		if err != nil {
			return err
		}
		for _, p := range players {
			name := p.FullName()
			if name == "" {
				continue
			}
			switch {
			case p.Linked():
				names[p.LeaguePlayerID.String] = name
			default:
				if leaguePlayerID, ok := newPlayerLinks[p.ClubPlayerID]; ok {
					names[leaguePlayerID] = name
				}
			}
		}
	}

	if len(names) == 0 {
		return nil
	}

	counts, err := e.names.ApplyNames(ctx, names, dryRun)
	if err != nil {
		return fmt.Errorf("backfill names: %w", err)
	}
	report.NamesBackfilled = counts
	return nil
}
