package store

import (
	"database/sql"
	"strings"
	"time"
)

// Club represents a club organization as discovered by the website scraper.
// Clubs have no stable cross-system identifier; their abbreviation, display
// name, and town feed the name-pattern builder.
type Club struct {
	ClubID       int64          `json:"club_id" db:"club_id"`
	Abbreviation string         `json:"abbreviation" db:"abbreviation"`
	ClubName     string         `json:"club_name" db:"club_name"`
	Town         string         `json:"town" db:"town"`
	WebsiteURL   sql.NullString `json:"website_url,omitempty" db:"website_url"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// ClubTeam is a team scraped from a club website. LeagueTeamID is null until
// the team matcher links it to a league team; once set it is never changed.
type ClubTeam struct {
	ClubTeamID    int64          `json:"club_team_id" db:"club_team_id"`
	ClubID        int64          `json:"club_id" db:"club_id"`
	SeasonID      string         `json:"season_id" db:"season_id"`
	TeamName      string         `json:"team_name" db:"team_name"`
	AgeGroup      string         `json:"age_group" db:"age_group"`
	DivisionLevel sql.NullString `json:"division_level,omitempty" db:"division_level"`
	LeagueTeamID  sql.NullString `json:"league_team_id,omitempty" db:"league_team_id"`
	MatchMethod   sql.NullString `json:"match_method,omitempty" db:"match_method"`
	MatchedAt     sql.NullTime   `json:"matched_at,omitempty" db:"matched_at"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// Linked reports whether the team already carries a league link.
func (t *ClubTeam) Linked() bool {
	return t.LeagueTeamID.Valid
}

// Level returns the trimmed division level text, or "" when unknown.
func (t *ClubTeam) Level() string {
	if !t.DivisionLevel.Valid {
		return ""
	}
	return strings.TrimSpace(t.DivisionLevel.String)
}

// ClubPlayer is a rostered player scraped from a club website.
// LeaguePlayerID carries the same write-once semantics as ClubTeam links.
type ClubPlayer struct {
	ClubPlayerID   int64          `json:"club_player_id" db:"club_player_id"`
	ClubTeamID     int64          `json:"club_team_id" db:"club_team_id"`
	JerseyNumber   sql.NullString `json:"jersey_number,omitempty" db:"jersey_number"`
	FirstName      string         `json:"first_name" db:"first_name"`
	LastName       string         `json:"last_name" db:"last_name"`
	LeaguePlayerID sql.NullString `json:"league_player_id,omitempty" db:"league_player_id"`
	MatchedAt      sql.NullTime   `json:"matched_at,omitempty" db:"matched_at"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// Linked reports whether the player already carries a league link.
func (p *ClubPlayer) Linked() bool {
	return p.LeaguePlayerID.Valid
}

// Jersey returns the player's trimmed jersey number, or "" when unknown.
func (p *ClubPlayer) Jersey() string {
	if !p.JerseyNumber.Valid {
		return ""
	}
	return strings.TrimSpace(p.JerseyNumber.String)
}

// FullName joins the scraped first and last names.
func (p *ClubPlayer) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// LeagueTeam is a team as recorded by the league statistics provider. The
// provider's ids are stable but opaque; DivisionName encodes age, level, and
// tier as structured free text (e.g. "U12C - SILVER").
type LeagueTeam struct {
	LeagueTeamID string    `json:"league_team_id" db:"league_team_id"`
	SeasonID     string    `json:"season_id" db:"season_id"`
	TeamName     string    `json:"team_name" db:"team_name"`
	DivisionName string    `json:"division_name" db:"division_name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// RosterAppearance is one league-side roster row per game appearance. The
// provider anonymizes divisions, so PlayerName is typically blank until the
// backfill propagator fills it. A real player may appear under varying
// jersey numbers across games.
type RosterAppearance struct {
	AppearanceID   int64          `json:"appearance_id" db:"appearance_id"`
	SeasonID       string         `json:"season_id" db:"season_id"`
	LeagueTeamID   string         `json:"league_team_id" db:"league_team_id"`
	LeaguePlayerID string         `json:"league_player_id" db:"league_player_id"`
	GameID         string         `json:"game_id" db:"game_id"`
	JerseyNumber   sql.NullString `json:"jersey_number,omitempty" db:"jersey_number"`
	PlayerName     sql.NullString `json:"player_name,omitempty" db:"player_name"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// Jersey returns the trimmed jersey number for this appearance, or "".
func (a *RosterAppearance) Jersey() string {
	if !a.JerseyNumber.Valid {
		return ""
	}
	return strings.TrimSpace(a.JerseyNumber.String)
}

// Goal is a league-side scoring event. The scorer and up to two assisting
// players are referenced by opaque league player ids; the matching name
// columns are blank in anonymized divisions.
type Goal struct {
	GoalID          int64          `json:"goal_id" db:"goal_id"`
	GameID          string         `json:"game_id" db:"game_id"`
	LeagueTeamID    string         `json:"league_team_id" db:"league_team_id"`
	Period          sql.NullInt32  `json:"period,omitempty" db:"period"`
	ScorerPlayerID  string         `json:"scorer_player_id" db:"scorer_player_id"`
	ScorerName      sql.NullString `json:"scorer_name,omitempty" db:"scorer_name"`
	Assist1PlayerID sql.NullString `json:"assist1_player_id,omitempty" db:"assist1_player_id"`
	Assist1Name     sql.NullString `json:"assist1_name,omitempty" db:"assist1_name"`
	Assist2PlayerID sql.NullString `json:"assist2_player_id,omitempty" db:"assist2_player_id"`
	Assist2Name     sql.NullString `json:"assist2_name,omitempty" db:"assist2_name"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
}

// Penalty is a league-side penalty event referencing one anonymized player.
type Penalty struct {
	PenaltyID      int64          `json:"penalty_id" db:"penalty_id"`
	GameID         string         `json:"game_id" db:"game_id"`
	LeagueTeamID   string         `json:"league_team_id" db:"league_team_id"`
	LeaguePlayerID string         `json:"league_player_id" db:"league_player_id"`
	PlayerName     sql.NullString `json:"player_name,omitempty" db:"player_name"`
	Infraction     string         `json:"infraction" db:"infraction"`
	Minutes        int            `json:"minutes" db:"minutes"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// PlayerSeasonStat is an aggregated per-player stat row produced by the
// downstream aggregation jobs. It carries a name column subject to backfill.
type PlayerSeasonStat struct {
	StatID         int64          `json:"stat_id" db:"stat_id"`
	SeasonID       string         `json:"season_id" db:"season_id"`
	LeagueTeamID   string         `json:"league_team_id" db:"league_team_id"`
	LeaguePlayerID string         `json:"league_player_id" db:"league_player_id"`
	PlayerName     sql.NullString `json:"player_name,omitempty" db:"player_name"`
	GamesPlayed    int            `json:"games_played" db:"games_played"`
	Goals          int            `json:"goals" db:"goals"`
	Assists        int            `json:"assists" db:"assists"`
	Points         int            `json:"points" db:"points"`
	PenaltyMinutes int            `json:"penalty_minutes" db:"penalty_minutes"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// ReconciliationRun is the persisted audit record for one engine run.
type ReconciliationRun struct {
	RunID      string    `json:"run_id" db:"run_id"`
	SeasonID   string    `json:"season_id" db:"season_id"`
	DryRun     bool      `json:"dry_run" db:"dry_run"`
	Report     string    `json:"report" db:"report"`
	StartedAt  time.Time `json:"started_at" db:"started_at"`
	FinishedAt time.Time `json:"finished_at" db:"finished_at"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
