package reconciliation

import (
	"fmt"

	"github.com/fortuna/crossice/internal/store"
)

// Match methods recorded for audit alongside each team link.
const (
	MethodStructured    = "structured"
	MethodRosterOverlap = "roster_overlap"
)

// Outcome is the terminal state of one club team's matching attempt.
type Outcome string

const (
	// OutcomeLinked means a league team was identified; reached at most once.
	OutcomeLinked Outcome = "linked"
	// OutcomeSkipped means the team's program is non-competitive and was
	// never entered into the candidate pool.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeUnmatched means matching was attempted and failed; never
	// resolved by an arbitrary tie-break.
	OutcomeUnmatched Outcome = "unmatched"
)

// TeamLink is a pending club-to-league team link.
type TeamLink struct {
	ClubTeamID   int64   `json:"club_team_id"`
	LeagueTeamID string  `json:"league_team_id"`
	Method       string  `json:"method"`
	Score        float64 `json:"score,omitempty"`
}

// MethodLabel renders the audit label persisted with the link, e.g.
// "structured" or "roster_overlap(0.83)".
func (l TeamLink) MethodLabel() string {
	if l.Method == MethodRosterOverlap {
		return fmt.Sprintf("%s(%.2f)", MethodRosterOverlap, l.Score)
	}
	return l.Method
}

// TeamMatcher links club-scraped teams to league teams. It first applies a
// structured pass over age, name patterns, and level, then falls back to
// jersey-set similarity when the structured pass is ambiguous or empty.
type TeamMatcher struct {
	patterns PatternConfig

	// minJerseys is the minimum number of known club jersey numbers required
	// before the overlap pass is trusted at all.
	minJerseys int

	// overlapThreshold is the minimum accepted Jaccard similarity. Identical
	// rosters typically share 70-90% of numbers even with mid-season churn,
	// while unrelated same-age rosters rarely exceed 30-40% by chance.
	overlapThreshold float64
}

// NewTeamMatcher builds a matcher. Zero-valued knobs fall back to the
// production defaults (3 jerseys, 0.5 similarity).
func NewTeamMatcher(patterns PatternConfig, minJerseys int, overlapThreshold float64) *TeamMatcher {
	if minJerseys <= 0 {
		minJerseys = 3
	}
	if overlapThreshold <= 0 {
		overlapThreshold = 0.5
	}
	return &TeamMatcher{
		patterns:         patterns,
		minJerseys:       minJerseys,
		overlapThreshold: overlapThreshold,
	}
}

// Match attempts to identify the league team corresponding to one club team.
// clubJerseys is the deduplicated set of the club roster's known jersey
// numbers; leagueJerseys maps league team id to its deduplicated jersey set.
// Teams that are already linked must not be passed in.
func (m *TeamMatcher) Match(
	team *store.ClubTeam,
	club *store.Club,
	leagueTeams []*store.LeagueTeam,
	clubJerseys map[string]struct{},
	leagueJerseys map[string]map[string]struct{},
) (TeamLink, Outcome) {
	age, ok := NormalizeAge(team.AgeGroup)
	if !ok {
		return TeamLink{}, OutcomeSkipped
	}

	patterns := m.patterns.BuildPatterns(club.Abbreviation, club.ClubName, club.Town)

	// Structured pass: age + pattern + level must all agree, and exactly one
	// league team may satisfy them. Ambiguity is never guessed; it falls
	// through to the overlap pass.
	var structured []*store.LeagueTeam
	for _, lt := range leagueTeams {
		div := ParseLeagueDivision(lt.DivisionName)
		if div.Age != age {
			continue
		}
		if !containsAnyPattern(lt.TeamName, patterns) {
			continue
		}
		if !levelsCompatible(team.Level(), div.Level) {
			continue
		}
		structured = append(structured, lt)
	}
	if len(structured) == 1 {
		return TeamLink{
			ClubTeamID:   team.ClubTeamID,
			LeagueTeamID: structured[0].LeagueTeamID,
			Method:       MethodStructured,
		}, OutcomeLinked
	}

	// Roster-overlap pass. Below the jersey floor the signal is too weak.
	if len(clubJerseys) < m.minJerseys {
		return TeamLink{}, OutcomeUnmatched
	}

	var (
		best       *store.LeagueTeam
		bestScore  float64
		tiedAtBest bool
	)
	for _, lt := range leagueTeams {
		div := ParseLeagueDivision(lt.DivisionName)
		if div.Age != age && !containsAnyPattern(lt.TeamName, patterns) {
			continue
		}
		score := jaccard(clubJerseys, leagueJerseys[lt.LeagueTeamID])
		switch {
		case score > bestScore:
			best, bestScore, tiedAtBest = lt, score, false
		case score == bestScore && bestScore > 0:
			tiedAtBest = true
		}
	}

	if best == nil || tiedAtBest || bestScore < m.overlapThreshold {
		return TeamLink{}, OutcomeUnmatched
	}

	return TeamLink{
		ClubTeamID:   team.ClubTeamID,
		LeagueTeamID: best.LeagueTeamID,
		Method:       MethodRosterOverlap,
		Score:        bestScore,
	}, OutcomeLinked
}

// jaccard computes |A intersect B| / |A union B| over two jersey sets.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
