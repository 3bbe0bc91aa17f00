package reconciliation

import (
	"sort"
	"strconv"

	"github.com/fortuna/crossice/internal/store"
)

// PlayerLink is a pending club-to-league player link.
type PlayerLink struct {
	ClubPlayerID   int64  `json:"club_player_id"`
	LeaguePlayerID string `json:"league_player_id"`
}

// BuildJerseyIndex derives a jersey -> league player id index from one
// league team's roster appearances. Each distinct player maps to the jersey
// number it appeared with most often across the season, which absorbs
// jersey-number drift and data-entry typos. Exact vote ties break to the
// numerically lowest jersey so the index is deterministic. A jersey claimed
// by two different players carries no identity signal and is dropped.
func BuildJerseyIndex(appearances []*store.RosterAppearance) map[string]string {
	votes := make(map[string]map[string]int)
	for _, app := range appearances {
		jersey := app.Jersey()
		if jersey == "" {
			continue
		}
		if votes[app.LeaguePlayerID] == nil {
			votes[app.LeaguePlayerID] = make(map[string]int)
		}
		votes[app.LeaguePlayerID][jersey]++
	}

	index := make(map[string]string, len(votes))
	contested := make(map[string]struct{})
	for playerID, counts := range votes {
		jersey := majorityJersey(counts)
		if other, taken := index[jersey]; taken && other != playerID {
			contested[jersey] = struct{}{}
			continue
		}
		index[jersey] = playerID
	}
	for jersey := range contested {
		delete(index, jersey)
	}

	return index
}

// majorityJersey picks the most frequent jersey from a vote count,
// preferring the numerically lowest on an exact tie.
func majorityJersey(counts map[string]int) string {
	jerseys := make([]string, 0, len(counts))
	for j := range counts {
		jerseys = append(jerseys, j)
	}
	sort.Slice(jerseys, func(i, k int) bool { return jerseyLess(jerseys[i], jerseys[k]) })

	best := ""
	bestCount := 0
	for _, j := range jerseys {
		if counts[j] > bestCount {
			best, bestCount = j, counts[j]
		}
	}
	return best
}

// jerseyLess orders jersey strings numerically where possible; numeric
// jerseys sort before non-numeric ones.
func jerseyLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

// MatchPlayers links the unlinked club players of one linked team pair
// against the league team's jersey index. Matching is exact-string on the
// jersey number: team-level matching has already absorbed the identity
// uncertainty, so no fuzzy logic applies here. Players without a jersey
// number, or whose jersey is absent from the index, count as unmatched.
func MatchPlayers(players []*store.ClubPlayer, index map[string]string) (links []PlayerLink, unmatched int) {
	for _, p := range players {
		if p.Linked() {
			continue
		}
		jersey := p.Jersey()
		if jersey == "" {
			unmatched++
			continue
		}
		leaguePlayerID, ok := index[jersey]
		if !ok {
			unmatched++
			continue
		}
		links = append(links, PlayerLink{
			ClubPlayerID:   p.ClubPlayerID,
			LeaguePlayerID: leaguePlayerID,
		})
	}
	return links, unmatched
}
