package reconciliation

import "strings"

// PatternConfig holds the data tables that drive name-pattern generation.
// Both tables are configuration rather than code: league operators extend
// them as new clubs expose new generic suffixes or collision-prone nicknames.
type PatternConfig struct {
	// GenericSuffixes are organizational suffixes stripped from club display
	// names before deriving patterns, checked in order.
	GenericSuffixes []string

	// DenyWords are nicknames too generic to stand alone as a pattern; a
	// club whose core name ends in one of these still matches on its full
	// core name, just never on the bare nickname.
	DenyWords []string
}

// DefaultPatternConfig returns the production suffix and deny tables.
func DefaultPatternConfig() PatternConfig {
	return PatternConfig{
		GenericSuffixes: []string{
			"youth hockey association",
			"hockey association",
			"hockey league",
			"youth hockey",
			"hockey club",
			"hockey",
			"league",
		},
		DenyWords: []string{
			"hawks",
			"eagles",
			"knights",
			"wildcats",
		},
	}
}

func (c PatternConfig) denied(word string) bool {
	for _, deny := range c.DenyWords {
		if word == deny || word == depluralize(deny) {
			return true
		}
	}
	return false
}

// BuildPatterns derives the ranked set of lowercase substrings expected to
// appear in a league team's display name, most specific first. Team matching
// treats any pattern as a substring of the league name, so every exclusion
// here is a precision control: a pattern that is too generic silently causes
// over-matching.
func (c PatternConfig) BuildPatterns(abbreviation, clubName, town string) []string {
	var patterns []string
	add := func(p string) {
		p = strings.TrimSpace(p)
		if p == "" {
			return
		}
		for _, existing := range patterns {
			if existing == p {
				return
			}
		}
		patterns = append(patterns, p)
	}

	// Core name: display name with generic suffixes stripped.
	core := strings.ToLower(strings.TrimSpace(clubName))
	for stripped := true; stripped; {
		stripped = false
		for _, suffix := range c.GenericSuffixes {
			if core != suffix && strings.HasSuffix(core, suffix) {
				core = strings.TrimSpace(strings.TrimSuffix(core, suffix))
				stripped = true
			}
		}
	}
	add(core)
	add(depluralize(core))

	// Last word of a multi-word core, unless the nickname is deny-listed.
	if words := strings.Fields(core); len(words) > 1 {
		last := words[len(words)-1]
		if !c.denied(last) {
			add(last)
			add(depluralize(last))
		}
	}

	add(strings.ToLower(strings.TrimSpace(abbreviation)))

	// Towns are only trustworthy when they are a single token: multi-word
	// region names are shared by several unrelated clubs.
	town = strings.ToLower(strings.TrimSpace(town))
	if town != "" && !strings.ContainsAny(town, " -/") {
		covered := false
		for _, p := range patterns {
			if strings.Contains(p, town) {
				covered = true
				break
			}
		}
		if !covered {
			add(town)
		}
	}

	return patterns
}

// depluralize trims a single trailing "s" ("Mustangs" -> "mustang") while
// leaving words like "express" alone.
func depluralize(s string) string {
	if strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "ss") {
		return strings.TrimSuffix(s, "s")
	}
	return s
}

// containsAnyPattern reports whether the lowercase form of name contains at
// least one of the patterns.
func containsAnyPattern(name string, patterns []string) bool {
	lower := strings.ToLower(name)
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
