package reconciliation

import (
	"regexp"
	"strings"
)

// AgeCode is a canonical age-group code such as "U10" or "U14".
type AgeCode string

// ageAlias maps one free-text age label to its canonical code. The table is
// ordered longest-label first so that "midget major" wins over "midget".
type ageAlias struct {
	Label string
	Code  AgeCode
}

// ageAliasTable covers the traditional USA Hockey age names alongside the
// U-number forms. Labels that match nothing here (learn-to-play, clinics,
// adult programs) normalize to nothing and are excluded from matching.
var ageAliasTable = []ageAlias{
	{"midget minor", "U16"},
	{"midget major", "U18"},
	{"mini mite", "U6"},
	{"pee wee", "U12"},
	{"pee-wee", "U12"},
	{"peewee", "U12"},
	{"squirt", "U10"},
	{"bantam", "U14"},
	{"midget", "U16"},
	{"mite", "U8"},
}

var (
	uAgePattern      = regexp.MustCompile(`^u(\d{1,2})$`)
	reverseUPattern  = regexp.MustCompile(`^(\d{1,2})u$`)
	embeddedUPattern = regexp.MustCompile(`\bu(\d{1,2})\b|\b(\d{1,2})u\b`)
)

// NormalizeAge maps a free-text age-group label to a canonical code.
// It returns ok=false for labels that do not denote a competitive age
// bracket; callers must exclude such teams from matching rather than treat
// the result as an error.
func NormalizeAge(label string) (AgeCode, bool) {
	s := strings.ToLower(strings.TrimSpace(label))
	if s == "" {
		return "", false
	}

	if m := uAgePattern.FindStringSubmatch(s); m != nil {
		return AgeCode("U" + strings.TrimLeft(m[1], "0")), true
	}
	if m := reverseUPattern.FindStringSubmatch(s); m != nil {
		return AgeCode("U" + strings.TrimLeft(m[1], "0")), true
	}

	for _, alias := range ageAliasTable {
		if strings.Contains(s, alias.Label) {
			return alias.Code, true
		}
	}

	// Labels like "Midget 16U" or "U12 Travel" carry the code inline.
	if m := embeddedUPattern.FindStringSubmatch(s); m != nil {
		digits := m[1]
		if digits == "" {
			digits = m[2]
		}
		return AgeCode("U" + strings.TrimLeft(digits, "0")), true
	}

	return "", false
}

// Division is the parsed form of a league division name.
// An unparseable name yields the zero Division, which can never satisfy an
// age-based match.
type Division struct {
	Age   AgeCode
	Level string
	Tier  string
	Girls bool
}

// Parsed reports whether the division name matched the league grammar.
func (d Division) Parsed() bool {
	return d.Age != ""
}

var (
	// <AgeCode><Level>[ - <Tier>], e.g. "U12C - SILVER" or "U14A"
	boysDivisionPattern = regexp.MustCompile(`^U(\d{1,2})([A-Z]{1,3})?(?:\s*-\s*(.+))?$`)
	// G<AgeCode>[ - <Tier>], girls' divisions carry no level letter
	girlsDivisionPattern = regexp.MustCompile(`^GU(\d{1,2})(?:\s*-\s*(.+))?$`)
)

// ParseLeagueDivision parses a league division name into its age, level, and
// tier components. Names outside the grammar (e.g. "High School - Varsity")
// parse to the zero Division.
func ParseLeagueDivision(divisionName string) Division {
	s := strings.ToUpper(strings.TrimSpace(divisionName))
	if s == "" {
		return Division{}
	}

	if m := girlsDivisionPattern.FindStringSubmatch(s); m != nil {
		return Division{
			Age:   AgeCode("U" + strings.TrimLeft(m[1], "0")),
			Tier:  strings.TrimSpace(m[2]),
			Girls: true,
		}
	}

	if m := boysDivisionPattern.FindStringSubmatch(s); m != nil {
		return Division{
			Age:   AgeCode("U" + strings.TrimLeft(m[1], "0")),
			Level: strings.TrimSpace(m[2]),
			Tier:  strings.TrimSpace(m[3]),
		}
	}

	return Division{}
}

var trailingDigits = regexp.MustCompile(`\d+$`)

// baseLevel strips trailing digits from a club division level so that club
// sub-levels like "B1" and "B2" compare equal to the league's "B".
func baseLevel(level string) string {
	return strings.ToUpper(trailingDigits.ReplaceAllString(strings.TrimSpace(level), ""))
}

// levelsCompatible reports whether a club level and a league division level
// can belong to the same team. A missing level on either side is compatible
// with anything.
func levelsCompatible(clubLevel, leagueLevel string) bool {
	if strings.TrimSpace(clubLevel) == "" || strings.TrimSpace(leagueLevel) == "" {
		return true
	}
	return baseLevel(clubLevel) == strings.ToUpper(strings.TrimSpace(leagueLevel))
}
