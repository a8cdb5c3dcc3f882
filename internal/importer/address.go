package importer

import (
	"strings"
)

// suffixAbbreviations reduce street-suffix words to USPS-style short forms so
// "123 Main Street" and "123 MAIN ST" normalize identically.
var suffixAbbreviations = map[string]string{
	"street":    "st",
	"avenue":    "ave",
	"av":        "ave",
	"boulevard": "blvd",
	"road":      "rd",
	"drive":     "dr",
	"lane":      "ln",
	"court":     "ct",
	"place":     "pl",
	"circle":    "cir",
	"terrace":   "ter",
	"parkway":   "pkwy",
	"highway":   "hwy",
	"north":     "n",
	"south":     "s",
	"east":      "e",
	"west":      "w",
	"apartment": "apt",
	"suite":     "ste",
	"number":    "#",
	"no":        "#",
}

// NormalizeAddress case-folds an address, strips punctuation, collapses
// whitespace and abbreviates suffix words. Used for synthetic parcel ids and
// for the secondary containment match during dedup.
func NormalizeAddress(addr string) string {
	addr = strings.ToLower(strings.TrimSpace(addr))
	if addr == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range addr {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ', r == '#':
			b.WriteRune(r)
		case r == ',', r == '.', r == '-', r == '/':
			b.WriteRune(' ')
		}
	}

	words := strings.Fields(b.String())
	for i, w := range words {
		if abbr, ok := suffixAbbreviations[w]; ok {
			words[i] = abbr
		}
	}
	return strings.Join(words, " ")
}
