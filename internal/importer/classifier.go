package importer

import (
	"regexp"
	"strings"

	"farm-crm/internal/models"
)

// directTypeCodes maps recognized source codes straight to canonical types.
var directTypeCodes = map[string]string{
	"sfr":                     models.TypeSFR,
	"sf":                      models.TypeSFR,
	"single family":           models.TypeSFR,
	"single-family":           models.TypeSFR,
	"single family residence": models.TypeSFR,
	"condo":                   models.TypeCondo,
	"condominium":             models.TypeCondo,
	"townhouse":               models.TypeCondo,
	"townhome":                models.TypeCondo,
	"twnhs":                   models.TypeCondo,
	"multi":                   models.TypeMulti,
	"multi-family":            models.TypeMulti,
	"multifamily":             models.TypeMulti,
	"multi family":            models.TypeMulti,
	"duplex":                  models.TypeMulti,
	"triplex":                 models.TypeMulti,
	"fourplex":                models.TypeMulti,
	"apartment":               models.TypeMulti,
	"apartments":              models.TypeMulti,
	"comm":                    models.TypeComm,
	"commercial":              models.TypeComm,
	"retail":                  models.TypeComm,
	"office":                  models.TypeComm,
	"industrial":              models.TypeComm,
}

// artifactCodes are administrative/tax-district codes county exports put in
// the use-code column. They look like property types but aren't; discard and
// fall through to the heuristics.
var artifactCodes = map[string]bool{
	"rcon": true,
	"rtrw": true,
}

// IsArtifactCode reports whether a lowercased use-code string is a known
// non-property-type artifact.
func IsArtifactCode(code string) bool {
	return artifactCodes[code]
}

// unitMarkerRe matches explicit unit/apartment/suite markers in a street
// address, e.g. "apt 4", "unit 12B", "#301", "suite 210".
var unitMarkerRe = regexp.MustCompile(`(?i)(?:\b(?:unit|apt|apartment|suite|ste)\s*#?\s*\w*\d|#\s*\d)`)

// ClassifyType resolves the canonical property type for a record. rawType is
// the untrimmed source string from the use-code column, if any. Never fails:
// ambiguous input resolves through the ordered heuristics below, ending at SFR.
func ClassifyType(p *models.CanonicalProperty, rawType string, cfg ClassifierConfig) string {
	code := strings.ToLower(strings.TrimSpace(rawType))
	if !IsArtifactCode(code) {
		if t, ok := directTypeCodes[code]; ok {
			return t
		}
	}
	// Artifact and unrecognized codes alike fall through to the heuristics.

	// Strong signals first. A unit count over one means this record is one
	// unit inside a shared building.
	if p.NumberOfUnits != nil && *p.NumberOfUnits > 1 {
		return models.TypeCondo
	}
	if unitMarkerRe.MatchString(p.Address) {
		return models.TypeCondo
	}

	// Size heuristics, weakest last.
	if p.SquareFeet != nil && *p.SquareFeet > cfg.CommercialSqFtMin {
		return models.TypeComm
	}
	if p.Bedrooms != nil && *p.Bedrooms >= cfg.SFRBedroomsMin {
		return models.TypeSFR
	}
	if p.SquareFeet != nil {
		sqft := *p.SquareFeet
		if sqft < cfg.SmallSqFtMax {
			return models.TypeCondo
		}
		if sqft <= cfg.MediumSqFtMax {
			// Medium footprint with no meaningful lot implies attached
			// housing; the small/medium gap falls into this band too.
			if p.LotSize == nil || *p.LotSize <= cfg.NearZeroLotSqFt {
				return models.TypeCondo
			}
			return models.TypeSFR
		}
		return models.TypeSFR
	}

	return models.TypeSFR
}

// ClassifyOccupancy resolves the absentee flag. The polarity depends on the
// header the value came from, not the value itself: "Y" under an
// owner-occupied style header means the owner lives there (not absentee),
// while "Y" under an absentee style header means the opposite. Absent any
// occupancy column, owners are assumed resident.
func ClassifyOccupancy(m FieldMapping, row []string) bool {
	if v, ok := m.Get(row, FieldOwnerOccupied); ok {
		return !parseBool(v)
	}
	if v, ok := m.Get(row, FieldAbsentee); ok {
		return parseBool(v)
	}
	return false
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "y", "yes", "true", "t", "1":
		return true
	}
	return false
}
