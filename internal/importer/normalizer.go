package importer

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	"farm-crm/internal/models"
)

// Years outside this window are county-export garbage, not data.
const (
	minPlausibleYear = 1900
	maxPlausibleYear = 2030
)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"2006-01-02T15:04:05Z07:00",
	"Jan 2, 2006",
	"20060102",
}

// NormalizeRow turns one raw CSV row into a CanonicalProperty. Returns false
// when the row carries no usable address, the one field the system cannot do
// without. Everything else degrades to null rather than failing.
func NormalizeRow(row []string, m FieldMapping, cfg ClassifierConfig) (*models.CanonicalProperty, bool) {
	addr := m.Address(row)
	if addr == "" {
		return nil, false
	}

	p := &models.CanonicalProperty{
		Address:           addr,
		NormalizedAddress: NormalizeAddress(addr),
		Owner:             m.Owner(row),
		Tags:              []string{},
	}

	if v, ok := m.Get(row, FieldMailingAddress); ok {
		p.MailingAddress = v
	}
	if v, ok := m.Get(row, FieldCity); ok {
		p.City = v
	}
	if v, ok := m.Get(row, FieldState); ok {
		p.State = strings.ToUpper(v)
	}
	if v, ok := m.Get(row, FieldZip); ok {
		p.Zip = v
	}

	if v, ok := m.Get(row, FieldLatitude); ok {
		p.Latitude = parseCoordinate(v)
	}
	if v, ok := m.Get(row, FieldLongitude); ok {
		p.Longitude = parseCoordinate(v)
	}

	if v, ok := m.Get(row, FieldBedrooms); ok {
		p.Bedrooms = parsePositiveInt(v)
	}
	if v, ok := m.Get(row, FieldBathrooms); ok {
		p.Bathrooms = parsePositiveFloat(v)
	}
	if v, ok := m.Get(row, FieldSquareFeet); ok {
		p.SquareFeet = parsePositiveInt(v)
	}
	if v, ok := m.Get(row, FieldLotSize); ok {
		p.LotSize = parsePositiveFloat(v)
	}
	if v, ok := m.Get(row, FieldUnits); ok {
		p.NumberOfUnits = parsePositiveInt(v)
	}
	if v, ok := m.Get(row, FieldYearBuilt); ok {
		if y := parsePositiveInt(v); y != nil && *y >= minPlausibleYear && *y <= maxPlausibleYear {
			p.YearBuilt = y
		}
	}
	if v, ok := m.Get(row, FieldPurchasePrice); ok {
		p.PurchasePrice = parsePositiveFloat(v)
	}
	if v, ok := m.Get(row, FieldPurchaseDate); ok {
		p.PurchaseDate = parseDate(v)
	}
	if v, ok := m.Get(row, FieldVacant); ok {
		p.IsVacant = parseBool(v)
	}

	rawType, _ := m.Get(row, FieldPropertyType)
	p.PropertyType = ClassifyType(p, rawType, cfg)
	p.IsAbsentee = ClassifyOccupancy(m, row)

	if apn, ok := m.Get(row, FieldAPN); ok {
		p.ParcelID = apn
	} else {
		p.ParcelID = syntheticParcelID(p.NormalizedAddress)
		p.SyntheticID = true
	}

	return p, true
}

// syntheticParcelID derives a stable stand-in id from the normalized address.
// Same address on every run yields the same id, so re-imports of APN-less
// files still dedup against themselves.
func syntheticParcelID(normalizedAddr string) string {
	h := fnv.New64a()
	h.Write([]byte(normalizedAddr))
	return fmt.Sprintf("ADDR-%016x", h.Sum64())
}

// parsePositiveInt applies the positive-or-null rule: unparseable or negative
// values become nil, never zero and never an error.
func parsePositiveInt(v string) *int64 {
	n, err := strconv.ParseInt(cleanNumeric(v), 10, 64)
	if err != nil || n < 0 {
		// Some exports write bed/bath counts as "3.0".
		if f := parsePositiveFloat(v); f != nil {
			n := int64(*f)
			return &n
		}
		return nil
	}
	return &n
}

// parsePositiveFloat applies the positive-or-null rule for fractional fields.
func parsePositiveFloat(v string) *float64 {
	f, err := strconv.ParseFloat(cleanNumeric(v), 64)
	if err != nil || f < 0 {
		return nil
	}
	return &f
}

// parseCoordinate allows negative values (western longitudes) but rejects
// garbage and the (0,0) null-island sentinel.
func parseCoordinate(v string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f == 0 {
		return nil
	}
	return &f
}

// cleanNumeric strips currency formatting so "$1,200" parses.
func cleanNumeric(v string) string {
	v = strings.TrimSpace(v)
	v = strings.ReplaceAll(v, "$", "")
	v = strings.ReplaceAll(v, ",", "")
	return v
}

// parseDate returns a real calendar date within the plausible window, or nil.
// Sentinel "empty" dates like 0000-00-00 fail time.Parse and land on nil too.
func parseDate(v string) *time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, v)
		if err != nil {
			continue
		}
		if t.Year() < minPlausibleYear || t.Year() > maxPlausibleYear {
			return nil
		}
		return &t
	}
	return nil
}
