package importer

import (
	"strings"
)

// Canonical field names. The mapper translates whatever headers a county or
// title-company export uses into these.
const (
	FieldAPN            = "apn"
	FieldAddress        = "address"
	FieldMailingAddress = "mailingAddress"
	FieldCity           = "city"
	FieldState          = "state"
	FieldZip            = "zip"
	FieldOwner          = "owner"
	FieldOwnerFirst     = "ownerFirst"
	FieldOwnerLast      = "ownerLast"
	FieldHouseNumber    = "houseNumber"
	FieldStreetName     = "streetName"
	FieldBedrooms       = "bedrooms"
	FieldBathrooms      = "bathrooms"
	FieldSquareFeet     = "sqft"
	FieldLotSize        = "lotSize"
	FieldYearBuilt      = "yearBuilt"
	FieldUnits          = "units"
	FieldPropertyType   = "propertyType"
	FieldPurchasePrice  = "purchasePrice"
	FieldPurchaseDate   = "purchaseDate"
	FieldVacant         = "vacant"
	FieldAbsentee       = "absentee"
	FieldOwnerOccupied  = "ownerOccupied"
	FieldLatitude       = "latitude"
	FieldLongitude      = "longitude"
)

// fieldAliases pairs a canonical field with its known header spellings in
// priority order. First alias that matches a header cell wins the column.
type fieldAliases struct {
	field   string
	aliases []string
}

var defaultAliases = []fieldAliases{
	{FieldAPN, []string{"apn", "apn/pin", "parcel number", "parcel id", "parcel_id", "parcel", "assessor parcel number", "tax parcel number", "pin"}},
	{FieldAddress, []string{"address", "site address", "situs address", "property address", "street address", "situs", "full address", "property_address"}},
	{FieldMailingAddress, []string{"mailing address", "mail address", "owner address", "owner mailing address", "mailing_address", "tax billing address"}},
	{FieldCity, []string{"city", "site city", "situs city", "property city"}},
	{FieldState, []string{"state", "site state", "situs state", "st"}},
	{FieldZip, []string{"zip", "zip code", "zipcode", "site zip", "situs zip", "postal code"}},
	{FieldOwner, []string{"owner", "owner name", "all owners", "owner 1", "primary owner", "owner_name", "current owner", "taxpayer name"}},
	{FieldOwnerFirst, []string{"owner first name", "first name", "owner 1 first name", "owner first"}},
	{FieldOwnerLast, []string{"owner last name", "last name", "owner 1 last name", "owner last"}},
	{FieldHouseNumber, []string{"house number", "street number", "situs house number", "site house number", "house #", "street #"}},
	{FieldStreetName, []string{"street name", "situs street name", "site street name", "street"}},
	{FieldBedrooms, []string{"bedrooms", "beds", "bed", "br", "number of bedrooms", "total bedrooms"}},
	{FieldBathrooms, []string{"bathrooms", "baths", "bath", "ba", "number of bathrooms", "total baths", "total bathrooms"}},
	{FieldSquareFeet, []string{"square feet", "sqft", "sq ft", "building area", "building sqft", "living area", "living sqft", "gla", "building size"}},
	{FieldLotSize, []string{"lot size", "lot sqft", "lot area", "lot size sqft", "land area", "acreage"}},
	{FieldYearBuilt, []string{"year built", "yr built", "year_built", "effective year built"}},
	{FieldUnits, []string{"units", "number of units", "unit count", "# of units", "total units"}},
	{FieldPropertyType, []string{"property type", "use code", "land use", "property use", "use type", "property_type", "prop type", "zoning"}},
	{FieldPurchasePrice, []string{"purchase price", "sale price", "last sale price", "sale amount", "last sale amount", "price"}},
	{FieldPurchaseDate, []string{"purchase date", "sale date", "last sale date", "recording date", "date sold"}},
	{FieldVacant, []string{"vacant", "is vacant", "vacancy", "vacant flag"}},
	{FieldAbsentee, []string{"absentee", "is absentee", "absentee owner", "is_absentee", "absentee flag"}},
	{FieldOwnerOccupied, []string{"owner occupied", "owner occupied?", "owner-occupied", "occupied by owner", "owner occ"}},
	{FieldLatitude, []string{"latitude", "lat"}},
	{FieldLongitude, []string{"longitude", "lng", "lon", "long"}},
}

// FieldMapping maps canonical field names to column indices for one CSV file.
// A field a file doesn't carry is simply absent; readers get ("", false).
type FieldMapping struct {
	columns map[string]int
	headers []string
}

// MapHeader builds a FieldMapping from a header row. Matching is
// case-insensitive on trimmed cells and never fails: headers nothing matches
// are ignored, fields nothing matches stay unmapped.
func MapHeader(header []string) FieldMapping {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	m := FieldMapping{
		columns: make(map[string]int),
		headers: normalized,
	}

	for _, fa := range defaultAliases {
		for _, alias := range fa.aliases {
			idx := indexOf(normalized, alias)
			if idx >= 0 {
				m.columns[fa.field] = idx
				break
			}
		}
	}

	// Some exports label occupancy with free-form variants like
	// "Owner Occupied Y/N". Catch anything containing both words.
	if _, ok := m.columns[FieldOwnerOccupied]; !ok {
		for i, h := range normalized {
			if strings.Contains(h, "owner") && strings.Contains(h, "occupied") {
				m.columns[FieldOwnerOccupied] = i
				break
			}
		}
	}

	return m
}

func indexOf(headers []string, alias string) int {
	for i, h := range headers {
		if h == alias {
			return i
		}
	}
	return -1
}

// Get extracts the trimmed cell for a canonical field from a data row.
// Returns false when the field is unmapped or the row is too short.
func (m FieldMapping) Get(row []string, field string) (string, bool) {
	idx, ok := m.columns[field]
	if !ok || idx >= len(row) {
		return "", false
	}
	v := strings.TrimSpace(row[idx])
	if v == "" {
		return "", false
	}
	return v, true
}

// Has reports whether a canonical field matched any column.
func (m FieldMapping) Has(field string) bool {
	_, ok := m.columns[field]
	return ok
}

// Address reads the street address, falling back to the composite
// house-number + street-name form some county exports use.
func (m FieldMapping) Address(row []string) string {
	if addr, ok := m.Get(row, FieldAddress); ok {
		return addr
	}
	num, hasNum := m.Get(row, FieldHouseNumber)
	street, hasStreet := m.Get(row, FieldStreetName)
	if hasNum && hasStreet {
		return num + " " + street
	}
	if hasStreet {
		return street
	}
	return ""
}

// Owner reads the owner display name, reconstructing it from separate
// first/last columns when no single owner column matched.
func (m FieldMapping) Owner(row []string) string {
	if owner, ok := m.Get(row, FieldOwner); ok {
		return owner
	}
	first, hasFirst := m.Get(row, FieldOwnerFirst)
	last, hasLast := m.Get(row, FieldOwnerLast)
	switch {
	case hasFirst && hasLast:
		return first + " " + last
	case hasLast:
		return last
	case hasFirst:
		return first
	}
	return ""
}
