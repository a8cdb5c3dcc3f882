package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"farm-crm/internal/models"
)

const dateFormat = "2006-01-02"

// propertyRow is the scan target for the properties table; tags and
// purchase_date need conversion to and from their model forms.
type propertyRow struct {
	models.CanonicalProperty
	PurchaseDateRaw *string `db:"purchase_date"`
	TagsRaw         string  `db:"tags"`
}

func (r *propertyRow) toModel() *models.CanonicalProperty {
	p := r.CanonicalProperty
	p.Tags = []string{}
	json.Unmarshal([]byte(r.TagsRaw), &p.Tags)
	if r.PurchaseDateRaw != nil {
		if t, err := time.Parse(dateFormat, *r.PurchaseDateRaw); err == nil {
			p.PurchaseDate = &t
		}
	}
	return &p
}

// UpsertProperty inserts or updates a property keyed by parcel_id. On
// conflict, non-null incoming values overwrite and null ones leave existing
// data alone, so a sparse re-import never erases enriched fields. The single
// statement also serializes concurrent writers per parcel.
func (db *DB) UpsertProperty(p *models.CanonicalProperty) error {
	var purchaseDate *string
	if p.PurchaseDate != nil {
		s := p.PurchaseDate.Format(dateFormat)
		purchaseDate = &s
	}
	tags, err := json.Marshal(p.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	query := `
		INSERT INTO properties (
			parcel_id, synthetic_id, address, normalized_address, mailing_address,
			city, state, zip, owner, latitude, longitude,
			bedrooms, bathrooms, square_feet, lot_size, year_built, number_of_units,
			property_type, is_absentee, is_vacant, purchase_price, purchase_date, tags
		) VALUES (
			?, ?, ?, ?, ?,
			?, ?, ?, ?, ?, ?,
			?, ?, ?, ?, ?, ?,
			?, ?, ?, ?, ?, ?
		)
		ON CONFLICT(parcel_id) DO UPDATE SET
			address = excluded.address,
			normalized_address = excluded.normalized_address,
			mailing_address = COALESCE(NULLIF(excluded.mailing_address, ''), properties.mailing_address),
			city = COALESCE(NULLIF(excluded.city, ''), properties.city),
			state = COALESCE(NULLIF(excluded.state, ''), properties.state),
			zip = COALESCE(NULLIF(excluded.zip, ''), properties.zip),
			owner = COALESCE(NULLIF(excluded.owner, ''), properties.owner),
			latitude = COALESCE(excluded.latitude, properties.latitude),
			longitude = COALESCE(excluded.longitude, properties.longitude),
			bedrooms = COALESCE(excluded.bedrooms, properties.bedrooms),
			bathrooms = COALESCE(excluded.bathrooms, properties.bathrooms),
			square_feet = COALESCE(excluded.square_feet, properties.square_feet),
			lot_size = COALESCE(excluded.lot_size, properties.lot_size),
			year_built = COALESCE(excluded.year_built, properties.year_built),
			number_of_units = COALESCE(excluded.number_of_units, properties.number_of_units),
			property_type = excluded.property_type,
			is_absentee = excluded.is_absentee,
			is_vacant = excluded.is_vacant,
			purchase_price = COALESCE(excluded.purchase_price, properties.purchase_price),
			purchase_date = COALESCE(excluded.purchase_date, properties.purchase_date),
			updated_at = datetime('now')
	`

	_, err = db.Exec(query,
		p.ParcelID, p.SyntheticID, p.Address, p.NormalizedAddress, p.MailingAddress,
		p.City, p.State, p.Zip, p.Owner, p.Latitude, p.Longitude,
		p.Bedrooms, p.Bathrooms, p.SquareFeet, p.LotSize, p.YearBuilt, p.NumberOfUnits,
		p.PropertyType, p.IsAbsentee, p.IsVacant, p.PurchasePrice, purchaseDate, string(tags),
	)
	return err
}

// GetProperty returns the master record for a parcel id, or nil when none exists.
func (db *DB) GetProperty(parcelID string) (*models.CanonicalProperty, error) {
	var row propertyRow
	err := db.Get(&row, `
		SELECT parcel_id, synthetic_id, address, normalized_address,
			COALESCE(mailing_address, '') AS mailing_address,
			COALESCE(city, '') AS city,
			COALESCE(state, '') AS state,
			COALESCE(zip, '') AS zip,
			COALESCE(owner, '') AS owner,
			latitude, longitude, bedrooms, bathrooms, square_feet, lot_size,
			year_built, number_of_units, property_type, is_absentee, is_vacant,
			purchase_price, purchase_date, tags
		FROM properties WHERE parcel_id = ?
	`, parcelID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property %s: %w", parcelID, err)
	}
	return row.toModel(), nil
}

// FindByAddress returns master records whose normalized address contains or
// is contained by the given one. Candidates for the secondary dedup match.
func (db *DB) FindByAddress(normalizedAddr string) ([]models.CanonicalProperty, error) {
	if normalizedAddr == "" {
		return nil, nil
	}

	var rows []propertyRow
	err := db.Select(&rows, `
		SELECT parcel_id, synthetic_id, address, normalized_address,
			COALESCE(mailing_address, '') AS mailing_address,
			COALESCE(city, '') AS city,
			COALESCE(state, '') AS state,
			COALESCE(zip, '') AS zip,
			COALESCE(owner, '') AS owner,
			latitude, longitude, bedrooms, bathrooms, square_feet, lot_size,
			year_built, number_of_units, property_type, is_absentee, is_vacant,
			purchase_price, purchase_date, tags
		FROM properties
		WHERE instr(normalized_address, ?) > 0 OR instr(?, normalized_address) > 0
		ORDER BY parcel_id
	`, normalizedAddr, normalizedAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to search by address: %w", err)
	}

	out := make([]models.CanonicalProperty, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].toModel())
	}
	return out, nil
}

// LinkFarm records farm membership for a parcel. Re-linking an existing
// membership is a no-op: agent annotations (notes, hot flag, visit count) are
// preserved.
func (db *DB) LinkFarm(link models.FarmLink) error {
	_, err := db.Exec(`
		INSERT INTO farm_links (parcel_id, farm, agent, notes, hot, visits)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(parcel_id, farm, agent) DO NOTHING
	`, link.ParcelID, link.Farm, link.Agent, link.Notes, link.Hot, link.Visits)
	return err
}

// UpdateFarmLink explicitly updates the mutable annotation fields of a link.
func (db *DB) UpdateFarmLink(link models.FarmLink) error {
	res, err := db.Exec(`
		UPDATE farm_links SET notes = ?, hot = ?, visits = ?
		WHERE parcel_id = ? AND farm = ? AND agent = ?
	`, link.Notes, link.Hot, link.Visits, link.ParcelID, link.Farm, link.Agent)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no farm link for %s/%s/%s", link.ParcelID, link.Farm, link.Agent)
	}
	return nil
}

// GetFarmLink returns one membership row, or nil when none exists.
func (db *DB) GetFarmLink(parcelID, farm, agent string) (*models.FarmLink, error) {
	var link models.FarmLink
	err := db.Get(&link, `
		SELECT parcel_id, farm, agent, notes, hot, visits
		FROM farm_links WHERE parcel_id = ? AND farm = ? AND agent = ?
	`, parcelID, farm, agent)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// PropertyFilter contains filter parameters for map marker queries.
type PropertyFilter struct {
	PropertyTypes []string
	AbsenteeOnly  bool
	// Map bounds
	SWLat *float64
	SWLng *float64
	NELat *float64
	NELng *float64
	Limit int
}

// ListProperties returns map markers matching the given filters.
func (db *DB) ListProperties(f PropertyFilter) ([]models.PropertyListItem, error) {
	query := `
		SELECT parcel_id, latitude, longitude,
			address,
			COALESCE(city, '') AS city,
			property_type, is_absentee
		FROM properties
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL
	`
	args := make([]interface{}, 0)

	if len(f.PropertyTypes) > 0 {
		query += " AND property_type IN ("
		for i, pt := range f.PropertyTypes {
			if i > 0 {
				query += ","
			}
			query += "?"
			args = append(args, pt)
		}
		query += ")"
	}
	if f.AbsenteeOnly {
		query += " AND is_absentee = 1"
	}
	if f.SWLat != nil && f.SWLng != nil && f.NELat != nil && f.NELng != nil {
		query += " AND latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?"
		args = append(args, *f.SWLat, *f.NELat, *f.SWLng, *f.NELng)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 500
	}
	query += fmt.Sprintf(" ORDER BY parcel_id LIMIT %d", limit)

	var items []models.PropertyListItem
	if err := db.Select(&items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return items, nil
}

// ListFarmProperties returns the full records in one agent's farm.
func (db *DB) ListFarmProperties(farm, agent string) ([]models.CanonicalProperty, error) {
	var rows []propertyRow
	err := db.Select(&rows, `
		SELECT p.parcel_id, p.synthetic_id, p.address, p.normalized_address,
			COALESCE(p.mailing_address, '') AS mailing_address,
			COALESCE(p.city, '') AS city,
			COALESCE(p.state, '') AS state,
			COALESCE(p.zip, '') AS zip,
			COALESCE(p.owner, '') AS owner,
			p.latitude, p.longitude, p.bedrooms, p.bathrooms, p.square_feet, p.lot_size,
			p.year_built, p.number_of_units, p.property_type, p.is_absentee, p.is_vacant,
			p.purchase_price, p.purchase_date, p.tags
		FROM properties p
		JOIN farm_links fl ON fl.parcel_id = p.parcel_id
		WHERE fl.farm = ? AND fl.agent = ?
		ORDER BY p.parcel_id
	`, farm, agent)
	if err != nil {
		return nil, fmt.Errorf("failed to list farm properties: %w", err)
	}

	out := make([]models.CanonicalProperty, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].toModel())
	}
	return out, nil
}

// GetPropertyCount returns total number of properties.
func (db *DB) GetPropertyCount() (int, error) {
	var count int
	err := db.Get(&count, "SELECT COUNT(*) FROM properties")
	return count, err
}

// UpsertEnrichment saves crowd-contributed contact details, keeping existing
// values when the incoming ones are blank.
func (db *DB) UpsertEnrichment(e models.ContactEnrichment) error {
	_, err := db.Exec(`
		INSERT INTO contact_enrichment (parcel_id, phone, email, source)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(parcel_id) DO UPDATE SET
			phone = COALESCE(NULLIF(excluded.phone, ''), contact_enrichment.phone),
			email = COALESCE(NULLIF(excluded.email, ''), contact_enrichment.email),
			source = COALESCE(NULLIF(excluded.source, ''), contact_enrichment.source),
			updated_at = datetime('now')
	`, e.ParcelID, e.Phone, e.Email, e.Source)
	return err
}

// GetEnrichment returns contact details for a parcel, or nil when none exist.
func (db *DB) GetEnrichment(parcelID string) (*models.ContactEnrichment, error) {
	var e models.ContactEnrichment
	err := db.Get(&e, `
		SELECT parcel_id,
			COALESCE(phone, '') AS phone,
			COALESCE(email, '') AS email,
			COALESCE(source, '') AS source
		FROM contact_enrichment WHERE parcel_id = ?
	`, parcelID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
