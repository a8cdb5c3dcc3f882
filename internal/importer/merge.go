package importer

import (
	"fmt"
	"strings"

	"farm-crm/internal/models"
)

// MasterStore is the lookup/write capability the merge engine runs against.
// internal/db implements it over SQLite; tests use an in-memory fake.
type MasterStore interface {
	// GetProperty returns the master record for a parcel id, or nil when none exists.
	GetProperty(parcelID string) (*models.CanonicalProperty, error)
	// FindByAddress returns candidate master records whose normalized address
	// contains or is contained by the given normalized address.
	FindByAddress(normalizedAddr string) ([]models.CanonicalProperty, error)
	UpsertProperty(p *models.CanonicalProperty) error
	LinkFarm(link models.FarmLink) error
}

// mergeResult is one reconciled record plus whether it updates an existing
// master entry or creates a new one.
type mergeResult struct {
	record  *models.CanonicalProperty
	updated bool
}

// reconcile matches a batch of normalized records against the master store
// and coalesces matched pairs. It performs lookups only; writes happen after
// declustering so each record is written exactly once.
func reconcile(store MasterStore, batch []*models.CanonicalProperty) ([]mergeResult, error) {
	results := make([]mergeResult, 0, len(batch))
	// In-batch index so two rows for the same parcel collapse before any write.
	pending := make(map[string]int)

	for _, incoming := range batch {
		if idx, ok := pending[incoming.ParcelID]; ok {
			Coalesce(results[idx].record, incoming)
			continue
		}

		existing, err := store.GetProperty(incoming.ParcelID)
		if err != nil {
			return nil, fmt.Errorf("master lookup for %s: %w", incoming.ParcelID, err)
		}

		// Secondary match only when the incoming id is synthetic: a real APN
		// must never merge into a record carrying a different APN.
		if existing == nil && incoming.SyntheticID {
			existing, err = matchByAddress(store, incoming)
			if err != nil {
				return nil, err
			}
		}

		if existing != nil {
			merged := *existing
			Coalesce(&merged, incoming)
			results = append(results, mergeResult{record: &merged, updated: true})
			pending[merged.ParcelID] = len(results) - 1
			if merged.ParcelID != incoming.ParcelID {
				pending[incoming.ParcelID] = len(results) - 1
			}
			continue
		}

		record := *incoming
		results = append(results, mergeResult{record: &record})
		pending[record.ParcelID] = len(results) - 1
	}

	return results, nil
}

func matchByAddress(store MasterStore, incoming *models.CanonicalProperty) (*models.CanonicalProperty, error) {
	if incoming.NormalizedAddress == "" {
		return nil, nil
	}
	candidates, err := store.FindByAddress(incoming.NormalizedAddress)
	if err != nil {
		return nil, fmt.Errorf("address lookup for %q: %w", incoming.NormalizedAddress, err)
	}
	for i := range candidates {
		c := &candidates[i]
		if c.NormalizedAddress == "" {
			continue
		}
		if strings.Contains(c.NormalizedAddress, incoming.NormalizedAddress) ||
			strings.Contains(incoming.NormalizedAddress, c.NormalizedAddress) {
			return c, nil
		}
	}
	return nil, nil
}

// Coalesce merges src into dst: non-null/non-empty incoming fields overwrite,
// absent ones leave existing master values alone. Never destructive.
func Coalesce(dst, src *models.CanonicalProperty) {
	if src.Address != "" {
		dst.Address = src.Address
		dst.NormalizedAddress = src.NormalizedAddress
	}
	if src.MailingAddress != "" {
		dst.MailingAddress = src.MailingAddress
	}
	if src.City != "" {
		dst.City = src.City
	}
	if src.State != "" {
		dst.State = src.State
	}
	if src.Zip != "" {
		dst.Zip = src.Zip
	}
	if src.Owner != "" {
		dst.Owner = src.Owner
	}
	if src.Latitude != nil {
		dst.Latitude = src.Latitude
	}
	if src.Longitude != nil {
		dst.Longitude = src.Longitude
	}
	if src.Bedrooms != nil {
		dst.Bedrooms = src.Bedrooms
	}
	if src.Bathrooms != nil {
		dst.Bathrooms = src.Bathrooms
	}
	if src.SquareFeet != nil {
		dst.SquareFeet = src.SquareFeet
	}
	if src.LotSize != nil {
		dst.LotSize = src.LotSize
	}
	if src.YearBuilt != nil {
		dst.YearBuilt = src.YearBuilt
	}
	if src.NumberOfUnits != nil {
		dst.NumberOfUnits = src.NumberOfUnits
	}
	if src.PropertyType != "" {
		dst.PropertyType = src.PropertyType
	}
	if src.PurchasePrice != nil {
		dst.PurchasePrice = src.PurchasePrice
	}
	if src.PurchaseDate != nil {
		dst.PurchaseDate = src.PurchaseDate
	}
	if src.IsAbsentee {
		dst.IsAbsentee = true
	}
	if src.IsVacant {
		dst.IsVacant = true
	}
}
