package importer

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"farm-crm/internal/geo"
	"farm-crm/internal/geocode"
	"farm-crm/internal/models"
)

// Config holds importer settings.
type Config struct {
	Classifier ClassifierConfig
	// Workers shards row normalization; each row is independent.
	Workers int
	// BaseRadius is the decluster spiral base radius in meters.
	BaseRadius float64
	// Geocode fills in coordinates for merged records that lack them.
	// Slow (rate-limited to 1 req/s), off by default.
	Geocode bool
}

// DefaultConfig returns default importer settings.
func DefaultConfig() Config {
	return Config{
		Classifier: DefaultClassifierConfig(),
		Workers:    4,
		BaseRadius: geo.DefaultBaseRadius,
	}
}

// Importer runs CSV batches through the full ingestion pipeline:
// parse, map header, normalize, dedup/merge, decluster, store.
type Importer struct {
	store MasterStore
	geo   *geocode.Client
	cfg   Config
}

// New creates an Importer against a master store.
func New(store MasterStore, cfg Config) *Importer {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Importer{
		store: store,
		geo:   geocode.New(),
		cfg:   cfg,
	}
}

// Run ingests one CSV file. farm and agent, when set, link every imported
// parcel into that agent's farm. Per-row problems are counted, never fatal;
// only a store failure aborts, and records written before it stay written.
func (imp *Importer) Run(ctx context.Context, r io.Reader, farm, agent string) (*models.ImportSummary, []*models.CanonicalProperty, error) {
	summary := &models.ImportSummary{}

	header, rows, skipped, err := ReadCSV(r)
	if err != nil {
		return summary, nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	summary.TotalRows = len(rows) + skipped
	summary.SkippedRows = skipped

	mapping := MapHeader(header)
	log.Printf("Mapped %d of %d columns", len(mapping.columns), len(header))

	normalized := imp.normalizeRows(rows, mapping)
	for _, p := range normalized {
		if p != nil {
			summary.Normalized++
		}
	}
	summary.DroppedNoAddress = len(rows) - summary.Normalized

	batch := make([]*models.CanonicalProperty, 0, summary.Normalized)
	for _, p := range normalized {
		if p != nil {
			batch = append(batch, p)
		}
	}

	results, err := reconcile(imp.store, batch)
	if err != nil {
		return summary, nil, fmt.Errorf("dedup failed: %w", err)
	}

	if imp.cfg.Geocode {
		summary.Geocoded = imp.geocodeMissing(ctx, results)
	}

	declusterResults(results, imp.cfg.BaseRadius)

	records := make([]*models.CanonicalProperty, 0, len(results))
	for _, res := range results {
		if err := imp.store.UpsertProperty(res.record); err != nil {
			// Records already written stay written; report how far we got.
			return summary, records, fmt.Errorf("failed to store %s: %w", res.record.ParcelID, err)
		}
		if res.updated {
			summary.Updated++
		} else {
			summary.Created++
		}
		if farm != "" {
			link := models.FarmLink{ParcelID: res.record.ParcelID, Farm: farm, Agent: agent}
			if err := imp.store.LinkFarm(link); err != nil {
				return summary, records, fmt.Errorf("failed to link %s to farm %s: %w", res.record.ParcelID, farm, err)
			}
		}
		records = append(records, res.record)
	}

	log.Printf("Import complete: %d rows, %d normalized, %d created, %d updated, %d dropped (no address), %d skipped",
		summary.TotalRows, summary.Normalized, summary.Created, summary.Updated,
		summary.DroppedNoAddress, summary.SkippedRows)

	return summary, records, nil
}

// normalizeRows fans row normalization out across workers. Results land in a
// slice indexed by row position, so output order matches input order no
// matter how the work interleaves.
func (imp *Importer) normalizeRows(rows [][]string, mapping FieldMapping) []*models.CanonicalProperty {
	out := make([]*models.CanonicalProperty, len(rows))

	var g errgroup.Group
	g.SetLimit(imp.cfg.Workers)
	for i := range rows {
		g.Go(func() error {
			if p, ok := NormalizeRow(rows[i], mapping, imp.cfg.Classifier); ok {
				out[i] = p
			}
			return nil
		})
	}
	g.Wait()

	return out
}

// geocodeMissing fills coordinates for records that still lack them after the
// merge. Failures just leave the record un-geocoded.
func (imp *Importer) geocodeMissing(ctx context.Context, results []mergeResult) int {
	geocoded := 0
	for _, res := range results {
		p := res.record
		if p.Latitude != nil && p.Longitude != nil {
			continue
		}
		addr := formatAddress(p)
		if addr == "" {
			continue
		}

		lat, lng, err := imp.geo.Geocode(ctx, addr)
		if err != nil {
			log.Printf("Geocoding failed for %s: %v", addr, err)
		} else {
			p.Latitude = &lat
			p.Longitude = &lng
			geocoded++
		}

		// Nominatim rate limit
		select {
		case <-ctx.Done():
			return geocoded
		case <-time.After(1 * time.Second):
		}
	}
	return geocoded
}

// declusterResults spreads records that share a geocoded position. Runs after
// dedup because it needs the whole batch's coordinate distribution.
func declusterResults(results []mergeResult, baseRadius float64) {
	points := make([]geo.Point, 0, len(results))
	indices := make([]int, 0, len(results))
	for i, res := range results {
		if res.record.Latitude != nil && res.record.Longitude != nil {
			points = append(points, geo.Point{Lat: *res.record.Latitude, Lng: *res.record.Longitude})
			indices = append(indices, i)
		}
	}

	moved := geo.Decluster(points, baseRadius)
	for j, idx := range indices {
		lat, lng := moved[j].Lat, moved[j].Lng
		results[idx].record.Latitude = &lat
		results[idx].record.Longitude = &lng
	}
}

func formatAddress(p *models.CanonicalProperty) string {
	addr := p.Address
	if addr == "" {
		return ""
	}
	if p.City != "" {
		addr += ", " + p.City
	}
	if p.State != "" {
		addr += ", " + p.State
	}
	if p.Zip != "" {
		addr += " " + p.Zip
	}
	return addr
}
