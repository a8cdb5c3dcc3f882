package db

import (
	"testing"

	"farm-crm/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }

func TestUpsertProperty_CoalesceWrite(t *testing.T) {
	database := testDB(t)

	err := database.UpsertProperty(&models.CanonicalProperty{
		ParcelID: "431-001", Address: "1 A St", NormalizedAddress: "1 a st",
		PropertyType: models.TypeSFR, Bedrooms: i64(3), Tags: []string{},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Sparse re-import: square feet arrives, bedrooms absent.
	err = database.UpsertProperty(&models.CanonicalProperty{
		ParcelID: "431-001", Address: "1 A St", NormalizedAddress: "1 a st",
		PropertyType: models.TypeSFR, SquareFeet: i64(1200), Tags: []string{},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := database.GetProperty("431-001")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Bedrooms == nil || *got.Bedrooms != 3 {
		t.Errorf("bedrooms = %v, want 3 preserved", got.Bedrooms)
	}
	if got.SquareFeet == nil || *got.SquareFeet != 1200 {
		t.Errorf("squareFeet = %v, want 1200", got.SquareFeet)
	}
}

func TestGetProperty_Missing(t *testing.T) {
	database := testDB(t)
	got, err := database.GetProperty("nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil for missing parcel", got)
	}
}

func TestFindByAddress_Containment(t *testing.T) {
	database := testDB(t)

	err := database.UpsertProperty(&models.CanonicalProperty{
		ParcelID: "431-001", Address: "123 Main St", NormalizedAddress: "123 main st",
		PropertyType: models.TypeSFR, Tags: []string{},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Longer incoming address contains the stored one.
	got, err := database.FindByAddress("123 main st hayward")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 1 || got[0].ParcelID != "431-001" {
		t.Errorf("got %+v, want the Main St record", got)
	}

	got, err = database.FindByAddress("456 oak ave")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d records for unrelated address", len(got))
	}
}

func TestLinkFarm_Idempotent(t *testing.T) {
	database := testDB(t)

	err := database.UpsertProperty(&models.CanonicalProperty{
		ParcelID: "431-001", Address: "1 A St", NormalizedAddress: "1 a st",
		PropertyType: models.TypeSFR, Tags: []string{},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	link := models.FarmLink{ParcelID: "431-001", Farm: "downtown", Agent: "agent1"}
	if err := database.LinkFarm(link); err != nil {
		t.Fatalf("link: %v", err)
	}

	// Agent annotates the link.
	annotated := link
	annotated.Notes = "spoke to owner"
	annotated.Hot = true
	annotated.Visits = 2
	if err := database.UpdateFarmLink(annotated); err != nil {
		t.Fatalf("update link: %v", err)
	}

	// Re-import links again; annotations must survive.
	if err := database.LinkFarm(link); err != nil {
		t.Fatalf("relink: %v", err)
	}

	got, err := database.GetFarmLink("431-001", "downtown", "agent1")
	if err != nil {
		t.Fatalf("get link: %v", err)
	}
	if got == nil {
		t.Fatal("link missing")
	}
	if got.Notes != "spoke to owner" || !got.Hot || got.Visits != 2 {
		t.Errorf("annotations lost on re-link: %+v", got)
	}
}

func TestListFarmProperties(t *testing.T) {
	database := testDB(t)

	for _, id := range []string{"431-001", "431-002", "431-003"} {
		err := database.UpsertProperty(&models.CanonicalProperty{
			ParcelID: id, Address: id + " St", NormalizedAddress: id + " st",
			PropertyType: models.TypeSFR, Tags: []string{},
		})
		if err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}
	for _, id := range []string{"431-001", "431-003"} {
		if err := database.LinkFarm(models.FarmLink{ParcelID: id, Farm: "downtown", Agent: "agent1"}); err != nil {
			t.Fatalf("link %s: %v", id, err)
		}
	}

	got, err := database.ListFarmProperties("downtown", "agent1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d properties, want 2", len(got))
	}
	if got[0].ParcelID != "431-001" || got[1].ParcelID != "431-003" {
		t.Errorf("unexpected members: %s, %s", got[0].ParcelID, got[1].ParcelID)
	}
}

func TestListProperties_BoundsAndType(t *testing.T) {
	database := testDB(t)

	lat, lng := 37.6688, -122.0808
	err := database.UpsertProperty(&models.CanonicalProperty{
		ParcelID: "in-bounds", Address: "1 A St", NormalizedAddress: "1 a st",
		PropertyType: models.TypeCondo, Latitude: &lat, Longitude: &lng, Tags: []string{},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	lat2, lng2 := 40.0, -100.0
	err = database.UpsertProperty(&models.CanonicalProperty{
		ParcelID: "out-of-bounds", Address: "2 B St", NormalizedAddress: "2 b st",
		PropertyType: models.TypeCondo, Latitude: &lat2, Longitude: &lng2, Tags: []string{},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	swLat, swLng, neLat, neLng := 37.0, -123.0, 38.0, -122.0
	got, err := database.ListProperties(PropertyFilter{
		PropertyTypes: []string{models.TypeCondo},
		SWLat:         &swLat, SWLng: &swLng, NELat: &neLat, NELng: &neLng,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ParcelID != "in-bounds" {
		t.Errorf("got %+v, want only the in-bounds condo", got)
	}
}

func TestUpsertEnrichment_KeepsExisting(t *testing.T) {
	database := testDB(t)

	err := database.UpsertProperty(&models.CanonicalProperty{
		ParcelID: "431-001", Address: "1 A St", NormalizedAddress: "1 a st",
		PropertyType: models.TypeSFR, Tags: []string{},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := database.UpsertEnrichment(models.ContactEnrichment{ParcelID: "431-001", Phone: "555-0100"}); err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if err := database.UpsertEnrichment(models.ContactEnrichment{ParcelID: "431-001", Email: "owner@example.com"}); err != nil {
		t.Fatalf("enrich: %v", err)
	}

	got, err := database.GetEnrichment("431-001")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Phone != "555-0100" || got.Email != "owner@example.com" {
		t.Errorf("enrichment lost data: %+v", got)
	}
}
