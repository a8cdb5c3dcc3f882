package importer

import (
	"testing"
)

func TestMapHeader_AliasPriority(t *testing.T) {
	header := []string{"APN", "Site Address", "Owner Name", "Beds", "Building Area"}
	m := MapHeader(header)

	cases := []struct {
		field string
		idx   int
	}{
		{FieldAPN, 0},
		{FieldAddress, 1},
		{FieldOwner, 2},
		{FieldBedrooms, 3},
		{FieldSquareFeet, 4},
	}
	for _, c := range cases {
		got, ok := m.columns[c.field]
		if !ok {
			t.Errorf("field %s: not mapped", c.field)
			continue
		}
		if got != c.idx {
			t.Errorf("field %s: column = %d, want %d", c.field, got, c.idx)
		}
	}
}

func TestMapHeader_CaseInsensitiveTrimmed(t *testing.T) {
	m := MapHeader([]string{"  SITE ADDRESS  ", "ZIP CODE"})
	if !m.Has(FieldAddress) {
		t.Error("address not mapped from padded upper-case header")
	}
	if !m.Has(FieldZip) {
		t.Error("zip not mapped")
	}
}

func TestMapHeader_UnmatchedFieldsAbsent(t *testing.T) {
	m := MapHeader([]string{"Site Address"})
	if m.Has(FieldBedrooms) {
		t.Error("bedrooms mapped with no matching column")
	}
	if v, ok := m.Get([]string{"123 Main St"}, FieldBedrooms); ok || v != "" {
		t.Errorf("Get on unmapped field = (%q, %v), want (\"\", false)", v, ok)
	}
}

func TestOwner_CompositeFirstLast(t *testing.T) {
	m := MapHeader([]string{"Owner First Name", "Owner Last Name", "Site Address"})
	row := []string{"Jane", "Smith", "123 Main St"}
	if got := m.Owner(row); got != "Jane Smith" {
		t.Errorf("owner = %q, want %q", got, "Jane Smith")
	}
}

func TestOwner_SingleColumnWinsOverComposite(t *testing.T) {
	m := MapHeader([]string{"All Owners", "First Name", "Last Name"})
	row := []string{"SMITH FAMILY TRUST", "Jane", "Smith"}
	if got := m.Owner(row); got != "SMITH FAMILY TRUST" {
		t.Errorf("owner = %q, want the single owner column", got)
	}
}

func TestAddress_CompositeHouseStreet(t *testing.T) {
	m := MapHeader([]string{"House Number", "Street Name", "City"})
	row := []string{"123", "Main St", "Hayward"}
	if got := m.Address(row); got != "123 Main St" {
		t.Errorf("address = %q, want %q", got, "123 Main St")
	}
}

func TestMapHeader_OwnerOccupiedContainsFallback(t *testing.T) {
	m := MapHeader([]string{"Site Address", "Owner Occupied Y/N"})
	if !m.Has(FieldOwnerOccupied) {
		t.Error("free-form owner-occupied header not detected")
	}
}

func TestGet_ShortRow(t *testing.T) {
	m := MapHeader([]string{"Site Address", "Beds"})
	if _, ok := m.Get([]string{"123 Main St"}, FieldBedrooms); ok {
		t.Error("Get past end of short row should report absent")
	}
}
