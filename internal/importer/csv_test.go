package importer

import (
	"strings"
	"testing"
)

func TestReadCSV_QuotedCommas(t *testing.T) {
	input := "Site Address,Owner\n\"123 Main St, Unit 4\",\"SMITH, JANE\"\n"
	header, rows, skipped, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(header) != 2 || len(rows) != 1 || skipped != 0 {
		t.Fatalf("header=%d rows=%d skipped=%d", len(header), len(rows), skipped)
	}
	if rows[0][0] != "123 Main St, Unit 4" {
		t.Errorf("cell = %q, embedded comma mangled", rows[0][0])
	}
	if rows[0][1] != "SMITH, JANE" {
		t.Errorf("cell = %q", rows[0][1])
	}
}

func TestReadCSV_SkipsBadRows(t *testing.T) {
	input := strings.Join([]string{
		"Site Address,Owner,Beds",
		"1 A St,SMITH,3",
		"2 B St,JONES", // column count mismatch
		" , , ",        // empty row
		"3 C St,LEE,2",
	}, "\n")

	_, rows, skipped, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("rows = %d, want 2", len(rows))
	}
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
}

func TestReadCSV_EmptyFile(t *testing.T) {
	if _, _, _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Error("empty file should error")
	}
}
