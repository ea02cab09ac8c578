package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveVODLanes(t *testing.T) {
	dir := t.TempDir()
	lanes := []VODLaneCatalog{
		{Name: "movies", Movies: []Movie{{ID: "m1", Title: "A", Year: 2020}}},
		{Name: "sports", Series: []Series{{ID: "s1", Title: "B", Seasons: []Season{{Number: 1}}}}},
		{Name: "empty"},
	}
	written, err := SaveVODLanes(dir, lanes)
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 2 {
		t.Fatalf("want 2 non-empty lanes written, got %d: %v", len(written), written)
	}
	if _, ok := written["empty"]; ok {
		t.Fatal("empty lane should not be written")
	}

	raw, err := os.ReadFile(written["movies"])
	if err != nil {
		t.Fatal(err)
	}
	var got laneFile
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Movies) != 1 || got.Movies[0].ID != "m1" {
		t.Fatalf("movies lane round-trip: %+v", got)
	}
}

func TestSaveVODLanes_requiresOutDir(t *testing.T) {
	if _, err := SaveVODLanes("", []VODLaneCatalog{{Name: "x", Movies: []Movie{{ID: "m1"}}}}); err == nil {
		t.Fatal("expected error for empty output directory")
	}
}

func TestSaveVODLanes_noTrailingTempFiles(t *testing.T) {
	dir := t.TempDir()
	lanes := []VODLaneCatalog{{Name: "movies", Movies: []Movie{{ID: "m1"}}}}
	if _, err := SaveVODLanes(dir, lanes); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Fatalf("leftover temp file: %s", e.Name())
		}
	}
}
