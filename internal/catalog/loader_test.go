// internal/catalog/loader_test.go
package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"mcp-diet-calc/internal/models"
	"mcp-diet-calc/internal/storage"
)

const sampleJSON = `{
  "cereales": [
    { "id": "c1", "nombre": "Arroz cocido", "porcion": "3/4 taza" },
    { "id": "c2", "nombre": " Pan ", "porcion": "1/2 unidad" }
  ],
  "frutas": [
    { "id": "f1", "nombre": "Manzana", "porcion": "1 unidad" }
  ]
}`

const sampleYAML = `
cereales:
  - id: c1
    nombre: Arroz cocido
    porcion: 3/4 taza
  - id: c2
    nombre: Pan
    porcion: 1/2 unidad
frutas:
  - id: f1
    nombre: Manzana
    porcion: 1 unidad
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func wantSample() models.FoodCatalog {
	return models.FoodCatalog{
		models.GroupCereals: {
			{ID: "c1", Name: "Arroz cocido", Portion: "3/4 taza", Group: models.GroupCereals},
			{ID: "c2", Name: "Pan", Portion: "1/2 unidad", Group: models.GroupCereals},
		},
		models.GroupFruits: {
			{ID: "f1", Name: "Manzana", Portion: "1 unidad", Group: models.GroupFruits},
		},
	}
}

func TestLoadSources(t *testing.T) {
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "foods.db")
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStorage: %v", err)
	}
	if err := store.SaveCatalog(wantSample()); err != nil {
		t.Fatalf("SaveCatalog: %v", err)
	}
	store.Close()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleJSON))
	}))
	defer ts.Close()

	sources := map[string]string{
		"json":   writeFile(t, "alimentos.json", sampleJSON),
		"yaml":   writeFile(t, "alimentos.yaml", sampleYAML),
		"sqlite": dbPath,
		"http":   ts.URL + "/data/alimentos.json",
	}

	for name, source := range sources {
		t.Run(name, func(t *testing.T) {
			got, err := Load(ctx, source)
			if err != nil {
				t.Fatalf("Load(%s): %v", source, err)
			}
			if !reflect.DeepEqual(got, wantSample()) {
				t.Errorf("Load(%s) = %+v, want %+v", source, got, wantSample())
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer ts.Close()

	sources := map[string]string{
		"empty source":     "",
		"missing file":     filepath.Join(t.TempDir(), "nope.json"),
		"missing store":    filepath.Join(t.TempDir(), "nope.db"),
		"bad json":         writeFile(t, "bad.json", `{"cereales": [`),
		"bad yaml":         writeFile(t, "bad.yaml", "cereales: [\n  - id: ["),
		"unsupported kind": writeFile(t, "foods.csv", "id,nombre"),
		"http error":       ts.URL,
	}

	for name, source := range sources {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(ctx, source); err == nil {
				t.Errorf("Load(%q) expected error", source)
			}
			if got := LoadOrEmpty(ctx, source); got == nil || len(got) != 0 {
				t.Errorf("LoadOrEmpty(%q) = %v, want empty catalog", source, got)
			}
		})
	}
}

func TestDecodeDropsInvalidEntries(t *testing.T) {
	data := []byte(`{
	  "cereales": [
	    { "id": "c1", "nombre": "Arroz" },
	    { "id": "", "nombre": "Sin id" },
	    { "id": "c1", "nombre": "Arroz repetido" },
	    { "id": " c2 ", "nombre": "Pan" }
	  ],
	  "postres": [ { "id": "x1", "nombre": "Torta" } ],
	  "Frutas": [ { "id": "f1", "nombre": "Manzana" } ]
	}`)

	got, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}

	if _, ok := got["postres"]; ok {
		t.Error("unknown group was kept")
	}
	cereals := got[models.GroupCereals]
	if len(cereals) != 2 || cereals[0].Name != "Arroz" || cereals[1].ID != "c2" {
		t.Errorf("cereales = %+v", cereals)
	}
	if len(got[models.GroupFruits]) != 1 {
		t.Errorf("frutas = %+v, want 1 item", got[models.GroupFruits])
	}
	if Count(got) != 3 {
		t.Errorf("Count = %d, want 3", Count(got))
	}
}

func TestFind(t *testing.T) {
	c := wantSample()

	item, ok := Find(c, "f1")
	if !ok || item.Name != "Manzana" || item.Group != models.GroupFruits {
		t.Errorf("Find(f1) = %+v, %v", item, ok)
	}
	if _, ok := Find(c, "zz"); ok {
		t.Error("Find(zz) should miss")
	}
}

func TestBundledCatalog(t *testing.T) {
	got, err := Load(context.Background(), filepath.Join("..", "..", "data", "alimentos.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, g := range models.GroupKeys {
		if len(got[g]) == 0 {
			t.Errorf("bundled catalog has no foods for %s", g)
		}
	}
}

func TestDecodeMergesCaseVariantsInOrder(t *testing.T) {
	data := []byte(`{
	  "cereales": [ { "id": "c2", "nombre": "Pan" }, { "id": "c1", "nombre": "Arroz repetido" } ],
	  "Cereales": [ { "id": "c1", "nombre": "Arroz" } ],
	  " CEREALES ": [ { "id": "c3", "nombre": "Avena" } ]
	}`)

	want := []string{"c3", "c1", "c2"}
	for i := 0; i < 20; i++ {
		got, err := DecodeJSON(data)
		if err != nil {
			t.Fatalf("DecodeJSON: %v", err)
		}
		cereals := got[models.GroupCereals]
		ids := make([]string, 0, len(cereals))
		for _, item := range cereals {
			ids = append(ids, item.ID)
		}
		if !reflect.DeepEqual(ids, want) {
			t.Fatalf("run %d: ids = %v, want %v", i, ids, want)
		}
		if cereals[1].Name != "Arroz" {
			t.Fatalf("run %d: c1 = %+v, want the first spelling kept", i, cereals[1])
		}
	}
}
