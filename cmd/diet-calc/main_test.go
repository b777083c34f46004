// cmd/diet-calc/main_test.go
package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"mcp-diet-calc/internal/catalog"
	"mcp-diet-calc/internal/models"
)

func TestImportCatalog(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "alimentos.yaml")
	data := `
carnes:
  - id: m1
    nombre: Pechuga de pollo
    porcion: 50 g
  - id: m2
    nombre: Huevo
    porcion: 1 unidad
aceites:
  - id: a1
    nombre: Aceite de oliva
    porcion: 1 cucharadita
`
	if err := os.WriteFile(source, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	dbPath := filepath.Join(dir, "foods.db")

	ctx := context.Background()
	if err := importCatalog(ctx, source, dbPath); err != nil {
		t.Fatalf("importCatalog: %v", err)
	}

	got, err := catalog.Load(ctx, dbPath)
	if err != nil {
		t.Fatalf("Load(%s): %v", dbPath, err)
	}
	if catalog.Count(got) != 3 {
		t.Errorf("imported %d foods, want 3", catalog.Count(got))
	}
	meats := got[models.GroupMeats]
	if len(meats) != 2 || meats[0].ID != "m1" || meats[1].Name != "Huevo" {
		t.Errorf("carnes = %+v", meats)
	}
}

func TestImportCatalogBadSource(t *testing.T) {
	dir := t.TempDir()
	err := importCatalog(context.Background(), filepath.Join(dir, "missing.json"), filepath.Join(dir, "foods.db"))
	if err == nil {
		t.Error("expected error for missing source")
	}
}
