package plantillas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/calidev/iso9001-tracker/internal/models"
)

func TestEnsureGeneratesMissingWorkbooks(t *testing.T) {
	dir := t.TempDir()
	docs := []models.DocumentoCapacitacion{
		{Nombre: "Manual de Calidad", ArchivoPlantilla: "manual_calidad.xlsx"},
		{Nombre: "Sin archivo"},
	}
	if err := Ensure(dir, docs); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "manual_calidad.xlsx")
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open generated workbook: %v", err)
	}
	defer f.Close()

	title, err := f.GetCellValue(f.GetSheetName(0), "A1")
	if err != nil {
		t.Fatal(err)
	}
	if title != "Manual de Calidad" {
		t.Fatalf("unexpected title %q", title)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 workbook got %d", len(entries))
	}
}

func TestEnsureLeavesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manual_calidad.xlsx")
	if err := os.WriteFile(path, []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}

	docs := []models.DocumentoCapacitacion{{Nombre: "Manual de Calidad", ArchivoPlantilla: "manual_calidad.xlsx"}}
	if err := Ensure(dir, docs); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "original" {
		t.Fatal("existing workbook was overwritten")
	}
}
