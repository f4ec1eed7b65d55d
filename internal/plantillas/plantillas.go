// Package plantillas generates the downloadable xlsx workbooks the training
// documents reference, so a fresh install serves templates without shipping
// binary assets.
package plantillas

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/calidev/iso9001-tracker/internal/models"
)

// Ensure creates any missing workbook under dir for the given template
// documents. Existing files are left untouched.
func Ensure(dir string, docs []models.DocumentoCapacitacion) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create template dir: %w", err)
	}
	for _, doc := range docs {
		if doc.ArchivoPlantilla == "" {
			continue
		}
		path := filepath.Join(dir, filepath.Base(doc.ArchivoPlantilla))
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := writeWorkbook(path, doc.Nombre); err != nil {
			return fmt.Errorf("generate %s: %w", doc.ArchivoPlantilla, err)
		}
	}
	return nil
}

func writeWorkbook(path, titulo string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	cells := map[string]string{
		"A1": titulo,
		"A3": "Sección",
		"B3": "Descripción",
		"C3": "Responsable",
		"D3": "Fecha",
		"E3": "Evidencia",
	}
	for cell, value := range cells {
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheet, "A3", "E3", style)
	}
	return f.SaveAs(path)
}
