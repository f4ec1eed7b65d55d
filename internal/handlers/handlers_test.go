package handlers

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/calidev/iso9001-tracker/internal/db"
	"github.com/calidev/iso9001-tracker/internal/models"
	"github.com/calidev/iso9001-tracker/internal/services"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	d, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(d); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.SeedTemplates(d); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return d
}

// registerEmpresa creates a company through the service so its documents are
// seeded the same way the registration endpoint seeds them.
func registerEmpresa(t *testing.T, d *gorm.DB, nit string) *models.Empresa {
	t.Helper()
	svc := services.NewRegistryService(d)
	empresa, _, err := svc.Register(services.RegistroInput{
		RazonSocial:        "Aceros del Norte SAS",
		NIT:                nit,
		RepresentanteLegal: "María Pérez",
		TipoEmpresa:        "Manufactura",
		Direccion:          "Calle 10 # 5-20",
		Telefono:           "6015550101",
		NumeroEmpleados:    40,
		Email:              "calidad@acerosdelnorte.co",
	})
	if err != nil {
		t.Fatalf("register empresa: %v", err)
	}
	return empresa
}
