package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/calidev/iso9001-tracker/internal/models"
)

func seedEmpresa(t *testing.T, d *gorm.DB) *models.Empresa {
	t.Helper()
	empresa := models.Empresa{RazonSocial: "Textiles SA", NIT: "800000001-1", RepresentanteLegal: "L", TipoEmpresa: "S", Direccion: "C", Telefono: "1", NumeroEmpleados: 3, Email: "a@b.co"}
	require.NoError(t, d.Create(&empresa).Error)
	return &empresa
}

func TestDashboardUnknownEmpresa(t *testing.T) {
	d := openServiceDB(t)
	svc := NewProgressService(d)
	_, err := svc.Dashboard(404)
	assert.ErrorIs(t, err, ErrEmpresaNotFound)
}

func TestHistorialOrdering(t *testing.T) {
	d := openServiceDB(t)
	empresa := seedEmpresa(t, d)

	base := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

	subida := base.Add(2 * time.Hour)
	doc := models.DocumentoCapacitacion{
		Nombre:      "Manual de Calidad",
		Estado:      models.EstadoCompletado,
		FechaSubida: &subida,
		EmpresaID:   &empresa.ID,
	}
	require.NoError(t, d.Create(&doc).Error)

	visto := models.VideoVisto{DocumentoID: doc.ID, EmpresaID: empresa.ID}
	require.NoError(t, d.Create(&visto).Error)
	require.NoError(t, d.Model(&visto).Update("fecha_visto", base.Add(3*time.Hour)).Error)

	auditoria := models.Auditoria{EmpresaID: empresa.ID, FechaAuditoria: "2026-07-02"}
	require.NoError(t, d.Create(&auditoria).Error)

	svc := NewProgressService(d)
	historial, err := svc.Historial(empresa.ID)
	require.NoError(t, err)
	require.Len(t, historial, 3)

	// 2026-07-02 audit > 15:00 video > 14:00 upload
	assert.Equal(t, "auditoria", historial[0].Tipo)
	assert.Equal(t, "video", historial[1].Tipo)
	assert.Equal(t, "documento", historial[2].Tipo)
	assert.Equal(t, "Manual de Calidad", historial[1].Nombre)
}

func TestHistorialAuditFallsBackToCreationDate(t *testing.T) {
	d := openServiceDB(t)
	empresa := seedEmpresa(t, d)

	auditoria := models.Auditoria{EmpresaID: empresa.ID, FechaAuditoria: "no-es-fecha"}
	require.NoError(t, d.Create(&auditoria).Error)

	svc := NewProgressService(d)
	historial, err := svc.Historial(empresa.ID)
	require.NoError(t, err)
	require.Len(t, historial, 1)
	assert.Equal(t, "auditoria", historial[0].Tipo)
	assert.Equal(t, "no-es-fecha", historial[0].FechaAuditoria)
}

func TestPendientesEmptyCompany(t *testing.T) {
	d := openServiceDB(t)
	empresa := seedEmpresa(t, d)

	svc := NewProgressService(d)
	pendientes, err := svc.Pendientes(empresa.ID)
	require.NoError(t, err)
	assert.Empty(t, pendientes.Documentos)
	assert.Empty(t, pendientes.Videos)
	assert.Empty(t, pendientes.Auditoria)
}
