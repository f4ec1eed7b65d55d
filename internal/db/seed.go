package db

import (
	"errors"

	"gorm.io/gorm"

	"github.com/calidev/iso9001-tracker/internal/models"
)

// Template documents every registered company starts from. Each carries the
// instructional video and the xlsx workbook served on download.
var plantillasDocumentos = []models.DocumentoCapacitacion{
	{Nombre: "Manual de Calidad", ArchivoPlantilla: "manual_calidad.xlsx", VideoURL: "https://www.youtube.com/embed/VIDEO_ID_1"},
	{Nombre: "Política de Calidad", ArchivoPlantilla: "politica_calidad.xlsx", VideoURL: "https://www.youtube.com/embed/VIDEO_ID_2"},
	{Nombre: "Procedimientos Generales", ArchivoPlantilla: "procedimientos.xlsx", VideoURL: "https://www.youtube.com/embed/VIDEO_ID_3"},
	{Nombre: "Registros de Calidad", ArchivoPlantilla: "registros_calidad.xlsx", VideoURL: "https://www.youtube.com/embed/VIDEO_ID_4"},
	{Nombre: "Plan de Capacitación", ArchivoPlantilla: "plan_capacitacion.xlsx", VideoURL: "https://www.youtube.com/embed/VIDEO_ID_5"},
}

// The ISO 9001 numbered clauses seeded into every new audit checklist.
var plantillasChecklist = []models.ChecklistAuditoria{
	{Clausula: "4.1", Descripcion: "Comprensión de la organización y su contexto"},
	{Clausula: "4.2", Descripcion: "Comprensión de las necesidades y expectativas de las partes interesadas"},
	{Clausula: "4.3", Descripcion: "Determinación del alcance del sistema de gestión de la calidad"},
	{Clausula: "4.4", Descripcion: "Sistema de gestión de la calidad y sus procesos"},
	{Clausula: "5.1", Descripcion: "Liderazgo y compromiso"},
	{Clausula: "5.2", Descripcion: "Política"},
	{Clausula: "5.3", Descripcion: "Roles, responsabilidades y autoridades en la organización"},
	{Clausula: "6.1", Descripcion: "Acciones para abordar riesgos y oportunidades"},
	{Clausula: "6.2", Descripcion: "Objetivos de la calidad y planificación para lograrlos"},
	{Clausula: "6.3", Descripcion: "Planificación de los cambios"},
	{Clausula: "7.1", Descripcion: "Recursos"},
	{Clausula: "7.2", Descripcion: "Competencia"},
	{Clausula: "7.3", Descripcion: "Toma de conciencia"},
	{Clausula: "7.4", Descripcion: "Comunicación"},
	{Clausula: "7.5", Descripcion: "Información documentada"},
	{Clausula: "8.1", Descripcion: "Planificación y control operacional"},
	{Clausula: "8.2", Descripcion: "Requisitos para los productos y servicios"},
	{Clausula: "8.3", Descripcion: "Diseño y desarrollo de los productos y servicios"},
	{Clausula: "8.4", Descripcion: "Control de los procesos, productos y servicios suministrados externamente"},
	{Clausula: "8.5", Descripcion: "Producción y provisión del servicio"},
	{Clausula: "8.6", Descripcion: "Liberación de los productos y servicios"},
	{Clausula: "8.7", Descripcion: "Control de las salidas no conformes"},
	{Clausula: "9.1", Descripcion: "Seguimiento, medición, análisis y evaluación"},
	{Clausula: "9.2", Descripcion: "Auditoría interna"},
	{Clausula: "9.3", Descripcion: "Revisión por la dirección"},
	{Clausula: "10.1", Descripcion: "No conformidad y acción correctiva"},
	{Clausula: "10.2", Descripcion: "Mejora continua"},
	{Clausula: "10.3", Descripcion: "Mejora continua"},
}

// SeedTemplates inserts the ownerless template rows if they are missing.
// Idempotent: matched by nombre / clausula, never duplicated.
func SeedTemplates(db *gorm.DB) error {
	for _, doc := range plantillasDocumentos {
		var existing models.DocumentoCapacitacion
		err := db.Where("nombre = ? AND empresa_id IS NULL", doc.Nombre).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			d := doc
			if err := db.Create(&d).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	for _, item := range plantillasChecklist {
		var existing models.ChecklistAuditoria
		err := db.Where("clausula = ? AND descripcion = ? AND auditoria_id IS NULL", item.Clausula, item.Descripcion).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			it := item
			if err := db.Create(&it).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}

// TemplateDocuments returns a copy of the seeded training templates, used
// to generate the downloadable workbooks at startup.
func TemplateDocuments() []models.DocumentoCapacitacion {
	out := make([]models.DocumentoCapacitacion, len(plantillasDocumentos))
	copy(out, plantillasDocumentos)
	return out
}
