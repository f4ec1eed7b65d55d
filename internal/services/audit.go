package services

import (
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/calidev/iso9001-tracker/internal/models"
)

var ErrAuditoriaNotFound = errors.New("auditoria_not_found")

type AuditService struct{ DB *gorm.DB }

func NewAuditService(db *gorm.DB) *AuditService { return &AuditService{DB: db} }

// AuditoriaConAvance is an audit annotated with its checklist counters.
type AuditoriaConAvance struct {
	ID             uint   `json:"id"`
	FechaAuditoria string `json:"fecha_auditoria"`
	FechaCreacion  string `json:"fecha_creacion"`
	TotalItems     int    `json:"total_items"`
	ItemsCumplidos int    `json:"items_cumplidos"`
}

// Resumen summarizes one audit's compliance state.
type Resumen struct {
	FechaAuditoria         string `json:"fecha_auditoria"`
	TotalItems             int    `json:"total_items"`
	ItemsCumplidos         int    `json:"items_cumplidos"`
	ItemsNoCumplidos       int    `json:"items_no_cumplidos"`
	PorcentajeCumplimiento int    `json:"porcentaje_cumplimiento"`
}

// Estadisticas aggregates checklist compliance across all of a company's audits.
type Estadisticas struct {
	TotalAuditorias      int `json:"total_auditorias"`
	TotalItems           int `json:"total_items"`
	ItemsCumplidos       int `json:"items_cumplidos"`
	PromedioCumplimiento int `json:"promedio_cumplimiento"`
}

// Create inserts the audit and copies every template checklist item into it,
// compliance reset, inside one transaction. Zero templates is not an error:
// the audit simply starts with an empty checklist.
func (s *AuditService) Create(empresaID uint, fechaAuditoria string) (uint, int, error) {
	auditoria := models.Auditoria{EmpresaID: empresaID, FechaAuditoria: fechaAuditoria}
	seeded := 0
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&auditoria).Error; err != nil {
			return err
		}
		var plantillas []models.ChecklistAuditoria
		if err := tx.Where("auditoria_id IS NULL").Find(&plantillas).Error; err != nil {
			return err
		}
		for _, p := range plantillas {
			item := models.ChecklistAuditoria{
				AuditoriaID: &auditoria.ID,
				Clausula:    p.Clausula,
				Descripcion: p.Descripcion,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			seeded++
		}
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("create auditoria: %w", err)
	}
	return auditoria.ID, seeded, nil
}

func (s *AuditService) List(empresaID uint) ([]AuditoriaConAvance, error) {
	var out []AuditoriaConAvance
	err := s.DB.Table("auditorias AS a").
		Select("a.id, a.fecha_auditoria, a.fecha_creacion, COUNT(ca.id) AS total_items, COALESCE(SUM(CASE WHEN ca.cumple THEN 1 ELSE 0 END), 0) AS items_cumplidos").
		Joins("LEFT JOIN checklist_auditoria ca ON ca.auditoria_id = a.id").
		Where("a.empresa_id = ?", empresaID).
		Group("a.id, a.fecha_auditoria, a.fecha_creacion").
		Order("a.fecha_auditoria DESC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []AuditoriaConAvance{}
	}
	return out, nil
}

// Checklist returns the audit's items in lexicographic clause order, the
// order the standard's sections are reviewed in ("10.x" sorts before "4.x").
func (s *AuditService) Checklist(auditoriaID uint) ([]models.ChecklistAuditoria, error) {
	var items []models.ChecklistAuditoria
	err := s.DB.Where("auditoria_id = ?", auditoriaID).
		Order("clausula").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.ChecklistAuditoria{}
	}
	return items, nil
}

// UpdateItem is an unconditional update: a missing id affects zero rows and
// still reports success.
func (s *AuditService) UpdateItem(itemID uint, cumple bool, observaciones string) error {
	return s.DB.Model(&models.ChecklistAuditoria{}).
		Where("id = ?", itemID).
		Updates(map[string]any{"cumple": cumple, "observaciones": observaciones}).Error
}

func (s *AuditService) GetResumen(auditoriaID uint) (*Resumen, error) {
	var auditoria models.Auditoria
	if err := s.DB.First(&auditoria, auditoriaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuditoriaNotFound
		}
		return nil, err
	}
	var total, cumplidos int64
	if err := s.DB.Model(&models.ChecklistAuditoria{}).Where("auditoria_id = ?", auditoriaID).Count(&total).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.ChecklistAuditoria{}).Where("auditoria_id = ? AND cumple = ?", auditoriaID, true).Count(&cumplidos).Error; err != nil {
		return nil, err
	}
	return &Resumen{
		FechaAuditoria:         auditoria.FechaAuditoria,
		TotalItems:             int(total),
		ItemsCumplidos:         int(cumplidos),
		ItemsNoCumplidos:       int(total - cumplidos),
		PorcentajeCumplimiento: Porcentaje(int(cumplidos), int(total)),
	}, nil
}

// Delete removes the checklist rows and the audit row in one transaction.
// Deleting an id that never existed still succeeds.
func (s *AuditService) Delete(auditoriaID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("auditoria_id = ?", auditoriaID).Delete(&models.ChecklistAuditoria{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Auditoria{}, auditoriaID).Error
	})
}

func (s *AuditService) GetEstadisticas(empresaID uint) (*Estadisticas, error) {
	var auditorias int64
	if err := s.DB.Model(&models.Auditoria{}).Where("empresa_id = ?", empresaID).Count(&auditorias).Error; err != nil {
		return nil, err
	}
	var total, cumplidos int64
	if err := s.DB.Table("checklist_auditoria ca").
		Joins("JOIN auditorias a ON a.id = ca.auditoria_id").
		Where("a.empresa_id = ?", empresaID).
		Count(&total).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Table("checklist_auditoria ca").
		Joins("JOIN auditorias a ON a.id = ca.auditoria_id").
		Where("a.empresa_id = ? AND ca.cumple = ?", empresaID, true).
		Count(&cumplidos).Error; err != nil {
		return nil, err
	}
	return &Estadisticas{
		TotalAuditorias:      int(auditorias),
		TotalItems:           int(total),
		ItemsCumplidos:       int(cumplidos),
		PromedioCumplimiento: Porcentaje(int(cumplidos), int(total)),
	}, nil
}

// Porcentaje is the rounded integer percentage, 0 when the total is 0.
func Porcentaje(parte, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(parte) / float64(total) * 100))
}
