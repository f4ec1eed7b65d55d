package services

import (
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/calidev/iso9001-tracker/internal/models"
)

// ProgressService fans out over documents, videos and audits to build the
// combined dashboard, pending and history views.
type ProgressService struct{ DB *gorm.DB }

func NewProgressService(db *gorm.DB) *ProgressService { return &ProgressService{DB: db} }

type AvanceDocumentos struct {
	Total       int `json:"total"`
	Completados int `json:"completados"`
	Pendientes  int `json:"pendientes"`
	Porcentaje  int `json:"porcentaje"`
}

type AvanceVideos struct {
	Total      int `json:"total"`
	Vistos     int `json:"vistos"`
	Pendientes int `json:"pendientes"`
	Porcentaje int `json:"porcentaje"`
}

type AvanceAuditoria struct {
	TotalItems int `json:"total_items"`
	Cumplidos  int `json:"cumplidos"`
	Pendientes int `json:"pendientes"`
	Porcentaje int `json:"porcentaje"`
}

type AvanceGeneral struct {
	Porcentaje int `json:"porcentaje"`
}

type DashboardEstadisticas struct {
	Documentos AvanceDocumentos `json:"documentos"`
	Videos     AvanceVideos     `json:"videos"`
	Auditoria  AvanceAuditoria  `json:"auditoria"`
	General    AvanceGeneral    `json:"general"`
}

type Dashboard struct {
	Empresa      models.Empresa        `json:"empresa"`
	Estadisticas DashboardEstadisticas `json:"estadisticas"`
}

// Dashboard computes the three module percentages plus their unweighted
// average. The video denominator is the document total: one video per
// seeded document.
func (s *ProgressService) Dashboard(empresaID uint) (*Dashboard, error) {
	var empresa models.Empresa
	if err := s.DB.First(&empresa, empresaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmpresaNotFound
		}
		return nil, err
	}

	var totalDocs, completados int64
	if err := s.DB.Model(&models.DocumentoCapacitacion{}).Where("empresa_id = ?", empresaID).Count(&totalDocs).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.DocumentoCapacitacion{}).Where("empresa_id = ? AND estado = ?", empresaID, models.EstadoCompletado).Count(&completados).Error; err != nil {
		return nil, err
	}

	var vistos int64
	if err := s.DB.Model(&models.VideoVisto{}).Where("empresa_id = ?", empresaID).Count(&vistos).Error; err != nil {
		return nil, err
	}

	var totalItems, cumplidos int64
	if err := s.DB.Table("checklist_auditoria ca").
		Joins("JOIN auditorias a ON a.id = ca.auditoria_id").
		Where("a.empresa_id = ?", empresaID).
		Count(&totalItems).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Table("checklist_auditoria ca").
		Joins("JOIN auditorias a ON a.id = ca.auditoria_id").
		Where("a.empresa_id = ? AND ca.cumple = ?", empresaID, true).
		Count(&cumplidos).Error; err != nil {
		return nil, err
	}

	pDocs := Porcentaje(int(completados), int(totalDocs))
	pVideos := Porcentaje(int(vistos), int(totalDocs))
	pAuditoria := Porcentaje(int(cumplidos), int(totalItems))
	pGeneral := Porcentaje(pDocs+pVideos+pAuditoria, 300)

	return &Dashboard{
		Empresa: empresa,
		Estadisticas: DashboardEstadisticas{
			Documentos: AvanceDocumentos{
				Total:       int(totalDocs),
				Completados: int(completados),
				Pendientes:  int(totalDocs - completados),
				Porcentaje:  pDocs,
			},
			Videos: AvanceVideos{
				Total:      int(totalDocs),
				Vistos:     int(vistos),
				Pendientes: int(totalDocs - vistos),
				Porcentaje: pVideos,
			},
			Auditoria: AvanceAuditoria{
				TotalItems: int(totalItems),
				Cumplidos:  int(cumplidos),
				Pendientes: int(totalItems - cumplidos),
				Porcentaje: pAuditoria,
			},
			General: AvanceGeneral{Porcentaje: pGeneral},
		},
	}, nil
}

type DocumentoPendiente struct {
	Nombre string `json:"nombre"`
	Estado string `json:"estado"`
}

type VideoPendiente struct {
	Nombre string `json:"nombre"`
}

type ItemPendiente struct {
	Clausula    string `json:"clausula"`
	Descripcion string `json:"descripcion"`
}

type Pendientes struct {
	Documentos []DocumentoPendiente `json:"documentos"`
	Videos     []VideoPendiente     `json:"videos"`
	Auditoria  []ItemPendiente      `json:"auditoria"`
}

// Pendientes lists everything still open: pending documents, unwatched
// videos, and the ten most recent non-compliant checklist items.
func (s *ProgressService) Pendientes(empresaID uint) (*Pendientes, error) {
	out := Pendientes{
		Documentos: []DocumentoPendiente{},
		Videos:     []VideoPendiente{},
		Auditoria:  []ItemPendiente{},
	}
	err := s.DB.Model(&models.DocumentoCapacitacion{}).
		Select("nombre, estado").
		Where("empresa_id = ? AND estado = ?", empresaID, models.EstadoPendiente).
		Scan(&out.Documentos).Error
	if err != nil {
		return nil, err
	}
	err = s.DB.Table("documentos_capacitacion dc").
		Select("dc.nombre").
		Joins("LEFT JOIN videos_vistos vv ON vv.documento_id = dc.id AND vv.empresa_id = ?", empresaID).
		Where("dc.empresa_id = ? AND vv.id IS NULL", empresaID).
		Scan(&out.Videos).Error
	if err != nil {
		return nil, err
	}
	err = s.DB.Table("checklist_auditoria ca").
		Select("ca.clausula, ca.descripcion").
		Joins("JOIN auditorias a ON a.id = ca.auditoria_id").
		Where("a.empresa_id = ? AND ca.cumple = ?", empresaID, false).
		Order("a.fecha_auditoria DESC").
		Limit(10).
		Scan(&out.Auditoria).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// HistorialEntry is one progress event; exactly one of the fecha fields is
// set, matching the entry's tipo.
type HistorialEntry struct {
	Tipo           string     `json:"tipo"`
	Nombre         string     `json:"nombre,omitempty"`
	FechaSubida    *time.Time `json:"fecha_subida,omitempty"`
	FechaVisto     *time.Time `json:"fecha_visto,omitempty"`
	FechaAuditoria string     `json:"fecha_auditoria,omitempty"`

	fecha time.Time
}

// Historial merges the 5 most recent uploads, 5 most recent video views and
// 3 most recent audits, sorted together by their own timestamps, top 10.
func (s *ProgressService) Historial(empresaID uint) ([]HistorialEntry, error) {
	historial := []HistorialEntry{}

	var docs []models.DocumentoCapacitacion
	err := s.DB.Where("empresa_id = ? AND estado = ? AND fecha_subida IS NOT NULL", empresaID, models.EstadoCompletado).
		Order("fecha_subida DESC").
		Limit(5).
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		historial = append(historial, HistorialEntry{
			Tipo:        "documento",
			Nombre:      d.Nombre,
			FechaSubida: d.FechaSubida,
			fecha:       *d.FechaSubida,
		})
	}

	type videoRow struct {
		Nombre     string
		FechaVisto time.Time
	}
	var videos []videoRow
	err = s.DB.Table("videos_vistos vv").
		Select("dc.nombre, vv.fecha_visto").
		Joins("JOIN documentos_capacitacion dc ON dc.id = vv.documento_id").
		Where("vv.empresa_id = ?", empresaID).
		Order("vv.fecha_visto DESC").
		Limit(5).
		Scan(&videos).Error
	if err != nil {
		return nil, err
	}
	for _, v := range videos {
		fecha := v.FechaVisto
		historial = append(historial, HistorialEntry{
			Tipo:       "video",
			Nombre:     v.Nombre,
			FechaVisto: &fecha,
			fecha:      fecha,
		})
	}

	var auditorias []models.Auditoria
	err = s.DB.Where("empresa_id = ?", empresaID).
		Order("fecha_auditoria DESC").
		Limit(3).
		Find(&auditorias).Error
	if err != nil {
		return nil, err
	}
	for _, a := range auditorias {
		fecha, perr := time.Parse("2006-01-02", a.FechaAuditoria)
		if perr != nil {
			fecha = a.FechaCreacion
		}
		historial = append(historial, HistorialEntry{
			Tipo:           "auditoria",
			FechaAuditoria: a.FechaAuditoria,
			fecha:          fecha,
		})
	}

	sort.SliceStable(historial, func(i, j int) bool {
		return historial[i].fecha.After(historial[j].fecha)
	})
	if len(historial) > 10 {
		historial = historial[:10]
	}
	return historial, nil
}
