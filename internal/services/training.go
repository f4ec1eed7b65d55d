package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/calidev/iso9001-tracker/internal/models"
)

var ErrDocumentoNotFound = errors.New("documento_not_found")

type TrainingService struct{ DB *gorm.DB }

func NewTrainingService(db *gorm.DB) *TrainingService { return &TrainingService{DB: db} }

// DocumentoConVisto is a training document annotated with whether this
// company already watched its video.
type DocumentoConVisto struct {
	ID               uint       `json:"id"`
	Nombre           string     `json:"nombre"`
	ArchivoPlantilla string     `json:"archivo_plantilla,omitempty"`
	ArchivoSubido    string     `json:"archivo_subido,omitempty"`
	VideoURL         string     `gorm:"column:video_url" json:"video_url,omitempty"`
	Estado           string     `json:"estado"`
	FechaSubida      *time.Time `json:"fecha_subida,omitempty"`
	Visto            bool       `json:"visto"`
}

// VideoEstado is the per-document viewed flag for the video checklist.
type VideoEstado struct {
	ID     uint   `json:"id"`
	Nombre string `json:"nombre"`
	Visto  bool   `json:"visto"`
}

func (s *TrainingService) ListDocumentos(empresaID uint) ([]DocumentoConVisto, error) {
	var out []DocumentoConVisto
	err := s.DB.Table("documentos_capacitacion AS dc").
		Select("dc.id, dc.nombre, dc.archivo_plantilla, dc.archivo_subido, dc.video_url, dc.estado, dc.fecha_subida, CASE WHEN vv.id IS NOT NULL THEN 1 ELSE 0 END AS visto").
		Joins("LEFT JOIN videos_vistos vv ON vv.documento_id = dc.id AND vv.empresa_id = ?", empresaID).
		Where("dc.empresa_id = ?", empresaID).
		Order("dc.nombre").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list documentos: %w", err)
	}
	if out == nil {
		out = []DocumentoConVisto{}
	}
	return out, nil
}

func (s *TrainingService) Documento(id uint) (*models.DocumentoCapacitacion, error) {
	var doc models.DocumentoCapacitacion
	if err := s.DB.First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentoNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// MarkUploaded records the stored file on the document row and flips it to
// completed. An id that matches no row still succeeds, affecting nothing.
func (s *TrainingService) MarkUploaded(id uint, archivo string) error {
	now := time.Now()
	return s.DB.Model(&models.DocumentoCapacitacion{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"archivo_subido": archivo,
			"estado":         models.EstadoCompletado,
			"fecha_subida":   now,
		}).Error
}

// ToggleVideo flips the viewed marker for (documento, empresa): inserted if
// absent, deleted if present. The check and the write share one transaction
// and the pair carries a unique index, so racing toggles cannot double-insert.
func (s *TrainingService) ToggleVideo(documentoID, empresaID uint) (bool, error) {
	var marcado bool
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var vv models.VideoVisto
		err := tx.Where("documento_id = ? AND empresa_id = ?", documentoID, empresaID).First(&vv).Error
		switch {
		case err == nil:
			marcado = false
			return tx.Delete(&vv).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			marcado = true
			return tx.Create(&models.VideoVisto{DocumentoID: documentoID, EmpresaID: empresaID}).Error
		default:
			return err
		}
	})
	if err != nil {
		return false, err
	}
	return marcado, nil
}

func (s *TrainingService) VideosEstado(empresaID uint) ([]VideoEstado, error) {
	var out []VideoEstado
	err := s.DB.Table("documentos_capacitacion AS dc").
		Select("dc.id, dc.nombre, CASE WHEN vv.id IS NOT NULL THEN 1 ELSE 0 END AS visto").
		Joins("LEFT JOIN videos_vistos vv ON vv.documento_id = dc.id AND vv.empresa_id = ?", empresaID).
		Where("dc.empresa_id = ?", empresaID).
		Order("dc.nombre").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []VideoEstado{}
	}
	return out, nil
}
