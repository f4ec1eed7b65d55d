package models

import "time"

// Training document statuses.
const (
	EstadoPendiente  = "pendiente"
	EstadoCompletado = "completado"
)

// DocumentoCapacitacion is a training document. Rows with a nil EmpresaID
// are templates: they are copied into company-owned rows at registration.
type DocumentoCapacitacion struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Nombre           string     `gorm:"not null;index" json:"nombre"`
	ArchivoPlantilla string     `json:"archivo_plantilla,omitempty"`
	ArchivoSubido    string     `json:"archivo_subido,omitempty"`
	VideoURL         string     `gorm:"column:video_url" json:"video_url,omitempty"`
	Estado           string     `gorm:"not null;default:'pendiente'" json:"estado"`
	FechaSubida      *time.Time `json:"fecha_subida,omitempty"`
	EmpresaID        *uint      `gorm:"index" json:"empresa_id,omitempty"`
	Empresa          *Empresa   `gorm:"foreignKey:EmpresaID" json:"-"`
}

func (DocumentoCapacitacion) TableName() string { return "documentos_capacitacion" }

// VideoVisto marks a document's video as watched by a company. The row's
// existence is the sole source of truth; the unique pair index keeps
// concurrent toggles from inserting twice.
type VideoVisto struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	DocumentoID uint      `gorm:"not null;uniqueIndex:idx_video_doc_empresa,priority:1" json:"documento_id"`
	EmpresaID   uint      `gorm:"not null;uniqueIndex:idx_video_doc_empresa,priority:2" json:"empresa_id"`
	FechaVisto  time.Time `gorm:"autoCreateTime" json:"fecha_visto"`
}

func (VideoVisto) TableName() string { return "videos_vistos" }
