package models

import "time"

// Auditoria is one internal audit run against the standard's checklist.
// FechaAuditoria is kept as an ISO date string (YYYY-MM-DD) exactly as
// received from the client; descending string order matches date order.
type Auditoria struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	EmpresaID      uint      `gorm:"not null;index" json:"empresa_id"`
	Empresa        *Empresa  `gorm:"foreignKey:EmpresaID" json:"-"`
	FechaAuditoria string    `gorm:"not null" json:"fecha_auditoria"`
	FechaCreacion  time.Time `gorm:"autoCreateTime" json:"fecha_creacion"`
}

func (Auditoria) TableName() string { return "auditorias" }

// ChecklistAuditoria is one numbered-clause entry of an audit checklist.
// Rows with a nil AuditoriaID are templates copied into every new audit.
type ChecklistAuditoria struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	AuditoriaID   *uint  `gorm:"index" json:"auditoria_id,omitempty"`
	Clausula      string `gorm:"not null" json:"clausula"`
	Descripcion   string `gorm:"not null" json:"descripcion"`
	Cumple        bool   `gorm:"not null;default:false" json:"cumple"`
	Observaciones string `json:"observaciones"`
}

func (ChecklistAuditoria) TableName() string { return "checklist_auditoria" }
