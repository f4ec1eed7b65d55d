package models

import "time"

// Empresa is the single registered company this installation tracks.
// The NIT doubles as the login credential, hence the unique index.
type Empresa struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	RazonSocial        string    `gorm:"not null;index" json:"razon_social"`
	NIT                string    `gorm:"uniqueIndex;not null" json:"nit"`
	RepresentanteLegal string    `gorm:"not null" json:"representante_legal"`
	TipoEmpresa        string    `gorm:"not null" json:"tipo_empresa"`
	Direccion          string    `gorm:"not null" json:"direccion"`
	Telefono           string    `gorm:"not null" json:"telefono"`
	NumeroEmpleados    int       `gorm:"not null" json:"numero_empleados"`
	Email              string    `gorm:"not null" json:"email"`
	Web                string    `json:"web,omitempty"`
	FechaRegistro      time.Time `gorm:"autoCreateTime" json:"fecha_registro"`
}

func (Empresa) TableName() string { return "empresas" }

// EmpresaResumen is the minimal identity projection returned on login
// and in the company picker list.
type EmpresaResumen struct {
	ID          uint   `json:"id"`
	RazonSocial string `json:"razon_social"`
	NIT         string `json:"nit"`
}
