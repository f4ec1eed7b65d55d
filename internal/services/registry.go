package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/calidev/iso9001-tracker/internal/models"
)

var (
	ErrNITAlreadyRegistered = errors.New("nit_already_registered")
	ErrEmpresaNotFound      = errors.New("empresa_not_found")
)

// RegistroInput carries the company profile fields from the registration form.
type RegistroInput struct {
	RazonSocial        string
	NIT                string
	RepresentanteLegal string
	TipoEmpresa        string
	Direccion          string
	Telefono           string
	NumeroEmpleados    int
	Email              string
	Web                string
}

// SeedResult reports how many template documents were copied for a new company.
type SeedResult struct {
	DocumentosCreados int
}

type RegistryService struct{ DB *gorm.DB }

func NewRegistryService(db *gorm.DB) *RegistryService { return &RegistryService{DB: db} }

// Register inserts the company and copies every template document into
// company-owned rows, all in one transaction so a failure leaves nothing
// behind. Fails with ErrNITAlreadyRegistered on a duplicate NIT.
func (s *RegistryService) Register(in RegistroInput) (*models.Empresa, SeedResult, error) {
	empresa := models.Empresa{
		RazonSocial:        in.RazonSocial,
		NIT:                in.NIT,
		RepresentanteLegal: in.RepresentanteLegal,
		TipoEmpresa:        in.TipoEmpresa,
		Direccion:          in.Direccion,
		Telefono:           in.Telefono,
		NumeroEmpleados:    in.NumeroEmpleados,
		Email:              in.Email,
		Web:                in.Web,
	}
	var seeded SeedResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Empresa
		err := tx.Select("id").Where("nit = ?", in.NIT).First(&existing).Error
		if err == nil {
			return ErrNITAlreadyRegistered
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(&empresa).Error; err != nil {
			return err
		}
		var plantillas []models.DocumentoCapacitacion
		if err := tx.Where("empresa_id IS NULL").Find(&plantillas).Error; err != nil {
			return err
		}
		for _, p := range plantillas {
			doc := models.DocumentoCapacitacion{
				Nombre:           p.Nombre,
				ArchivoPlantilla: p.ArchivoPlantilla,
				VideoURL:         p.VideoURL,
				Estado:           models.EstadoPendiente,
				EmpresaID:        &empresa.ID,
			}
			if err := tx.Create(&doc).Error; err != nil {
				return err
			}
			seeded.DocumentosCreados++
		}
		return nil
	})
	if err != nil {
		return nil, SeedResult{}, err
	}
	return &empresa, seeded, nil
}

// Login looks the company up by NIT; the NIT itself is the sole credential.
func (s *RegistryService) Login(nit string) (*models.Empresa, error) {
	var empresa models.Empresa
	if err := s.DB.Where("nit = ?", nit).First(&empresa).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmpresaNotFound
		}
		return nil, fmt.Errorf("login lookup: %w", err)
	}
	return &empresa, nil
}

func (s *RegistryService) HasCompany() (bool, error) {
	var count int64
	if err := s.DB.Model(&models.Empresa{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *RegistryService) Get(id uint) (*models.Empresa, error) {
	var empresa models.Empresa
	if err := s.DB.First(&empresa, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmpresaNotFound
		}
		return nil, err
	}
	return &empresa, nil
}

// First returns the earliest registered company. Single-tenant installs use
// it to resolve routes that omit the empresa id.
func (s *RegistryService) First() (*models.Empresa, error) {
	var empresa models.Empresa
	if err := s.DB.Order("id asc").First(&empresa).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmpresaNotFound
		}
		return nil, err
	}
	return &empresa, nil
}

// List returns the identity projection of every company, most recent first.
func (s *RegistryService) List() ([]models.EmpresaResumen, error) {
	var out []models.EmpresaResumen
	err := s.DB.Model(&models.Empresa{}).
		Select("id, razon_social, nit").
		Order("fecha_registro desc").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.EmpresaResumen{}
	}
	return out, nil
}
