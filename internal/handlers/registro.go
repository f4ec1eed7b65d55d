package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/calidev/iso9001-tracker/httpx"
	"github.com/calidev/iso9001-tracker/internal/services"
	"github.com/calidev/iso9001-tracker/validation"
)

type RegistroHandler struct {
	Svc *services.RegistryService
}

func NewRegistroHandler(svc *services.RegistryService) *RegistroHandler {
	return &RegistroHandler{Svc: svc}
}

// Registrar: POST /registro – JSON or form
func (h *RegistroHandler) Registrar(w http.ResponseWriter, r *http.Request) {
	var input struct {
		RazonSocial        string `json:"razon_social"`
		NIT                string `json:"nit"`
		RepresentanteLegal string `json:"representante_legal"`
		TipoEmpresa        string `json:"tipo_empresa"`
		Direccion          string `json:"direccion"`
		Telefono           string `json:"telefono"`
		NumeroEmpleados    int    `json:"numero_empleados"`
		Email              string `json:"email"`
		Web                string `json:"web"`
	}
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
			return
		}
		input.RazonSocial = r.FormValue("razon_social")
		input.NIT = r.FormValue("nit")
		input.RepresentanteLegal = r.FormValue("representante_legal")
		input.TipoEmpresa = r.FormValue("tipo_empresa")
		input.Direccion = r.FormValue("direccion")
		input.Telefono = r.FormValue("telefono")
		input.NumeroEmpleados, _ = strconv.Atoi(r.FormValue("numero_empleados"))
		input.Email = r.FormValue("email")
		input.Web = r.FormValue("web")
	}

	v := validation.Violations{}
	validation.Required("razon_social", input.RazonSocial, v)
	validation.Required("nit", input.NIT, v)
	validation.Required("representante_legal", input.RepresentanteLegal, v)
	validation.Required("tipo_empresa", input.TipoEmpresa, v)
	validation.Required("direccion", input.Direccion, v)
	validation.Required("telefono", input.Telefono, v)
	validation.Required("email", input.Email, v)
	validation.PositiveInt("numero_empleados", input.NumeroEmpleados, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "Faltan campos requeridos", v)
		return
	}

	empresa, seeded, err := h.Svc.Register(services.RegistroInput{
		RazonSocial:        input.RazonSocial,
		NIT:                strings.TrimSpace(input.NIT),
		RepresentanteLegal: input.RepresentanteLegal,
		TipoEmpresa:        input.TipoEmpresa,
		Direccion:          input.Direccion,
		Telefono:           input.Telefono,
		NumeroEmpleados:    input.NumeroEmpleados,
		Email:              input.Email,
		Web:                input.Web,
	})
	if err != nil {
		if errors.Is(err, services.ErrNITAlreadyRegistered) {
			httpx.JSONError(w, http.StatusBadRequest, "Ya existe una empresa registrada con este NIT", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "Error al registrar la empresa", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":            true,
		"message":            "Empresa registrada exitosamente",
		"empresa_id":         empresa.ID,
		"documentos_creados": seeded.DocumentosCreados,
	})
}

// Check: GET /registro/check – gates whether registration is offered.
func (h *RegistroHandler) Check(w http.ResponseWriter, r *http.Request) {
	has, err := h.Svc.HasCompany()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "Error en la base de datos", nil)
		return
	}
	message := "No hay empresa registrada"
	if has {
		message = "Ya existe una empresa registrada"
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"hasCompany": has, "message": message})
}
