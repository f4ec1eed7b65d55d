package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/calidev/iso9001-tracker/httpx"
	"github.com/calidev/iso9001-tracker/internal/models"
	"github.com/calidev/iso9001-tracker/internal/services"
)

type InicioHandler struct {
	Svc *services.RegistryService
}

func NewInicioHandler(svc *services.RegistryService) *InicioHandler {
	return &InicioHandler{Svc: svc}
}

// Login: POST /inicio – the NIT is the whole credential.
func (h *InicioHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		NIT string `json:"nit"`
	}
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
	} else if err := r.ParseForm(); err == nil {
		input.NIT = r.FormValue("nit")
	}
	if strings.TrimSpace(input.NIT) == "" {
		httpx.JSONError(w, http.StatusBadRequest, "El NIT es requerido", nil)
		return
	}

	empresa, err := h.Svc.Login(strings.TrimSpace(input.NIT))
	if err != nil {
		if errors.Is(err, services.ErrEmpresaNotFound) {
			httpx.JSONError(w, http.StatusUnauthorized, "No se encontró una empresa con este NIT", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "Error en la base de datos", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Inicio de sesión exitoso",
		"empresa": models.EmpresaResumen{ID: empresa.ID, RazonSocial: empresa.RazonSocial, NIT: empresa.NIT},
	})
}

// Empresa: GET /inicio/empresa[/{id}] – full profile; without id the first
// registered company is returned.
func (h *InicioHandler) Empresa(w http.ResponseWriter, r *http.Request) {
	var empresa *models.Empresa
	var err error
	if id, ok := pathID(r, "id"); ok {
		empresa, err = h.Svc.Get(id)
	} else {
		empresa, err = h.Svc.First()
	}
	if err != nil {
		if errors.Is(err, services.ErrEmpresaNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "Empresa no encontrada", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "Error en la base de datos", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"empresa": empresa})
}

// Empresas: GET /inicio/empresas – identity projections for the picker.
func (h *InicioHandler) Empresas(w http.ResponseWriter, r *http.Request) {
	empresas, err := h.Svc.List()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "Error en la base de datos", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"empresas": empresas})
}

// Status: GET /inicio/status
func (h *InicioHandler) Status(w http.ResponseWriter, r *http.Request) {
	has, err := h.Svc.HasCompany()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "Error en la base de datos", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"hasCompany": has, "canLogin": has})
}
