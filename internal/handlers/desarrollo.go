package handlers

import (
	"errors"
	"net/http"

	"github.com/calidev/iso9001-tracker/httpx"
	"github.com/calidev/iso9001-tracker/internal/services"
)

type DesarrolloHandler struct {
	Svc      *services.ProgressService
	Registry *services.RegistryService
}

func NewDesarrolloHandler(svc *services.ProgressService, registry *services.RegistryService) *DesarrolloHandler {
	return &DesarrolloHandler{Svc: svc, Registry: registry}
}

func (h *DesarrolloHandler) resolveEmpresaID(r *http.Request) (uint, error) {
	if id, ok := pathID(r, "empresaId"); ok {
		return id, nil
	}
	empresa, err := h.Registry.First()
	if err != nil {
		return 0, err
	}
	return empresa.ID, nil
}

// Dashboard: GET /desarrollo/dashboard[/{empresaId}]
func (h *DesarrolloHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	empresaID, err := h.resolveEmpresaID(r)
	if err != nil {
		if errors.Is(err, services.ErrEmpresaNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "No hay empresa registrada", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "Error en la base de datos", nil)
		return
	}
	dashboard, err := h.Svc.Dashboard(empresaID)
	if err != nil {
		if errors.Is(err, services.ErrEmpresaNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "No hay empresa registrada", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "Error en la base de datos", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, dashboard)
}

// Pendientes: GET /desarrollo/pendientes[/{empresaId}]
func (h *DesarrolloHandler) Pendientes(w http.ResponseWriter, r *http.Request) {
	empresaID, err := h.resolveEmpresaID(r)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "Error al obtener empresa", nil)
		return
	}
	pendientes, err := h.Svc.Pendientes(empresaID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "Error al obtener pendientes", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, pendientes)
}

// Historial: GET /desarrollo/historial[/{empresaId}]
func (h *DesarrolloHandler) Historial(w http.ResponseWriter, r *http.Request) {
	empresaID, err := h.resolveEmpresaID(r)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "Error al obtener empresa", nil)
		return
	}
	historial, err := h.Svc.Historial(empresaID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "Error al obtener historial", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"historial": historial})
}
