package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/calidev/iso9001-tracker/httpx"
	"github.com/calidev/iso9001-tracker/internal/services"
	"github.com/calidev/iso9001-tracker/validation"
)

type AuditoriaHandler struct {
	Svc      *services.AuditService
	Registry *services.RegistryService
}

func NewAuditoriaHandler(svc *services.AuditService, registry *services.RegistryService) *AuditoriaHandler {
	return &AuditoriaHandler{Svc: svc, Registry: registry}
}

// resolveEmpresaID honors an explicit {empresaId} path value and otherwise
// falls back to the first registered company (single-tenant install).
func (h *AuditoriaHandler) resolveEmpresaID(r *http.Request) (uint, error) {
	if id, ok := pathID(r, "empresaId"); ok {
		return id, nil
	}
	empresa, err := h.Registry.First()
	if err != nil {
		return 0, err
	}
	return empresa.ID, nil
}

// Auditorias: GET /auditoria/auditorias[/{empresaId}]
func (h *AuditoriaHandler) Auditorias(w http.ResponseWriter, r *http.Request) {
	empresaID, err := h.resolveEmpresaID(r)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "Error al obtener empresa", nil)
		return
	}
	auditorias, err := h.Svc.List(empresaID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "Error al obtener auditorías", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"auditorias": auditorias})
}

// Nueva: POST /auditoria/nueva – creates the audit with its checklist seeded.
func (h *AuditoriaHandler) Nueva(w http.ResponseWriter, r *http.Request) {
	var input struct {
		FechaAuditoria string `json:"fecha_auditoria"`
	}
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
	} else if err := r.ParseForm(); err == nil {
		input.FechaAuditoria = r.FormValue("fecha_auditoria")
	}

	v := validation.Violations{}
	validation.Required("fecha_auditoria", input.FechaAuditoria, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "La fecha de auditoría es requerida", nil)
		return
	}

	empresaID, err := h.resolveEmpresaID(r)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "Error al obtener empresa", nil)
		return
	}
	auditoriaID, seeded, err := h.Svc.Create(empresaID, input.FechaAuditoria)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "Error al crear auditoría", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       "Auditoría creada exitosamente",
		"auditoria_id":  auditoriaID,
		"items_creados": seeded,
	})
}

// Checklist: GET /auditoria/checklist/{id}
func (h *AuditoriaHandler) Checklist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	checklist, err := h.Svc.Checklist(id)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "Error al obtener checklist", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"checklist": checklist})
}

// ActualizarChecklist: PUT /auditoria/checklist/{id} – unconditional update;
// a missing item id silently affects zero rows.
func (h *AuditoriaHandler) ActualizarChecklist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var input struct {
		Cumple        any    `json:"cumple"`
		Observaciones string `json:"observaciones"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if err := h.Svc.UpdateItem(id, asBool(input.Cumple), input.Observaciones); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "Error al actualizar checklist", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "message": "Checklist actualizado exitosamente"})
}

// Resumen: GET /auditoria/resumen/{id}
func (h *AuditoriaHandler) Resumen(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "Auditoría no encontrada", nil)
		return
	}
	resumen, err := h.Svc.GetResumen(id)
	if err != nil {
		if errors.Is(err, services.ErrAuditoriaNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "Auditoría no encontrada", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "Error al obtener resumen", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, resumen)
}

// Eliminar: DELETE /auditoria/auditoria/{id} – checklist rows first, audit
// row second, one transaction; always reports success.
func (h *AuditoriaHandler) Eliminar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.Svc.Delete(id); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "Error al eliminar auditoría", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "message": "Auditoría eliminada exitosamente"})
}

// Estadisticas: GET /auditoria/estadisticas[/{empresaId}]
func (h *AuditoriaHandler) Estadisticas(w http.ResponseWriter, r *http.Request) {
	empresaID, err := h.resolveEmpresaID(r)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "Error al obtener empresa", nil)
		return
	}
	stats, err := h.Svc.GetEstadisticas(empresaID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "Error al obtener estadísticas", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}
