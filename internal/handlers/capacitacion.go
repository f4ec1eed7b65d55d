package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/calidev/iso9001-tracker/httpx"
	"github.com/calidev/iso9001-tracker/internal/services"
	"github.com/calidev/iso9001-tracker/internal/storage"
)

// maxUploadBytes bounds the multipart form kept in memory before spilling
// to temp files.
const maxUploadBytes = 32 << 20

type CapacitacionHandler struct {
	Svc         *services.TrainingService
	Registry    *services.RegistryService
	Uploads     *storage.Uploads
	TemplateDir string
}

func NewCapacitacionHandler(svc *services.TrainingService, registry *services.RegistryService, uploads *storage.Uploads, templateDir string) *CapacitacionHandler {
	return &CapacitacionHandler{Svc: svc, Registry: registry, Uploads: uploads, TemplateDir: templateDir}
}

// Documentos: GET /capacitacion/documentos/{empresaId}
func (h *CapacitacionHandler) Documentos(w http.ResponseWriter, r *http.Request) {
	empresaID, ok := pathID(r, "empresaId")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	documentos, err := h.Svc.ListDocumentos(empresaID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "Error al obtener documentos", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"documentos": documentos})
}

// Descargar: GET /capacitacion/descargar/{id} – streams the xlsx template.
func (h *CapacitacionHandler) Descargar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "Documento no encontrado", nil)
		return
	}
	doc, err := h.Svc.Documento(id)
	if err != nil {
		if errors.Is(err, services.ErrDocumentoNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "Documento no encontrado", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "Error en la base de datos", nil)
		return
	}
	if doc.ArchivoPlantilla == "" {
		httpx.JSONError(w, http.StatusNotFound, "Documento no encontrado", nil)
		return
	}
	nombre := filepath.Base(doc.ArchivoPlantilla)
	path := filepath.Join(h.TemplateDir, nombre)
	if _, err := os.Stat(path); err != nil {
		httpx.JSONError(w, http.StatusNotFound, "Documento no encontrado", nil)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+nombre+`"`)
	http.ServeFile(w, r, path)
}

// Subir: POST /capacitacion/subir/{id} – multipart upload of the completed
// document. The row update succeeds even when the id matches nothing.
func (h *CapacitacionHandler) Subir(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "No se ha seleccionado ningún archivo", nil)
		return
	}
	file, header, err := r.FormFile("archivo")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "No se ha seleccionado ningún archivo", nil)
		return
	}
	defer file.Close()

	stored, err := h.Uploads.Save(header.Filename, file)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "Error al guardar archivo", nil)
		return
	}
	if err := h.Svc.MarkUploaded(id, stored); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "Error al actualizar documento", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Documento subido exitosamente",
		"archivo": stored,
	})
}

// VideoVisto: POST /capacitacion/video-visto/{id}/{empresaId} – toggles the
// viewed marker; repeated calls alternate state.
func (h *CapacitacionHandler) VideoVisto(w http.ResponseWriter, r *http.Request) {
	id, okID := pathID(r, "id")
	empresaID, okEmpresa := pathID(r, "empresaId")
	if !okID || !okEmpresa {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if _, err := h.Registry.Get(empresaID); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "Error al obtener empresa", nil)
		return
	}
	marcado, err := h.Svc.ToggleVideo(id, empresaID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "Error al marcar video", nil)
		return
	}
	message := "Video desmarcado exitosamente"
	if marcado {
		message = "Video marcado como visto exitosamente"
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "message": message, "marcado": marcado})
}

// VideosEstado: GET /capacitacion/videos-estado/{empresaId}
func (h *CapacitacionHandler) VideosEstado(w http.ResponseWriter, r *http.Request) {
	empresaID, ok := pathID(r, "empresaId")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if _, err := h.Registry.Get(empresaID); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "Error al obtener empresa", nil)
		return
	}
	videos, err := h.Svc.VideosEstado(empresaID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "Error al obtener estado de videos", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"videos": videos})
}
