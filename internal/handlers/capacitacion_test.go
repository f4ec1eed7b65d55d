package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"gorm.io/gorm"

	"github.com/calidev/iso9001-tracker/internal/models"
	"github.com/calidev/iso9001-tracker/internal/services"
	"github.com/calidev/iso9001-tracker/internal/storage"
)

func newCapacitacionHandler(t *testing.T, d *gorm.DB) *CapacitacionHandler {
	t.Helper()
	uploads, err := storage.NewUploads(t.TempDir())
	if err != nil {
		t.Fatalf("uploads: %v", err)
	}
	return NewCapacitacionHandler(services.NewTrainingService(d), services.NewRegistryService(d), uploads, t.TempDir())
}

func firstDocumento(t *testing.T, d *gorm.DB, empresaID uint) models.DocumentoCapacitacion {
	t.Helper()
	var doc models.DocumentoCapacitacion
	if err := d.Where("empresa_id = ?", empresaID).Order("nombre").First(&doc).Error; err != nil {
		t.Fatalf("first documento: %v", err)
	}
	return doc
}

func TestDocumentosListsCompanyCopies(t *testing.T) {
	d := setupTestDB(t)
	empresa := registerEmpresa(t, d, "900123456-7")
	h := newCapacitacionHandler(t, d)

	req := httptest.NewRequest(http.MethodGet, "/capacitacion/documentos/1", nil)
	req.SetPathValue("empresaId", strconv.Itoa(int(empresa.ID)))
	w := httptest.NewRecorder()
	h.Documentos(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Documentos []struct {
			Nombre string `json:"nombre"`
			Estado string `json:"estado"`
			Visto  bool   `json:"visto"`
		} `json:"documentos"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Documentos) != 5 {
		t.Fatalf("expected 5 documentos got %d", len(resp.Documentos))
	}
	for _, doc := range resp.Documentos {
		if doc.Estado != models.EstadoPendiente || doc.Visto {
			t.Fatalf("fresh documento should be pendiente and unseen: %+v", doc)
		}
	}
}

func TestDescargar(t *testing.T) {
	d := setupTestDB(t)
	empresa := registerEmpresa(t, d, "900123456-7")
	h := newCapacitacionHandler(t, d)
	doc := firstDocumento(t, d, empresa.ID)

	// Template file missing on disk
	req := httptest.NewRequest(http.MethodGet, "/capacitacion/descargar/1", nil)
	req.SetPathValue("id", strconv.Itoa(int(doc.ID)))
	w := httptest.NewRecorder()
	h.Descargar(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing file got %d", w.Code)
	}

	// Unknown document id
	req = httptest.NewRequest(http.MethodGet, "/capacitacion/descargar/9999", nil)
	req.SetPathValue("id", "9999")
	w = httptest.NewRecorder()
	h.Descargar(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown doc got %d", w.Code)
	}

	// Present file streams as an attachment
	path := filepath.Join(h.TemplateDir, filepath.Base(doc.ArchivoPlantilla))
	if err := os.WriteFile(path, []byte("workbook"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/capacitacion/descargar/1", nil)
	req.SetPathValue("id", strconv.Itoa(int(doc.ID)))
	w = httptest.NewRecorder()
	h.Descargar(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); cd == "" {
		t.Fatal("missing Content-Disposition header")
	}
}

func TestSubir(t *testing.T) {
	d := setupTestDB(t)
	empresa := registerEmpresa(t, d, "900123456-7")
	h := newCapacitacionHandler(t, d)
	doc := firstDocumento(t, d, empresa.ID)

	// No file part
	req := httptest.NewRequest(http.MethodPost, "/capacitacion/subir/1", nil)
	req.SetPathValue("id", strconv.Itoa(int(doc.ID)))
	w := httptest.NewRecorder()
	h.Subir(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	var errResp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &errResp)
	if errResp["error"] != "No se ha seleccionado ningún archivo" {
		t.Fatalf("unexpected error: %#v", errResp)
	}

	// Multipart upload flips the document to completado
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("archivo", "manual_diligenciado.xlsx")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("contenido")); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req = httptest.NewRequest(http.MethodPost, "/capacitacion/subir/1", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.SetPathValue("id", strconv.Itoa(int(doc.ID)))
	w = httptest.NewRecorder()
	h.Subir(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	archivo, _ := resp["archivo"].(string)
	if archivo == "" {
		t.Fatalf("expected stored filename in response: %#v", resp)
	}
	if _, err := os.Stat(h.Uploads.Path(archivo)); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}

	var updated models.DocumentoCapacitacion
	if err := d.First(&updated, doc.ID).Error; err != nil {
		t.Fatal(err)
	}
	if updated.Estado != models.EstadoCompletado || updated.ArchivoSubido == "" || updated.FechaSubida == nil {
		t.Fatalf("document not marked uploaded: %+v", updated)
	}
}

func TestVideoVistoToggles(t *testing.T) {
	d := setupTestDB(t)
	empresa := registerEmpresa(t, d, "900123456-7")
	h := newCapacitacionHandler(t, d)
	doc := firstDocumento(t, d, empresa.ID)

	toggle := func() map[string]any {
		req := httptest.NewRequest(http.MethodPost, "/capacitacion/video-visto/1/1", nil)
		req.SetPathValue("id", strconv.Itoa(int(doc.ID)))
		req.SetPathValue("empresaId", strconv.Itoa(int(empresa.ID)))
		w := httptest.NewRecorder()
		h.VideoVisto(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
		}
		var resp map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return resp
	}

	if resp := toggle(); resp["marcado"] != true {
		t.Fatalf("first toggle should mark: %#v", resp)
	}
	if resp := toggle(); resp["marcado"] != false {
		t.Fatalf("second toggle should unmark: %#v", resp)
	}
	if resp := toggle(); resp["marcado"] != true {
		t.Fatalf("third toggle should mark again: %#v", resp)
	}

	var count int64
	d.Model(&models.VideoVisto{}).Where("documento_id = ? AND empresa_id = ?", doc.ID, empresa.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected a single marker row got %d", count)
	}
}

func TestVideoVistoUnknownEmpresa(t *testing.T) {
	d := setupTestDB(t)
	registerEmpresa(t, d, "900123456-7")
	h := newCapacitacionHandler(t, d)

	req := httptest.NewRequest(http.MethodPost, "/capacitacion/video-visto/1/999", nil)
	req.SetPathValue("id", "1")
	req.SetPathValue("empresaId", "999")
	w := httptest.NewRecorder()
	h.VideoVisto(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", w.Code)
	}
}

func TestVideosEstado(t *testing.T) {
	d := setupTestDB(t)
	empresa := registerEmpresa(t, d, "900123456-7")
	h := newCapacitacionHandler(t, d)
	doc := firstDocumento(t, d, empresa.ID)

	svc := services.NewTrainingService(d)
	if _, err := svc.ToggleVideo(doc.ID, empresa.ID); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/capacitacion/videos-estado/1", nil)
	req.SetPathValue("empresaId", strconv.Itoa(int(empresa.ID)))
	w := httptest.NewRecorder()
	h.VideosEstado(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var resp struct {
		Videos []struct {
			ID    uint `json:"id"`
			Visto bool `json:"visto"`
		} `json:"videos"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Videos) != 5 {
		t.Fatalf("expected 5 videos got %d", len(resp.Videos))
	}
	vistos := 0
	for _, v := range resp.Videos {
		if v.Visto {
			vistos++
			if v.ID != doc.ID {
				t.Fatalf("wrong video marked: %+v", v)
			}
		}
	}
	if vistos != 1 {
		t.Fatalf("expected exactly 1 watched video got %d", vistos)
	}
}
