package server

import (
	"net/http"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/calidev/iso9001-tracker/httpx"
	"github.com/calidev/iso9001-tracker/internal/handlers"
	"github.com/calidev/iso9001-tracker/internal/observability/metrics"
	"github.com/calidev/iso9001-tracker/internal/services"
	"github.com/calidev/iso9001-tracker/internal/storage"
)

// Options carries the non-store dependencies of the HTTP surface.
type Options struct {
	UploadDir   string
	TemplateDir string
	Log         zerolog.Logger
	Metrics     *metrics.HTTPMetrics
}

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, opts Options) (http.Handler, error) {
	uploads, err := storage.NewUploads(opts.UploadDir)
	if err != nil {
		return nil, err
	}

	registry := services.NewRegistryService(db)
	training := services.NewTrainingService(db)
	audit := services.NewAuditService(db)
	progress := services.NewProgressService(db)

	registro := handlers.NewRegistroHandler(registry)
	inicio := handlers.NewInicioHandler(registry)
	capacitacion := handlers.NewCapacitacionHandler(training, registry, uploads, opts.TemplateDir)
	auditoria := handlers.NewAuditoriaHandler(audit, registry)
	desarrollo := handlers.NewDesarrolloHandler(progress, registry)

	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		// Lightweight DB check (SELECT 1) – detailed errors stay out of the body
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics.Handler())
	}

	// Registro
	mux.HandleFunc("POST /registro", registro.Registrar)
	mux.HandleFunc("GET /registro/check", registro.Check)

	// Inicio de sesión
	mux.HandleFunc("POST /inicio", inicio.Login)
	mux.HandleFunc("GET /inicio/empresa", inicio.Empresa)
	mux.HandleFunc("GET /inicio/empresa/{id}", inicio.Empresa)
	mux.HandleFunc("GET /inicio/empresas", inicio.Empresas)
	mux.HandleFunc("GET /inicio/status", inicio.Status)

	// Capacitación
	mux.HandleFunc("GET /capacitacion/documentos/{empresaId}", capacitacion.Documentos)
	mux.HandleFunc("GET /capacitacion/descargar/{id}", capacitacion.Descargar)
	mux.HandleFunc("POST /capacitacion/subir/{id}", capacitacion.Subir)
	mux.HandleFunc("POST /capacitacion/video-visto/{id}/{empresaId}", capacitacion.VideoVisto)
	mux.HandleFunc("GET /capacitacion/videos-estado/{empresaId}", capacitacion.VideosEstado)

	// Auditoría
	mux.HandleFunc("GET /auditoria/auditorias", auditoria.Auditorias)
	mux.HandleFunc("GET /auditoria/auditorias/{empresaId}", auditoria.Auditorias)
	mux.HandleFunc("POST /auditoria/nueva", auditoria.Nueva)
	mux.HandleFunc("GET /auditoria/checklist/{id}", auditoria.Checklist)
	mux.HandleFunc("PUT /auditoria/checklist/{id}", auditoria.ActualizarChecklist)
	mux.HandleFunc("GET /auditoria/resumen/{id}", auditoria.Resumen)
	mux.HandleFunc("DELETE /auditoria/auditoria/{id}", auditoria.Eliminar)
	mux.HandleFunc("GET /auditoria/estadisticas", auditoria.Estadisticas)
	mux.HandleFunc("GET /auditoria/estadisticas/{empresaId}", auditoria.Estadisticas)

	// Desarrollo (avance combinado)
	mux.HandleFunc("GET /desarrollo/dashboard", desarrollo.Dashboard)
	mux.HandleFunc("GET /desarrollo/dashboard/{empresaId}", desarrollo.Dashboard)
	mux.HandleFunc("GET /desarrollo/pendientes", desarrollo.Pendientes)
	mux.HandleFunc("GET /desarrollo/pendientes/{empresaId}", desarrollo.Pendientes)
	mux.HandleFunc("GET /desarrollo/historial", desarrollo.Historial)
	mux.HandleFunc("GET /desarrollo/historial/{empresaId}", desarrollo.Historial)

	return withRequestID(withAccessLog(opts.Log, opts.Metrics, withRecover(opts.Log, mux))), nil
}
