package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"adaptive-assessment-service/internal/app"
	"adaptive-assessment-service/internal/domain"
)

// ExportHandler serves the persisted progress as a downloadable JSON document.
type ExportHandler struct {
	service *app.AssessmentService
}

func NewExportHandler(service *app.AssessmentService) *ExportHandler {
	return &ExportHandler{service: service}
}

func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	doc, err := h.service.Export(r.Context())
	if errors.Is(err, domain.ErrProgressNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+app.ExportFilename(doc)+`"`)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(doc)
}
