package handler

import (
	"net/http"
	"strings"

	"killtest/internal/importer"
	"killtest/internal/model"
	"killtest/internal/presenter"
	"killtest/internal/verdict"
)

// ImportHandler previews import documents without touching a session
type ImportHandler struct{}

// NewImportHandler creates a new import handler
func NewImportHandler() *ImportHandler {
	return &ImportHandler{}
}

// Validate handles POST /v1/import/validate. A valid document returns the
// mapped answers and the offline verdict they would produce.
func (h *ImportHandler) Validate(w http.ResponseWriter, r *http.Request) {
	lang := requestLanguage(r, model.LangEnglish)

	answers, err := readImport(w, r)
	if err != nil {
		writeServiceError(w, err, lang)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"valid":    true,
		"answered": len(answers),
		"answers":  answers,
		"preview":  presenter.Build(verdict.Compute(answers), answers, lang, false),
	})
}

// Template handles GET /v1/import/template?format=json|yaml
func (h *ImportHandler) Template(w http.ResponseWriter, r *http.Request) {
	format := importer.FormatJSON
	if strings.EqualFold(r.URL.Query().Get("format"), string(importer.FormatYAML)) {
		format = importer.FormatYAML
	}

	data, err := importer.Template(format)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render template")
		return
	}

	contentType := "application/json"
	filename := "killtest-template.json"
	if format == importer.FormatYAML {
		contentType = "application/yaml"
		filename = "killtest-template.yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
