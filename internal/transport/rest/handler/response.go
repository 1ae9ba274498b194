package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"killtest/internal/importer"
	"killtest/internal/model"
	"killtest/internal/service"
)

// maxBodyBytes caps request bodies, import documents included
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeServiceError maps service and importer sentinels to status codes
func writeServiceError(w http.ResponseWriter, err error, lang model.Language) {
	var verr *importer.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error": verr.Message(lang),
			"kind":  verr.Kind.Error(),
		})
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, service.ErrUnknownQuestion):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrCannotProceed):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// requestLanguage resolves ?lang= first, then Accept-Language, then fallback
func requestLanguage(r *http.Request, fallback model.Language) model.Language {
	if q := r.URL.Query().Get("lang"); q != "" {
		return model.ParseLanguage(q)
	}
	if h := r.Header.Get("Accept-Language"); h != "" {
		return model.ParseLanguage(h)
	}
	return fallback.OrDefault()
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
