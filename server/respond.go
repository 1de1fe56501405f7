package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"diceroyale/engine"
	"diceroyale/service"

	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("Failed to encode response")
	}
}

// writeError maps domain errors to a status code and a stable error code
func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		log.WithError(err).Error("Request failed")
		writeJSON(w, status, errorResponse{Error: "internal error", Code: code})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, engine.ErrInvalidBetWindow):
		return http.StatusConflict, "invalid_bet_window"
	case errors.Is(err, engine.ErrInvalidChoice):
		return http.StatusBadRequest, "invalid_choice"
	case errors.Is(err, engine.ErrInvalidAmount):
		return http.StatusBadRequest, "invalid_amount"
	case errors.Is(err, engine.ErrInsufficientBalance):
		return http.StatusPaymentRequired, "insufficient_balance"
	case errors.Is(err, engine.ErrClosed):
		return http.StatusServiceUnavailable, "table_closed"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrInvalidProduct):
		return http.StatusBadRequest, "invalid_product"
	case errors.Is(err, service.ErrInvalidSession):
		return http.StatusBadRequest, "invalid_session"
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, errCatalogDisabled):
		return http.StatusServiceUnavailable, "catalog_disabled"
	}
	return http.StatusInternalServerError, "internal"
}

var (
	errBadRequest      = errors.New("malformed request")
	errCatalogDisabled = errors.New("catalog is not configured")
)

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Join(errBadRequest, err)
	}
	return nil
}
