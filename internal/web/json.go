package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/notevault/internal/logging"
)

func writeJSON(ctx context.Context, w http.ResponseWriter, logger logging.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error(ctx, "json encode failed", "error", err)
	}
}

type errResponse struct {
	Error string `json:"error"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}
