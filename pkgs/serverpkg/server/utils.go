package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/WangWilly/cryptoagent/pkgs/serverpkg/serverdto"
	log "github.com/sirupsen/logrus"
)

const MAX_BODY_BYTES = 1 << 20

// writeJSON encodes v before writing the header, so an unencodable value
// becomes a 500 instead of an empty response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.WithError(err).Error("failed to encode response")
		buf.Reset()
		status = http.StatusInternalServerError
		json.NewEncoder(&buf).Encode(serverdto.ErrorResponse{Detail: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, serverdto.ErrorResponse{Detail: detail})
}

// decodeJSON reads the request body into v, keeping any defaults already
// set on v for absent fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, MAX_BODY_BYTES)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// failureStatus maps an agent error to a status code.
func failureStatus(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.cfg.RequestTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
}
