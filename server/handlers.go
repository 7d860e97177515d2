package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ZaguanLabs/ltproxy"
)

// Error codes returned in the "error" field.
const (
	errMissingText     = "Missing 'q' text"
	errInvalidJSON     = "invalid_json"
	errPayloadTooLarge = "payload_too_large"
	errUpstream        = "upstream_error"
	errServer          = "server_error"
)

// translateRequest is the /translate body. Q stays untyped so a non-string
// value is reported as missing text rather than as malformed JSON.
type translateRequest struct {
	Q      any    `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	Cached         bool   `json:"cached"`
	Upstream       string `json:"upstream,omitempty"`
}

type errorResponse struct {
	Error    string          `json:"error"`
	Detail   string          `json:"detail,omitempty"`
	Attempts []attemptReport `json:"attempts,omitempty"`
}

// attemptReport is one failed backend attempt as shown to clients: status and
// detail for an HTTP failure, error for a transport failure.
type attemptReport struct {
	URL    string `json:"url"`
	Status int    `json:"status,omitempty"`
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "service": ServiceName})
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)

	var body translateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: errPayloadTooLarge})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errInvalidJSON})
		return
	}

	text, ok := body.Q.(string)
	if !ok || text == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errMissingText})
		return
	}

	result, err := s.translator.Translate(r.Context(), ltproxy.TranslationRequest{
		Text:       text,
		SourceLang: body.Source,
		TargetLang: body.Target,
	})
	if err != nil {
		s.writeTranslateError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, translateResponse{
		TranslatedText: result.Text,
		Cached:         result.Cached,
		Upstream:       result.Upstream,
	})
}

func (s *Server) writeTranslateError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *ltproxy.ValidationError
	var failure *ltproxy.TotalFailure

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errMissingText})
	case errors.As(err, &failure):
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error:    errUpstream,
			Attempts: attemptReports(failure.Attempts),
		})
	default:
		s.logger.ErrorContext(r.Context(), "translate failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errServer, Detail: err.Error()})
	}
}

func attemptReports(attempts []ltproxy.AttemptRecord) []attemptReport {
	reports := make([]attemptReport, len(attempts))
	for i, a := range attempts {
		reports[i] = attemptReport{URL: a.URL}
		if a.Outcome == ltproxy.OutcomeHTTPError {
			reports[i].Status = a.Status
			reports[i].Detail = a.Snippet
		} else {
			reports[i].Error = a.Message
		}
	}
	return reports
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"upstreams": s.collector.Latency().AllStats()})
}

func (s *Server) handleCacheDump(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	meta := map[string]string{"request_id": requestIDFrom(r.Context())}
	if err := s.exporter.Export(w, meta); err != nil {
		s.logger.ErrorContext(r.Context(), "cache export failed", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
