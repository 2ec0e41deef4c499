package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nao1215/telespotter/internal/model"
	"github.com/nao1215/telespotter/internal/report"
	"github.com/nao1215/telespotter/internal/session"
)

// maxRequestBody caps API request bodies.
const maxRequestBody = 1 << 16

// searchRequest is the body of POST /api/search.
type searchRequest struct {
	// PhoneNumber is the number to search for, in any accepted format.
	PhoneNumber string `json:"phone_number"`
	// Sources optionally restricts the session to the named sources.
	// Empty means the server's configured default set.
	Sources []string `json:"sources,omitempty"`
}

// searchResponse is the body returned when a session is accepted.
type searchResponse struct {
	SessionID   string   `json:"session_id"`
	PhoneNumber string   `json:"phone_number"`
	Sources     []string `json:"sources"`
}

// cancelResponse is the body of DELETE /api/search/{id}.
type cancelResponse struct {
	SessionID string `json:"session_id"`
	Cancelled bool   `json:"cancelled"`
}

// validateRequest is the body of POST /api/validate.
type validateRequest struct {
	PhoneNumber string `json:"phone_number"`
}

// validateResponse describes a parsed phone number.
type validateResponse struct {
	Valid          bool     `json:"valid"`
	Error          string   `json:"error,omitempty"`
	E164           string   `json:"e164,omitempty"`
	Display        string   `json:"display,omitempty"`
	CountryCode    string   `json:"country_code,omitempty"`
	Country        string   `json:"country,omitempty"`
	AreaCode       string   `json:"area_code,omitempty"`
	Location       string   `json:"location,omitempty"`
	LineType       string   `json:"line_type,omitempty"`
	FormatVariants []string `json:"format_variants,omitempty"`
}

// errorResponse is the body of every error status.
type errorResponse struct {
	Error string `json:"error"`
}

// handleStartSearch validates the request, registers a new session,
// and starts it detached from the request.
func (s *Server) handleStartSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	phone, err := model.NewPhoneNumber(req.PhoneNumber)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid phone number: "+err.Error())
		return
	}

	sources, err := s.resolveSources(req.Sources)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	clients, err := s.clients(sources)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "source clients unavailable: "+err.Error())
		return
	}

	orch, err := session.New(uuid.NewString(), phone, clients,
		session.WithSink(s.broker),
		session.WithLogger(s.logger),
		session.WithConcurrency(s.cfg.Concurrency),
		session.WithTaskTimeout(s.cfg.TaskTimeout),
		session.WithMaxRetries(s.cfg.MaxRetries),
		session.WithRetryBackoff(s.cfg.RetryBackoff),
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.registry.Put(orch)

	// The session outlives the request; it runs on its own context and
	// stops through Cancel or completion.
	if err := orch.Start(context.Background()); err != nil {
		s.registry.Remove(orch.ID())
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	names := make([]string, 0, len(sources))
	for _, src := range sources {
		names = append(names, string(src))
	}
	writeJSON(w, http.StatusAccepted, searchResponse{
		SessionID:   orch.ID(),
		PhoneNumber: phone.Display(),
		Sources:     names,
	})
}

// handleGetSearch returns a snapshot of one session.
func (s *Server) handleGetSearch(w http.ResponseWriter, r *http.Request) {
	orch, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report.NewJSONReport(orch.Status()))
}

// handleCancelSearch requests cancellation of one session.
func (s *Server) handleCancelSearch(w http.ResponseWriter, r *http.Request) {
	orch, ok := s.lookup(w, r)
	if !ok {
		return
	}
	orch.Cancel()
	writeJSON(w, http.StatusOK, cancelResponse{SessionID: orch.ID(), Cancelled: true})
}

// exportContentTypes maps report formats to response content types.
var exportContentTypes = map[report.Format]string{
	report.FormatJSON:     "application/json",
	report.FormatCSV:      "text/csv",
	report.FormatText:     "text/plain; charset=utf-8",
	report.FormatMarkdown: "text/markdown; charset=utf-8",
}

// handleExport renders one session as a downloadable report.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	orch, ok := s.lookup(w, r)
	if !ok {
		return
	}

	format := report.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = report.FormatJSON
	}
	contentType, known := exportContentTypes[format]
	if !known {
		writeError(w, http.StatusBadRequest, "unknown format: "+string(format))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		`attachment; filename="telespotter-`+orch.ID()+`.`+string(format)+`"`)
	w.WriteHeader(http.StatusOK)

	if _, err := report.ForFormat(format, w).Write(orch.Status()); err != nil {
		s.logger.Error("report export failed", "session_id", orch.ID(), "error", err)
	}
}

// handleValidate parses a phone number without starting a search.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	phone, err := model.NewPhoneNumber(req.PhoneNumber)
	if err != nil {
		writeJSON(w, http.StatusOK, validateResponse{Valid: false, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, validateResponse{
		Valid:          true,
		E164:           phone.E164(),
		Display:        phone.Display(),
		CountryCode:    phone.CountryCode(),
		Country:        phone.Country(),
		AreaCode:       phone.AreaCode(),
		Location:       phone.Location(),
		LineType:       phone.LineType(),
		FormatVariants: phone.FormatVariants(),
	})
}

// resolveSources parses the requested source names, falling back to the
// server's configured set when none are given.
func (s *Server) resolveSources(names []string) ([]model.Source, error) {
	if len(names) > 0 {
		return model.ParseSources(names)
	}
	if len(s.cfg.Sources) > 0 {
		return model.ParseSources(s.cfg.Sources)
	}
	return model.AllSources(), nil
}

// lookup resolves the {id} URL parameter to a session, writing a 404
// when it is unknown or expired.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Orchestrator, bool) {
	orch, err := s.registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return nil, false
	}
	return orch, true
}

// decodeJSON decodes a JSON request body, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; nothing useful left to do.
		return
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
