package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ancestree/ancestree/pkg/buildinfo"
	apperrors "github.com/ancestree/ancestree/pkg/errors"
	"github.com/ancestree/ancestree/pkg/layout"
	"github.com/ancestree/ancestree/pkg/observability"
	"github.com/ancestree/ancestree/pkg/pipeline"
	"github.com/ancestree/ancestree/pkg/treejson"
)

// maxBodyBytes bounds request bodies. Family documents are small; anything
// beyond this is a mistake or abuse.
const maxBodyBytes = 16 << 20

// contentTypes maps output formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatJSON: "application/json",
}

// layoutResponse is the payload of POST /api/layout.
type layoutResponse struct {
	TreeHash  string        `json:"tree_hash"`
	People    int           `json:"people"`
	Marriages int           `json:"marriages"`
	Layout    layout.Result `json:"layout"`
}

// errorResponse is the payload of any failed request.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.readOptions(w, r)
	if !ok {
		return
	}
	opts.Formats = []string{pipeline.FormatJSON}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, layoutResponse{
		TreeHash:  result.TreeHash,
		People:    result.Stats.PersonCount,
		Marriages: result.Stats.MarriageCount,
		Layout:    result.Layout,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "unsupported render format"))
		return
	}

	opts, ok := s.readOptions(w, r)
	if !ok {
		return
	}
	opts.Formats = []string{format}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// readOptions builds pipeline options from the request body and query. A
// false return means the error response was already written.
func (s *Server) readOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read request body"))
		return pipeline.Options{}, false
	}
	if len(body) == 0 {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "request body is empty"))
		return pipeline.Options{}, false
	}
	if _, err := treejson.UnmarshalDocument(body); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidData, err, "decode family document"))
		return pipeline.Options{}, false
	}

	q := r.URL.Query()
	opts := pipeline.Options{
		Source:    pipeline.SourceJSON,
		Data:      body,
		Refresh:   boolParam(q.Get("refresh")),
		NoBands:   boolParam(q.Get("no_bands")),
		YearRuler: boolParam(q.Get("year_ruler")),
		Detailed:  boolParam(q.Get("detailed")),
		Logger:    s.logger,
	}
	return opts, true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	s.logger.Error("request failed",
		"id", RequestID(r),
		"method", r.Method,
		"path", r.URL.Path,
		"error", err)

	code := apperrors.GetCode(err)
	writeJSON(w, statusForCode(code), errorResponse{
		Error: apperrors.UserMessage(err),
		Code:  string(code),
	})
}

// statusForCode maps application error codes to HTTP statuses.
func statusForCode(code apperrors.Code) int {
	switch code {
	case apperrors.ErrCodeInvalidInput,
		apperrors.ErrCodeInvalidData,
		apperrors.ErrCodeInvalidFormat,
		apperrors.ErrCodeInvalidPath,
		apperrors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound,
		apperrors.ErrCodeFileNotFound,
		apperrors.ErrCodePersonNotFound,
		apperrors.ErrCodeMarriageNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func boolParam(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}
