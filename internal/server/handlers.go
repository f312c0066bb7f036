// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/pdiddy/citecheck/internal/crossref"
	"github.com/pdiddy/citecheck/internal/document"
	"github.com/pdiddy/citecheck/internal/generate"
	"github.com/pdiddy/citecheck/internal/history"
)

// AnalyzeRequest is the JSON body of /api/analyze.
type AnalyzeRequest struct {
	Text     string `json:"text" validate:"required"`
	Document string `json:"document" validate:"omitempty,max=255"`
}

// GenerateRequest is the JSON body of /api/generate_citation.
type GenerateRequest struct {
	Input string `json:"input" validate:"required,max=2000"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Mode    string `json:"mode,omitempty"`
	Message string `json:"message"`
}

type generateResponse struct {
	Status string `json:"status"`
	generate.Result
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	name, text, err := s.readManuscript(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "", "document exceeds the upload limit")
			return
		}
		writeError(w, http.StatusBadRequest, "", err.Error())
		return
	}

	report := s.analyzer.Analyze(text)
	analysesTotal.WithLabelValues(string(report.Summary.OverallStatus)).Inc()
	citationsChecked.Add(float64(report.TotalCitations))

	if s.recorder != nil {
		run := history.NewRun(name, report)
		if err := s.recorder.Save(r.Context(), &run); err != nil {
			s.logger.Warn("could not record analysis", zap.String("document", name), zap.Error(err))
		}
	}
	writeJSON(w, http.StatusOK, report)
}

// readManuscript accepts a multipart upload in field "file" or a JSON body.
func (s *Server) readManuscript(r *http.Request) (name, text string, err error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req AnalyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", "", fmt.Errorf("invalid request body: %w", err)
		}
		if err := s.validator.Struct(req); err != nil {
			return "", "", errors.New(validationMessage(err))
		}
		name = req.Document
		if name == "" {
			name = "(inline text)"
		}
		return name, req.Text, nil
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", "", errors.New("no file uploaded")
		}
		return "", "", err
	}
	defer file.Close()

	if header.Filename == "" {
		return "", "", errors.New("no file selected")
	}
	text, err = document.LoadReader(header.Filename, file)
	if err != nil {
		return "", "", err
	}
	return header.Filename, text, nil
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if s.generator == nil {
		writeError(w, http.StatusServiceUnavailable, "", "citation generation is not configured")
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "", "invalid request body")
		return
	}
	req.Input = strings.TrimSpace(req.Input)
	if err := s.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, string(generate.ModeUnknown), validationMessage(err))
		return
	}

	res, err := s.generator.Generate(r.Context(), req.Input)
	if err != nil {
		writeError(w, generateStatus(err), string(res.Mode), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{Status: "success", Result: res})
}

// generateStatus maps generation failures: unrecognised input is the
// caller's fault, an unmatched title or DOI is not found, anything else
// is a server error.
func generateStatus(err error) int {
	switch {
	case errors.Is(err, generate.ErrUnknownInput):
		return http.StatusBadRequest
	case errors.Is(err, generate.ErrNoMatch), errors.Is(err, crossref.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleSuggestDOI(w http.ResponseWriter, r *http.Request) {
	prefix := strings.TrimSpace(r.URL.Query().Get("prefix"))
	if prefix == "" {
		writeJSON(w, http.StatusOK, []crossref.Suggestion{})
		return
	}
	if s.suggester == nil {
		writeError(w, http.StatusServiceUnavailable, "", "DOI suggestions are not configured")
		return
	}

	limit := crossref.DefaultSuggestions
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 50 {
			writeError(w, http.StatusBadRequest, "", "limit must be between 1 and 50")
			return
		}
		limit = n
	}

	suggestions, err := s.suggester.SuggestDOI(r.Context(), prefix, limit)
	if err != nil {
		// Autocomplete degrades to no suggestions.
		s.logger.Warn("DOI suggestion failed", zap.String("prefix", prefix), zap.Error(err))
		suggestions = []crossref.Suggestion{}
	}
	writeJSON(w, http.StatusOK, suggestions)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, mode, message string) {
	writeJSON(w, status, errorResponse{Status: "error", Mode: mode, Message: message})
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
