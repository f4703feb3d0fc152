package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/csv2sendy/internal/charset"
	"github.com/JonMunkholm/csv2sendy/internal/core"
	"github.com/JonMunkholm/csv2sendy/internal/logging"
	"github.com/JonMunkholm/csv2sendy/internal/metrics"
	"github.com/JonMunkholm/csv2sendy/internal/session"
	"github.com/JonMunkholm/csv2sendy/internal/web/templates"
)

// exportFileName is the attachment name of every download.
const exportFileName = "processed_data.csv"

// multipartOverhead is headroom over the file size limit for the multipart
// envelope and form fields.
const multipartOverhead = 64 << 10

// maxExportBody bounds the JSON body of a download request.
const maxExportBody = 1 << 20

// uploadResponse is returned by POST /api/upload and GET /api/sessions/{id}.
type uploadResponse struct {
	SessionID    string              `json:"sessionId"`
	Headers      []string            `json:"headers"`
	Data         []map[string]string `json:"data"`
	Stats        core.Stats          `json:"stats"`
	Encoding     string              `json:"encoding"`
	FileName     string              `json:"fileName"`
	SuggestedTag string              `json:"suggestedTag"`
}

// downloadRequest is the body of POST /api/download.
type downloadRequest struct {
	SessionID        string            `json:"sessionId"`
	Columns          []core.ColumnSpec `json:"columns"`
	TagName          string            `json:"tagName"`
	TagValue         string            `json:"tagValue"`
	RemoveDuplicates *bool             `json:"removeDuplicates"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Index(s.cfg.Upload.MaxFileSize).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render index", "error", err)
	}
}

// pinger is implemented by stores backed by a network service.
type pinger interface {
	Ping(ctx context.Context) error
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			s.respondError(w, r, fmt.Errorf("%w: %v", errUnavailable, err), http.StatusServiceUnavailable)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpload decodes and normalizes one CSV file and stores the table
// under a new session.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var mbe *http.MaxBytesError
		if !errors.As(err, &mbe) {
			err = errNoFile
		}
		s.rejectUpload(w, r, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.rejectUpload(w, r, errNoFile)
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		s.rejectUpload(w, r, fmt.Errorf("%w: %s", errNotCSV, header.Filename))
		return
	}

	opts, err := uploadOptions(r)
	if err != nil {
		s.rejectUpload(w, r, err)
		return
	}

	if err := s.uploads.Acquire(ctx); err != nil {
		s.rejectUpload(w, r, err)
		return
	}
	defer s.uploads.Release()

	logger := logging.WithFields(ctx, "file", header.Filename)

	text, enc, err := charset.ReadText(file, maxSize)
	if err != nil {
		s.rejectUpload(w, r, err)
		return
	}

	table, err := core.Normalize(text, opts)
	if err != nil {
		s.rejectUpload(w, r, err)
		return
	}
	for _, c := range table.Stats.Collisions {
		logger.Warn("header collision", "field", c.Field, "dropped", c.Dropped, "kept", c.Kept)
	}

	id, err := session.Create(ctx, s.store, &session.Entry{
		Table:     table,
		FileName:  header.Filename,
		Encoding:  enc,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		s.metrics.ObserveUpload(metrics.ResultError, nil, 0)
		s.respondError(w, r, err, statusFor(err))
		return
	}
	s.metrics.ObserveUpload(metrics.ResultOK, table, time.Since(start))

	logger.Info("upload normalized",
		"session_id", id,
		"encoding", enc,
		"delimiter", table.Stats.Delimiter,
		"input_rows", table.Stats.InputRows,
		"kept_rows", table.Stats.KeptRows,
		"invalid_email_rows", table.Stats.InvalidEmailRows,
	)

	writeJSON(w, http.StatusOK, newUploadResponse(id, header.Filename, enc, table))
}

// rejectUpload answers an upload that failed before a session was stored.
func (s *Server) rejectUpload(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	result := metrics.ResultRejected
	if status >= http.StatusInternalServerError {
		result = metrics.ResultError
	}
	s.metrics.ObserveUpload(result, nil, 0)
	s.respondError(w, r, err, status)
}

// uploadOptions reads the optional delimiter form field.
func uploadOptions(r *http.Request) (core.Options, error) {
	var opts core.Options
	d := r.FormValue("delimiter")
	if d == "" {
		return opts, nil
	}
	if utf8.RuneCountInString(d) != 1 {
		return opts, fmt.Errorf("%w %q", core.ErrInvalidDelimiter, d)
	}
	opts.Delimiter, _ = utf8.DecodeRuneInString(d)
	return opts, nil
}

func newUploadResponse(id, fileName, enc string, t *core.Table) uploadResponse {
	return uploadResponse{
		SessionID:    id,
		Headers:      t.Columns(),
		Data:         t.Maps(),
		Stats:        t.Stats,
		Encoding:     enc,
		FileName:     fileName,
		SuggestedTag: suggestedTag(fileName),
	}
}

// suggestedTag is the file name without its directory and .csv extension.
func suggestedTag(fileName string) string {
	base := filepath.Base(strings.ReplaceAll(fileName, `\`, "/"))
	if ext := filepath.Ext(base); strings.EqualFold(ext, ".csv") {
		base = base[:len(base)-len(ext)]
	}
	return base
}

// handleDownload projects a stored table and returns it as a CSV attachment.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxExportBody)

	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.failExport(w, r, fmt.Errorf("%w: %v", errBadExport, err))
		return
	}
	if !session.ValidID(req.SessionID) {
		s.failExport(w, r, errBadSession)
		return
	}

	entry, err := s.store.Get(r.Context(), req.SessionID)
	if err != nil {
		s.failExport(w, r, err)
		return
	}

	p, err := core.Apply(entry.Table, core.ExportSpec{
		Columns:     req.Columns,
		TagName:     req.TagName,
		TagValue:    req.TagValue,
		Deduplicate: req.RemoveDuplicates,
	})
	if err != nil {
		s.failExport(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFileName+`"`)
	if err := p.WriteCSV(w); err != nil {
		// Headers are already sent; the client sees a truncated file.
		s.metrics.ObserveExport(metrics.ResultError, nil)
		logging.FromContext(r.Context()).Error("write export", "session_id", req.SessionID, "error", err)
		return
	}
	s.metrics.ObserveExport(metrics.ResultOK, p)

	logging.WithFields(r.Context(), "session_id", req.SessionID).Info("export written",
		"rows", len(p.Rows),
		"duplicates_removed", p.DuplicatesRemoved,
	)
}

func (s *Server) failExport(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	result := metrics.ResultRejected
	if status >= http.StatusInternalServerError {
		result = metrics.ResultError
	}
	s.metrics.ObserveExport(result, nil)
	s.respondError(w, r, err, status)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if !session.ValidID(id) {
		s.respondError(w, r, errBadSession, http.StatusNotFound)
		return
	}
	entry, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, newUploadResponse(id, entry.FileName, entry.Encoding, entry.Table))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if !session.ValidID(id) {
		s.respondError(w, r, errBadSession, http.StatusNotFound)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
