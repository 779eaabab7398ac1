package httpadapter

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ahmedafzal98/Document-Extraction/internal/config"
	"github.com/ahmedafzal98/Document-Extraction/internal/core/ports"
)

// Uploads are streamed to object storage; this only bounds the in-memory
// part of multipart parsing.
const maxMultipartMemory = 32 << 20

type Router struct {
	ingestUC  ports.DocumentIngestor
	datasetUC ports.DatasetImporter
	docs      ports.DocumentReader
	matches   ports.MatchReader
	cfg       config.Config
}

func NewRouter(
	ingestUC ports.DocumentIngestor,
	datasetUC ports.DatasetImporter,
	docs ports.DocumentReader,
	matches ports.MatchReader,
	cfg config.Config,
) *Router {
	return &Router{
		ingestUC:  ingestUC,
		datasetUC: datasetUC,
		docs:      docs,
		matches:   matches,
		cfg:       cfg,
	}
}

func (rt *Router) Handler() http.Handler {
	readGate := func(h http.HandlerFunc) http.Handler {
		return backpressureMiddleware(h, rt.cfg.APIMaxConcurrentReads, rt.readTimeout())
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.uploadDocuments)
	mux.Handle("/v1/documents/", readGate(rt.getDocumentByID))
	mux.HandleFunc("/v1/datasets", rt.importDataset)
	mux.Handle("/v1/matches", readGate(rt.listMatches))
	mux.Handle("/v1/extracted-fields", readGate(rt.listExtractedFields))

	var handler http.Handler = mux
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) readTimeout() time.Duration {
	if rt.cfg.APIReadTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(rt.cfg.APIReadTimeoutSeconds) * time.Second
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type uploadResult struct {
	DocumentID string `json:"document_id,omitempty"`
	Filename   string `json:"filename"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

// uploadDocuments accepts one or more PDFs in a single multipart request.
// Each file is stored and queued independently, so one bad file does not
// reject its siblings.
func (rt *Router) uploadDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart request"})
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["file"]
	}
	if len(headers) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'files' is required"})
		return
	}

	results := make([]uploadResult, 0, len(headers))
	queued := 0
	var firstErr error
	for _, header := range headers {
		result, err := rt.uploadOne(r.Context(), header)
		if err == nil {
			queued++
		} else if firstErr == nil {
			firstErr = err
		}
		results = append(results, result)
	}

	status := http.StatusAccepted
	if queued == 0 {
		status = mapErrorToHTTPStatus(firstErr)
	}
	writeJSON(w, status, map[string]any{"documents": results})
}

func (rt *Router) uploadOne(ctx context.Context, header *multipart.FileHeader) (uploadResult, error) {
	file, err := header.Open()
	if err != nil {
		return uploadResult{Filename: header.Filename, Status: "failed", Error: "open uploaded file: " + err.Error()}, err
	}
	defer file.Close()

	doc, err := rt.ingestUC.Upload(ctx, header.Filename, file)
	if err != nil {
		return uploadResult{Filename: header.Filename, Status: "failed", Error: err.Error()}, err
	}
	return uploadResult{DocumentID: doc.ID, Filename: doc.Filename, Status: "queued"}, nil
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	doc, err := rt.docs.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) importDataset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	count, err := rt.datasetUC.Import(r.Context(), fileHeader.Filename, file)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"filename": fileHeader.Filename, "records": count})
}

func (rt *Router) listMatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	matches, err := rt.matches.ListMatches(r.Context(), limit)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": matches})
}

func (rt *Router) listExtractedFields(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	fields, err := rt.matches.ListExtractedFields(r.Context(), limit)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"extracted_fields": fields})
}

func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
		return 0, false
	}
	return limit, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
