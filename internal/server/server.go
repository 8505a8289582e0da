// Package server exposes the upload-and-download HTTP surface: an Excel
// workbook of dig sites goes in, a ZIP of snapshots or narratives comes out.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/dpup/prefab/logging"
	"github.com/gorilla/mux"

	"github.com/utiliscan/digsite-server/internal/config"
	"github.com/utiliscan/digsite-server/internal/services"
	"github.com/utiliscan/digsite-server/internal/snapshot"
	"github.com/utiliscan/digsite-server/internal/spreadsheet"
)

// uploadField is the multipart form field carrying the workbook
const uploadField = "workbook"

// SiteProcessor generates downloadable bundles from parsed dig sites
type SiteProcessor interface {
	GenerateSnapshots(ctx context.Context, sites []spreadsheet.Site) ([]snapshot.File, []services.Failure)
	GenerateNarratives(ctx context.Context, sites []spreadsheet.Site) ([]snapshot.File, []services.Failure)
}

// Server is the HTTP front end
type Server struct {
	processor SiteProcessor
	config    *config.Config
}

// New creates a new Server
func New(processor SiteProcessor, cfg *config.Config) *Server {
	return &Server{processor: processor, config: cfg}
}

// Router builds the route table
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/snapshots", s.handleBundle(s.processor.GenerateSnapshots, "snapshots.zip")).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/narratives", s.handleBundle(s.processor.GenerateNarratives, "narratives.zip")).Methods(http.MethodPost)
	return r
}

// ListenAndServe starts the HTTP server and blocks until it fails
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.config.Server.Port)
	log.Printf("Listening on %s", addr)
	return http.ListenAndServe(addr, s.Router())
}

// report is included in every bundle so per-sheet and per-site problems are
// visible without failing the whole upload
type report struct {
	Sites    int                   `json:"sites"`
	Skipped  []spreadsheet.Skipped `json:"skipped_sheets,omitempty"`
	Failures []services.Failure    `json:"failures,omitempty"`
}

// handleBundle parses the uploaded workbook, runs the generator across its
// sites and streams back a ZIP with the generated files plus a report.json
func (s *Server) handleBundle(
	generate func(ctx context.Context, sites []spreadsheet.Site) ([]snapshot.File, []services.Failure),
	filename string,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.Server.MaxUploadBytes)

		file, _, err := r.FormFile(uploadField)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("missing %q upload: %v", uploadField, err))
			return
		}
		defer file.Close()

		sites, skipped, err := spreadsheet.ReadSites(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if len(sites) == 0 {
			writeError(w, http.StatusBadRequest, "workbook contains no usable dig sheets")
			return
		}

		files, failures := generate(r.Context(), sites)

		summary, err := json.MarshalIndent(report{
			Sites:    len(sites),
			Skipped:  skipped,
			Failures: failures,
		}, "", "  ")
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		files = append(files, snapshot.File{Name: "report.json", Data: summary})

		bundle, err := snapshot.BuildZip(files)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		if _, err := w.Write(bundle); err != nil {
			logging.Errorw(r.Context(), "Failed to write bundle", "error", err)
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"status":"ok"}`)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		log.Printf("Failed to write error response: %v", err)
	}
}

// handleHome serves a simple HTML upload page at the server root
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	html := `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>digsite-server</title>
    <style>
        body {
            font-family: 'Courier New', Consolas, monospace;
            background: #000;
            color: #0f0;
            padding: 20px;
            line-height: 1.4;
        }
        a { color: #0ff; text-decoration: none; }
        a:hover { text-decoration: underline; }
        pre { margin: 0; }
        .header { color: #ff0; }
        form { margin: 20px 0; }
        input, button { font-family: inherit; }
    </style>
</head>
<body>
<pre>
<span class="header">digsite-server</span>

Upload an Excel workbook of dig sites. Sheets whose names start with
"dig" are read; coordinates come from cells AR15/AS15.

<span class="header">API Endpoints:</span>

  POST /api/v1/snapshots   - Annotated aerial snapshots (ZIP of JPEGs)
  POST /api/v1/narratives  - Driving narratives with KML/GeoJSON/HTML maps
  GET  /healthz            - Health check
</pre>

<form method="post" action="/api/v1/snapshots" enctype="multipart/form-data">
  <input type="file" name="workbook" accept=".xlsx" required>
  <button type="submit">Generate snapshots</button>
</form>

<form method="post" action="/api/v1/narratives" enctype="multipart/form-data">
  <input type="file" name="workbook" accept=".xlsx" required>
  <button type="submit">Generate narratives</button>
</form>
</body>
</html>`

	if _, err := fmt.Fprint(w, html); err != nil {
		log.Printf("Failed to write homepage HTML: %v", err)
	}
}
