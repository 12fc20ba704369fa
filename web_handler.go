package main

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pivolan/telecom_charts/domain/models"
	"github.com/pivolan/telecom_charts/metrics"
)

const maxUploadSize = 64 << 20

var uploadPage = template.Must(template.New("upload").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Telecom charts</title></head>
<body>
<h2>Upload market share or company profile workbooks</h2>
<form action="/upload" method="post" enctype="multipart/form-data">
  <input type="hidden" name="uuid" value="{{.ID}}">
  <input type="file" name="file" multiple accept=".xlsx,.xls,.xlsm,.zip,.gz,.lz4">
  <button type="submit">Upload</button>
</form>
{{if .Files}}<h3>Files</h3><ul>{{range .Files}}<li>{{.}}</li>{{end}}</ul>
<p>Market share: <code>/s/{{.ID}}/market?country=Germany&amp;year=2024&amp;quarter=Q4&amp;format=html</code></p>
<p>Company profiles: <code>/s/{{.ID}}/profile?metric=ARPU&amp;period=Q2+2024&amp;mode=YoY&amp;format=html</code>,
<a href="/s/{{.ID}}/metrics">available metrics</a></p>{{end}}
</body>
</html>`))

// notifier tells a chat about things that happened in the browser.
type notifier interface {
	Notify(chatID int64, text string)
}

type webServer struct {
	store    *SessionStore
	notifier notifier
}

func newRouter(ws *webServer, access zerolog.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(
		handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{})),
		accessLog(access),
		handlers.CompressHandler,
	)
	r.HandleFunc("/", ws.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/upload", ws.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/s/{id}/metrics", ws.handleMetrics).Methods(http.MethodGet)
	r.HandleFunc("/s/{id}/market", ws.handleMarket).Methods(http.MethodGet)
	r.HandleFunc("/s/{id}/profile", ws.handleProfile).Methods(http.MethodGet)
	return r
}

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	log.Error().Msg(fmt.Sprint(v...))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func accessLog(logger zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Dur("duration", time.Since(start)).
				Msg("http request")
		})
	}
}

func (ws *webServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	state, ok := ws.store.State(id)
	if !ok {
		id = ws.store.New(0)
	}
	names := make([]string, len(state.Files))
	for i, f := range state.Files {
		names[i] = filepath.Base(f)
	}
	err := uploadPage.Execute(w, struct {
		ID    string
		Files []string
	}{id, names})
	if err != nil {
		http.Error(w, "Error rendering upload form", http.StatusInternalServerError)
	}
}

// saveUpload stores one multipart file in dir and unpacks archives.
func saveUpload(dir, name string, src io.Reader) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	filePath := filepath.Join(dir, filepath.Base(name))
	dst, err := os.Create(filePath)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return nil, err
	}
	if err := dst.Close(); err != nil {
		return nil, err
	}
	files, err := unpackArchive(filePath)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, f := range files {
		if isSpreadsheet(f) {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		os.Remove(filePath)
		return nil, fmt.Errorf("%s is not a spreadsheet", filepath.Base(name))
	}
	return out, nil
}

func (ws *webServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "Error uploading file", http.StatusBadRequest)
		return
	}
	id := r.FormValue("uuid")
	if _, ok := ws.store.State(id); !ok {
		http.Error(w, "Unknown or expired upload link", http.StatusNotFound)
		return
	}
	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		http.Error(w, "No file in the form", http.StatusBadRequest)
		return
	}

	var saved []string
	for _, h := range headers {
		src, err := h.Open()
		if err != nil {
			http.Error(w, "Error uploading file", http.StatusBadRequest)
			return
		}
		files, err := saveUpload(ws.store.Dir(id), h.Filename, src)
		src.Close()
		if err != nil {
			log.Warn().Err(err).Str("session", id).Str("file", h.Filename).Msg("upload rejected")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		saved = append(saved, files...)
	}
	if err := ws.store.AddFiles(id, saved...); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	log.Info().Str("session", id).Int("files", len(saved)).Msg("files uploaded")

	names := make([]string, len(saved))
	for i, f := range saved {
		names[i] = filepath.Base(f)
	}
	if chatID, ok := ws.store.ChatID(id); ok && chatID != 0 && ws.notifier != nil {
		ws.notifier.Notify(chatID, "Files uploaded: "+strings.Join(names, ", ")+"\nUse /market or /profile to build a chart.")
	}
	fmt.Fprintf(w, "Uploaded: %s\n", strings.Join(names, ", "))
}

// sessionState loads the session named in the route and makes sure it has files.
func (ws *webServer) sessionState(w http.ResponseWriter, r *http.Request) (string, models.ViewState, bool) {
	id := mux.Vars(r)["id"]
	state, ok := ws.store.State(id)
	if !ok {
		http.Error(w, "Unknown or expired session", http.StatusNotFound)
		return "", state, false
	}
	if len(state.Files) == 0 {
		http.Error(w, "Upload a workbook first", http.StatusBadRequest)
		return "", state, false
	}
	return id, state, true
}

func writeFailure(w http.ResponseWriter, err error) {
	var f *metrics.Failure
	if errors.As(err, &f) {
		http.Error(w, metrics.UserMessage(err), http.StatusUnprocessableEntity)
		return
	}
	log.Error().Err(err).Msg("chart request failed")
	http.Error(w, metrics.UserMessage(err), http.StatusInternalServerError)
}

func selectionMessage(err error) string {
	var f *metrics.Failure
	if errors.As(err, &f) {
		return metrics.UserMessage(err)
	}
	return err.Error()
}

func writeChart(w http.ResponseWriter, format chartFormat, body []byte) {
	if format == formatHTML {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "image/png")
	}
	w.Write(body)
}

func (ws *webServer) handleMarket(w http.ResponseWriter, r *http.Request) {
	id, state, ok := ws.sessionState(w, r)
	if !ok {
		return
	}
	format, err := parseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sel := state.Market
	if sel.Metric == "" {
		sel = defaultMarketSelection()
	}
	if err := applyMarketArgs(&sel, queryArgs(r.URL.Query())); err != nil {
		http.Error(w, selectionMessage(err), http.StatusBadRequest)
		return
	}
	ws.store.Update(id, func(st *models.ViewState) {
		st.Mode = models.ModeMarket
		st.Market = sel
	})

	report, err := buildMarketChart(state.Files, sel, format)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeChart(w, format, report.Chart)
}

func (ws *webServer) handleProfile(w http.ResponseWriter, r *http.Request) {
	id, state, ok := ws.sessionState(w, r)
	if !ok {
		return
	}
	format, err := parseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sel := state.Profile
	if sel.Mode == "" {
		sel = defaultProfileSelection()
	}
	if err := applyProfileArgs(&sel, queryArgs(r.URL.Query())); err != nil {
		http.Error(w, selectionMessage(err), http.StatusBadRequest)
		return
	}
	ws.store.Update(id, func(st *models.ViewState) {
		st.Mode = models.ModeProfile
		st.Profile = sel
	})

	report, err := buildProfileChart(state.Files, sel, format)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeChart(w, format, report.Chart)
}

func (ws *webServer) handleMetrics(w http.ResponseWriter, r *http.Request) {
	_, state, ok := ws.sessionState(w, r)
	if !ok {
		return
	}
	names, err := profileMetrics(state.Files)
	if err != nil {
		writeFailure(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, strings.Join(names, "\n"))
}
