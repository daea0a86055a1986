package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"apigrader/internal/endpoints"
	"apigrader/internal/grader"
	"apigrader/internal/report"
	"apigrader/internal/roster"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

const maxRosterBytes = 10 << 20

// Server - HTTP-обертка над грейдером
type Server struct {
	grader  *grader.Grader
	csvName string
	zipName string
}

// New - создает сервер поверх готового грейдера
func New(g *grader.Grader, csvName, zipName string) *Server {
	return &Server{grader: g, csvName: csvName, zipName: zipName}
}

// Handler - маршруты сервера
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /grade", s.handleGrade)
	mux.HandleFunc("GET /endpoints", s.handleEndpoints)
	return mux
}

type endpointInfo struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

func (s *Server) handleEndpoints(w http.ResponseWriter, r *http.Request) {
	var out []endpointInfo
	for _, ep := range endpoints.All() {
		out = append(out, endpointInfo{ID: ep.ID, Key: ep.Key})
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		slog.WarnContext(r.Context(), "failed to write endpoints", "err", err)
	}
}

func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "csv" && format != "zip" {
		http.Error(w, fmt.Sprintf("unknown format %q", format), http.StatusBadRequest)
		return
	}

	entries, err := roster.Read(http.MaxBytesReader(w, r.Body, maxRosterBytes))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	slog.InfoContext(r.Context(), "grading roster", "students", len(entries))

	summary, err := s.grader.GradeRoster(r.Context(), entries)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			slog.WarnContext(r.Context(), "client went away while grading", "err", err)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.writeSummary(w, r, summary, format)
}

func (s *Server) writeSummary(w http.ResponseWriter, r *http.Request, summary report.Summary, format string) {
	var err error
	switch format {
	case "zip":
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.zipName))
		err = summary.WriteZip(w)
	default:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.csvName))
		err = summary.WriteCSV(w)
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to write grading results", "err", err)
	}
}

// ListenAndServe - слушает порт до отмены контекста
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", port),
		Handler:           h2c.NewHandler(s.Handler(), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		slog.Info("listening", "port", port)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
