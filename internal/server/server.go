package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lmedrano/pulso/internal/database"
	"github.com/lmedrano/pulso/internal/export"
	"github.com/lmedrano/pulso/internal/report"
)

// Analyzer submits URL batches to the analysis service.
type Analyzer interface {
	Analyze(ctx context.Context, subject report.Subject, urls []string) (*report.AnalysisResponse, error)
}

// Server exposes saved reports and on-demand analysis over HTTP.
type Server struct {
	db       *database.DB
	analyzer Analyzer
	log      *logrus.Logger
	mux      *http.ServeMux
}

// New creates a new Server.
func New(db *database.DB, analyzer Analyzer, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{db: db, analyzer: analyzer, log: log, mux: http.NewServeMux()}
	s.routes()
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/api/analyze", s.handleAnalyze)
	s.mux.HandleFunc("/api/subjects", s.handleSubjects)
	s.mux.HandleFunc("/api/reports", s.handleReports)
	s.mux.HandleFunc("/api/reports/", s.handleReport)
	s.mux.HandleFunc("/reports/", s.handleReportPage)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type analyzeAPIRequest struct {
	Name   string   `json:"name"`
	Office string   `json:"office,omitempty"`
	URLs   []string `json:"urls"`
	Save   bool     `json:"save,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req analyzeAPIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		s.writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if len(req.URLs) == 0 {
		s.writeError(w, http.StatusBadRequest, "urls is required")
		return
	}

	subject := report.Subject{Name: strings.TrimSpace(req.Name), Office: req.Office}
	resp, err := s.analyzer.Analyze(r.Context(), subject, req.URLs)
	if err != nil {
		s.log.WithError(err).Error("analysis request failed")
		s.writeError(w, http.StatusBadGateway, "analysis service unavailable")
		return
	}
	if resp.Politician.Name == "" {
		resp.Politician.Name = subject.Name
	}
	if resp.Politician.Office == "" {
		resp.Politician.Office = subject.Office
	}

	dash := report.Transform(resp)

	if req.Save {
		if _, err := s.saveReport(resp, dash); err != nil {
			s.log.WithError(err).Error("failed to save report")
			s.writeError(w, http.StatusInternalServerError, "failed to save report")
			return
		}
	}

	s.writeJSON(w, http.StatusOK, dash)
}

func (s *Server) saveReport(resp *report.AnalysisResponse, dash *report.DashboardModel) (int64, error) {
	var office *string
	if resp.Politician.Office != "" {
		office = &resp.Politician.Office
	}
	subjectID, err := s.db.UpsertSubject(resp.Politician.Name, office)
	if err != nil {
		return 0, err
	}

	dashJSON, err := json.Marshal(dash)
	if err != nil {
		return 0, err
	}
	respJSON, err := json.Marshal(resp)
	if err != nil {
		return 0, err
	}
	raw := string(respJSON)

	return s.db.InsertReport(subjectID, "weekly", dash.Period, string(dashJSON), &raw)
}

func (s *Server) handleSubjects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	subjects, err := s.db.GetAllSubjects()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.writeJSON(w, http.StatusOK, subjectList(subjects))
}

type subjectView struct {
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	Office string `json:"office,omitempty"`
}

func subjectList(subjects []database.Subject) []subjectView {
	views := make([]subjectView, 0, len(subjects))
	for _, s := range subjects {
		v := subjectView{Slug: s.Slug, Name: s.Name}
		if s.Office != nil {
			v.Office = *s.Office
		}
		views = append(views, v)
	}
	return views
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}

	var (
		reports []database.Report
		err     error
	)
	if slug := r.URL.Query().Get("subject"); slug != "" {
		reports, err = s.db.GetReportsForSubject(slug)
	} else {
		reports, err = s.db.GetAllReports()
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.writeJSON(w, http.StatusOK, reportList(reports))
}

type reportView struct {
	ID        int64  `json:"id"`
	Subject   string `json:"subject"`
	Slug      string `json:"slug"`
	Kind      string `json:"kind"`
	Period    string `json:"period"`
	CreatedAt string `json:"created_at,omitempty"`
}

func reportList(reports []database.Report) []reportView {
	views := make([]reportView, 0, len(reports))
	for _, r := range reports {
		v := reportView{
			ID:      r.ID,
			Subject: r.SubjectName,
			Slug:    r.SubjectSlug,
			Kind:    r.Kind,
			Period:  r.Period,
		}
		if r.CreatedAt != nil {
			v.CreatedAt = *r.CreatedAt
		}
		views = append(views, v)
	}
	return views
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	id, ok := s.reportID(w, r, "/api/reports/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		saved, err := s.db.GetReport(id)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if saved == nil {
			s.writeError(w, http.StatusNotFound, "report not found")
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(saved.DashboardJSON))

	case http.MethodDelete:
		if err := s.db.DeleteReport(id); err != nil {
			s.writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		s.writeError(w, http.StatusMethodNotAllowed, "GET or DELETE required")
	}
}

func (s *Server) handleReportPage(w http.ResponseWriter, r *http.Request) {
	id, ok := s.reportID(w, r, "/reports/")
	if !ok {
		return
	}

	saved, err := s.db.GetReport(id)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if saved == nil {
		http.NotFound(w, r)
		return
	}

	var dash report.DashboardModel
	if err := json.Unmarshal([]byte(saved.DashboardJSON), &dash); err != nil {
		s.log.WithError(err).WithField("report", id).Error("stored dashboard is not valid JSON")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	page, err := export.HTML(&dash)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, page)
}

func (s *Server) reportID(w http.ResponseWriter, r *http.Request, prefix string) (int64, bool) {
	raw := strings.TrimPrefix(r.URL.Path, prefix)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, http.StatusBadRequest, "invalid report ID")
		return 0, false
	}
	return id, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Error("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// Serve starts the HTTP server on the given port.
func Serve(db *database.DB, analyzer Analyzer, port int, log *logrus.Logger) error {
	srv := New(db, analyzer, log)

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	if log != nil {
		log.WithField("addr", addr).Info("server listening")
	}
	return http.ListenAndServe(addr, srv.Handler())
}
