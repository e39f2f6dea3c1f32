package server

import (
	"bytes"
	"context"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"

	"github.com/pable/go-player-report/internal/chart"
	"github.com/pable/go-player-report/internal/dashboard"
	"github.com/pable/go-player-report/internal/export"
	"github.com/pable/go-player-report/internal/report"
)

const generateTimeout = 10 * time.Second

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthCheck returns the health status of the dashboard.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"players":   len(s.gen.Players()),
	})
}

// ListPlayers returns the selectable players and seasons.
func (s *Server) ListPlayers(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"players":        s.gen.Players(),
		"seasons":        s.gen.Seasons(),
		"default_season": s.gen.DefaultSeason(),
	})
}

// Index lists the players with links to their pages.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	s.renderHTML(w, "index.html", map[string]interface{}{
		"Players": s.gen.Players(),
		"Seasons": s.gen.Seasons(),
		"Season":  s.gen.DefaultSeason(),
	})
}

// PlayerPage renders the metrics page for one player and season.
// Query params: season
func (s *Server) PlayerPage(w http.ResponseWriter, r *http.Request) {
	res, ok := s.generate(w, r)
	if !ok {
		return
	}
	s.renderHTML(w, "player.html", map[string]interface{}{
		"Report":  res.Report,
		"Season":  res.Season,
		"Players": s.gen.Players(),
		"Seasons": s.gen.Seasons(),
		"Metrics": report.Metrics(res.Report),
		"CSVName": res.Filename(".csv"),
	})
}

// PlayerCharts renders the two charts as a standalone HTML page.
// Query params: season
func (s *Server) PlayerCharts(w http.ResponseWriter, r *http.Request) {
	res, ok := s.generate(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := chart.Render(&buf, res.Report, res.Season); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to render charts", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// PlayerReportJSON returns the full report as JSON.
// Query params: season
func (s *Server) PlayerReportJSON(w http.ResponseWriter, r *http.Request) {
	res, ok := s.generate(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"season": res.Season,
		"report": res.Report,
	})
}

// Download returns the per-match table as a file attachment named
// {player}_data_{season}.csv (or .xlsx).
// Query params: season, index (bool), format (csv|xlsx)
func (s *Server) Download(w http.ResponseWriter, r *http.Request) {
	res, ok := s.generate(w, r)
	if !ok {
		return
	}

	opts := export.Options{}
	if v := r.URL.Query().Get("index"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "index must be a boolean", nil)
			return
		}
		opts.Index = b
	}

	var (
		buf         bytes.Buffer
		ext         string
		contentType string
		err         error
	)
	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
		ext, contentType = ".csv", "text/csv; charset=utf-8"
		err = export.WriteCSV(&buf, res.Report.ExportRows, opts)
	case "xlsx":
		ext, contentType = ".xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = export.WriteXLSX(&buf, res.Player, res.Report.ExportRows, opts)
	default:
		s.respondError(w, http.StatusBadRequest, "unsupported format "+strconv.Quote(format), nil)
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to export", err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename(ext)}))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// generate builds the report selected by the request path and season query
// parameter, writing an error response and returning false on failure.
func (s *Server) generate(w http.ResponseWriter, r *http.Request) (*dashboard.Result, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	player := chi.URLParam(r, "player")
	if p, err := url.PathUnescape(player); err == nil {
		player = p
	}

	sel := dashboard.Selection{Player: player}
	if v := r.URL.Query().Get("season"); v != "" {
		season, err := strconv.Atoi(v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "season must be a year", nil)
			return nil, false
		}
		sel.Season = season
	}

	res, err := s.gen.Generate(ctx, sel)
	if err != nil {
		status := statusFor(err)
		msg := http.StatusText(status)
		if status != http.StatusInternalServerError {
			msg = err.Error()
		}
		s.respondError(w, status, msg, err)
		return nil, false
	}
	return res, true
}

// statusFor maps generation errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrUnknownPlayer), errors.Is(err, dashboard.ErrUnknownSeason):
		return http.StatusNotFound
	case dashboard.IsDataError(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) renderHTML(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to render page", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := sonic.ConfigStd.Marshal(data)
	if err != nil {
		s.logger.Error("encode response", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		if status >= http.StatusInternalServerError {
			s.logger.Error(message, "status", status, "err", err)
		} else {
			s.logger.Debug(message, "status", status, "err", err)
		}
	}
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
