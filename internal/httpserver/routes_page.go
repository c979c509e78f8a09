// internal/httpserver/routes_page.go
//
// Server-rendered pages:
//   - GET /       → activity page (teacher controls, word cards, answer box, tips)
//   - GET /print  → print-friendly worksheet for the current round
//
// The pages read the same session as the JSON API; app.js drives the
// actions and reloads the view.

package httpserver

import (
	"bytes"
	"html/template"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/scrambler/internal/catalog"
	"github.com/robalobadob/scrambler/internal/worksheet"
)

type indexPage struct {
	Tiers []catalog.Entry
	View  roundView
	Now   time.Time
}

type printPage struct {
	Sheet worksheet.Worksheet
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, err := s.loadSession(w, r)
	if err != nil {
		log.Error().Err(err).Msg("load session")
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	s.render(w, http.StatusOK, "index.tmpl", indexPage{
		Tiers: s.engine.Catalog.Entries(),
		View:  s.viewOf(sess),
		Now:   s.engine.Now(),
	})
}

func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	sess, err := s.loadSession(w, r)
	if err != nil {
		log.Error().Err(err).Msg("load session")
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	ws, ok := s.worksheetOf(sess)
	if !ok {
		http.Error(w, "no round in progress", http.StatusNotFound)
		return
	}
	s.render(w, http.StatusOK, "print.tmpl", printPage{Sheet: ws})
}

// render executes a template into a buffer so a failure never sends half a page.
func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("render")
		http.Error(w, template.HTMLEscapeString(err.Error()), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
