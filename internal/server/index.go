package server

import (
	_ "embed"
	"html/template"
	"net/http"
)

//go:embed index.html
var indexSource string

var indexTemplate = template.Must(template.New("index").Parse(indexSource))

// handleIndex serves a minimal canvas client from the same origin as /ws.
func (s *Server) handleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		data := struct{ CellSize float64 }{s.opts.CellSize}
		if err := indexTemplate.Execute(w, data); err != nil {
			s.log.WithError(err).Warn("render index")
		}
	}
}
