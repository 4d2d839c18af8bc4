package web

import (
	"html/template"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"busboard.dev/busboard"
)

// Server renders the departure board as a small HTML page. It
// receives already-computed sections from the Schedule and displays
// them verbatim.
//
// Schedule may be nil when loading failed at startup; the board then
// renders its no-schedule state instead of failing requests.
type Server struct {
	Schedule *busboard.Schedule
	Outbound string
	Inbound  string
	Limit    int
	Log      zerolog.Logger

	tmpl *template.Template

	// Overridable for tests.
	now func() time.Time
}

func NewServer(schedule *busboard.Schedule, outbound, inbound string, limit int, log zerolog.Logger) *Server {
	return &Server{
		Schedule: schedule,
		Outbound: outbound,
		Inbound:  inbound,
		Limit:    limit,
		Log:      log,
		tmpl:     template.Must(template.New("board").Parse(boardTemplate)),
		now:      time.Now,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleBoard)
	return mux
}

type page struct {
	Title    string
	Now      string
	Sections []busboard.Section
	Error    string
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	now := s.now()
	data := page{
		Title: "Next Available Buses",
		Now:   now.Format("15:04:05"),
	}

	if s.Schedule == nil {
		data.Error = "No schedule data found!"
	} else if sections, err := s.Schedule.Board(s.Outbound, s.Inbound, now, s.Limit); err != nil {
		s.Log.Error().Err(err).Msg("building board")
		data.Error = "No schedule data found!"
	} else {
		data.Sections = sections
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		s.Log.Error().Err(err).Msg("rendering board")
		return
	}

	s.Log.Info().
		Str("path", r.URL.Path).
		Str("remote", r.RemoteAddr).
		Msg("served board")
}

const boardTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="30">
<title>{{.Title}}</title>
<style>
  body { font-family: sans-serif; margin: 1rem; }
  h1, h2 { text-align: center; }
  table { width: 100%; text-align: center; font-size: 18px; border-collapse: collapse; }
  th, td { padding: 0.4rem; border-bottom: 1px solid #ddd; }
  .empty { text-align: center; color: #555; }
  .warning { text-align: center; color: #a00; font-weight: bold; }
  hr { margin: 1.5rem 0; }
</style>
</head>
<body>
<h1>🚍 {{.Title}}</h1>
<p class="empty">as of {{.Now}}</p>
{{if .Error}}
<p class="warning">{{.Error}}</p>
{{end}}
{{range $i, $s := .Sections}}
{{if $i}}<hr>{{end}}
<h2>{{$s.Title}}</h2>
{{if $s.Departures}}
<table>
<tr><th>Route</th><th>Departure Time</th><th>Time Left</th></tr>
{{range $s.Departures}}
<tr><td>{{.Route}}</td><td>{{.Time}}</td><td>{{.TimeLeft}}</td></tr>
{{end}}
</table>
{{if $s.Warning}}<p class="warning">{{$s.Warning}}</p>{{end}}
{{else}}
<p class="empty">{{$s.Empty}}</p>
{{end}}
{{end}}
</body>
</html>
`
