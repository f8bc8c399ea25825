package admin

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"starops-sim/internal/sim"
)

// Server exposes a small HTTP admin surface over a running battle.
type Server struct {
	Sim *sim.Simulator
	tpl *template.Template
}

//go:embed templates/index.html
var content embed.FS

func NewServer(simulator *sim.Simulator) *Server {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	return &Server{Sim: simulator, tpl: tpl}
}

func (s *Server) routes() {
	http.HandleFunc("/", s.handleIndex)
	http.HandleFunc("/state", s.handleState)
	http.HandleFunc("/events", s.handleEvents)
	http.HandleFunc("/craft", s.handleCraft)
	http.HandleFunc("/hud", s.handleHud)
	http.HandleFunc("/toggle-pause", s.handleTogglePause)
}

func (s *Server) Start(addr string) error {
	s.routes()
	return http.ListenAndServe(addr, nil)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Mission string
		State   string
		Paused  bool
		Events  int
		Craft   []sim.CraftStatus
	}{
		Mission: s.Sim.MissionName(),
		State:   string(s.Sim.MissionState()),
		Paused:  s.Sim.Paused(),
		Events:  len(s.Sim.EventStatus()),
		Craft:   s.Sim.CraftSnapshot(),
	}
	s.tpl.Execute(w, data)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"mission": s.Sim.MissionName(),
		"state":   s.Sim.MissionState(),
		"paused":  s.Sim.Paused(),
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Sim.EventStatus())
}

func (s *Server) handleCraft(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Sim.CraftSnapshot())
}

func (s *Server) handleHud(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Sim.HudSections())
}

func (s *Server) handleTogglePause(w http.ResponseWriter, r *http.Request) {
	paused := s.Sim.TogglePause()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"paused": paused})
}
