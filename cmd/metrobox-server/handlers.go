package main

import (
	"encoding/json"
	"net/http"

	"github.com/daniacca/metrobox/internal/energy"
	"github.com/daniacca/metrobox/internal/metro"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// POST /system
// Body: SystemConfig JSON
func (s *Server) handleSystem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var cfg metro.SystemConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "invalid system json: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.loadSystem(cfg); err != nil {
		http.Error(w, "cannot load system: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("system loaded"))
}

// POST /step
// Body: { "moves": n } (optional, defaults to 1)
type stepRequest struct {
	Moves int `json:"moves"`
}

type stepResponse struct {
	Moves    int     `json:"moves"`
	Accepted int     `json:"accepted"`
	Rejected int     `json:"rejected"`
	Energy   float64 `json:"energy"`
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	req := stepRequest{Moves: 1}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	if req.Moves < 1 {
		req.Moves = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.box == nil {
		http.Error(w, "no system loaded", http.StatusBadRequest)
		return
	}

	resp := stepResponse{Moves: req.Moves}
	sys := s.box.System()
	for i := 0; i < req.Moves; i++ {
		idx := s.box.ChooseMolecule()
		if _, err := s.box.ProposeMove(idx); err != nil {
			http.Error(w, "propose move: "+err.Error(), http.StatusInternalServerError)
			return
		}
		s.moveCount++

		proposed := s.evaluator.Total(sys)
		if energy.MetropolisAccept(s.current, proposed, s.cfg.Temperature, s.rng) {
			s.current = proposed
			resp.Accepted++
		} else {
			if err := s.box.Rollback(idx); err != nil {
				http.Error(w, "rollback: "+err.Error(), http.StatusInternalServerError)
				return
			}
			resp.Rejected++
		}
	}
	resp.Energy = s.current

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Errorf("cannot encode step response: %v", err)
	}
}

// GET /state
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.box == nil {
		http.Error(w, "no system loaded", http.StatusBadRequest)
		return
	}

	type runIDer interface{ RunID() string }
	runID := ""
	if b, ok := s.box.(runIDer); ok {
		runID = b.RunID()
	}

	snap := metro.CaptureSystemSnapshot(runID, s.moveCount, s.box.System())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// GET /events/ws
// Upgrades to a WebSocket and streams move events until the client leaves.
func (s *Server) handleEventsWS(w http.ResponseWriter, r *http.Request) {
	upgrader := s.wsNotifier.GetUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorf("websocket upgrade failed: %v", err)
		return
	}

	s.wsNotifier.RegisterClient(conn)
	s.logger.Debugf("websocket client connected: %s", conn.RemoteAddr())

	// Reads are only for detecting the client going away.
	go func() {
		defer s.wsNotifier.UnregisterClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
