// Package api exposes the player surface over HTTP JSON: selection, time
// controls, trade and diplomacy actions, and the save trigger. GET endpoints
// are read-only views; POST endpoints mutate the session.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/monetary-state/internal/economy"
	"github.com/talgya/monetary-state/internal/engine"
	"github.com/talgya/monetary-state/internal/persistence"
)

// Display constants from the management overlay; static flavor, not model.
const (
	displayInflationRate    = "2.0%"
	displayUnemploymentRate = "3%"
)

// Server serves the session over HTTP.
type Server struct {
	Eng   *engine.Engine
	Store *persistence.Store
	Port  int
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/countries", s.handleCountries)
	mux.HandleFunc("/api/v1/resources", s.handleResources)
	mux.HandleFunc("/api/v1/relations", s.handleRelations)
	mux.HandleFunc("/api/v1/news", s.handleNews)
	mux.HandleFunc("/api/v1/events", s.handleEvents)

	mux.HandleFunc("/api/v1/select", s.handleSelect)
	mux.HandleFunc("/api/v1/enter", s.handleEnter)
	mux.HandleFunc("/api/v1/pause", s.handlePause)
	mux.HandleFunc("/api/v1/resume", s.handleResume)
	mux.HandleFunc("/api/v1/speed", s.handleSpeed)
	mux.HandleFunc("/api/v1/trade", s.handleTrade)
	mux.HandleFunc("/api/v1/relations/improve", s.handleImprove)
	mux.HandleFunc("/api/v1/relations/worsen", s.handleWorsen)
	mux.HandleFunc("/api/v1/relations/trade", s.handleEstablishTrade)
	mux.HandleFunc("/api/v1/save", s.handleSave)

	return corsMiddleware(mux)
}

// Start begins serving in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)

	handler := s.Handler()
	go func() {
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware admits the browser frontend during development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "http://127.0.0.1:") {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}

	var payload map[string]any
	s.Eng.WithSession(func(sess *engine.Session) {
		payload = map[string]any{
			"sessionId":    sess.ID.String(),
			"inGame":       sess.InGame,
			"isPaused":     sess.Paused,
			"ended":        sess.Ended,
			"date":         sess.Date.Format("2006-01-02"),
			"speed":        sess.Speed,
			"happiness":    sess.Happiness,
			"treasury":     sess.Treasury,
			"inflation":    displayInflationRate,
			"unemployment": displayUnemploymentRate,
		}
		if sess.Ended {
			payload["endMessage"] = sess.EndCause
		}
		if sess.Selected != nil {
			c := sess.Selected
			rank, top100 := engine.Rank(sess.Countries.All(), c.Name.Common)
			rankDisplay := fmt.Sprintf("%d", rank)
			if !top100 {
				rankDisplay = engine.RankUnlisted
			}
			payload["country"] = map[string]any{
				"name":       c.Name.Common,
				"official":   c.Name.Official,
				"cca2":       c.CCA2,
				"flag":       fmt.Sprintf("https://flagcdn.com/w160/%s.png", strings.ToLower(c.CCA2)),
				"population": c.Population,
				"region":     c.Region,
				"gdp":        c.GDP,
				"gdpDisplay": "$" + humanize.Comma(c.GDP) + "M",
				"rank":       rankDisplay,
			}
		}
		if !sess.LastSaved.IsZero() && sess.Selected != nil {
			payload["saveCard"] = map[string]any{
				"country":   sess.Selected.Name.Common,
				"lastSaved": sess.LastSaved.UTC().Format(time.RFC3339),
			}
		}
		payload["wars"] = len(sess.WarWith)
	})
	writeJSON(w, payload)
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	type entry struct {
		Name       string    `json:"name"`
		CCA2       string    `json:"cca2"`
		Population int64     `json:"population"`
		Region     string    `json:"region"`
		LatLng     []float64 `json:"latlng,omitempty"`
	}
	var out []entry
	s.Eng.WithSession(func(sess *engine.Session) {
		for _, c := range sess.Countries.All() {
			out = append(out, entry{
				Name:       c.Name.Common,
				CCA2:       c.CCA2,
				Population: c.Population,
				Region:     c.Region,
				LatLng:     c.LatLng,
			})
		}
	})
	writeJSON(w, map[string]any{"countries": out, "count": len(out)})
}

func (s *Server) handleResources(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	var out []*economy.CategoryState
	s.Eng.WithSession(func(sess *engine.Session) {
		out = sess.Ledger.Categories
	})
	writeJSON(w, map[string]any{"categories": out})
}

func (s *Server) handleRelations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	type entry struct {
		Country          string `json:"country"`
		Score            int    `json:"score"`
		Standing         string `json:"standing"`
		TradeEstablished bool   `json:"tradeEstablished"`
		TradeVolume      int64  `json:"tradeVolume"`
	}
	var out []entry
	var wars []string
	s.Eng.WithSession(func(sess *engine.Session) {
		for name, rel := range sess.Relations {
			out = append(out, entry{
				Country:          name,
				Score:            rel.Score,
				Standing:         engine.Standing(rel.Score),
				TradeEstablished: rel.TradeEstablished,
				TradeVolume:      rel.TradeVolume,
			})
		}
		for name := range sess.WarWith {
			wars = append(wars, name)
		}
	})
	writeJSON(w, map[string]any{"relations": out, "warWith": wars})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	var out any
	s.Eng.WithSession(func(sess *engine.Session) {
		out = sess.News.Items()
	})
	writeJSON(w, map[string]any{"headlines": out})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	var out []engine.Event
	s.Eng.WithSession(func(sess *engine.Session) {
		out = sess.RecentEvents(50)
	})
	writeJSON(w, map[string]any{"events": out})
}

// handleSelect focuses a country; an empty body randomizes.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	decodeBody(r, &req)

	if req.Name == "" {
		name, err := s.Eng.SelectRandom()
		if err != nil {
			writeActionError(w, err)
			return
		}
		writeJSON(w, map[string]any{"selected": name, "random": true})
		return
	}
	if err := s.Eng.SelectCountry(req.Name); err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, map[string]any{"selected": req.Name})
}

func (s *Server) handleEnter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	if err := s.Eng.EnterState(time.Now()); err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, map[string]any{"inGame": true})
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	s.Eng.Pause()
	writeJSON(w, map[string]any{"isPaused": true})
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	s.Eng.Resume(time.Now())
	writeJSON(w, map[string]any{"isPaused": false})
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var req struct {
		Delta int `json:"delta"`
	}
	decodeBody(r, &req)
	if req.Delta < -1 || req.Delta > 1 {
		writeError(w, http.StatusBadRequest, "delta must be -1 or +1")
		return
	}
	speed, err := s.Eng.AdjustSpeed(req.Delta)
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, map[string]any{"speed": speed})
}

func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var req struct {
		Side     string `json:"side"` // "buy" or "sell"
		Category string `json:"category"`
		Item     string `json:"item"`
		Tonnes   int64  `json:"tonnes"`
	}
	decodeBody(r, &req)

	var err error
	switch req.Side {
	case "buy":
		err = s.Eng.BuyResource(req.Category, req.Item, req.Tonnes)
	case "sell":
		err = s.Eng.SellResource(req.Category, req.Item, req.Tonnes)
	default:
		writeError(w, http.StatusBadRequest, "side must be buy or sell")
		return
	}
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

func (s *Server) handleImprove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var req struct {
		Country string `json:"country"`
	}
	decodeBody(r, &req)
	if err := s.Eng.ImproveRelations(req.Country); err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

func (s *Server) handleWorsen(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var req struct {
		Country string `json:"country"`
		Confirm bool   `json:"confirm"`
	}
	decodeBody(r, &req)
	if err := s.Eng.WorsenRelations(req.Country, req.Confirm); err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

func (s *Server) handleEstablishTrade(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var req struct {
		Country string `json:"country"`
	}
	decodeBody(r, &req)
	if err := s.Eng.EstablishTrade(req.Country); err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

// handleSave writes the single save slot (the SAVE & EXIT trigger; shutdown
// is the host's concern, the slot write is ours).
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	snap, err := s.Eng.Snapshot(time.Now())
	if err != nil {
		writeActionError(w, err)
		return
	}
	blob, err := persistence.Encode(snap)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.Store.Save(blob); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, map[string]any{"saved": true, "lastSaved": snap.LastSaved})
}

func decodeBody(r *http.Request, v any) {
	if r.Body == nil {
		return
	}
	defer r.Body.Close()
	_ = json.NewDecoder(r.Body).Decode(v)
}

// writeActionError maps engine preconditions to HTTP statuses.
func writeActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrUnknownCountry), errors.Is(err, economy.ErrUnknownCategory), errors.Is(err, economy.ErrUnknownItem):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrInsufficientFunds),
		errors.Is(err, engine.ErrTradeExists),
		errors.Is(err, engine.ErrRelationTooLow),
		errors.Is(err, engine.ErrAtWar),
		errors.Is(err, engine.ErrSessionEnded),
		errors.Is(err, engine.ErrNotInGame),
		errors.Is(err, economy.ErrCapacityExceeded),
		errors.Is(err, economy.ErrInsufficientStock),
		errors.Is(err, economy.ErrNotTradeable):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, engine.ErrConfirmationRequired):
		writeError(w, http.StatusPreconditionRequired, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
