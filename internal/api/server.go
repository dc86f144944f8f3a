// Package api provides the HTTP API the renderer queries for settlement
// features. GET endpoints are public (read-only observation); the
// websocket stream lets a client follow its viewport without re-issuing
// requests. See design doc Section 8.4.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talgya/crossroads/internal/persistence"
	"github.com/talgya/crossroads/internal/settlement"
)

const maxStreamConns = 4

// maxQuerySpanRegions bounds a single query window, in region widths per
// axis, so one request can't force unbounded generation.
const maxQuerySpanRegions = 4.0

// Server serves settlement features over HTTP.
type Server struct {
	Gen       *settlement.Generator
	Store     *persistence.DB // optional warm layout cache; nil disables
	Port      int
	Handshake string // canonical config hash, echoed so clients can verify parity

	streamConns int32
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	featureLimiter := NewRateLimiter(600, time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/handshake", s.handleHandshake)
	mux.HandleFunc("/api/v1/features", RateLimitMiddleware(featureLimiter, s.handleFeatures))
	mux.HandleFunc("/api/v1/region", s.handleRegion)
	mux.HandleFunc("/api/v1/stream", s.handleStream)

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "snapshot_store", s.Store != nil)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	cfg := s.Gen.Config()
	writeJSON(w, map[string]any{
		"seed":       cfg.Seed,
		"regionSize": cfg.Roads.RegionSize,
		"cellSize":   cfg.Settlement.CellSize,
		"handshake":  s.Handshake,
	})
}

func (s *Server) handleHandshake(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"handshake": s.Handshake,
		"config":    s.Gen.Config(),
	})
}

// handleFeatures answers GET /api/v1/features?minX=&maxX=&minY=&maxY=.
func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	b, err := parseBounds(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if msg, ok := s.checkSpan(b); !ok {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	features := s.Gen.GetFeaturesForBounds(b.MinX, b.MaxX, b.MinY, b.MaxY)
	writeJSON(w, map[string]any{
		"handshake": s.Handshake,
		"features":  features,
	})
}

// handleRegion answers GET /api/v1/region?x=&y= with one region's layout,
// consulting the snapshot store before generating.
func (s *Server) handleRegion(w http.ResponseWriter, r *http.Request) {
	rx, errX := strconv.Atoi(r.URL.Query().Get("x"))
	ry, errY := strconv.Atoi(r.URL.Query().Get("y"))
	if errX != nil || errY != nil {
		http.Error(w, "x and y must be integers", http.StatusBadRequest)
		return
	}

	if s.Store != nil {
		if l, ok, err := s.Store.LoadLayout(s.Handshake, rx, ry); err != nil {
			slog.Error("snapshot load failed", "region_x", rx, "region_y", ry, "error", err)
		} else if ok {
			writeJSON(w, l)
			return
		}
	}

	l := s.Gen.RegionLayout(rx, ry)
	if s.Store != nil {
		if err := s.Store.SaveLayout(s.Handshake, l); err != nil {
			slog.Error("snapshot save failed", "region_x", rx, "region_y", ry, "error", err)
		}
	}
	writeJSON(w, l)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 64 * 1024,
	// Feature payloads are world geometry, not secrets; any origin may read.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// boundsRequest is one viewport message on the stream socket.
type boundsRequest struct {
	MinX float64 `json:"minX"`
	MaxX float64 `json:"maxX"`
	MinY float64 `json:"minY"`
	MaxY float64 `json:"maxY"`
}

// handleStream upgrades to a websocket; the client sends viewport bounds
// as JSON and receives the feature set for each.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if atomic.AddInt32(&s.streamConns, 1) > maxStreamConns {
		atomic.AddInt32(&s.streamConns, -1)
		http.Error(w, "too many stream connections", http.StatusServiceUnavailable)
		return
	}
	defer atomic.AddInt32(&s.streamConns, -1)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	for {
		var req boundsRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		b := settlement.Bounds{MinX: req.MinX, MaxX: req.MaxX, MinY: req.MinY, MaxY: req.MaxY}
		if msg, ok := s.checkSpan(b); !ok {
			if err := conn.WriteJSON(map[string]string{"error": msg}); err != nil {
				return
			}
			continue
		}
		features := s.Gen.GetFeaturesForBounds(b.MinX, b.MaxX, b.MinY, b.MaxY)
		if err := conn.WriteJSON(map[string]any{
			"handshake": s.Handshake,
			"features":  features,
		}); err != nil {
			return
		}
	}
}

func (s *Server) checkSpan(b settlement.Bounds) (string, bool) {
	maxSpan := s.Gen.Config().Roads.RegionSize * maxQuerySpanRegions
	if b.MaxX <= b.MinX || b.MaxY <= b.MinY {
		return "bounds must be a non-empty rectangle", false
	}
	if b.MaxX-b.MinX > maxSpan || b.MaxY-b.MinY > maxSpan {
		return fmt.Sprintf("query window exceeds %g units per axis", maxSpan), false
	}
	return "", true
}

func parseBounds(r *http.Request) (settlement.Bounds, error) {
	q := r.URL.Query()
	var b settlement.Bounds
	var err error
	if b.MinX, err = strconv.ParseFloat(q.Get("minX"), 64); err != nil {
		return b, fmt.Errorf("minX: %w", err)
	}
	if b.MaxX, err = strconv.ParseFloat(q.Get("maxX"), 64); err != nil {
		return b, fmt.Errorf("maxX: %w", err)
	}
	if b.MinY, err = strconv.ParseFloat(q.Get("minY"), 64); err != nil {
		return b, fmt.Errorf("minY: %w", err)
	}
	if b.MaxY, err = strconv.ParseFloat(q.Get("maxY"), 64); err != nil {
		return b, fmt.Errorf("maxY: %w", err)
	}
	return b, nil
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
