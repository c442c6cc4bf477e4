// Package server streams a running sand simulation to websocket clients and
// accepts their pointer strokes.
package server

import (
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"sandfall/internal/core"
	"sandfall/internal/input"
	"sandfall/internal/render"
)

const requestTimeout = 500 * time.Millisecond

// Options configures a Server.
type Options struct {
	CellSize   float64
	TPS        int
	MaxClients int

	// Origins lists extra browser origins allowed to open /ws. Same-origin
	// requests and non-browser clients are always accepted; "*" allows any.
	Origins []string
}

// Server owns a simulation on a single loop goroutine. HTTP handlers talk to
// the loop through channels, so input is only ever applied between ticks.
type Server struct {
	sim      core.Sim
	colors   core.ColorSupplier
	opts     Options
	clock    *core.FixedStep
	log      *log.Logger
	upgrader websocket.Upgrader
	router   *way.Router

	register   chan *client
	unregister chan *client
	events     chan clientEvent
	snapshots  chan chan core.Snapshot
	quit       chan struct{}

	nextID    int64
	connected int64

	// loop-owned
	clients map[*client]*input.Pointer
	snap    core.Snapshot
}

// New builds a Server around sim. Call Loop to start ticking.
func New(sim core.Sim, colors core.ColorSupplier, opts Options, logger *log.Logger) *Server {
	if opts.CellSize <= 0 {
		opts.CellSize = 1
	}
	s := &Server{
		sim:        sim,
		colors:     colors,
		opts:       opts,
		clock:      core.NewFixedStep(opts.TPS),
		log:        logger,
		register:   make(chan *client),
		unregister: make(chan *client),
		events:     make(chan clientEvent, 64),
		snapshots:  make(chan chan core.Snapshot),
		quit:       make(chan struct{}),
		clients:    map[*client]*input.Pointer{},
	}
	s.upgrader.CheckOrigin = s.checkOrigin
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc("GET", "/", s.handleIndex())
	s.router.HandleFunc("GET", "/ws", s.handleWS())
	s.router.HandleFunc("GET", "/snapshot", s.handleSnapshot())
	s.router.HandleFunc("GET", "/snapshot.png", s.handleSnapshotPNG())
	s.router.HandleFunc("GET", "/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})
}

// Handler exposes the HTTP routes.
func (s *Server) Handler() http.Handler { return s.router }

// Loop ticks the simulation until ctx is cancelled. It must run exactly once.
func (s *Server) Loop(ctx context.Context) {
	defer close(s.quit)
	ticker := time.NewTicker(s.clock.Interval())
	defer ticker.Stop()

	size := s.sim.Size()
	s.log.WithFields(log.Fields{"tps": s.clock.TPS(), "rows": size.H, "cols": size.W, "sim": s.sim.Name()}).Info("simulation loop started")
	for {
		select {
		case <-ctx.Done():
			for c := range s.clients {
				close(c.send)
				delete(s.clients, c)
			}
			s.log.Info("simulation loop stopped")
			return
		case c := <-s.register:
			s.clients[c] = input.NewPointer(s.opts.CellSize, s.colors)
			s.log.WithFields(log.Fields{"client": c.id, "clients": len(s.clients)}).Info("client connected")
		case c := <-s.unregister:
			if _, ok := s.clients[c]; ok {
				delete(s.clients, c)
				close(c.send)
				s.log.WithFields(log.Fields{"client": c.id, "clients": len(s.clients), "dropped": c.dropped}).Info("client disconnected")
			}
		case ce := <-s.events:
			s.apply(ce)
		case reply := <-s.snapshots:
			var snap core.Snapshot
			s.sim.SnapshotInto(&snap)
			reply <- snap
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Server) apply(ce clientEvent) {
	p, ok := s.clients[ce.c]
	if !ok {
		return
	}
	switch ce.ev.Type {
	case EventDown:
		p.Press(ce.ev.X, ce.ev.Y)
	case EventMove:
		p.Move(ce.ev.X, ce.ev.Y)
	case EventUp:
		p.Release()
	default:
		s.log.WithFields(log.Fields{"client": ce.c.id, "type": ce.ev.Type}).Debug("ignoring unknown event")
	}
}

func (s *Server) tick() {
	for _, p := range s.clients {
		p.Apply(s.sim)
	}
	s.sim.Step()
	if len(s.clients) == 0 {
		return
	}
	s.sim.SnapshotInto(&s.snap)
	data, err := json.Marshal(NewFrame(&s.snap))
	if err != nil {
		s.log.WithError(err).Error("encode frame")
		return
	}
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			c.dropped++
		}
	}
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, allowed := range s.opts.Origins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	s.log.WithField("origin", origin).Warn("rejecting websocket from foreign origin")
	return false
}

func (s *Server) handleWS() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if limit := int64(s.opts.MaxClients); limit > 0 {
			if atomic.AddInt64(&s.connected, 1) > limit {
				atomic.AddInt64(&s.connected, -1)
				s.log.WithField("max", limit).Warn("rejecting client: server full")
				http.Error(w, "server full", http.StatusServiceUnavailable)
				return
			}
			defer atomic.AddInt64(&s.connected, -1)
		}

		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.log.WithError(err).Warn("websocket upgrade failed")
			return
		}
		c := newClient(int(atomic.AddInt64(&s.nextID, 1)), conn)
		select {
		case s.register <- c:
		case <-s.quit:
			conn.Close()
			return
		}
		go c.writePump()
		c.readPump(s.events, s.quit)

		select {
		case s.unregister <- c:
		case <-s.quit:
		}
	}
}

// Snapshot asks the loop for the current grid.
func (s *Server) Snapshot(ctx context.Context) (core.Snapshot, error) {
	reply := make(chan core.Snapshot, 1)
	select {
	case s.snapshots <- reply:
	case <-s.quit:
		return core.Snapshot{}, errors.New("simulation loop stopped")
	case <-ctx.Done():
		return core.Snapshot{}, errors.Wrap(ctx.Err(), "request snapshot")
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-ctx.Done():
		return core.Snapshot{}, errors.Wrap(ctx.Err(), "await snapshot")
	}
}

func (s *Server) handleSnapshot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()
		snap, err := s.Snapshot(ctx)
		if err != nil {
			s.log.WithError(err).Warn("snapshot unavailable")
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(NewFrame(&snap)); err != nil {
			s.log.WithError(err).Warn("write snapshot")
		}
	}
}

func (s *Server) handleSnapshotPNG() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()
		snap, err := s.Snapshot(ctx)
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		if err := png.Encode(w, render.Image(&snap, int(s.opts.CellSize), render.Background)); err != nil {
			s.log.WithError(err).Warn("write snapshot png")
		}
	}
}

// ListenAndServe runs the loop and serves HTTP on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}
	go s.Loop(ctx)
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()
	s.log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrapf(err, "listen on %s", addr)
	}
	return nil
}
