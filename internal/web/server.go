package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/stowpack/stowpack/internal/events"
	"github.com/stowpack/stowpack/internal/packing"
	"github.com/stowpack/stowpack/internal/store"
)

// ErrPackRunning is returned when a packing run is requested while one
// is already in progress.
var ErrPackRunning = errors.New("a packing run is already in progress")

// PlanStore persists completed plans. *store.Store satisfies it.
type PlanStore interface {
	SavePlan(plan *packing.Plan) (string, error)
	GetPlan(id string) (*packing.Plan, error)
	ListPlans() ([]store.PlanMeta, error)
	DeletePlan(id string) error
}

// Renderer produces PNG and PDF artifacts from a report page URL.
// *render.Renderer satisfies it.
type Renderer interface {
	Snapshot(ctx context.Context, url string, width, height int) ([]byte, error)
	PrintPDF(ctx context.Context, url string) ([]byte, error)
}

// Config holds the server's dependencies. Plans and Renderer may be nil,
// which disables plan history and PNG/PDF exports respectively.
type Config struct {
	Addr     string
	Plans    PlanStore
	Renderer Renderer
	Bus      *events.Bus
	Logger   *zap.Logger

	// GatherUsageStats enables periodic logging of local usage
	// counters. Nothing leaves the process either way.
	GatherUsageStats bool
	UsageInterval    time.Duration
}

// Server is the dashboard web server: static UI, JSON API, SSE stream,
// and the report pages the export renderer prints.
type Server struct {
	addr string

	session  *Session
	hub      *Hub
	plans    PlanStore
	renderer Renderer
	bus      *events.Bus
	logger   *zap.Logger
	usage    *usageCounters

	httpServer   *http.Server
	httpListener net.Listener

	shutdown chan struct{}
	stopOnce sync.Once
}

// New creates a new web server with the given configuration.
// Does not start listening - call Start() for that.
func New(cfg Config) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:8501"
	}
	if cfg.Bus == nil {
		cfg.Bus = events.NewBus()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.UsageInterval <= 0 {
		cfg.UsageInterval = 5 * time.Minute
	}

	s := &Server{
		addr:     cfg.Addr,
		session:  NewSession(),
		hub:      NewHub(),
		plans:    cfg.Plans,
		renderer: cfg.Renderer,
		bus:      cfg.Bus,
		logger:   cfg.Logger,
		shutdown: make(chan struct{}),
	}
	if cfg.GatherUsageStats {
		s.usage = newUsageCounters(cfg.UsageInterval)
	}

	// Every bus event reaches connected browsers.
	s.bus.Subscribe(func(e events.Event) {
		s.hub.Broadcast(events.ToJSONEvent(e))
	})

	s.httpServer = &http.Server{
		Addr:    cfg.Addr,
		Handler: s.routes(),
	}
	return s, nil
}

// Bus returns the event bus shared with packing runs.
func (s *Server) Bus() *events.Bus {
	return s.bus
}

// Session returns the server's working state.
func (s *Server) Session() *Session {
	return s.session
}

// SeedScenario loads a scenario's cargo list into the session, replacing
// whatever was there. Used on startup and on scenario file reloads.
func (s *Server) SeedScenario(scn *packing.Scenario) {
	s.session.ClearItems()
	s.session.AddLines(scn.Items)
}

// StartPack validates the scenario and launches a packing run in the
// background. Progress flows over the event bus; the finished plan is
// persisted and recorded in the session. Returns ErrPackRunning if a
// run is already active.
func (s *Server) StartPack(scn *packing.Scenario) error {
	if err := scn.Validate(); err != nil {
		return err
	}
	width, depth, height, err := scn.Dimensions()
	if err != nil {
		return err
	}
	if !s.session.Begin() {
		return ErrPackRunning
	}
	if s.usage != nil {
		s.usage.recordPack()
	}

	items := scn.ExpandItems()
	go func() {
		packer, err := packing.New(packing.Config{
			Width:         width,
			Depth:         depth,
			Height:        height,
			MaxWeight:     scn.MaxWeight,
			MaxContainers: scn.MaxContainers,
			Bus:           s.bus,
		}, items)
		if err != nil {
			s.bus.Emit(events.NewEvent(events.PackFailed, "").WithError(err))
			s.session.Fail(err)
			return
		}

		plan := packer.Run()
		if s.plans != nil {
			id, err := s.plans.SavePlan(plan)
			if err != nil {
				s.logger.Warn("failed to persist plan", zap.Error(err))
			} else {
				plan.ID = id
			}
		}
		s.session.Complete(plan)
	}()
	return nil
}

// Start begins listening. Non-blocking - the server runs in goroutines.
func (s *Server) Start() error {
	go s.hub.Run()

	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("HTTP listen: %w", err)
	}
	s.httpListener = listener

	// Update addr with actual address (important for ephemeral ports)
	s.addr = listener.Addr().String()

	if s.usage != nil {
		go s.usage.logLoop(s.logger, s.shutdown)
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	s.logger.Info("dashboard listening", zap.String("addr", s.addr))
	return nil
}

// Stop performs graceful shutdown. Closing the shutdown channel ends
// the SSE handlers so their connections go idle; the hub stops only
// after the HTTP server has drained, so handlers can still unregister.
func (s *Server) Stop(ctx context.Context) error {
	var err error
	s.stopOnce.Do(func() {
		close(s.shutdown)
		err = s.httpServer.Shutdown(ctx)
		s.hub.Stop()
	})
	if err != nil {
		return fmt.Errorf("HTTP shutdown: %w", err)
	}
	return nil
}

// Addr returns the HTTP listen address.
func (s *Server) Addr() string {
	return s.addr
}

// selfURL builds a loopback URL to this server, used when the export
// renderer opens the report page.
func (s *Server) selfURL(path string, query url.Values) string {
	_, port, err := net.SplitHostPort(s.addr)
	if err != nil {
		port = "8501"
	}
	u := url.URL{
		Scheme:   "http",
		Host:     net.JoinHostPort("127.0.0.1", port),
		Path:     path,
		RawQuery: query.Encode(),
	}
	return u.String()
}
