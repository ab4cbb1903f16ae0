// Package stubapi is an in-memory implementation of the barbershop API used
// by demo mode and by tests.
package stubapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Options configures a Server.
type Options struct {
	Logger *zap.Logger
	// RepeatLastPage makes the establishment listing return its final page
	// again instead of an empty page once the end is passed.
	RepeatLastPage bool
	// Seed fills the store with demo users, shops and bookings.
	Seed bool
}

// Server serves the API contract from memory.
type Server struct {
	engine     *gin.Engine
	store      *store
	log        *zap.Logger
	repeatLast bool

	failBookings atomic.Bool

	hitsMu sync.Mutex
	hits   map[string]int

	httpSrv *http.Server
}

// New builds a Server with its routes registered.
func New(opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		engine:     gin.New(),
		store:      newStore(),
		log:        logger.Named("stubapi"),
		repeatLast: opts.RepeatLastPage,
		hits:       make(map[string]int),
	}
	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.registerRoutes()
	if opts.Seed {
		s.seed()
	}
	return s
}

// Handler exposes the gin engine, e.g. for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// FailBookings makes the booking listing answer 500 while set.
func (s *Server) FailBookings(fail bool) {
	s.failBookings.Store(fail)
}

// Hits returns how many requests matched the route pattern, e.g.
// "GET /establishments".
func (s *Server) Hits(route string) int {
	s.hitsMu.Lock()
	defer s.hitsMu.Unlock()
	return s.hits[route]
}

// Start listens on addr in the background and returns the bound address.
func (s *Server) Start(addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", err
	}
	s.httpSrv = &http.Server{Handler: s.engine, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("stub server stopped", zap.Error(err))
		}
	}()
	s.log.Info("stub server listening", zap.String("addr", ln.Addr().String()))
	return ln.Addr().String(), nil
}

// Shutdown stops a server started with Start.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	r := s.engine

	r.POST("/usuarios", s.createUser)
	r.GET("/usuarios", s.listUsers)
	r.GET("/usuarios/:id", s.getUser)
	r.PUT("/usuarios/:id", s.updateUser)
	r.DELETE("/usuarios/:id", s.deleteUser)

	r.POST("/login", s.login)

	r.GET("/establishments", s.listShops)
	r.GET("/establishments/:id", s.getShop)
	r.POST("/establishments", s.createShop)
	r.PUT("/establishments/:id", s.updateShop)
	r.DELETE("/establishments/:id", s.deleteShop)

	r.GET("/agendamentos", s.listBookings)
	r.POST("/agendamentos", s.createBooking)

	r.GET("/uploads/:ref", s.photo)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.Request.Method + " " + c.FullPath()
		s.hitsMu.Lock()
		s.hits[route]++
		s.hitsMu.Unlock()

		s.log.Debug("request",
			zap.String("route", route),
			zap.Int("status", c.Writer.Status()),
			zap.String("request_id", c.GetHeader("X-Request-ID")),
			zap.Duration("latency", time.Since(start)))
	}
}
