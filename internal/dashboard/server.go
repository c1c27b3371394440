// Package dashboard serves the live web view: a stats API polled by
// the page, a websocket alert feed, Prometheus metrics and pprof.
package dashboard

import (
	"embed"
	"io/fs"
	"net/http"
	"net/http/pprof"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/d0wlet/sentinel/internal/hub"
	"github.com/d0wlet/sentinel/internal/stats"
)

//go:embed all:web
var webFS embed.FS

// Server holds the Gin engine and its data sources. It only ever
// reads from Stats and subscribes to the Hub; it never mutates
// pipeline state.
type Server struct {
	engine *gin.Engine
	hub    *hub.Hub
	stats  *stats.Stats
	addr   string
}

// New creates the dashboard server for the given listen address.
func New(h *hub.Hub, s *stats.Stats, addr string) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false

	srv := &Server{
		engine: engine,
		hub:    h,
		stats:  s,
		addr:   addr,
	}

	srv.setupRoutes()
	return srv
}

// serveEmbedded reads a file from the embedded FS once and serves it
// with the given content type.
func serveEmbedded(webContent fs.FS, name string, contentType string) gin.HandlerFunc {
	data, err := fs.ReadFile(webContent, name)
	return func(c *gin.Context) {
		if err != nil {
			c.String(http.StatusNotFound, "file not found: %s", name)
			return
		}
		c.Data(http.StatusOK, contentType, data)
	}
}

func (s *Server) setupRoutes() {
	webContent, _ := fs.Sub(webFS, "web")

	s.engine.GET("/", serveEmbedded(webContent, "index.html", "text/html; charset=utf-8"))
	s.engine.GET("/style.css", serveEmbedded(webContent, "style.css", "text/css; charset=utf-8"))
	s.engine.GET("/app.js", serveEmbedded(webContent, "app.js", "application/javascript; charset=utf-8"))

	// Health check.
	s.engine.GET("/healthz", func(c *gin.Context) {
		snap := s.stats.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"uptime":       snap.Uptime,
			"total_lines":  snap.TotalLines,
			"total_alerts": snap.TotalAlerts,
		})
	})

	// Stats API — the polling read interface for dashboard consumers.
	s.engine.GET("/api/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.stats.Snapshot())
	})

	// WebSocket alert feed.
	s.engine.GET("/ws", s.handleWebSocket)

	// Prometheus metrics.
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// pprof profiling endpoints.
	s.engine.GET("/debug/pprof/", gin.WrapF(pprof.Index))
	s.engine.GET("/debug/pprof/cmdline", gin.WrapF(pprof.Cmdline))
	s.engine.GET("/debug/pprof/profile", gin.WrapF(pprof.Profile))
	s.engine.GET("/debug/pprof/symbol", gin.WrapF(pprof.Symbol))
	s.engine.GET("/debug/pprof/trace", gin.WrapF(pprof.Trace))
	s.engine.GET("/debug/pprof/allocs", gin.WrapH(pprof.Handler("allocs")))
	s.engine.GET("/debug/pprof/heap", gin.WrapH(pprof.Handler("heap")))
	s.engine.GET("/debug/pprof/goroutine", gin.WrapH(pprof.Handler("goroutine")))
}

// Start runs the server. Blocks until the server is stopped.
func (s *Server) Start() error {
	return s.engine.Run(s.addr)
}
