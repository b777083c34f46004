// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"mcp-diet-calc/internal/catalog"
	"mcp-diet-calc/internal/diet"
	"mcp-diet-calc/internal/logger"
	"mcp-diet-calc/internal/models"
	"mcp-diet-calc/internal/session"
)

const version = "1.0.0"

var errInvalidParams = errors.New("invalid parameters")

type DietServer struct {
	router     chi.Router
	httpServer *http.Server
	catalog    models.FoodCatalog
	profiles   models.BaseProfiles
	sessions   *session.Store
	tools      map[string]tool
	config     *Config
}

// NewDietServer loads the food catalog and builds the server. A catalog
// that fails to load leaves the server running in a degraded state.
func NewDietServer(ctx context.Context, cfg *Config) (*DietServer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	foods := catalog.LoadOrEmpty(ctx, cfg.CatalogSource)
	if len(foods) == 0 {
		logger.Warn("food catalog is empty, serving in degraded mode", zap.String("source", cfg.CatalogSource))
	} else {
		logger.Info("food catalog loaded", zap.String("source", cfg.CatalogSource), zap.Int("foods", catalog.Count(foods)))
	}

	return New(cfg, foods), nil
}

// New builds a server around an already loaded catalog.
func New(cfg *Config, foods models.FoodCatalog) *DietServer {
	if foods == nil {
		foods = models.FoodCatalog{}
	}

	s := &DietServer{
		catalog:  foods,
		profiles: models.DefaultProfiles(),
		sessions: session.NewStore(),
		config:   cfg,
	}
	s.registerTools()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(accessLog)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Post("/", s.handleHTTP)
	r.Post("/mcp", s.handleHTTP)
	r.Get("/health", s.handleHealth)
	r.Get("/info", s.handleInfo)
	s.router = r

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func (s *DietServer) Handler() http.Handler {
	return s.router
}

func (s *DietServer) handleHTTP(w http.ResponseWriter, r *http.Request) {
	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	t, ok := s.tools[request.Name]
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown tool: %s", request.Name), http.StatusNotFound)
		return
	}

	result, err := t.handler(&request)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, errInvalidParams), errors.Is(err, models.ErrUnknownMacro), errors.Is(err, diet.ErrOutOfRange):
			status = http.StatusBadRequest
		case errors.Is(err, session.ErrNotFound):
			status = http.StatusNotFound
		}
		if status == http.StatusInternalServerError {
			logger.Error("tool call failed", zap.String("tool", request.Name), zap.Error(err))
		}
		http.Error(w, err.Error(), status)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *DietServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if len(s.catalog) == 0 {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         status,
		"catalog_loaded": len(s.catalog) > 0,
		"foods":          catalog.Count(s.catalog),
		"sessions":       s.sessions.Len(),
	})
}

func (s *DietServer) handleInfo(w http.ResponseWriter, r *http.Request) {
	tools := make([]map[string]string, 0, len(toolOrder))
	for _, name := range toolOrder {
		tools = append(tools, map[string]string{
			"name":        name,
			"description": s.tools[name].description,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"server": protocol.Implementation{
			Name:    "diet-calc",
			Version: version,
		},
		"tools": tools,
	})
}

func (s *DietServer) Start(ctx context.Context) error {
	logger.Info("starting diet calculator server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *DietServer) Stop(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *DietServer) createJSONResponse(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
