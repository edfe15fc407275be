package httpapi

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"google.golang.org/grpc/health/grpc_health_v1"

	"lobmonitor/internal/domain"
)

//go:embed webui/*
var embeddedFS embed.FS

// SettingsController — доступ к настройкам работающего цикла (realflow.Flow).
type SettingsController interface {
	Settings(ctx context.Context) (domain.Settings, error)
	// Update читает и меняет настройки за один шаг цикла.
	Update(ctx context.Context, fn func(domain.Settings) (domain.Settings, error)) (domain.Settings, error)
}

// invalidSettings — правка не прошла валидацию, ответ 400.
type invalidSettings struct{ err error }

func (e *invalidSettings) Error() string { return e.err.Error() }
func (e *invalidSettings) Unwrap() error { return e.err }

type Server struct {
	addr      string
	ctrl      SettingsController
	hub       *Hub
	health    grpc_health_v1.HealthClient
	available []string
	logger    *zap.Logger
	server    *http.Server
}

// New собирает HTTP-сервер. health может быть nil: тогда /api/health не регистрируется.
func New(addr string, ctrl SettingsController, hub *Hub, health grpc_health_v1.HealthClient,
	available []string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		addr:      addr,
		ctrl:      ctrl,
		hub:       hub,
		health:    health,
		available: domain.NormalizeSymbols(available),
		logger:    logger,
	}
}

// Handler — JSON API на runtime.ServeMux из grpc-gateway, /ws и встроенный веб-интерфейс рядом.
func (s *Server) Handler() (http.Handler, error) {
	var opts []runtime.ServeMuxOption
	if s.health != nil {
		opts = append(opts, runtime.WithHealthEndpointAt(s.health, "/api/health"))
	}
	mux := runtime.NewServeMux(opts...)

	sub, err := fs.Sub(embeddedFS, "webui")
	if err != nil {
		return nil, err
	}
	static := http.FileServer(http.FS(sub))

	routes := []struct {
		method, path string
		h            runtime.HandlerFunc
	}{
		{http.MethodGet, "/api/v1/snapshot", s.handleSnapshot},
		{http.MethodGet, "/api/v1/snapshot/{symbol}", s.handleSymbolSnapshot},
		{http.MethodGet, "/api/v1/symbols", s.handleSymbols},
		{http.MethodGet, "/api/v1/settings", s.handleGetSettings},
		{http.MethodPut, "/api/v1/settings", s.handlePutSettings},
	}
	for _, rt := range routes {
		if err := mux.HandlePath(rt.method, rt.path, rt.h); err != nil {
			return nil, err
		}
	}

	// websocket и статика: мимо gateway
	root := http.NewServeMux()
	root.Handle("/api/", mux)
	root.HandleFunc("GET /ws", s.hub.ServeWS)
	root.Handle("/", static)
	return withCORS(root), nil
}

func (s *Server) Start() error {
	h, err := s.Handler()
	if err != nil {
		return err
	}
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.logger.Info("HTTP server listening", zap.String("addr", s.addr))
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	snap, ok := s.hub.Latest()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "waiting for data")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSymbolSnapshot(w http.ResponseWriter, _ *http.Request, params map[string]string) {
	sym := strings.ToUpper(strings.TrimSpace(params["symbol"]))
	snap, ok := s.hub.Latest()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "waiting for data")
		return
	}
	for _, v := range snap.Symbols {
		if v.Symbol == sym {
			writeJSON(w, http.StatusOK, v)
			return
		}
	}
	writeError(w, http.StatusNotFound, "symbol "+sym+" is not selected")
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	cur, err := s.ctrl.Settings(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	// Выбранные, но не из стандартного списка тоже показываем как доступные.
	available := slices.Clone(s.available)
	for _, v := range cur.Symbols {
		if !slices.Contains(available, v) {
			available = append(available, v)
		}
	}
	writeJSON(w, http.StatusOK, SymbolsResponse{Available: available, Selected: cur.Symbols})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	cur, err := s.ctrl.Settings(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cur)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req SettingsRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	next, err := s.ctrl.Update(ctx, func(cur domain.Settings) (domain.Settings, error) {
		if req.Symbols != nil {
			cur.Symbols = domain.NormalizeSymbols(*req.Symbols)
		}
		if req.DepthLimit != nil {
			cur.DepthLimit = *req.DepthLimit
		}
		if req.HistoryLen != nil {
			cur.HistoryLen = *req.HistoryLen
		}
		if err := cur.Validate(); err != nil {
			return cur, &invalidSettings{err: err}
		}
		return cur, nil
	})
	if err != nil {
		var bad *invalidSettings
		status := http.StatusServiceUnavailable
		switch {
		case errors.As(err, &bad):
			status = http.StatusBadRequest
		case errors.Is(err, context.DeadlineExceeded):
			status = http.StatusGatewayTimeout
		}
		writeError(w, status, err.Error())
		return
	}
	s.logger.Info("settings updated via API",
		zap.Strings("symbols", next.Symbols),
		zap.Int("depth_limit", next.DepthLimit),
		zap.Int("history_len", next.HistoryLen))
	writeJSON(w, http.StatusOK, next)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,PUT,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
