package observability

import (
	"errors"
	"net"
	"net/http"
	"net/http/pprof"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"arena-fps/internal/config"
)

// DebugHandler serves pprof, /metrics and /health.
func DebugHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	return mux
}

// StartDebugServer starts the internal observability server in the
// background. It returns nil, nil when disabled. The address must be loopback.
func StartDebugServer(cfg config.DebugConfig, logger *zap.Logger) (*http.Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled {
		logger.Info("📊 Debug server disabled")
		return nil, nil
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, err
	}
	if tcp, ok := ln.Addr().(*net.TCPAddr); ok && !tcp.IP.IsLoopback() {
		ln.Close()
		return nil, errors.New("debug server must listen on a loopback address")
	}

	srv := &http.Server{Handler: DebugHandler()}
	go func() {
		logger.Info("📊 Debug server started",
			zap.String("pprof", "http://"+ln.Addr().String()+"/debug/pprof/"),
			zap.String("metrics", "http://"+ln.Addr().String()+"/metrics"))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("⚠️ Debug server error", zap.Error(err))
		}
	}()
	return srv, nil
}
