package health

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"signal_bot/internal/metrics"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/health/service"
)

type Config struct {
	Addr string // например ":8080"
}

func NewConfig(cfg *config.Config) Config {
	return Config{Addr: fmt.Sprintf("%s:%d", cfg.Service.Host, cfg.Service.AdminPort)}
}

func NewState() *service.State {
	return service.NewState(true)
}

// Route — дополнительный обработчик на админском порту.
type Route struct {
	Pattern string
	Handler http.Handler
}

type muxDeps struct {
	fx.In

	State   *service.State
	Metrics *metrics.Metrics
	Log     *zap.Logger
	Routes  []Route `group:"admin_routes"`
}

func NewMux(d muxDeps) *http.ServeMux {
	mux := NewHandler(d.State, d.Metrics, d.Log)
	for _, r := range d.Routes {
		mux.Handle(r.Pattern, r.Handler)
	}
	return mux
}

// NewHandler собирает /livez /readyz /healthz /metrics и управление ботом.
func NewHandler(state *service.State, m *metrics.Metrics, log *zap.Logger) *http.ServeMux {
	if log == nil {
		log = zap.NewNop()
	}
	mux := http.NewServeMux()

	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		// liveness: процесс жив
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if !state.Ready() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeState(w, state)
	})

	mux.HandleFunc("POST /bot/start", func(w http.ResponseWriter, r *http.Request) {
		if state.Start() {
			log.Info("bot started via admin api", zap.String("remote", r.RemoteAddr))
		}
		writeState(w, state)
	})

	mux.HandleFunc("POST /bot/stop", func(w http.ResponseWriter, r *http.Request) {
		if state.Stop() {
			log.Info("bot stopped via admin api", zap.String("remote", r.RemoteAddr))
		}
		writeState(w, state)
	})

	if m != nil {
		mux.Handle("/metrics", m.Handler())
	}
	return mux
}

func writeState(w http.ResponseWriter, state *service.State) {
	var lastTick int64
	if t := state.LastTick(); !t.IsZero() {
		lastTick = t.Unix()
	}
	b, err := sonic.Marshal(map[string]any{
		"ready":        state.Ready(),
		"running":      state.Running(),
		"uptimeSec":    int64(state.Uptime().Seconds()),
		"lastTickUnix": lastTick,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(b)
}

func RunHTTP(lc fx.Lifecycle, cfg Config, mux *http.ServeMux, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return err
			}
			log.Info("admin http listening", zap.String("addr", cfg.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
					log.Error("admin http stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("health",
		fx.Provide(
			NewState,
			NewConfig,
			NewMux,
		),
		fx.Invoke(RunHTTP),
	)
}
