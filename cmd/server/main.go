// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"

	"agadirhub/internal/api"
	"agadirhub/internal/auth"
	"agadirhub/internal/config"
	"agadirhub/internal/dashboard"
	"agadirhub/internal/events"
	"agadirhub/internal/guard"
	"agadirhub/internal/locations"
	"agadirhub/internal/logger"
	"agadirhub/internal/store"
	"agadirhub/internal/users"
	"agadirhub/internal/weather"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatalw("server exited", "error", err)
	}
}

func run(cfg config.Config, zlog *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := initTracing(ctx, cfg)
	if err != nil {
		zlog.Warnw("tracing init failed, continuing without export", "error", err)
	}
	if shutdownTracing != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTracing(shutdownCtx)
		}()
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()
	if err := client.Ping(connectCtx, nil); err != nil {
		return err
	}

	st := store.NewMongo(client.Database(cfg.MongoDB))
	if err := st.EnsureIndexes(connectCtx); err != nil {
		return err
	}
	zlog.Infow("connected to mongodb", "database", cfg.MongoDB)

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	g := guard.New(st, zlog)

	eventService := events.NewService(st, g, zlog)
	locationService := locations.NewService(st, g, zlog)
	userService := users.NewService(st, zlog)
	dashboardService := dashboard.NewService(st, zlog)

	eventHandler := events.NewHandler(eventService, zlog)
	locationHandler := locations.NewHandler(locationService, zlog)
	userHandler := users.NewHandler(userService, tokens, zlog)
	dashboardHandler := dashboard.NewHandler(dashboardService, zlog)
	weatherHandler := weather.NewHandler(weather.NewMockProvider(), zlog)

	authMW := auth.NewMiddleware(tokens, st, zlog)

	router := newRouter(cfg, zlog, routerDeps{
		auth:      authMW,
		events:    eventHandler,
		locations: locationHandler,
		users:     userHandler,
		dashboard: dashboardHandler,
		weather:   weatherHandler,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Infow("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

type routerDeps struct {
	auth      *auth.Middleware
	events    *events.Handler
	locations *locations.Handler
	users     *users.Handler
	dashboard *dashboard.Handler
	weather   *weather.Handler
}

func newRouter(cfg config.Config, zlog *zap.SugaredLogger, deps routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(zlog))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handleHealth)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", deps.users.HandleRegister)
			r.Post("/login", deps.users.HandleLogin)
			r.Group(func(r chi.Router) {
				r.Use(deps.auth.RequireAuth)
				r.Post("/logout", deps.users.HandleLogout)
				r.Get("/me", deps.users.HandleMe)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(deps.auth.RequireAuth)
			r.Get("/profile", deps.users.HandleProfile)
			r.Put("/profile", deps.users.HandleUpdateProfile)
			r.Put("/password", deps.users.HandleChangePassword)
			r.Delete("/account", deps.users.HandleDeleteAccount)
			r.Get("/stats", deps.users.HandleStats)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", deps.events.HandleList)
			r.Get("/{id}", deps.events.HandleGet)
			r.Group(func(r chi.Router) {
				r.Use(deps.auth.RequireAuth)
				r.Post("/", deps.events.HandleCreate)
				r.Put("/{id}", deps.events.HandleUpdate)
				r.Delete("/{id}", deps.events.HandleDelete)
				r.Post("/{id}/join", deps.events.HandleJoin)
				r.Post("/{id}/leave", deps.events.HandleLeave)
			})
		})

		r.Route("/locations", func(r chi.Router) {
			r.Get("/", deps.locations.HandleList)
			r.Get("/types", deps.locations.HandleTypes)
			r.Get("/search", deps.locations.HandleSearch)
			r.Get("/{id}", deps.locations.HandleGet)
			r.Group(func(r chi.Router) {
				r.Use(deps.auth.RequireAuth)
				r.Post("/{id}/review", deps.locations.HandleAddReview)
				r.Post("/{id}/checkin", deps.locations.HandleCheckin)
			})
			r.Group(func(r chi.Router) {
				r.Use(deps.auth.RequireAuth, deps.auth.RequireAdmin)
				r.Post("/", deps.locations.HandleCreate)
				r.Put("/{id}", deps.locations.HandleUpdate)
				r.Delete("/{id}", deps.locations.HandleDelete)
			})
		})

		r.Route("/weather", func(r chi.Router) {
			r.Get("/current", deps.weather.HandleCurrent)
			r.Get("/forecast", deps.weather.HandleForecast)
			r.Get("/alerts", deps.weather.HandleAlerts)
			r.Get("/historical", deps.weather.HandleHistorical)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/stats", deps.dashboard.HandleStats)
			r.With(deps.auth.RequireAuth).Get("/activity", deps.dashboard.HandleActivity)
		})
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}

func requestLogger(zlog *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			zlog.Infow("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", chimiddleware.GetReqID(r.Context()),
			)
		})
	}
}

// initTracing wires the OTLP exporter when an endpoint is configured.
// Without one, spans stay in-process with the default no-op provider.
func initTracing(ctx context.Context, cfg config.Config) (func(context.Context) error, error) {
	if cfg.OTLPEndpoint == "" {
		return nil, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.OTLPEndpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceNameKey.String("agadirhub"),
	))
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
