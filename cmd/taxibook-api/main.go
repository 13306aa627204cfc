// README: Entry point; loads config, picks the store backend, wires services and serves HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"taxibook/internal/config"
	httptransport "taxibook/internal/http"
	"taxibook/internal/infra"
	"taxibook/internal/maps"
	"taxibook/internal/modules/location"
	"taxibook/internal/service"
	"taxibook/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := infra.SetupLogging(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatal(err)
	}
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("store init")
	}
	defer closeStore()

	places := location.NewService(nil)
	if cfg.Maps.APIKey != "" {
		geocoder, err := maps.NewGeocodeService(cfg.Maps.APIKey, cfg.Maps.Region, cfg.Maps.Language)
		if err != nil {
			log.WithError(err).Fatal("maps init")
		}
		places = location.NewService(geocoder)
	} else {
		log.Warn("TAXIBOOK_MAPS_KEY not set; map taps cannot be geocoded")
	}

	flow := service.NewBookingFlow(storage.NewSessionStore(kv), places, service.Options{
		TimeZone: cfg.Booking.TimeZone,
		PageSize: cfg.Booking.PageSize,
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httptransport.NewRouter(httptransport.RouterDeps{Flow: flow, CORSOrigins: cfg.HTTP.CORSOrigins}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("http shutdown")
		}
	}()

	log.WithFields(log.Fields{
		"addr":     cfg.HTTP.Addr,
		"store":    cfg.Store.Backend,
		"timezone": cfg.Booking.TimeZone.String(),
	}).Info("taxibook api listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("http server")
	}
}

// openStore connects the configured KV backend and returns its closer.
func openStore(ctx context.Context, cfg config.Config) (storage.KV, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreRedis:
		client, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewRedisKV(client), func() { _ = client.Close() }, nil
	case config.StorePostgres:
		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return nil, nil, err
		}
		kv := storage.NewPostgresKV(pool)
		if err := kv.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return kv, pool.Close, nil
	default:
		log.Warn("using in-memory store; state is lost on restart")
		return storage.NewMemoryKV(), func() {}, nil
	}
}
