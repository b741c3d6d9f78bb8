package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"catshop/internal/config"
	"catshop/internal/httpserver"
	"catshop/internal/seed"
	cartsvc "catshop/internal/service/cart"
	catalogsvc "catshop/internal/service/catalog"
	identitysvc "catshop/internal/service/identity"
	ordersvc "catshop/internal/service/order"
	"catshop/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	st := store.New(cfg.DataDir, logger)
	if err := st.Init(seed.Cats()); err != nil {
		logger.Fatalf("init store: %v", err)
	}

	carts := cartsvc.New()
	catalogService := catalogsvc.New(st)
	identityService := identitysvc.New(st, carts, logger)
	orderService := ordersvc.New(st, carts, logger)

	srv := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Catalog:  catalogService,
		Identity: identityService,
		Carts:    carts,
		Orders:   orderService,
	}, cfg.CORSOrigins)

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
