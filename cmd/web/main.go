// cmd/web/main.go
//
// Platform HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load env vars (host-wide file → .env fallback).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Connect to Vault when VAULT_ADDR is set; load and validate config
//     (vault: references resolved during the load).
//
//  4. Open the main (shared) pool and apply the main-schema DDL.
//
//  5. Build registry, provisioner (lazy per-tenant pool cache), lifecycle.
//
//  6. Mount /metrics (Prometheus) and /api (JSON handlers) behind the
//     resolver, access-log, and security-header middleware; optionally
//     wrap with ForceHTTPS.
//
//  7. Serve until SIGINT/SIGTERM, then drain and close every pool.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alnashra/platform/internal/auth"
	"github.com/alnashra/platform/internal/config"
	"github.com/alnashra/platform/internal/dashboard"
	"github.com/alnashra/platform/internal/database"
	"github.com/alnashra/platform/internal/httpapi"
	"github.com/alnashra/platform/internal/logger"
	"github.com/alnashra/platform/internal/middleware"
	"github.com/alnashra/platform/internal/requestinfo"
	"github.com/alnashra/platform/internal/scope"
	"github.com/alnashra/platform/internal/server"
	"github.com/alnashra/platform/internal/tenant"
	"github.com/alnashra/platform/internal/vault"
)

const serverEnvPath = "/usr/local/etc/alnashra/global.env"

// loadEnv prefers the host-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	ctx := context.Background()

	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()

	//
	// ── 1.  Vault (optional) + config ──────────────────────────────────
	//
	var vc *vault.Client
	if vault.Configured() {
		vc, err = vault.New()
		if err != nil {
			logOut.Fatalf("connect vault: %v", err)
		}
	}

	cfg, err := config.Load(ctx, vc)
	if err != nil {
		logOut.Fatalf("load config: %v", err)
	}

	//
	// ── 2.  Main (shared) pool + DDL ───────────────────────────────────
	//
	logOut.Info("connecting to main DB …")
	mainDB, err := database.Open(ctx, cfg.Database.MainDSN)
	if err != nil {
		logOut.Fatalf("connect main DB: %v", err)
	}
	defer mainDB.Close()
	if err := database.MigrateMain(ctx, mainDB); err != nil {
		logOut.Fatalf("migrate main schema: %v", err)
	}
	logOut.Info("main DB online")

	//
	// ── 3.  Tenancy core ───────────────────────────────────────────────
	//
	reg := tenant.NewRegistry(mainDB, cfg.Tenancy.Reserved)
	prov := tenant.NewProvisioner(mainDB, reg, cfg.Database.TenantDSN, cfg.Tenancy.MaxPools, logOut)
	defer prov.Close()
	lc := tenant.NewLifecycle(prov, reg, logOut)
	res := tenant.NewResolver(cfg.Tenancy.RootDomain, cfg.Tenancy.Reserved, cfg.Tenancy.DevMode)

	// Log registered-tenant count as an early sanity check.
	if recs, err := reg.List(ctx); err == nil {
		logOut.Infof("%d registered tenant(s) found", len(recs))
	}

	//
	// ── 4.  Services ───────────────────────────────────────────────────
	//
	if cfg.Geo.DBPath != "" {
		if err := requestinfo.InitGeo(cfg.Geo.DBPath); err != nil {
			logOut.Warnf("geo database unavailable: %v", err)
		}
	}

	sc := scope.New(prov)

	if cfg.Auth.RootEmail != "" {
		seeded, err := sc.Users().EnsureRootAdmin(ctx, cfg.Auth.RootEmail, cfg.Auth.RootPassword)
		if err != nil {
			logOut.Fatalf("root account seed failed: %v", err)
		}
		if seeded {
			logOut.Infof("seeded root admin %s", cfg.Auth.RootEmail)
		}
	}

	dash := dashboard.New(prov, reg, logOut)
	signer := auth.NewSigner(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTL)*time.Hour)
	api := httpapi.New(sc, reg, lc, dash, signer, logOut)

	//
	// ── 5.  Router + middleware chain ──────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(tenant.Middleware(res))
	r.Use(middleware.AccessLog)
	r.Use(middleware.Security)
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/api", api.Routes())

	var handler http.Handler = r
	if cfg.HTTP.ForceHTTPS {
		handler = middleware.ForceHTTPS(res, reg, handler)
	}

	//
	// ── 6.  Serve + graceful drain ─────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, handler)

	errCh := make(chan error, 1)
	go func() {
		logOut.Infof("listening on %s", cfg.HTTP.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logOut.Fatalf("http server: %v", err)
		}
	case sig := <-stop:
		logOut.Infof("received %s, shutting down", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logOut.Errorf("shutdown: %v", err)
		}
	}
}
