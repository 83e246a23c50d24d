// Copyright 2025 The freshwax Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/freshwax/submit/pkg/config"
	"github.com/freshwax/submit/pkg/fxlog"
	"github.com/freshwax/submit/pkg/notify"
	"github.com/freshwax/submit/pkg/quota"
	"github.com/freshwax/submit/pkg/session"
	"github.com/freshwax/submit/pkg/storage"
	"github.com/freshwax/submit/service/upload"
)

func main() {
	if err := config.InitConfig(); err != nil {
		fxlog.Fatalf("Failed to initialize configuration: %v", err)
	}

	cfg := config.Get()

	logLevel, err := fxlog.ParseLevel(cfg.LogLevel)
	if err != nil {
		fxlog.Warnf("Invalid initial log level '%s': %v. Using default.", cfg.LogLevel, err)
	}
	fxlog.SetLevel(logLevel)
	fxlog.Infof("Logger initialized with level: %s", cfg.LogLevel)

	// Misconfiguration must stop the process here, not surface mid-upload.
	if err := cfg.Validate(); err != nil {
		fxlog.Fatalf("Invalid configuration: %v", err)
	}

	store, err := storage.NewMinioStore(context.Background(), storage.Options{
		Endpoint:  cfg.Store.Endpoint,
		AccessKey: cfg.Store.AccessKey,
		SecretKey: cfg.Store.SecretKey,
		Bucket:    cfg.Store.Bucket,
		UseSSL:    cfg.Store.UseSSL,
	})
	if err != nil {
		fxlog.Fatalf("Failed to initialize object store: %v", err)
	}

	var aliases *session.FolderAliases
	if cfg.Session.RedisAddr != "" {
		aliases, err = session.NewFolderAliases(cfg.Session.RedisAddr)
		if err != nil {
			fxlog.Fatalf("Failed to connect folder alias store: %v", err)
		}
		fxlog.Infof("Folder alias store enabled at %s", cfg.Session.RedisAddr)
	}

	guard := quota.NewGuard(store, cfg.Limits.MaxFileBytes, cfg.Limits.MaxTotalBytes)
	resolver := session.NewResolver(session.NewDeriver(), aliases)
	dispatcher := notify.NewDispatcher(notify.NewResendSender(cfg.Mail.APIKey), cfg.Mail.FromEmail, cfg.Mail.AdminEmail)

	mux := http.NewServeMux()
	mux.Handle("/api/upload", upload.NewHandler(store, guard, resolver, dispatcher))
	mux.Handle("/healthz", upload.HealthHandler(store))

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: cors.AllowAll().Handler(mux),
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		fxlog.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			fxlog.Errorf("Server shutdown error: %v", err)
		}

		fxlog.Info("Server shutdown complete")
		os.Exit(0)
	}()

	fxlog.Infof("Server starting on %v", cfg.Addr)

	if cfg.CertFile != "" && cfg.KeyFile != "" {
		if _, err := os.Stat(cfg.CertFile); err == nil {
			if _, err := os.Stat(cfg.KeyFile); err == nil {
				fxlog.Infof("Starting HTTPS server with certificates: %s, %s", cfg.CertFile, cfg.KeyFile)
				if err := srv.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
					fxlog.Fatalf("Failed to start HTTPS server: %v", err)
				}
				return
			}
		}
		fxlog.Warnf("Certificate files not found, falling back to HTTP mode")
	}

	fxlog.Infof("Starting HTTP server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fxlog.Fatalf("Failed to start HTTP server: %v", err)
	}
}
