package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/supernitin06/erp-tenants-sub000/core"
	"github.com/supernitin06/erp-tenants-sub000/core/notification"
	"github.com/supernitin06/erp-tenants-sub000/core/resource"
	"github.com/supernitin06/erp-tenants-sub000/core/session"
	"github.com/supernitin06/erp-tenants-sub000/services/backend"
	logsvc "github.com/supernitin06/erp-tenants-sub000/services/logger"
	"github.com/supernitin06/erp-tenants-sub000/storage/localstore"
	"github.com/supernitin06/erp-tenants-sub000/web/shell"
)

func main() {
	conf := core.NewConfig()
	std := log.New(os.Stdout, conf.AppName+": ", log.LstdFlags|log.Lshortfile)

	// the rollbar logger reports the logged-in tenant as the person; the
	// store does not exist yet, so it is captured through a late binding
	var store *session.Store
	current := func() *session.Session {
		if store == nil {
			return nil
		}
		return store.Current()
	}
	var logger core.Logger
	if conf.RollbarToken != "" {
		logger = logsvc.NewRollbarLogger(std, conf, current)
	} else {
		logger = logsvc.NewConsoleLogger(std)
	}

	transport := resource.NewHTTPTransport(conf.BackendBaseURL)
	backendSvc := backend.NewService(transport)
	store = session.NewStore(backendSvc, localstore.New(conf.StoragePath), logger)
	transport.SetTokenSource(store.Token)

	notifier := notification.NewCenter()
	client := resource.NewClient(resource.ClientOptions{
		Transport:      transport,
		Notifier:       notifier,
		Logger:         logger,
		Retention:      conf.CacheRetention,
		RequestTimeout: conf.RequestTimeout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go client.Janitor(ctx, conf.CacheRetention)

	// background verification of a rehydrated session; only an explicit
	// unauthenticated response may log the user out, a blip keeps the session
	go func() {
		if _, err := store.Verify(ctx); err != nil {
			if core.IsUnauthenticated(err) {
				store.Logout()
			} else {
				logger.Warn("session verification failed", err)
			}
		}
	}()

	srv := shell.NewServer(&shell.Options{
		Address:  conf.Shell.Address,
		Conf:     conf,
		Logger:   logger,
		Store:    store,
		Client:   client,
		Notifier: notifier,
		Payments: backendSvc,
	})

	go srv.Start()
	logger.Info("shell listening", conf.Shell.Address)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("shutdown failed", err)
	}
}
