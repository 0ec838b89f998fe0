package main

import (
	"log"
	"os"

	"github.com/supernitin06/erp-tenants-sub000/core"
	"github.com/supernitin06/erp-tenants-sub000/core/resource"
	"github.com/supernitin06/erp-tenants-sub000/core/session"
	"github.com/supernitin06/erp-tenants-sub000/services/backend"
	logsvc "github.com/supernitin06/erp-tenants-sub000/services/logger"
	"github.com/supernitin06/erp-tenants-sub000/storage/localstore"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewConsoleLogger(log.New(os.Stderr, "erpctl: ", 0))

	transport := resource.NewHTTPTransport(conf.BackendBaseURL)
	store := session.NewStore(backend.NewService(transport), localstore.New(conf.StoragePath), logger)
	transport.SetTokenSource(store.Token)

	cli := &commandLine{store: store}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(err.Error())
		}
		os.Exit(1)
	}
}
