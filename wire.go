//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"gotigergraph/ioc"
	"gotigergraph/pkg/server"
)

func InitApp(ctx context.Context) (*server.HTTPServer, func(), error) {
	panic(wire.Build(
		ioc.InitConfig,
		ioc.InitLogger,
		ioc.InitConnection,
		ioc.InitAppService,
		ioc.InitScheduler,
		ioc.InitTokenRefresher,
		ioc.InitLoadHandler,
		ioc.InitGinEngine,
		server.NewHTTPServer,
	))
}
