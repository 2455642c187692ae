package ioc

import (
	"context"

	"gotigergraph/internal/app"
	"gotigergraph/internal/tigergraph"
)

// InitAppService 构建装载服务。
func InitAppService(ctx context.Context, cfg app.Config, conn *tigergraph.Connection) (*app.Service, error) {
	return app.NewService(ctx, cfg, conn)
}
