package ioc

import (
	"context"

	"go.uber.org/zap"

	"gotigergraph/internal/app"
	"gotigergraph/internal/job"
)

// InitScheduler 构建定时装载调度器。
func InitScheduler(cfg app.Config, svc *app.Service, logger *zap.Logger) *job.Scheduler {
	var loadFn func(context.Context) error
	if svc != nil {
		loadFn = svc.RunAll
	}
	return job.NewScheduler(cfg, loadFn, logger)
}

// InitTokenRefresher 构建 token 刷新任务,未配置 secret 时返回空任务。
func InitTokenRefresher(cfg app.Config, svc *app.Service, logger *zap.Logger) *job.TokenRefresher {
	var refreshFn func(context.Context) error
	if svc != nil && cfg.Auth.Secret != "" {
		refreshFn = svc.RefreshToken
	}
	return job.NewTokenRefresher(cfg.Auth.RefreshCron, refreshFn, logger)
}
