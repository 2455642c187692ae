package job

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultRefreshSpec = "@every 6h"

// TokenRefresher 周期性刷新 REST++ token,避免长时间运行后过期。
type TokenRefresher struct {
	spec        string
	logger      *zap.Logger
	cron        *cron.Cron
	refreshFunc func(context.Context) error
}

// NewTokenRefresher 构建 token 刷新任务,spec 为空时默认每 6 小时执行。
func NewTokenRefresher(spec string, refreshFunc func(context.Context) error, logger *zap.Logger) *TokenRefresher {
	if strings.TrimSpace(spec) == "" {
		spec = defaultRefreshSpec
	}
	return &TokenRefresher{spec: spec, logger: logger, refreshFunc: refreshFunc}
}

// Start 启动刷新任务,返回停止函数。refreshFunc 缺失时不做任何事。
func (r *TokenRefresher) Start(parent context.Context) context.CancelFunc {
	if r == nil || r.refreshFunc == nil {
		return func() {}
	}
	c := cron.New()
	_, err := c.AddFunc(r.spec, func() {
		start := time.Now()
		if err := r.refreshFunc(parent); err != nil {
			if r.logger != nil {
				r.logger.Error("token refresh failed", zap.Error(err))
			}
			return
		}
		if r.logger != nil {
			r.logger.Info("token refresh completed", zap.Duration("duration", time.Since(start)))
		}
	})
	if err != nil {
		if r.logger != nil {
			r.logger.Error("failed to register token refresh job", zap.String("cron", r.spec), zap.Error(err))
		}
		return func() {}
	}
	r.cron = c
	c.Start()
	if r.logger != nil {
		r.logger.Info("token refresher started", zap.String("cron", r.spec))
	}

	var once sync.Once
	stop := func() {
		once.Do(func() {
			ctx := r.cron.Stop()
			<-ctx.Done()
			if r.logger != nil {
				r.logger.Info("token refresher stopped")
			}
		})
	}

	go func() {
		<-parent.Done()
		stop()
	}()

	return stop
}
