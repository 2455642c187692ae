package ioc

import (
	"go.uber.org/zap"

	"gotigergraph/pkg/logging"
)

// InitLogger 构建全局 logger,cleanup 负责冲刷缓冲日志。
func InitLogger() (*zap.Logger, func(), error) {
	logger, err := logging.NewZpaLogger()
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}
