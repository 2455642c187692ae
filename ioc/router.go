package ioc

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gotigergraph/internal/app"
	"gotigergraph/internal/router"
)

// InitLoadHandler 构建装载作业 HTTP 处理器。
func InitLoadHandler(svc *app.Service, logger *zap.Logger) *router.LoadHandler {
	return router.NewLoadHandler(svc, logger)
}

// InitGinEngine 构建 gin 引擎。
func InitGinEngine(loadHandler *router.LoadHandler) *gin.Engine {
	return router.NewEngine(loadHandler)
}
