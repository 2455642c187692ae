package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gotigergraph/internal/app"
)

// LoadHandler 负责处理装载作业相关的 HTTP 请求。
type LoadHandler struct {
	svc    *app.Service
	logger *zap.Logger
}

// NewLoadHandler 构建一个新的 LoadHandler。
func NewLoadHandler(svc *app.Service, logger *zap.Logger) *LoadHandler {
	return &LoadHandler{svc: svc, logger: logger}
}

// RegisterRoutes 将装载路由注册到给定的路由组。
func (h *LoadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.handleLoadAll)
	rg.POST("/:job", h.handleLoadJob)
}

type loadResponse struct {
	Job      string `json:"job,omitempty"`
	Status   string `json:"status"`
	Duration string `json:"duration"`
}

type tokenStatusResponse struct {
	HasToken  bool      `json:"has_token"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

func (h *LoadHandler) handleLoadAll(c *gin.Context) {
	start := time.Now()
	if err := h.svc.RunAll(c.Request.Context()); err != nil {
		if h.logger != nil {
			h.logger.Error("load all failed", zap.Error(err))
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, loadResponse{Status: "ok", Duration: time.Since(start).String()})
}

func (h *LoadHandler) handleLoadJob(c *gin.Context) {
	job := c.Param("job")
	start := time.Now()
	if err := h.svc.RunJob(c.Request.Context(), job); err != nil {
		if h.logger != nil {
			h.logger.Error("load job failed", zap.String("job", job), zap.Error(err))
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, loadResponse{Job: job, Status: "ok", Duration: time.Since(start).String()})
}

func (h *LoadHandler) handleTokenStatus(c *gin.Context) {
	has, exp := h.svc.TokenStatus()
	resp := tokenStatusResponse{HasToken: has}
	if !exp.IsZero() {
		resp.ExpiresAt = exp
	}
	c.JSON(200, resp)
}
