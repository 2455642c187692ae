package ioc

import (
	"time"

	"gotigergraph/internal/app"
	"gotigergraph/internal/tigergraph"
)

// InitConnection 构建 TigerGraph 连接,端口未配置时取默认值 9000/14240。
func InitConnection(cfg app.Config) (*tigergraph.Connection, error) {
	return tigergraph.NewConnection(tigergraph.Config{
		Host:       cfg.TigerGraph.Host,
		Graph:      cfg.TigerGraph.Graph,
		Username:   cfg.TigerGraph.Username,
		Password:   cfg.TigerGraph.Password,
		APIToken:   cfg.TigerGraph.APIToken,
		RestPPPort: cfg.TigerGraph.RestPPPort,
		GSPort:     cfg.TigerGraph.GSPort,
		Timeout:    time.Duration(cfg.TigerGraph.TimeoutSecond) * time.Second,
	})
}
