package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	LoadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tigergraph_load_duration_seconds",
		Help:    "单个装载作业耗时",
		Buckets: prometheus.DefBuckets,
	})

	LoadErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tigergraph_load_errors_total",
		Help: "装载作业失败次数",
	})

	TokenRefreshes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tigergraph_token_refresh_total",
		Help: "token 刷新次数",
	})
)

// MustRegister 注册指标,可在 main 中调用。
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(LoadDuration, LoadErrors, TokenRefreshes)
}
