package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"gotigergraph/internal/metrics"
	"gotigergraph/internal/tigergraph"
	"gotigergraph/internal/util"
	"gotigergraph/pkg/logging"
	pkgutil "gotigergraph/pkg/util"
)

// Graph 抽象装载服务所需的 TigerGraph 客户端能力,便于测试替换实现。
type Graph interface {
	RunLoadingJobWithData(ctx context.Context, data []byte, fileTag, jobName string, opts *tigergraph.LoadOptions) (json.RawMessage, error)
	GetToken(ctx context.Context, secret string, setToken bool, lifetime int64) (tigergraph.Token, error)
	RefreshToken(ctx context.Context, secret, token string, lifetime int64) (tigergraph.Token, error)
	Token() string
}

// Service 负责按配置执行装载作业并维护 REST++ token。
type Service struct {
	cfg    Config
	graph  Graph
	logger *zap.Logger

	mu       sync.Mutex
	loaded   map[string]string // 作业名到上次装载数据 hash 的映射
	tokenExp time.Time
}

// NewService 根据配置构建 Service。
func NewService(ctx context.Context, cfg Config, graph Graph) (*Service, error) {
	if graph == nil {
		return nil, fmt.Errorf("必须提供 tigergraph client")
	}
	logger, err := logging.NewZpaLogger()
	if err != nil {
		return nil, err
	}
	return &Service{
		cfg:    cfg,
		graph:  graph,
		logger: logger,
		loaded: make(map[string]string),
	}, nil
}

// EnsureToken 在配置了 secret 且连接尚未持有 token 时换取新 token。
func (s *Service) EnsureToken(ctx context.Context) error {
	if s.cfg.Auth.Secret == "" || s.graph.Token() != "" {
		return nil
	}
	tok, err := s.graph.GetToken(ctx, s.cfg.Auth.Secret, true, s.cfg.Auth.LifetimeSeconds)
	if err != nil {
		return fmt.Errorf("换取 token 失败: %w", err)
	}
	s.mu.Lock()
	s.tokenExp = tok.ExpiresAt
	s.mu.Unlock()
	s.logger.Info("token acquired", zap.Time("expires_at", tok.ExpiresAt))
	return nil
}

// RefreshToken 刷新连接当前持有的 token。
func (s *Service) RefreshToken(ctx context.Context) error {
	if s.cfg.Auth.Secret == "" {
		return fmt.Errorf("未配置 auth.secret,无法刷新 token")
	}
	if s.graph.Token() == "" {
		return s.EnsureToken(ctx)
	}
	tok, err := s.graph.RefreshToken(ctx, s.cfg.Auth.Secret, "", s.cfg.Auth.LifetimeSeconds)
	if err != nil {
		return fmt.Errorf("刷新 token 失败: %w", err)
	}
	s.mu.Lock()
	s.tokenExp = tok.ExpiresAt
	s.mu.Unlock()
	metrics.TokenRefreshes.Inc()
	s.logger.Info("token refreshed", zap.Time("expires_at", tok.ExpiresAt))
	return nil
}

// TokenStatus 返回是否持有 token 及其过期时间。
func (s *Service) TokenStatus() (bool, time.Time) {
	s.mu.Lock()
	exp := s.tokenExp
	s.mu.Unlock()
	return s.graph.Token() != "", exp
}

// RunAll 依次执行配置中的全部装载作业。
func (s *Service) RunAll(ctx context.Context) error {
	if len(s.cfg.Load.Jobs) == 0 {
		s.logger.Info("no loading jobs configured")
		return nil
	}
	if err := s.EnsureToken(ctx); err != nil {
		return err
	}
	for _, job := range s.cfg.Load.Jobs {
		if err := s.runJob(ctx, job); err != nil {
			return fmt.Errorf("装载作业 %s 失败: %w", job.Name, err)
		}
	}
	return nil
}

// RunJob 执行指定名称的装载作业。
func (s *Service) RunJob(ctx context.Context, name string) error {
	for _, job := range s.cfg.Load.Jobs {
		if job.Name == name {
			if err := s.EnsureToken(ctx); err != nil {
				return err
			}
			return s.runJob(ctx, job)
		}
	}
	return fmt.Errorf("未找到装载作业 %s", name)
}

func (s *Service) runJob(ctx context.Context, job LoadJob) error {
	data, err := os.ReadFile(job.FilePath)
	if err != nil {
		return fmt.Errorf("读取数据文件失败: %w", err)
	}

	hash := pkgutil.HashBytes(data)
	if job.SkipUnchanged {
		s.mu.Lock()
		last := s.loaded[job.Name]
		s.mu.Unlock()
		if last == hash {
			s.logger.Info("data unchanged, skip loading job", zap.String("job", job.Name))
			return nil
		}
	}

	opts := &tigergraph.LoadOptions{
		Sep:       job.Sep,
		EOL:       job.EOL,
		Timeout:   job.TimeoutSecond,
		SizeLimit: job.SizeLimit,
	}
	backoff := time.Duration(s.cfg.Load.Retry.BackoffSeconds) * time.Second
	if backoff <= 0 {
		backoff = time.Second
	}

	start := time.Now()
	err = util.Retry(ctx, s.cfg.Load.Retry.Attempts, backoff, func() error {
		return s.postJob(ctx, data, job, opts)
	})
	metrics.LoadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LoadErrors.Inc()
		return err
	}

	if job.SkipUnchanged {
		s.mu.Lock()
		s.loaded[job.Name] = hash
		s.mu.Unlock()
	}
	s.logger.Info("loading job completed",
		zap.String("job", job.Name),
		zap.Int("bytes", len(data)),
		zap.Duration("duration", time.Since(start)))
	return nil
}

// postJob 提交装载数据,ChunkLines 大于 0 时按行数分批提交。
func (s *Service) postJob(ctx context.Context, data []byte, job LoadJob, opts *tigergraph.LoadOptions) error {
	if job.ChunkLines <= 0 {
		_, err := s.graph.RunLoadingJobWithData(ctx, data, job.FileTag, job.JobName, opts)
		return err
	}

	eol := []byte(job.EOL)
	if len(eol) == 0 {
		eol = []byte("\n")
	}
	lines := bytes.Split(data, eol)
	trailing := false
	if len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
		trailing = true
	}
	chunks := pkgutil.Batch(lines, job.ChunkLines)
	for i, chunk := range chunks {
		payload := bytes.Join(chunk, eol)
		if trailing {
			payload = append(payload, eol...)
		}
		if _, err := s.graph.RunLoadingJobWithData(ctx, payload, job.FileTag, job.JobName, opts); err != nil {
			return fmt.Errorf("第 %d/%d 批提交失败: %w", i+1, len(chunks), err)
		}
	}
	return nil
}

// Close 释放资源。
func (s *Service) Close(context.Context) error {
	if s.logger != nil {
		_ = s.logger.Sync()
	}
	return nil
}
