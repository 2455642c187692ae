package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type TigerGraph struct {
	Host          string `yaml:"host"`
	Graph         string `yaml:"graph"`
	Username      string `yaml:"username"`
	Password      string `yaml:"password"`
	APIToken      string `yaml:"api_token"`
	RestPPPort    int    `yaml:"restpp_port"`
	GSPort        int    `yaml:"gs_port"`
	TimeoutSecond int    `yaml:"timeout_second"`
}

type Auth struct {
	Secret          string `yaml:"secret"`
	LifetimeSeconds int64  `yaml:"lifetime_seconds"`
	RefreshCron     string `yaml:"refresh_cron"`
}

type LoadJob struct {
	Name          string `yaml:"name"`
	JobName       string `yaml:"job_name"`
	FileTag       string `yaml:"file_tag"`
	FilePath      string `yaml:"file_path"`
	Sep           string `yaml:"sep"`
	EOL           string `yaml:"eol"`
	TimeoutSecond int    `yaml:"timeout_second"`
	SizeLimit     int    `yaml:"size_limit"`
	ChunkLines    int    `yaml:"chunk_lines"`
	SkipUnchanged bool   `yaml:"skip_unchanged"`
}

type Load struct {
	Jobs        []LoadJob `yaml:"jobs"`
	JobCron     string    `yaml:"job_cron"`
	InitialLoad bool      `yaml:"initial_load"`
	Retry       Retry     `yaml:"retry"`
}

type Retry struct {
	Attempts       int `yaml:"attempts"`
	BackoffSeconds int `yaml:"backoff_seconds"`
}

type HTTP struct {
	Listen string `yaml:"listen"`
}

type Config struct {
	TigerGraph TigerGraph `yaml:"tigergraph"`
	Auth       Auth       `yaml:"auth"`
	Load       Load       `yaml:"load"`
	HTTP       HTTP       `yaml:"http"`
}

// LoadConfig 从文件加载配置。
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("读取配置失败: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("解析配置失败: %w", err)
	}
	return cfg, nil
}
