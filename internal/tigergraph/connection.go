package tigergraph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultRestPPPort 是 REST++ API 的默认端口。
	DefaultRestPPPort = 9000
	// DefaultGSPort 是 GraphStudio / GSQL server 的默认端口。
	DefaultGSPort = 14240

	defaultTimeout = 30 * time.Second
)

// Config 描述连接 TigerGraph 实例所需的全部参数。
// RestPPPort 与 GSPort 为 0 时在构造时分别取 9000 与 14240。
type Config struct {
	Host       string // 服务器地址,可带 scheme,不带端口
	Graph      string // 目标图名
	Username   string
	Password   string
	APIToken   string // 预先签发的 REST++ token,可选
	RestPPPort int
	GSPort     int
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Connection 持有访问一个 TigerGraph 实例所需的配置。
// 除 API token 可被 GetToken 更新外,所有字段在构造后不再变化。
type Connection struct {
	host       string
	graph      string
	username   string
	password   string
	restppPort int
	gsPort     int
	restppURL  string
	gsURL      string
	httpClient *http.Client

	mu       sync.RWMutex
	apiToken string
	version  string // 缓存的 product 版本号,如 "3.9.3"
}

// NewConnection 根据配置创建连接,端口为 0 时使用默认值。
func NewConnection(cfg Config) (*Connection, error) {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		return nil, errors.New("tigergraph host 不能为空")
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	host = strings.TrimRight(host, "/")

	restppPort := cfg.RestPPPort
	if restppPort <= 0 {
		restppPort = DefaultRestPPPort
	}
	gsPort := cfg.GSPort
	if gsPort <= 0 {
		gsPort = DefaultGSPort
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &Connection{
		host:       host,
		graph:      cfg.Graph,
		username:   cfg.Username,
		password:   cfg.Password,
		restppPort: restppPort,
		gsPort:     gsPort,
		restppURL:  fmt.Sprintf("%s:%d", host, restppPort),
		gsURL:      fmt.Sprintf("%s:%d", host, gsPort),
		httpClient: client,
		apiToken:   cfg.APIToken,
	}, nil
}

// Graph 返回目标图名。
func (c *Connection) Graph() string { return c.graph }

// RestPPPort 返回 REST++ 端口。
func (c *Connection) RestPPPort() int { return c.restppPort }

// GSPort 返回 GraphStudio 端口。
func (c *Connection) GSPort() int { return c.gsPort }

// RestPPURL 返回 REST++ 服务地址,形如 http://host:9000。
func (c *Connection) RestPPURL() string { return c.restppURL }

// GSURL 返回 GSQL server 地址,形如 http://host:14240。
func (c *Connection) GSURL() string { return c.gsURL }

// Token 返回当前持有的 API token,可能为空。
func (c *Connection) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiToken
}

func (c *Connection) setToken(token string) {
	c.mu.Lock()
	c.apiToken = token
	c.mu.Unlock()
}

// setAuth 按当前状态附加认证信息:持有 token 时用 Bearer,否则用基本认证。
func (c *Connection) setAuth(req *http.Request) {
	if t := c.Token(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
		return
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
}

// doRestPP 向 REST++ 发起请求并解析统一响应结构。
// 服务端标记 error=true 时返回 *Error。
func (c *Connection) doRestPP(ctx context.Context, method, path string, params url.Values, body []byte, headers map[string]string) (*Response, error) {
	endpoint := c.restppURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("构建请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求 REST++ 失败: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取 REST++ 响应失败: %w", err)
	}

	var envelope Response
	if err := json.Unmarshal(raw, &envelope); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("REST++ 返回状态码 %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("解析 REST++ 响应失败: %w", err)
	}
	if envelope.Error {
		return &envelope, &Error{Code: envelope.Code, Message: envelope.Message}
	}
	return &envelope, nil
}

// GetVersion 请求 /version 并解析组件版本表。
func (c *Connection) GetVersion(ctx context.Context) ([]VersionComponent, error) {
	envelope, err := c.doRestPP(ctx, http.MethodGet, "/version", nil, nil, nil)
	if err != nil {
		return nil, err
	}
	return parseVersionComponents(envelope.Message), nil
}

// Ver 返回指定组件的版本号,如 "3.9.3"。component 为空时取 product。
func (c *Connection) Ver(ctx context.Context, component string) (string, error) {
	if component == "" {
		component = "product"
	}
	components, err := c.GetVersion(ctx)
	if err != nil {
		return "", err
	}
	for _, comp := range components {
		if comp.Name == strings.ToLower(component) {
			return shortVersion(comp.Version), nil
		}
	}
	return "", fmt.Errorf("未找到组件 %s 的版本信息", component)
}

// productVersion 返回缓存的 product 版本,首次调用时拉取。
// 拉取失败时返回空串,调用方需能在版本未知时工作。
func (c *Connection) productVersion(ctx context.Context) string {
	c.mu.RLock()
	v := c.version
	c.mu.RUnlock()
	if v != "" {
		return v
	}
	ver, err := c.Ver(ctx, "product")
	if err != nil {
		return ""
	}
	c.mu.Lock()
	c.version = ver
	c.mu.Unlock()
	return ver
}

// parseVersionComponents 解析 /version 的 message 文本。
// 每行形如 "product release_3.9.3_05-19-2023 a1b2c3d 2023-05-19 02:29:19"。
func parseVersionComponents(message string) []VersionComponent {
	var components []VersionComponent
	for _, line := range strings.Split(message, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || !strings.Contains(fields[1], "_") {
			continue
		}
		comp := VersionComponent{
			Name:    fields[0],
			Version: fields[1],
			Hash:    fields[2],
		}
		if len(fields) > 3 {
			comp.BuiltAt = strings.Join(fields[3:], " ")
		}
		components = append(components, comp)
	}
	return components
}

// shortVersion 从 "release_3.9.3_05-19-2023" 中取出 "3.9.3"。
func shortVersion(full string) string {
	parts := strings.Split(full, "_")
	if len(parts) >= 2 {
		return parts[1]
	}
	return full
}
