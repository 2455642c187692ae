package tigergraph

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const gsqlFilePath = "/gsqlserver/gsql/file"

// GSQL 将语句提交给 GSQL server 并返回原始文本输出。
// GSQL server 始终使用用户名/密码认证,不走 REST++ token。
func (c *Connection) GSQL(ctx context.Context, query string) (string, error) {
	body := url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gsURL+gsqlFilePath, strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("构建 GSQL 请求失败: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("请求 GSQL server 失败: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("读取 GSQL 响应失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GSQL server 返回状态码 %d", resp.StatusCode)
	}
	return string(raw), nil
}
