package tigergraph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Token 是 REST++ 签发的访问令牌及其有效期。
type Token struct {
	Value      string
	Expiration int64 // 过期时间,unix 秒
	ExpiresAt  time.Time
}

// GetSecrets 执行 SHOW SECRET 并返回 alias 到掩码后 secret 的映射。
// 注意返回的是掩码值,secret 创建后无法再取回原文。
func (c *Connection) GetSecrets(ctx context.Context) (map[string]string, error) {
	out, err := c.GSQL(ctx, fmt.Sprintf("USE GRAPH %s\nSHOW SECRET", c.graph))
	if err != nil {
		return nil, err
	}
	return parseSecrets(out), nil
}

// ShowSecrets 返回 alias 到掩码后 secret 的映射。
//
// Deprecated: 请使用 GetSecrets。
func (c *Connection) ShowSecrets(ctx context.Context) (map[string]string, error) {
	return c.GetSecrets(ctx)
}

// parseSecrets 解析 SHOW SECRET 的文本输出,按 "- Secret" / "- Alias" 行配对。
func parseSecrets(out string) map[string]string {
	secrets := make(map[string]string)
	lines := strings.Split(out, "\n")
	for i := 0; i < len(lines); i++ {
		if !strings.Contains(lines[i], "- Secret") {
			continue
		}
		_, secret, ok := cutValue(lines[i])
		if !ok || i+1 >= len(lines) {
			continue
		}
		if strings.Contains(lines[i+1], "- Alias") {
			if _, alias, ok := cutValue(lines[i+1]); ok {
				secrets[alias] = secret
			}
			i++
		}
	}
	return secrets
}

func cutValue(line string) (string, string, bool) {
	key, value, ok := strings.Cut(line, ": ")
	return key, strings.TrimSpace(value), ok
}

// CreateSecret 执行 CREATE SECRET 并返回新生成的 secret。
// alias 为空时服务端会自动生成别名。
func (c *Connection) CreateSecret(ctx context.Context, alias string) (string, error) {
	out, err := c.GSQL(ctx, fmt.Sprintf("USE GRAPH %s\nCREATE SECRET %s", c.graph, alias))
	if err != nil {
		return "", err
	}
	if strings.Contains(out, "already exists") {
		msg := "secret 已存在"
		if alias != "" {
			msg = fmt.Sprintf("别名为 %s 的 secret 已存在", alias)
		}
		return "", &Error{Code: "E-00001", Message: msg}
	}
	flat := strings.ReplaceAll(out, "\n", "")
	_, rest, ok := strings.Cut(flat, "The secret: ")
	if !ok {
		return "", fmt.Errorf("未能从 GSQL 输出中解析出 secret: %s", strings.TrimSpace(out))
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", fmt.Errorf("未能从 GSQL 输出中解析出 secret: %s", strings.TrimSpace(out))
	}
	return fields[0], nil
}

// CreateSecretWithAlias 创建 secret 并同时返回其别名。
// 未指定别名时通过掩码值反查服务端自动生成的别名。
func (c *Connection) CreateSecretWithAlias(ctx context.Context, alias string) (string, string, error) {
	secret, err := c.CreateSecret(ctx, alias)
	if err != nil {
		return "", "", err
	}
	if alias != "" {
		return alias, secret, nil
	}
	if len(secret) < 6 {
		return "", secret, nil
	}
	masked := secret[:3] + "****" + secret[len(secret)-3:]
	secrets, err := c.GetSecrets(ctx)
	if err != nil {
		return "", "", err
	}
	for a, s := range secrets {
		if s == masked {
			return a, secret, nil
		}
	}
	return "", "", fmt.Errorf("未能反查到自动生成的 secret 别名")
}

// DropSecret 删除一个或多个 secret,返回 GSQL 的原始输出。
// ignoreErrors 为 true 时忽略删除不存在 secret 产生的失败。
func (c *Connection) DropSecret(ctx context.Context, aliases []string, ignoreErrors bool) (string, error) {
	if len(aliases) == 0 {
		return "", errors.New("至少需要一个 secret 别名")
	}
	cmd := fmt.Sprintf("USE GRAPH %s", c.graph)
	for _, alias := range aliases {
		cmd += "\nDROP SECRET " + alias
	}
	out, err := c.GSQL(ctx, cmd)
	if err != nil {
		return "", err
	}
	if strings.Contains(out, "Failed to drop secrets") && !ignoreErrors {
		return out, &Error{Message: out}
	}
	return out, nil
}

// GetToken 用 secret 换取 REST++ 访问令牌。
// setToken 为 true 时把新 token 安装到连接上,后续请求改用 Bearer 认证;
// 为 false 时清空连接上的 token,退回基本认证。
// lifetime 为有效期秒数,0 表示使用服务端默认值(30 天)。
func (c *Connection) GetToken(ctx context.Context, secret string, setToken bool, lifetime int64) (Token, error) {
	params := url.Values{}
	params.Set("secret", secret)
	if lifetime > 0 {
		params.Set("lifetime", strconv.FormatInt(lifetime, 10))
	}

	var envelope *Response
	var err error
	// 3.5 之前 /requesttoken 只支持 GET,之后改为 POST JSON。
	// 版本未知时先试 GET,失败再落回 POST。
	if legacyTokenEndpoint(c.productVersion(ctx)) {
		envelope, err = c.doRestPP(ctx, http.MethodGet, "/requesttoken", params, nil, nil)
	}
	if envelope == nil || err != nil || envelope.Token == "" {
		payload := map[string]string{"secret": secret}
		if lifetime > 0 {
			payload["lifetime"] = strconv.FormatInt(lifetime, 10)
		}
		body, merr := json.Marshal(payload)
		if merr != nil {
			return Token{}, fmt.Errorf("编码 token 请求失败: %w", merr)
		}
		envelope, err = c.doRestPP(ctx, http.MethodPost, "/requesttoken", nil, body, nil)
	}
	if err != nil {
		return Token{}, tokenError(err)
	}
	if envelope.Token == "" {
		return Token{}, errors.New("token 响应中缺少 token 字段")
	}

	if setToken {
		c.setToken(envelope.Token)
	} else {
		c.setToken("")
	}
	return Token{
		Value:      envelope.Token,
		Expiration: envelope.Expiration,
		ExpiresAt:  time.Unix(envelope.Expiration, 0).UTC(),
	}, nil
}

// RefreshToken 延长一个 token 的有效期。token 为空时取连接当前持有的 token。
// 新的过期时间为当前时间加 lifetime,而不是原过期时间加 lifetime。
func (c *Connection) RefreshToken(ctx context.Context, secret, token string, lifetime int64) (Token, error) {
	if token == "" {
		token = c.Token()
	}
	if token == "" {
		return Token{}, errors.New("没有可刷新的 token")
	}
	params := url.Values{}
	params.Set("secret", secret)
	params.Set("token", token)
	if lifetime > 0 {
		params.Set("lifetime", strconv.FormatInt(lifetime, 10))
	}
	envelope, err := c.doRestPP(ctx, http.MethodPut, "/requesttoken", params, nil, nil)
	if err != nil {
		return Token{}, tokenError(err)
	}
	// PUT 返回的 expiration 是剩余秒数而非时间戳
	exp := time.Now().Add(time.Duration(envelope.Expiration) * time.Second)
	value := envelope.Token
	if value == "" {
		value = token
	}
	return Token{Value: value, Expiration: exp.Unix(), ExpiresAt: exp.UTC()}, nil
}

// DeleteToken 删除一个 token。token 为空时删除连接当前持有的 token。
// skipNA 为 true 时,token 不存在(REST-3300)不视为错误。
func (c *Connection) DeleteToken(ctx context.Context, secret, token string, skipNA bool) error {
	if token == "" {
		token = c.Token()
	}
	if token == "" {
		return errors.New("没有可删除的 token")
	}
	params := url.Values{}
	params.Set("secret", secret)
	params.Set("token", token)
	_, err := c.doRestPP(ctx, http.MethodDelete, "/requesttoken", params, nil, nil)
	if err != nil {
		var tgErr *Error
		if skipNA && errors.As(err, &tgErr) && tgErr.Code == "REST-3300" {
			return nil
		}
		return tokenError(err)
	}
	return nil
}

// legacyTokenEndpoint 判断是否走 3.5 之前的 GET 方式。版本未知时返回 true。
func legacyTokenEndpoint(version string) bool {
	if version == "" {
		return true
	}
	parts := strings.Split(version, ".")
	if len(parts) < 2 {
		return true
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return true
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return true
	}
	return major < 3 || minor < 5
}

// tokenError 将 /requesttoken 不存在的报错翻译为 ErrRestPPAuthDisabled。
func tokenError(err error) error {
	var tgErr *Error
	if errors.As(err, &tgErr) && strings.Contains(tgErr.Message, requestTokenNotFound) {
		return ErrRestPPAuthDisabled
	}
	return err
}
