package tigergraph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
)

const (
	// DefaultLoadTimeout 是装载作业的默认 GSQL-TIMEOUT,单位秒。
	DefaultLoadTimeout = 16000
	// DefaultLoadSizeLimit 是装载数据的默认大小上限,单位字节。
	DefaultLoadSizeLimit = 128000000
)

// LoadOptions 是装载作业的可选参数,零值表示使用默认值。
type LoadOptions struct {
	Sep       string // 字段分隔符,JSON 数据不需要指定
	EOL       string // 行结束符,默认 \n
	Timeout   int    // GSQL-TIMEOUT,单位秒,0 取 DefaultLoadTimeout,负数表示交给服务端全局超时设置
	SizeLimit int    // RESPONSE-LIMIT,单位字节,0 取 DefaultLoadSizeLimit
}

// RunLoadingJobWithFile 把本地文件上传到服务端并执行指定的装载作业。
// fileTag 对应装载作业中 DEFINE FILENAME 的文件变量名,jobName 是作业名。
// 注意:装载作业中的 USING HEADER="true" 不一定生效,上传前应先去掉表头行。
func (c *Connection) RunLoadingJobWithFile(ctx context.Context, filePath, fileTag, jobName string, opts *LoadOptions) (json.RawMessage, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("读取数据文件失败: %w", err)
	}
	return c.RunLoadingJobWithData(ctx, data, fileTag, jobName, opts)
}

// RunLoadingJobWithData 直接以内存中的数据执行装载作业。
//
// Endpoint: POST /ddl/{graph}
func (c *Connection) RunLoadingJobWithData(ctx context.Context, data []byte, fileTag, jobName string, opts *LoadOptions) (json.RawMessage, error) {
	if opts == nil {
		opts = &LoadOptions{}
	}
	timeout := opts.Timeout
	switch {
	case timeout < 0:
		timeout = 0
	case timeout == 0:
		timeout = DefaultLoadTimeout
	}
	sizeLimit := opts.SizeLimit
	if sizeLimit <= 0 {
		sizeLimit = DefaultLoadSizeLimit
	}

	params := url.Values{}
	params.Set("tag", jobName)
	params.Set("filename", fileTag)
	if opts.Sep != "" {
		params.Set("sep", opts.Sep)
	}
	if opts.EOL != "" {
		params.Set("eol", opts.EOL)
	}
	headers := map[string]string{
		"RESPONSE-LIMIT": strconv.Itoa(sizeLimit),
		"GSQL-TIMEOUT":   strconv.Itoa(timeout),
	}

	envelope, err := c.doRestPP(ctx, http.MethodPost, "/ddl/"+url.PathEscape(c.graph), params, data, headers)
	if err != nil {
		return nil, err
	}
	return envelope.Results, nil
}

// UploadFile 执行装载作业。
//
// Deprecated: 请使用 RunLoadingJobWithFile。
func (c *Connection) UploadFile(ctx context.Context, filePath, fileTag, jobName string, opts *LoadOptions) (json.RawMessage, error) {
	return c.RunLoadingJobWithFile(ctx, filePath, fileTag, jobName, opts)
}
