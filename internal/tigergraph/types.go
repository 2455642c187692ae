package tigergraph

import "encoding/json"

// Response 是 REST++ 接口的统一响应结构。
type Response struct {
	Version    VersionInfo     `json:"version"`
	Error      bool            `json:"error"`
	Message    string          `json:"message"`
	Code       string          `json:"code"`
	Results    json.RawMessage `json:"results"`
	Token      string          `json:"token"`
	Expiration int64           `json:"expiration"`
}

// VersionInfo 是响应中附带的 API 版本信息。
type VersionInfo struct {
	Edition string `json:"edition"`
	API     string `json:"api"`
	Schema  int    `json:"schema"`
}

// VersionComponent 是 /version 组件版本表中的一行。
type VersionComponent struct {
	Name    string
	Version string // 完整版本串,如 release_3.9.3_05-19-2023
	Hash    string
	BuiltAt string
}
