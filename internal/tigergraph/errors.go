package tigergraph

import "errors"

// Error 表示 TigerGraph 服务端返回的错误,Code 为服务端错误码,可能为空。
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	return e.Message
}

// ErrRestPPAuthDisabled 表示服务端未开启 REST++ 认证,token 相关操作不可用。
var ErrRestPPAuthDisabled = errors.New("服务端未开启 REST++ 认证")

// 服务端提示 /requesttoken 不存在时的特征串,用于识别认证未开启。
const requestTokenNotFound = "Endpoint is not found from url = /requesttoken"
