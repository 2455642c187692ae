package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashBytes 返回内容的稳定 hash,用于判断数据文件是否发生变化。
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
