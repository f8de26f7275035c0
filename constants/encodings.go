package constants

import (
	"strings"

	mapset "github.com/deckarep/golang-set"
)

const (
	EncodingASCII     = "ascii"
	EncodingUTF8      = "utf8"
	EncodingUTF8Dash  = "utf-8"
	EncodingUTF16LE   = "utf16le"
	EncodingUCS2      = "ucs2"
	EncodingUCS2Dash  = "ucs-2"
	EncodingBase64    = "base64"
	EncodingBase64URL = "base64url"
	EncodingLatin1    = "latin1"
)

// DefaultEncoding 源码编码无效时使用的编码
const DefaultEncoding = EncodingUTF8

var encodings = mapset.NewSet(
	EncodingASCII, EncodingUTF8, EncodingUTF8Dash,
	EncodingUTF16LE, EncodingUCS2, EncodingUCS2Dash,
	EncodingBase64, EncodingBase64URL, EncodingLatin1,
)

// ParseEncoding 校验编码名称，大小写不敏感
// 不支持的编码返回false
func ParseEncoding(encoding string) (string, bool) {
	if encoding == "" {
		return "", false
	}
	encoding = strings.ToLower(encoding)
	if encodings.Contains(encoding) {
		return encoding, true
	}
	return "", false
}
