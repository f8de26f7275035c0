package launcher

import (
	"bytes"
	"encoding/base64"
	"io"

	"github.com/fansqz/go-debug-adapter/constants"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decoder 将进程输出按照控制台编码转换为文本
type Decoder struct {
	encoding string
}

func NewDecoder(consoleEncoding string) *Decoder {
	name, ok := constants.ParseEncoding(consoleEncoding)
	if !ok {
		name = constants.DefaultEncoding
	}
	return &Decoder{encoding: name}
}

// Reader 文本类编码在读取时解码，多字节字符被分割在两次读取之间时也能正确处理
func (d *Decoder) Reader(r io.Reader) io.Reader {
	var enc encoding.Encoding
	switch d.encoding {
	case constants.EncodingUTF8, constants.EncodingUTF8Dash:
		enc = unicode.UTF8
	case constants.EncodingUTF16LE, constants.EncodingUCS2, constants.EncodingUCS2Dash:
		enc = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case constants.EncodingLatin1:
		enc = charmap.ISO8859_1
	default:
		return r
	}
	return transform.NewReader(r, enc.NewDecoder())
}

// Format 处理Reader没有转换的编码
func (d *Decoder) Format(chunk []byte) string {
	switch d.encoding {
	case constants.EncodingBase64:
		return base64.StdEncoding.EncodeToString(chunk)
	case constants.EncodingBase64URL:
		return base64.RawURLEncoding.EncodeToString(chunk)
	case constants.EncodingASCII:
		masked := make([]byte, len(chunk))
		for i, b := range chunk {
			masked[i] = b & 0x7f
		}
		return string(masked)
	default:
		return string(chunk)
	}
}

// Decode 一次性解码
func (d *Decoder) Decode(data []byte) (string, error) {
	decoded, err := io.ReadAll(d.Reader(bytes.NewReader(data)))
	if err != nil {
		return "", err
	}
	return d.Format(decoded), nil
}
