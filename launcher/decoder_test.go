package launcher

import (
	"bytes"
	"io"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
)

func TestDecoder_Decode(t *testing.T) {
	cases := []struct {
		encoding string
		input    []byte
		expect   string
	}{
		{"utf8", []byte("héllo"), "héllo"},
		{"UTF-8", []byte("ok"), "ok"},
		{"utf16le", []byte{'h', 0, 'i', 0}, "hi"},
		{"ucs2", []byte{0xe9, 0x00}, "é"},
		{"latin1", []byte{0xe9}, "é"},
		{"ascii", []byte{0xe8, 'a'}, "ha"},
		{"base64", []byte("hi"), "aGk="},
		{"base64url", []byte{0xfb, 0xff}, "-_8"},
		{"unknown", []byte("plain"), "plain"},
	}
	for _, c := range cases {
		text, err := NewDecoder(c.encoding).Decode(c.input)
		assert.Nil(t, err, c.encoding)
		assert.Equal(t, c.expect, text, c.encoding)
	}
}

func TestDecoder_SplitMultiByte(t *testing.T) {
	d := NewDecoder("utf8")
	// 每次只读一个字节，多字节字符被拆开
	reader := d.Reader(iotest.OneByteReader(bytes.NewReader([]byte("中文"))))
	data, err := io.ReadAll(reader)
	assert.Nil(t, err)
	assert.Equal(t, "中文", string(data))
}

func TestMergeEnvironment(t *testing.T) {
	value := "1"
	empty := ""
	merged := MergeEnvironment(
		[]string{"PATH=/bin", "HOME=/root", "LUA_PATH=x"},
		map[string]*string{"LUA_PATH": nil, "DEBUG": &value, "HOME": &empty},
	)
	assert.Equal(t, []string{"PATH=/bin", "DEBUG=1", "HOME="}, merged)

	base := []string{"A=1"}
	assert.Equal(t, base, MergeEnvironment(base, nil))
}
