package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEncoding(t *testing.T) {
	cases := []struct {
		input  string
		expect string
		ok     bool
	}{
		{"utf8", "utf8", true},
		{"UTF-8", "utf-8", true},
		{"Latin1", "latin1", true},
		{"UCS-2", "ucs-2", true},
		{"base64url", "base64url", true},
		{"gbk", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		encoding, ok := ParseEncoding(c.input)
		assert.Equal(t, c.ok, ok, c.input)
		assert.Equal(t, c.expect, encoding, c.input)
	}
}
