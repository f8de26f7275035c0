package transport

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/fansqz/go-debug-adapter/protocol"
	"github.com/google/go-dap"
	"github.com/maxatome/go-testdeep/td"
	"github.com/stretchr/testify/assert"
)

type readWriter struct {
	io.Reader
	io.Writer
}

func TestController_ReadRequest(t *testing.T) {
	input := &bytes.Buffer{}
	assert.Nil(t, dap.WriteBaseMessage(input, []byte(`{"seq":1,"type":"request","command":"initialize","arguments":{"adapterID":"lua"}}`)))
	assert.Nil(t, dap.WriteBaseMessage(input, []byte(`{"seq":2,"type":"request","command":"next","arguments":{"threadId":1}}`)))
	c := NewController(&readWriter{Reader: input, Writer: io.Discard})

	request, err := c.ReadRequest()
	assert.Nil(t, err)
	assert.Equal(t, "initialize", request.Command)
	assert.Equal(t, 1, request.Seq)

	request, err = c.ReadRequest()
	assert.Nil(t, err)
	threadID, ok := request.ThreadID()
	assert.True(t, ok)
	assert.Equal(t, 1, threadID)

	_, err = c.ReadRequest()
	assert.Equal(t, io.EOF, err)
}

func TestController_SendAssignsSeq(t *testing.T) {
	output := &bytes.Buffer{}
	c := NewController(&readWriter{Reader: &bytes.Buffer{}, Writer: output})

	assert.Nil(t, c.Send(protocol.NewInitializedEvent()))
	assert.Nil(t, c.SendRaw([]byte(`{"seq":99,"type":"response","request_seq":4,"command":"next","success":true}`)))

	reader := bufio.NewReader(output)
	first, err := dap.ReadBaseMessage(reader)
	assert.Nil(t, err)
	td.Cmp(t, json.RawMessage(first), td.JSON(`{"seq":1,"type":"event","event":"initialized"}`))
	second, err := dap.ReadBaseMessage(reader)
	assert.Nil(t, err)
	td.Cmp(t, json.RawMessage(second), td.JSON(`{"seq":2,"type":"response","request_seq":4,"command":"next","success":true}`))
}
