package broker_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/remoteforge/scenebridge/internal/broker"
	"github.com/stretchr/testify/assert"
)

func TestRequest_IsLegacy(t *testing.T) {
	assert.True(t, broker.Request{Message: "hi"}.IsLegacy())
	assert.False(t, broker.Request{Type: "get_scene_info"}.IsLegacy())
}

func TestDecodeRequest_TypedFrame(t *testing.T) {
	r := strings.NewReader(`{"type":"get_scene_info"}`)

	req, err, oversize := broker.DecodeRequest(r)

	assert.NoError(t, err)
	assert.False(t, oversize)
	assert.Equal(t, "get_scene_info", req.Type)
}

func TestDecodeRequest_MalformedJSON(t *testing.T) {
	r := strings.NewReader(`{not json`)

	_, err, oversize := broker.DecodeRequest(r)

	assert.Error(t, err)
	assert.False(t, oversize)
}

func TestDecodeRequest_OversizeFrame(t *testing.T) {
	huge := bytes.Repeat([]byte("a"), broker.MaxFrameSize+1)
	payload := append([]byte(`{"type":"execute_code","params":{"code":"`), huge...)
	payload = append(payload, []byte(`"}}`)...)

	_, err, oversize := broker.DecodeRequest(bytes.NewReader(payload))

	assert.Error(t, err)
	assert.True(t, oversize)
}

func TestSuccessResponse(t *testing.T) {
	resp := broker.SuccessResponse(map[string]interface{}{"ok": true})
	assert.Equal(t, "success", resp.Status)
}

func TestErrorResponse(t *testing.T) {
	resp := broker.ErrorResponse("bad_params", "missing field")
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "bad_params", resp.Code)
	assert.Equal(t, "missing field", resp.Message)
}
