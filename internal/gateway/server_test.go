package gateway_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/remoteforge/scenebridge/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runLine(t *testing.T, client *gateway.CBClient, line string) gateway.JSONRPCResponse {
	t.Helper()
	in := strings.NewReader(line + "\n")
	var out bytes.Buffer

	server := gateway.NewServer(client, in, &out)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	server.Serve(ctx)

	scanner := bufio.NewScanner(&out)
	require.True(t, scanner.Scan(), "expected one response line")

	var resp gateway.JSONRPCResponse
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp))
	return resp
}

func TestServer_Initialize(t *testing.T) {
	client := gateway.NewCBClient("127.0.0.1:1", 50*time.Millisecond)
	resp := runLine(t, client, `{"jsonrpc":"2.0","id":1,"method":"initialize"}`)

	assert.Nil(t, resp.Error)
	result, ok := resp.Result.(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "2024-11-05", result["protocolVersion"])
}

func TestServer_ToolsList(t *testing.T) {
	client := gateway.NewCBClient("127.0.0.1:1", 50*time.Millisecond)
	resp := runLine(t, client, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)

	assert.Nil(t, resp.Error)
	result, ok := resp.Result.(map[string]interface{})
	assert.True(t, ok)
	tools, ok := result["tools"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, tools, len(gateway.Catalog))
}

func TestServer_UnknownMethod(t *testing.T) {
	client := gateway.NewCBClient("127.0.0.1:1", 50*time.Millisecond)
	resp := runLine(t, client, `{"jsonrpc":"2.0","id":3,"method":"not/a/method"}`)

	require.NotNil(t, resp.Error)
	assert.Equal(t, gateway.MethodNotFound, resp.Error.Code)
}

func TestServer_MalformedLineReturnsParseError(t *testing.T) {
	client := gateway.NewCBClient("127.0.0.1:1", 50*time.Millisecond)
	resp := runLine(t, client, `{not json`)

	require.NotNil(t, resp.Error)
	assert.Equal(t, gateway.ParseError, resp.Error.Code)
}

func TestServer_ToolsCallDispatchesThroughClient(t *testing.T) {
	cb := newFakeCB(t, func(frame gateway.CBFrame) gateway.CBResponse {
		result, _ := json.Marshal(map[string]interface{}{"name": "Scene", "object_count": 0, "objects": []interface{}{}})
		return gateway.CBResponse{Status: "success", Result: result}
	})
	defer cb.Close()

	client := gateway.NewCBClient(cb.Addr(), time.Second)
	resp := runLine(t, client, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"get_scene_info","arguments":{}}}`)

	assert.Nil(t, resp.Error)
	result, ok := resp.Result.(map[string]interface{})
	assert.True(t, ok)
	assert.False(t, result["isError"] == true)
}

func TestServer_NotificationsGetNoResponse(t *testing.T) {
	client := gateway.NewCBClient("127.0.0.1:1", 50*time.Millisecond)
	in := strings.NewReader(`{"jsonrpc":"2.0","method":"notifications/initialized"}` + "\n")
	var out bytes.Buffer

	server := gateway.NewServer(client, in, &out)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	server.Serve(ctx)

	assert.Empty(t, out.String())
}
