package gateway

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Schema is a minimal JSON-schema description, just enough for the
// tools/list response (spec.md §6.2).
type Schema struct {
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Required   []string               `json:"required,omitempty"`
}

// ToolDef is one entry in the MCP tool catalog.
type ToolDef struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema Schema `json:"inputSchema"`
}

// Catalog is the fixed tool list from spec.md §4.8/§6.2.
var Catalog = []ToolDef{
	{
		Name:        "get_scene_info",
		Description: "Enumerate objects in the active scene.",
		InputSchema: Schema{Type: "object"},
	},
	{
		Name:        "get_object_info",
		Description: "Detailed info for one named scene object.",
		InputSchema: Schema{
			Type:       "object",
			Properties: map[string]interface{}{"object_name": map[string]interface{}{"type": "string"}},
			Required:   []string{"object_name"},
		},
	},
	{
		Name:        "execute_code",
		Description: "Run source in the host's persistent embedded-interpreter namespace and capture stdout/stderr.",
		InputSchema: Schema{
			Type: "object",
			Properties: map[string]interface{}{
				"code":             map[string]interface{}{"type": "string"},
				"return_as_base64": map[string]interface{}{"type": "boolean"},
			},
			Required: []string{"code"},
		},
	},
	{
		Name:        "get_viewport_screenshot",
		Description: "Render the active viewport to an image and return it as an image content block.",
		InputSchema: Schema{
			Type: "object",
			Properties: map[string]interface{}{
				"filepath": map[string]interface{}{"type": "string"},
				"max_size": map[string]interface{}{"type": "integer"},
				"format":   map[string]interface{}{"type": "string", "enum": []string{"png", "jpg"}},
			},
		},
	},
	{
		Name:        "put_persist_data",
		Description: "Store a JSON-serializable value under a key in the persistence store.",
		InputSchema: Schema{
			Type:       "object",
			Properties: map[string]interface{}{"key": map[string]interface{}{"type": "string"}, "data": map[string]interface{}{}},
			Required:   []string{"key"},
		},
	},
	{
		Name:        "get_persist_data",
		Description: "Retrieve a value from the persistence store by key.",
		InputSchema: Schema{
			Type:       "object",
			Properties: map[string]interface{}{"key": map[string]interface{}{"type": "string"}, "default": map[string]interface{}{}},
			Required:   []string{"key"},
		},
	},
	{
		Name:        "remove_persist_data",
		Description: "Delete a key from the persistence store.",
		InputSchema: Schema{
			Type:       "object",
			Properties: map[string]interface{}{"key": map[string]interface{}{"type": "string"}},
			Required:   []string{"key"},
		},
	},
	{
		Name:        "check_connection_status",
		Description: "Probe whether the Command Broker is reachable, without invoking any command.",
		InputSchema: Schema{Type: "object"},
	},
}

// ContentBlock is one MCP tool-result content entry.
type ContentBlock struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Data     string `json:"data,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// ToolResult is the MCP tools/call result shape.
type ToolResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

func textResult(text string) ToolResult {
	return ToolResult{Content: []ContentBlock{{Type: "text", Text: text}}}
}

func errorResult(format string, args ...interface{}) ToolResult {
	return ToolResult{Content: []ContentBlock{{Type: "text", Text: fmt.Sprintf(format, args...)}}, IsError: true}
}

// CallTool translates one MCP tools/call invocation into exactly one
// CB request (or, for check_connection_status, a bare probe) and
// decodes the result back into MCP content blocks.
func CallTool(client *CBClient, name string, args map[string]interface{}) ToolResult {
	switch name {
	case "check_connection_status":
		if err := client.Probe(); err != nil {
			return errorResult("command broker not reachable on %s: %v", client.Addr, err)
		}
		return textResult(fmt.Sprintf("command broker reachable on %s", client.Addr))

	case "execute_code":
		return callExecuteCode(client, args)

	case "get_viewport_screenshot":
		return callViewportScreenshot(client, args)

	case "get_scene_info", "get_object_info", "put_persist_data", "get_persist_data", "remove_persist_data":
		return callPassthrough(client, name, args)

	default:
		return errorResult("unknown tool: %s", name)
	}
}

func callPassthrough(client *CBClient, cbCommand string, args map[string]interface{}) ToolResult {
	resp, err := client.Call(cbCommand, args)
	if err != nil {
		return errorResult("%v", err)
	}
	return translate(resp)
}

// hasControlBytes reports whether s contains bytes a JSON string
// cannot safely carry without escaping headaches (spec.md §4.1's
// "control bytes" trigger for auto base64).
func hasControlBytes(s string) bool {
	for _, r := range s {
		if r < 0x20 && r != '\n' && r != '\t' && r != '\r' {
			return true
		}
	}
	return false
}

func callExecuteCode(client *CBClient, args map[string]interface{}) ToolResult {
	code, _ := args["code"].(string)
	params := map[string]interface{}{"code": code}
	if hasControlBytes(code) {
		params["code"] = base64Encode(code)
		params["code_is_base64"] = true
	}
	if v, ok := args["return_as_base64"]; ok {
		params["return_as_base64"] = v
	}

	resp, err := client.Call("execute_code", params)
	if err != nil {
		return errorResult("%v", err)
	}
	return translate(resp)
}

func callViewportScreenshot(client *CBClient, args map[string]interface{}) ToolResult {
	resp, err := client.Call("get_viewport_screenshot", args)
	if err != nil {
		return errorResult("%v", err)
	}
	if resp.Status == "error" {
		return translate(resp)
	}

	var result struct {
		Filepath string `json:"filepath"`
		Format   string `json:"format"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return errorResult("malformed get_viewport_screenshot result: %v", err)
	}

	data, err := os.ReadFile(result.Filepath)
	if err != nil {
		return errorResult("failed to read captured screenshot: %v", err)
	}
	os.Remove(result.Filepath)

	mimeType := "image/png"
	if strings.EqualFold(result.Format, "jpg") {
		mimeType = "image/jpeg"
	}

	return ToolResult{Content: []ContentBlock{{
		Type:     "image",
		Data:     base64Encode(string(data)),
		MimeType: mimeType,
	}}}
}

// translate converts a CB response into an MCP tool result, preserving
// the error code and adding a timeout hint (spec.md §4.8's error
// translation rule).
func translate(resp CBResponse) ToolResult {
	if resp.Status == "error" {
		hint := ""
		if resp.Code == "timeout" {
			hint = " (a long-running job may still be executing on the host)"
		}
		msg := fmt.Sprintf("[%s] %s%s", resp.Code, resp.Message, hint)
		if resp.Traceback != "" {
			msg += "\n" + resp.Traceback
		}
		return errorResult("%s", msg)
	}

	data, err := json.Marshal(jsonOrRaw(resp.Result))
	if err != nil {
		return errorResult("failed to encode result: %v", err)
	}
	return textResult(string(data))
}

func jsonOrRaw(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return map[string]interface{}{}
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}
