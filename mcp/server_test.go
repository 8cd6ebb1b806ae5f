package mcp

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sendRequest(t *testing.T, s *Server, method string, id int, params interface{}) jsonrpcResponse {
	t.Helper()

	req := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
	}
	if params != nil {
		req["params"] = params
	}

	reqBytes, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	reqBytes = append(reqBytes, '\n')

	var output bytes.Buffer
	s.input = bytes.NewReader(reqBytes)
	s.output = &output

	s.Run()

	var resp jsonrpcResponse
	if err := json.Unmarshal(output.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshaling response %q: %v", output.String(), err)
	}
	return resp
}

func testSettings() map[string]interface{} {
	return map[string]interface{}{
		"canvasWidth":  842,
		"canvasHeight": 595,
		"textFields": []map[string]interface{}{
			{"id": 1, "x": 321, "y": 250, "text": "{name}", "fontSize": 24},
		},
	}
}

func TestServerInitialize(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultTools(s)

	resp := sendRequest(t, s, "initialize", 1, map[string]interface{}{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]interface{}{},
		"clientInfo":      map[string]interface{}{"name": "test", "version": "1.0"},
	})

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("result is not a map")
	}

	if result["protocolVersion"] != "2024-11-05" {
		t.Fatalf("unexpected protocol version: %v", result["protocolVersion"])
	}

	serverInfo, ok := result["serverInfo"].(map[string]interface{})
	if !ok {
		t.Fatal("missing serverInfo")
	}
	if serverInfo["name"] != "certgen-mcp" {
		t.Fatalf("unexpected server name: %v", serverInfo["name"])
	}
}

func TestServerToolsList(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultTools(s)

	resp := sendRequest(t, s, "tools/list", 2, nil)

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("result is not a map")
	}

	tools, ok := result["tools"].([]interface{})
	if !ok {
		t.Fatal("tools is not an array")
	}

	toolNames := make(map[string]bool)
	for _, tool := range tools {
		tm, ok := tool.(map[string]interface{})
		if !ok {
			continue
		}
		if name, ok := tm["name"].(string); ok {
			toolNames[name] = true
		}
	}

	for _, name := range []string{"create_certificate", "generate_batch", "preview_layout"} {
		if !toolNames[name] {
			t.Errorf("expected tool %q not found", name)
		}
	}
}

func TestServerResourcesList(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultResources(s)

	resp := sendRequest(t, s, "resources/list", 3, nil)

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("result is not a map")
	}

	resources, ok := result["resources"].([]interface{})
	if !ok {
		t.Fatal("resources is not an array")
	}
	if len(resources) == 0 {
		t.Fatal("expected at least one resource")
	}
}

func TestServerResourcesRead(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultResources(s)

	resp := sendRequest(t, s, "resources/read", 4, map[string]interface{}{
		"uri": "certificate://schema",
	})

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("result is not a map")
	}
	contents, ok := result["contents"].([]interface{})
	if !ok || len(contents) == 0 {
		t.Fatal("missing resource contents")
	}
}

func TestServerPing(t *testing.T) {
	s := NewServerWithIO(nil, nil)

	resp := sendRequest(t, s, "ping", 5, nil)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}
}

func TestServerUnknownMethod(t *testing.T) {
	s := NewServerWithIO(nil, nil)

	resp := sendRequest(t, s, "no/such/method", 6, nil)
	if resp.Error == nil {
		t.Fatal("expected an error")
	}
	if resp.Error.Code != -32601 {
		t.Fatalf("expected -32601, got %d", resp.Error.Code)
	}
}

func TestServerUnknownTool(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultTools(s)

	resp := sendRequest(t, s, "tools/call", 7, map[string]interface{}{
		"name":      "no_such_tool",
		"arguments": map[string]interface{}{},
	})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Fatalf("expected -32602, got %+v", resp.Error)
	}
}

func TestPreviewLayoutCall(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultTools(s)

	resp := sendRequest(t, s, "tools/call", 8, map[string]interface{}{
		"name": "preview_layout",
		"arguments": map[string]interface{}{
			"designSettings": testSettings(),
			"recipient":      map[string]interface{}{"id": 1, "name": "Jim Green"},
			"date":           "2024-06-01",
		},
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	data, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("re-encoding result: %v", err)
	}
	var result ToolResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("decoding tool result: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool reported error: %+v", result.Content)
	}
	if len(result.Content) != 1 {
		t.Fatalf("expected one content block, got %d", len(result.Content))
	}
	if !strings.Contains(result.Content[0].Text, `"Jim Green"`) {
		t.Fatalf("layout must substitute the recipient name: %s", result.Content[0].Text)
	}
}

func TestCreateCertificateCall(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultTools(s)

	outputPath := filepath.Join(t.TempDir(), "out.pdf")
	resp := sendRequest(t, s, "tools/call", 9, map[string]interface{}{
		"name": "create_certificate",
		"arguments": map[string]interface{}{
			"designSettings": testSettings(),
			"recipient":      map[string]interface{}{"id": 1, "name": "Jim Green"},
			"outputPath":     outputPath,
		},
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("output file is not a PDF")
	}
}

func TestGenerateBatchCall(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultTools(s)

	resp := sendRequest(t, s, "tools/call", 10, map[string]interface{}{
		"name": "generate_batch",
		"arguments": map[string]interface{}{
			"designSettings": testSettings(),
			"recipients": []map[string]interface{}{
				{"id": 1, "name": "Jim Green"},
				{"id": 2, "name": "Ana Li"},
			},
		},
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	data, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("re-encoding result: %v", err)
	}
	var result ToolResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("decoding tool result: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool reported error: %+v", result.Content)
	}
	if !strings.Contains(result.Content[0].Text, "2 generated, 0 failed") {
		t.Fatalf("unexpected tool text: %s", result.Content[0].Text)
	}
}

func TestGenerateBatchCallFailure(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultTools(s)

	resp := sendRequest(t, s, "tools/call", 11, map[string]interface{}{
		"name": "generate_batch",
		"arguments": map[string]interface{}{
			"designSettings": testSettings(),
			"recipients":     []map[string]interface{}{},
		},
	})
	if resp.Error != nil {
		t.Fatalf("tool failures surface as results, not protocol errors: %v", resp.Error.Message)
	}

	data, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("re-encoding result: %v", err)
	}
	var result ToolResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("decoding tool result: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected an error result for an empty recipient list")
	}
}

func TestServerMultipleRequests(t *testing.T) {
	var input bytes.Buffer
	for i, method := range []string{"ping", "tools/list", "ping"} {
		req := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      i + 1,
			"method":  method,
		}
		data, err := json.Marshal(req)
		if err != nil {
			t.Fatalf("marshaling request: %v", err)
		}
		input.Write(data)
		input.WriteByte('\n')
	}

	var output bytes.Buffer
	s := NewServerWithIO(&input, &output)
	RegisterDefaultTools(s)
	if err := s.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	lines := bytes.Split(bytes.TrimSpace(output.Bytes()), []byte("\n"))
	if len(lines) != 3 {
		t.Fatalf("expected 3 responses, got %d", len(lines))
	}
	for _, line := range lines {
		var resp jsonrpcResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			t.Fatalf("unmarshaling %q: %v", line, err)
		}
		if resp.Error != nil {
			t.Fatalf("unexpected error: %v", resp.Error.Message)
		}
	}
}
