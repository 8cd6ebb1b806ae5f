package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lesley-gao/automated-certificate-generator/batch"
	"github.com/lesley-gao/automated-certificate-generator/template"
)

// RegisterDefaultTools adds all built-in certificate tools to the server.
func RegisterDefaultTools(s *Server) {
	s.AddTool(createCertificateTool())
	s.AddTool(generateBatchTool())
	s.AddTool(previewLayoutTool())
}

// settingsSchema describes the designSettings argument shared by the tools.
func settingsSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "Certificate template: canvasWidth, canvasHeight, backgroundImage (data URI, URL or file path), textFields with {name}/{recipient}/{email}/{date} tokens and per-recipient overrides, imageFields, optional qrField",
	}
}

func recipientSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "Recipient with id (integer), name (required) and optional email",
	}
}

func createCertificateTool() Tool {
	return Tool{
		Name:        "create_certificate",
		Description: "Render one recipient's certificate from a template. Returns the PDF as base64, or writes it to outputPath when given.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"designSettings": settingsSchema(),
				"recipient":      recipientSchema(),
				"outputPath": map[string]interface{}{
					"type":        "string",
					"description": "Optional file path to save the PDF. If omitted, returns base64.",
				},
			},
			"required": []string{"designSettings", "recipient"},
		},
		Handler: handleCreateCertificate,
	}
}

func handleCreateCertificate(args map[string]interface{}) (ToolResult, error) {
	var settings template.DesignSettings
	if err := decodeArg(args, "designSettings", &settings); err != nil {
		return ToolResult{}, err
	}
	var recipient template.Recipient
	if err := decodeArg(args, "recipient", &recipient); err != nil {
		return ToolResult{}, err
	}

	out, err := batch.GenerateOne(context.Background(), &settings, recipient, batch.Options{})
	if err != nil {
		return ToolResult{}, fmt.Errorf("rendering certificate: %w", err)
	}

	return deliver(args, out.FileName, out.Data, "certificate")
}

func generateBatchTool() Tool {
	return Tool{
		Name:        "generate_batch",
		Description: "Render a certificate for every recipient and package the results. format 'zip' (default) yields one archive with a file per recipient; 'pdf' yields one combined multi-page document. Returns base64, or writes to outputPath when given.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"designSettings": settingsSchema(),
				"recipients": map[string]interface{}{
					"type":        "array",
					"description": "Recipient list",
					"items":       recipientSchema(),
				},
				"format": map[string]interface{}{
					"type":        "string",
					"description": "'zip' or 'pdf'",
				},
				"backgroundImage": map[string]interface{}{
					"type":        "string",
					"description": "Optional background override for this batch",
				},
				"outputPath": map[string]interface{}{
					"type":        "string",
					"description": "Optional file path to save the result. If omitted, returns base64.",
				},
			},
			"required": []string{"designSettings", "recipients"},
		},
		Handler: handleGenerateBatch,
	}
}

func handleGenerateBatch(args map[string]interface{}) (ToolResult, error) {
	var settings template.DesignSettings
	if err := decodeArg(args, "designSettings", &settings); err != nil {
		return ToolResult{}, err
	}
	var recipients []template.Recipient
	if err := decodeArg(args, "recipients", &recipients); err != nil {
		return ToolResult{}, err
	}

	opts := batch.Options{}
	if bg, ok := args["backgroundImage"].(string); ok {
		opts.Background = bg
	}

	run := batch.Generate
	if format, ok := args["format"].(string); ok && format == "pdf" {
		run = batch.Combine
	}

	out, err := run(context.Background(), &settings, recipients, opts)
	if err != nil {
		return ToolResult{}, fmt.Errorf("generating batch: %w", err)
	}

	label := fmt.Sprintf("batch (%d generated, %d failed)", out.Generated, len(out.Failures))
	return deliver(args, out.FileName, out.Data, label)
}

func previewLayoutTool() Tool {
	return Tool{
		Name:        "preview_layout",
		Description: "Resolve the final field layout for one recipient without rendering: overrides merged and placeholder tokens substituted. Useful for checking positioning and substitution before generating.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"designSettings": settingsSchema(),
				"recipient":      recipientSchema(),
				"date": map[string]interface{}{
					"type":        "string",
					"description": "Date substituted for {date}; defaults to today (YYYY-MM-DD)",
				},
			},
			"required": []string{"designSettings", "recipient"},
		},
		Handler: handlePreviewLayout,
	}
}

func handlePreviewLayout(args map[string]interface{}) (ToolResult, error) {
	var settings template.DesignSettings
	if err := decodeArg(args, "designSettings", &settings); err != nil {
		return ToolResult{}, err
	}
	var recipient template.Recipient
	if err := decodeArg(args, "recipient", &recipient); err != nil {
		return ToolResult{}, err
	}

	date, _ := args["date"].(string)
	if date == "" {
		date = batch.Today()
	}

	fs := template.Resolve(&settings, recipient, date)
	pretty, err := json.MarshalIndent(fs, "", "  ")
	if err != nil {
		return ToolResult{}, fmt.Errorf("encoding layout: %w", err)
	}

	return ToolResult{
		Content: []ContentBlock{{Type: "text", Text: string(pretty)}},
	}, nil
}

// decodeArg re-marshals a loosely-typed JSON-RPC argument into a concrete
// struct.
func decodeArg(args map[string]interface{}, key string, dst interface{}) error {
	v, ok := args[key]
	if !ok {
		return fmt.Errorf("missing '%s' argument", key)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

// deliver writes the result to outputPath when requested, otherwise
// returns it inline as base64.
func deliver(args map[string]interface{}, fileName string, data []byte, label string) (ToolResult, error) {
	if outputPath, ok := args["outputPath"].(string); ok && outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return ToolResult{}, fmt.Errorf("writing file: %w", err)
		}
		return ToolResult{
			Content: []ContentBlock{{
				Type: "text",
				Text: fmt.Sprintf("%s created successfully: %s (%d bytes)", label, outputPath, len(data)),
			}},
		}, nil
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	return ToolResult{
		Content: []ContentBlock{{
			Type: "text",
			Text: fmt.Sprintf("%s created successfully as %s (%d bytes). Base64 data:\n%s", label, fileName, len(data), encoded),
		}},
	}, nil
}
