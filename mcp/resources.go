package mcp

import "encoding/json"

// RegisterDefaultResources adds the built-in documentation resources.
func RegisterDefaultResources(s *Server) {
	s.AddResource(Resource{
		URI:         "certificate://schema",
		Name:        "Certificate Template Schema",
		Description: "Field-by-field documentation of the designSettings template format accepted by the certificate tools.",
		MIMEType:    "application/json",
		Handler:     handleSchemaResource,
	})
}

func handleSchemaResource(uri string) ([]ResourceContent, error) {
	schema := map[string]interface{}{
		"canvasWidth":     "number, page width in points (default 842, A4 landscape)",
		"canvasHeight":    "number, page height in points (default 595)",
		"backgroundImage": "string, optional; data URI, URL or file path; scaled to cover the canvas and cropped to center",
		"textFields": []map[string]interface{}{{
			"id":         "integer, unique within the template",
			"x":          "number, left edge in points",
			"y":          "number, top edge in points",
			"text":       "string; tokens {name}, {recipient}, {email}, {date} are substituted per recipient",
			"fontSize":   "number, optional (default 24)",
			"fontFamily": "string, optional; mapped to Helvetica, Times or Courier",
			"color":      "string, optional #rrggbb (default #000000)",
			"width":      "number, optional; wraps text within this width",
			"height":     "number, optional; clips wrapped text to this height",
			"recipientOverrides": map[string]interface{}{
				"<recipientId>": "object with optional x, y, fontSize overriding the base values for that recipient only",
			},
		}},
		"imageFields": []map[string]interface{}{{
			"id":     "integer",
			"x":      "number",
			"y":      "number",
			"url":    "string; data URI, URL or file path",
			"width":  "number, optional box width (default 100); image fits inside preserving aspect ratio",
			"height": "number, optional box height (default 100)",
		}},
		"qrField": map[string]interface{}{
			"data": "string; QR payload, supports the same tokens as text fields",
			"x":    "number",
			"y":    "number",
			"size": "number, optional square edge (default 80)",
		},
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, err
	}
	return []ResourceContent{{
		URI:      uri,
		MIMEType: "application/json",
		Text:     string(data),
	}}, nil
}
