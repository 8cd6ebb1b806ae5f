// Package template defines the certificate template data model and the
// layout resolver that turns a template plus one recipient into the concrete
// field set to paint.
//
// A template (DesignSettings) holds positioned text and image fields on a
// fixed-size canvas. Text fields may contain placeholder tokens ({name},
// {recipient}, {email}, {date}) and per-recipient position/size overrides
// keyed by recipient id.
//
// Example JSON:
//
//	{
//	  "canvasWidth": 842,
//	  "canvasHeight": 595,
//	  "textFields": [
//	    {"id": 1, "x": 321, "y": 250, "text": "{name}", "fontSize": 24}
//	  ]
//	}
package template

// DefaultCanvasWidth and DefaultCanvasHeight describe an A4 landscape page
// at 72 dpi.
const (
	DefaultCanvasWidth  = 842
	DefaultCanvasHeight = 595
)

// Recipient is one certificate recipient. The id is unique and stable for
// the duration of a session; Name is required, Email is optional.
type Recipient struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// FieldOverride adjusts a text field for a single recipient. Each key is
// independently optional; a nil pointer falls back to the field's base value.
type FieldOverride struct {
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	FontSize *float64 `json:"fontSize,omitempty"`
}

// TextField is a positioned text element. Text may contain placeholder
// tokens; RecipientOverrides maps recipient ids to per-recipient
// position/size adjustments.
type TextField struct {
	ID                 int                   `json:"id"`
	X                  float64               `json:"x"`
	Y                  float64               `json:"y"`
	Text               string                `json:"text"`
	FontSize           float64               `json:"fontSize,omitempty"`
	FontFamily         string                `json:"fontFamily,omitempty"`
	Color              string                `json:"color,omitempty"`
	Width              float64               `json:"width,omitempty"`
	Height             float64               `json:"height,omitempty"`
	RecipientOverrides map[int]FieldOverride `json:"recipientOverrides,omitempty"`
}

// ImageField is a positioned image element. URL may be a data URI or a
// fetchable reference. Width and Height default to 100 when zero.
type ImageField struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	URL    string  `json:"url"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// QRField is an optional machine-readable verification stamp painted as a
// QR symbol. Data supports the same placeholder tokens as text fields.
type QRField struct {
	Data string  `json:"data"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size,omitempty"` // square edge, default 80
}

// DesignSettings is the reusable certificate template: background, field
// layout and canvas dimensions. It is a read-only snapshot once handed to
// the rendering pipeline.
type DesignSettings struct {
	BackgroundImage string       `json:"backgroundImage,omitempty"`
	TextFields      []TextField  `json:"textFields"`
	ImageFields     []ImageField `json:"imageFields,omitempty"`
	QRField         *QRField     `json:"qrField,omitempty"`
	CanvasWidth     float64      `json:"canvasWidth"`
	CanvasHeight    float64      `json:"canvasHeight"`
}

// CanvasSize returns the canvas dimensions, substituting the A4 landscape
// defaults for missing values.
func (s *DesignSettings) CanvasSize() (w, h float64) {
	w, h = s.CanvasWidth, s.CanvasHeight
	if w <= 0 {
		w = DefaultCanvasWidth
	}
	if h <= 0 {
		h = DefaultCanvasHeight
	}
	return w, h
}

// Renderable reports whether the template has anything to paint. A template
// with no text and no image fields produces blank pages and is rejected
// before any rendering is attempted.
func (s *DesignSettings) Renderable() bool {
	return len(s.TextFields) > 0 || len(s.ImageFields) > 0
}
