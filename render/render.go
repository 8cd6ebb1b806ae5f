// Package render paints one certificate page per recipient as a fixed-size
// PDF. The page encodes the template's canvas dimensions exactly (one
// canvas unit = one point); the background image, when present, is scaled
// to cover the canvas and cropped to center.
package render

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/barcode"

	"github.com/lesley-gao/automated-certificate-generator/template"
)

const (
	defaultFontSize  = 24
	defaultImageSize = 100
	defaultQRSize    = 80
)

// Options configures a Renderer for one batch.
type Options struct {
	CanvasWidth  float64
	CanvasHeight float64
	// Background is an asset reference (data URI, URL or file path).
	// Empty means a plain white page.
	Background string
}

// Renderer turns resolved field sets into PDF pages. It holds per-batch
// state: the prepared background and a cache of fetched image assets. The
// batch orchestrator owns the Renderer and must Close it on every exit
// path.
type Renderer struct {
	canvasW    float64
	canvasH    float64
	background []byte // cover-cropped PNG, nil when no background
	assets     *assetCache
	closed     bool
}

// Result is the outcome of rendering one recipient. A failed render
// carries Err and leaves the other fields zero; it never aborts the batch.
type Result struct {
	OK       bool
	FileName string
	Bytes    []byte
	MIMEType string
	Err      error
}

// NewRenderer prepares a renderer for a batch. Fetching or decoding the
// background happens here, once, so a broken background fails the batch
// up front instead of failing every recipient.
func NewRenderer(opts Options) (*Renderer, error) {
	if opts.CanvasWidth <= 0 || opts.CanvasHeight <= 0 {
		return nil, ErrBadCanvas
	}

	r := &Renderer{
		canvasW: opts.CanvasWidth,
		canvasH: opts.CanvasHeight,
		assets:  newAssetCache(),
	}

	if opts.Background != "" {
		raw, err := r.assets.fetch(opts.Background)
		if err != nil {
			r.Close()
			return nil, &RenderError{Op: "background", Err: err}
		}
		prepared, err := prepareBackground(raw, opts.CanvasWidth, opts.CanvasHeight)
		if err != nil {
			r.Close()
			return nil, &RenderError{Op: "background", Err: err}
		}
		r.background = prepared
	}

	return r, nil
}

// Close releases the renderer's cached assets. Safe to call more than once.
func (r *Renderer) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.assets.flush()
}

// Render paints one certificate page for a resolved recipient layout.
// Engine faults are captured in the Result rather than propagated, so one
// bad recipient cannot take down a batch.
func (r *Renderer) Render(fs template.ResolvedFieldSet) (res Result) {
	name := fs.Recipient.Name

	// A misbehaving decoder on hostile image data must degrade to a
	// per-recipient failure, not a crash.
	defer func() {
		if p := recover(); p != nil {
			res = failure(name, &RenderError{Op: "render", Recipient: name, Err: fmt.Errorf("%w: panic: %v", ErrEngineFail, p)})
		}
	}()

	if r.closed {
		return failure(name, &RenderError{Op: "render", Recipient: name, Err: ErrClosed})
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: r.canvasW, Ht: r.canvasH},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if r.background != nil {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("background", opts, bytes.NewReader(r.background))
		pdf.ImageOptions("background", 0, 0, r.canvasW, r.canvasH, false, opts, 0, "")
	}

	for _, f := range fs.TextFields {
		r.paintText(pdf, tr, f)
	}

	for _, f := range fs.ImageFields {
		if err := r.paintImage(pdf, f); err != nil {
			return failure(name, &RenderError{Op: "imageField", Recipient: name, Err: err})
		}
	}

	if fs.QRField != nil {
		r.paintQR(pdf, *fs.QRField)
	}

	if pdf.Err() {
		return failure(name, &RenderError{Op: "render", Recipient: name, Err: fmt.Errorf("%w: %v", ErrEngineFail, pdf.Error())})
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return failure(name, &RenderError{Op: "output", Recipient: name, Err: err})
	}

	return Result{
		OK:       true,
		FileName: FileName(name),
		Bytes:    buf.Bytes(),
		MIMEType: "application/pdf",
	}
}

func failure(name string, err error) Result {
	return Result{FileName: FileName(name), Err: err}
}

// paintText draws a text field anchored at its top-left corner. Without a
// width the text is a single unwrapped line; with a width it wraps inside
// the box, and a height additionally clips the overflow.
func (r *Renderer) paintText(pdf *gofpdf.Fpdf, tr func(string) string, f template.TextField) {
	size := f.FontSize
	if size <= 0 {
		size = defaultFontSize
	}
	pdf.SetFont(mapFontFamily(f.FontFamily), "", size)

	cr, cg, cb := parseHexColor(f.Color)
	pdf.SetTextColor(cr, cg, cb)

	text := tr(f.Text)
	lineHeight := size * 1.2

	if f.Width > 0 {
		clip := f.Height > 0
		if clip {
			pdf.ClipRect(f.X, f.Y, f.Width, f.Height, false)
		}
		pdf.SetXY(f.X, f.Y)
		pdf.MultiCell(f.Width, lineHeight, text, "", "L", false)
		if clip {
			pdf.ClipEnd()
		}
	} else {
		// Baseline sits roughly one ascent below the top-left anchor.
		pdf.Text(f.X, f.Y+size*0.8, text)
	}

	pdf.SetTextColor(0, 0, 0)
}

// paintImage draws an image field scaled to fit within its box, preserving
// aspect ratio and centering the result.
func (r *Renderer) paintImage(pdf *gofpdf.Fpdf, f template.ImageField) error {
	raw, err := r.assets.fetch(f.URL)
	if err != nil {
		return err
	}
	data, imgType, err := normalizePDFImage(raw)
	if err != nil {
		return err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadImage, err)
	}

	boxW := f.Width
	if boxW <= 0 {
		boxW = defaultImageSize
	}
	boxH := f.Height
	if boxH <= 0 {
		boxH = defaultImageSize
	}

	scale := boxW / float64(cfg.Width)
	if s := boxH / float64(cfg.Height); s < scale {
		scale = s
	}
	drawW := float64(cfg.Width) * scale
	drawH := float64(cfg.Height) * scale
	x := f.X + (boxW-drawW)/2
	y := f.Y + (boxH-drawH)/2

	opts := gofpdf.ImageOptions{ImageType: imgType}
	imgName := fmt.Sprintf("field-%d", f.ID)
	pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(data))
	pdf.ImageOptions(imgName, x, y, drawW, drawH, false, opts, 0, "")
	return nil
}

func (r *Renderer) paintQR(pdf *gofpdf.Fpdf, f template.QRField) {
	size := f.Size
	if size <= 0 {
		size = defaultQRSize
	}
	key := barcode.RegisterQR(pdf, f.Data, qr.M, qr.Unicode)
	barcode.Barcode(pdf, key, f.X, f.Y, size, size, false)
}

// mapFontFamily maps web font families from the designer onto the engine's
// built-in core fonts.
func mapFontFamily(family string) string {
	switch strings.ToLower(strings.TrimSpace(family)) {
	case "times", "times new roman", "georgia", "serif":
		return "Times"
	case "courier", "courier new", "monospace":
		return "Courier"
	default:
		return "Helvetica"
	}
}

// parseHexColor parses a #rrggbb color, defaulting to black on anything it
// cannot parse.
func parseHexColor(s string) (r, g, b int) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0
	}
	var rv, gv, bv int
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &rv, &gv, &bv); err != nil {
		return 0, 0, 0
	}
	return rv, gv, bv
}
