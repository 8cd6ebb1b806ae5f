package batch

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"

	"github.com/lesley-gao/automated-certificate-generator/logger"
	"github.com/lesley-gao/automated-certificate-generator/template"
)

// Combine renders the batch like Generate but delivers one multi-page PDF
// instead of a zip: every successful certificate becomes a page, imported
// in recipient-list order. Failure semantics match Generate.
func Combine(ctx context.Context, settings *template.DesignSettings, recipients []template.Recipient, opts Options) (*Output, error) {
	results, date, err := renderBatch(ctx, settings, recipients, opts)
	if err != nil {
		return nil, err
	}

	canvasW, canvasH := settings.CanvasSize()

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: canvasW, Ht: canvasH},
	})
	pdf.SetAutoPageBreak(false, 0)

	out := &Output{MIMEType: "application/pdf"}

	for i, res := range results {
		if !res.OK {
			out.Failures = append(out.Failures, Failure{Recipient: recipients[i], Err: res.Err})
			continue
		}
		if err := appendPage(pdf, res.Bytes, canvasW, canvasH); err != nil {
			return nil, &BatchError{Kind: Packaging, Err: fmt.Errorf("combining page for %s: %w", recipients[i].Name, err)}
		}
		out.Generated++
	}

	if out.Generated == 0 {
		return nil, &BatchError{Kind: AllRenderingFailed, Err: fmt.Errorf("%d recipients failed", len(recipients))}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &BatchError{Kind: Packaging, Err: err}
	}
	out.FileName = "certificates_" + date + ".pdf"
	out.Data = buf.Bytes()

	logger.Infof("combined %d/%d certificates into %s (%d bytes)", out.Generated, len(recipients), out.FileName, len(buf.Bytes()))
	return out, nil
}

// appendPage imports the single page of a rendered certificate into the
// combined document. Certificates are rendered at exact canvas size, so
// the imported template is placed at the page origin full-bleed. The
// importer panics on malformed input, so that is absorbed into an error
// here the same way the renderer absorbs engine panics.
func appendPage(pdf *gofpdf.Fpdf, certificate []byte, canvasW, canvasH float64) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("importing page: %v", p)
		}
	}()

	imp := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(certificate))
	tplID := imp.ImportPageFromStream(pdf, &rs, 1, "/MediaBox")

	w, h := canvasW, canvasH
	if sizes, ok := imp.GetPageSizes()[1]; ok {
		if mb, ok := sizes["/MediaBox"]; ok && mb["w"] > 0 && mb["h"] > 0 {
			w, h = mb["w"], mb["h"]
		}
	}

	pdf.AddPageFormat("P", gofpdf.SizeType{Wd: w, Ht: h})
	imp.UseImportedTemplate(pdf, tplID, 0, 0, w, h)
	return pdf.Error()
}
