// Package batch orchestrates certificate generation: per recipient it
// resolves the layout, renders a page, and packages the successful results
// into a single downloadable archive. Individual failures are absorbed and
// reported; only batch-level faults abort the run.
package batch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lesley-gao/automated-certificate-generator/archive"
	"github.com/lesley-gao/automated-certificate-generator/logger"
	"github.com/lesley-gao/automated-certificate-generator/render"
	"github.com/lesley-gao/automated-certificate-generator/template"
)

// timeNow is swapped in tests for deterministic dates.
var timeNow = time.Now

// DateFormat is the locale-independent date stamped on certificates and
// the archive name. It is computed once per batch so every certificate in
// a batch shows the same date.
const DateFormat = "2006-01-02"

// Today returns the current date in the batch date format.
func Today() string {
	return timeNow().Format(DateFormat)
}

// renderEngine is the slice of render.Renderer the orchestrator needs; the
// seam lets tests inject forced rendering faults.
type renderEngine interface {
	Render(fs template.ResolvedFieldSet) render.Result
	Close()
}

// newEngine builds the real renderer. Declared as a variable so tests can
// substitute a failing or recording engine.
var newEngine = func(opts render.Options) (renderEngine, error) {
	return render.NewRenderer(opts)
}

// Options tunes one generation run.
type Options struct {
	// Background overrides the template's stored background for this
	// batch when non-empty.
	Background string
	// Concurrency bounds parallel per-recipient rendering. Values below 2
	// render sequentially.
	Concurrency int
	// CompressionLevel is the archive's deflate level.
	CompressionLevel int
}

// Failure records one skipped recipient for caller-side reporting.
type Failure struct {
	Recipient template.Recipient
	Err       error
}

// Output is a finished batch: the archive (or combined document) plus
// bookkeeping the UI uses to distinguish complete from partial success.
type Output struct {
	FileName  string
	Data      []byte
	MIMEType  string
	Generated int
	Failures  []Failure
}

// Generate renders one certificate per recipient and packages the
// successes into a zip archive. It returns a *BatchError when the whole
// batch fails; partial failures are tolerated as long as at least one
// certificate renders.
func Generate(ctx context.Context, settings *template.DesignSettings, recipients []template.Recipient, opts Options) (*Output, error) {
	results, date, err := renderBatch(ctx, settings, recipients, opts)
	if err != nil {
		return nil, err
	}

	out := &Output{MIMEType: "application/zip"}
	p := archive.NewPackager(opts.CompressionLevel)
	used := make(map[string]bool)

	for i, res := range results {
		if !res.OK {
			out.Failures = append(out.Failures, Failure{Recipient: recipients[i], Err: res.Err})
			continue
		}
		name := disambiguate(res.FileName, used)
		used[name] = true
		if err := p.Add(name, res.Bytes); err != nil {
			return nil, &BatchError{Kind: Packaging, Err: err}
		}
		out.Generated++
	}

	if out.Generated == 0 {
		return nil, &BatchError{Kind: AllRenderingFailed, Err: fmt.Errorf("%d recipients failed", len(recipients))}
	}

	name, data, err := p.Finalize(date)
	if err != nil {
		return nil, &BatchError{Kind: Packaging, Err: err}
	}
	out.FileName = name
	out.Data = data

	logger.Infof("generated %d/%d certificates into %s (%d bytes)", out.Generated, len(recipients), name, len(data))
	return out, nil
}

// GenerateOne renders a single recipient's certificate without packaging.
// It shares the batch preconditions and engine lifecycle.
func GenerateOne(ctx context.Context, settings *template.DesignSettings, r template.Recipient, opts Options) (*Output, error) {
	results, _, err := renderBatch(ctx, settings, []template.Recipient{r}, opts)
	if err != nil {
		return nil, err
	}
	res := results[0]
	if !res.OK {
		return nil, &BatchError{Kind: AllRenderingFailed, Err: res.Err}
	}
	return &Output{
		FileName:  res.FileName,
		Data:      res.Bytes,
		MIMEType:  res.MIMEType,
		Generated: 1,
	}, nil
}

// renderBatch runs the shared front half of every generation mode:
// preconditions, batch date, engine setup and teardown, and the render
// fan-out. All results are collected before it returns, whether the run is
// sequential or parallel.
func renderBatch(ctx context.Context, settings *template.DesignSettings, recipients []template.Recipient, opts Options) ([]render.Result, string, error) {
	if len(recipients) == 0 {
		return nil, "", &BatchError{Kind: NoRecipients}
	}
	if !settings.Renderable() {
		return nil, "", &BatchError{Kind: NoRenderableFields}
	}

	date := timeNow().Format(DateFormat)

	background := settings.BackgroundImage
	if opts.Background != "" {
		background = opts.Background
	}
	canvasW, canvasH := settings.CanvasSize()

	eng, err := newEngine(render.Options{
		CanvasWidth:  canvasW,
		CanvasHeight: canvasH,
		Background:   background,
	})
	if err != nil {
		return nil, "", &BatchError{Kind: EngineInit, Err: err}
	}
	// The engine is owned here for the lifetime of the batch and must be
	// released on every exit path.
	defer eng.Close()

	results := make([]render.Result, len(recipients))

	if opts.Concurrency > 1 {
		eg, egCtx := errgroup.WithContext(ctx)
		eg.SetLimit(opts.Concurrency)
		for i, r := range recipients {
			i, r := i, r
			eg.Go(func() error {
				if err := egCtx.Err(); err != nil {
					return err
				}
				results[i] = renderOne(eng, settings, r, date)
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, "", err
		}
	} else {
		for i, r := range recipients {
			if err := ctx.Err(); err != nil {
				return nil, "", err
			}
			results[i] = renderOne(eng, settings, r, date)
		}
	}

	return results, date, nil
}

func renderOne(eng renderEngine, settings *template.DesignSettings, r template.Recipient, date string) render.Result {
	fs := template.Resolve(settings, r, date)
	res := eng.Render(fs)
	if !res.OK {
		logger.WithFields(map[string]interface{}{
			"recipient_id":   r.ID,
			"recipient_name": r.Name,
		}).Errorf("certificate render failed: %v", res.Err)
	}
	return res
}

// disambiguate appends a numeric suffix before the extension when two
// recipients sanitize to the same file name, so neither certificate is
// silently overwritten in the archive.
func disambiguate(name string, used map[string]bool) string {
	if !used[name] {
		return name
	}
	base := strings.TrimSuffix(name, ".pdf")
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d.pdf", base, n)
		if !used[candidate] {
			return candidate
		}
	}
}
