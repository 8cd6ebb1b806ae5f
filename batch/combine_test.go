package batch

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lesley-gao/automated-certificate-generator/template"
)

func TestCombineEndToEnd(t *testing.T) {
	orig := timeNow
	timeNow = func() time.Time {
		return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	}
	defer func() { timeNow = orig }()

	settings := &template.DesignSettings{
		CanvasWidth:  842,
		CanvasHeight: 595,
		TextFields: []template.TextField{
			{ID: 1, X: 321, Y: 250, Text: "{name}", FontSize: 24},
		},
	}
	rs := recipients("Jim Green", "Ana Li", "Lee Wong")

	out, err := Combine(context.Background(), settings, rs, Options{})
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}
	if out.Generated != 3 || len(out.Failures) != 0 {
		t.Fatalf("expected full success, got %+v", out)
	}
	if out.FileName != "certificates_2024-06-01.pdf" {
		t.Fatalf("unexpected file name: %q", out.FileName)
	}
	if out.MIMEType != "application/pdf" {
		t.Fatalf("unexpected mime type: %q", out.MIMEType)
	}
	if !strings.HasPrefix(string(out.Data), "%PDF") {
		t.Fatal("combined output is not a PDF")
	}
}

func TestCombineNoRecipients(t *testing.T) {
	installFake(t, nil)
	_, err := Combine(context.Background(), basicSettings(), nil, Options{})
	if !IsKind(err, NoRecipients) {
		t.Fatalf("expected NoRecipients, got %v", err)
	}
}

func TestCombineAllFail(t *testing.T) {
	installFake(t, map[string]bool{"Jim": true, "Ana": true})
	_, err := Combine(context.Background(), basicSettings(), recipients("Jim", "Ana"), Options{})
	if !IsKind(err, AllRenderingFailed) {
		t.Fatalf("expected AllRenderingFailed, got %v", err)
	}
}

func TestCombineRejectsUnimportablePage(t *testing.T) {
	// The fake engine emits placeholder bytes that are not a PDF, so the
	// page import must fail as a packaging fault rather than crash.
	installFake(t, nil)
	_, err := Combine(context.Background(), basicSettings(), recipients("Jim"), Options{})
	if !IsKind(err, Packaging) {
		t.Fatalf("expected Packaging, got %v", err)
	}
}
