package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lesley-gao/automated-certificate-generator/batch"
	"github.com/lesley-gao/automated-certificate-generator/config"
	"github.com/lesley-gao/automated-certificate-generator/template"
)

type certificateHandler struct {
	cfg config.BatchConfig
}

func newCertificateHandler(cfg config.BatchConfig) *certificateHandler {
	return &certificateHandler{cfg: cfg}
}

// generateRequest is the body both generate endpoints accept. Field names
// match what the wizard frontend sends.
type generateRequest struct {
	DesignSettings template.DesignSettings `json:"designSettings"`
	Recipients     []template.Recipient    `json:"recipients"`
	Recipient      *template.Recipient     `json:"recipient"`
	// BackgroundImage overrides the template's stored background for this
	// call when non-empty.
	BackgroundImage string `json:"backgroundImage"`
	// Format selects the batch deliverable: "zip" (default) or "pdf" for
	// one combined document.
	Format string `json:"format"`
}

// Generate renders a single recipient's certificate and returns it as a
// PDF attachment.
func (h *certificateHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failJSON(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Recipient == nil {
		failJSON(c, http.StatusBadRequest, "missing recipient")
		return
	}

	out, err := batch.GenerateOne(c.Request.Context(), &req.DesignSettings, *req.Recipient, h.options(req))
	if err != nil {
		failBatch(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+out.FileName+`"`)
	c.Data(http.StatusOK, out.MIMEType, out.Data)
}

// GenerateBatch renders every recipient and returns the archive (or the
// combined PDF) as an attachment. Partial failures are reported through
// response headers; total failures through a structured JSON error.
func (h *certificateHandler) GenerateBatch(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failJSON(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	run := batch.Generate
	if req.Format == "pdf" {
		run = batch.Combine
	}

	out, err := run(c.Request.Context(), &req.DesignSettings, req.Recipients, h.options(req))
	if err != nil {
		failBatch(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+out.FileName+`"`)
	c.Header("X-Generated-Count", strconv.Itoa(out.Generated))
	c.Header("X-Failed-Count", strconv.Itoa(len(out.Failures)))
	c.Data(http.StatusOK, out.MIMEType, out.Data)
}

func (h *certificateHandler) options(req generateRequest) batch.Options {
	return batch.Options{
		Background:       req.BackgroundImage,
		Concurrency:      h.cfg.Concurrency,
		CompressionLevel: h.cfg.CompressionLevel,
	}
}

// failBatch maps batch error kinds onto HTTP statuses with the structured
// error shape the frontend expects.
func failBatch(c *gin.Context, err error) {
	var be *batch.BatchError
	if errors.As(err, &be) {
		switch be.Kind {
		case batch.NoRecipients, batch.NoRenderableFields:
			failJSON(c, http.StatusBadRequest, be.Error())
		case batch.AllRenderingFailed:
			failJSON(c, http.StatusUnprocessableEntity, be.Error())
		default:
			failJSON(c, http.StatusInternalServerError, be.Error())
		}
		return
	}
	if errors.Is(err, context.Canceled) {
		// Client went away; nothing useful to send.
		c.Abort()
		return
	}
	failJSON(c, http.StatusInternalServerError, err.Error())
}

func failJSON(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}
