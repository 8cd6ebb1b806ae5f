package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lesley-gao/automated-certificate-generator/config"
)

type assetHandler struct {
	cfg config.AssetsConfig
}

func newAssetHandler(cfg config.AssetsConfig) *assetHandler {
	return &assetHandler{cfg: cfg}
}

// Upload stores a multipart file under a generated name and returns both
// names, mirroring the original upload contract.
func (h *assetHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if h.cfg.MaxUploadSize > 0 && file.Size > h.cfg.MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}

	if err := os.MkdirAll(h.cfg.Dir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not store file"})
		return
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, filepath.Join(h.cfg.Dir, name)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not store file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filename":     name,
		"originalname": file.Filename,
	})
}

// Download serves a previously uploaded asset by its generated name.
func (h *assetHandler) Download(c *gin.Context) {
	name := c.Param("filename")
	// The stored names are uuid-based; anything with a path separator is
	// a traversal attempt.
	if name != filepath.Base(name) || strings.Contains(name, "..") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file name"})
		return
	}

	path := filepath.Join(h.cfg.Dir, name)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	c.FileAttachment(path, name)
}
