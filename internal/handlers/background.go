package handlers

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/codebuildervaibhav/shortform-video/internal/backgrounds"
)

// BackgroundHandler handles background video uploads into the library
type BackgroundHandler struct {
	library   *backgrounds.Manager
	maxSizeMB int
}

// NewBackgroundHandler creates a new background upload handler
func NewBackgroundHandler(library *backgrounds.Manager, maxSizeMB int) *BackgroundHandler {
	return &BackgroundHandler{
		library:   library,
		maxSizeMB: maxSizeMB,
	}
}

// Handle stores an uploaded video in the background library
func (h *BackgroundHandler) Handle(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "No file uploaded",
			"code":  "ERR_NO_FILE",
		})
	}

	maxSize := int64(h.maxSizeMB) * 1024 * 1024
	if file.Size > maxSize {
		return c.Status(400).JSON(fiber.Map{
			"error": fmt.Sprintf("File too large (max %dMB)", h.maxSizeMB),
			"code":  "ERR_FILE_TOO_LARGE",
		})
	}

	if !backgrounds.ValidateVideoFormat(file.Filename) {
		return c.Status(400).JSON(fiber.Map{
			"error": "Unsupported video format",
			"code":  "ERR_INVALID_FORMAT",
		})
	}

	// Unique name so repeated uploads of the same clip don't clobber
	extension := filepath.Ext(file.Filename)
	destPath := filepath.Join(h.library.Dir(), fmt.Sprintf("%s%s", uuid.New().String(), extension))

	if err := c.SaveFile(file, destPath); err != nil {
		log.Printf("Failed to save uploaded background: %v", err)
		return c.Status(500).JSON(fiber.Map{
			"error": "Failed to save file",
			"code":  "ERR_SAVE_FAILED",
		})
	}

	log.Printf("Background video added: %s (%d bytes)", filepath.Base(destPath), file.Size)

	return c.JSON(fiber.Map{
		"path":    destPath,
		"count":   h.library.Count(),
		"message": "Background video added to library",
	})
}
