package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LogController struct {
	pipeline *services.PipelineService
	store    services.LogStore
}

func NewLogController(pipeline *services.PipelineService, store services.LogStore) *LogController {
	return &LogController{pipeline: pipeline, store: store}
}

// POST /api/v1/logs  (multipart field "image")
func (lc *LogController) CreateLog(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No image uploaded"})
		return
	}

	path, err := saveUpload(c, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to store uploaded image", "error": err.Error()})
		return
	}
	// the upload is request-scoped; never leave it behind
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to read uploaded image", "error": err.Error()})
		return
	}

	entry, err := lc.pipeline.Run(c.Request.Context(), data)
	if err != nil {
		var pe *services.PipelineError
		if errors.As(err, &pe) {
			body := gin.H{"message": pe.Message}
			if pe.Err != nil {
				body["error"] = pe.Err.Error()
			}
			c.JSON(pe.Status, body)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// GET /api/v1/logs
func (lc *LogController) ListLogs(c *gin.Context) {
	logs, err := lc.store.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching nutrition logs", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"result": len(logs),
		"data":   gin.H{"logs": logs},
	})
}

func saveUpload(c *gin.Context, file *multipart.FileHeader) (string, error) {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	dst := filepath.Join(dir, uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", err
	}
	return dst, nil
}
