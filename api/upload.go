package api

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"backend_assetflow/services"
)

// UploadAPI exposes the file upload endpoint for photos and documents.
type UploadAPI struct {
	Storage *services.StorageService
}

// NewUploadAPI creates a new UploadAPI.
func NewUploadAPI(storage *services.StorageService) *UploadAPI {
	return &UploadAPI{Storage: storage}
}

// UploadFiles stores the multipart "files" under a folder keyed by the
// "type" form value (photos, documents, ...) and returns their public
// paths. Those paths go verbatim into asset and assignment photo lists.
func (api *UploadAPI) UploadFiles(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form: " + err.Error()})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files uploaded"})
		return
	}

	uploadType := c.PostForm("type")
	if uploadType == "" {
		uploadType = "uploads"
	}
	folder := path.Join("assets", uploadType)

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := api.Storage.SaveFile(fh, folder)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file: " + err.Error()})
			return
		}
		urls = append(urls, url)
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"urls": urls},
	})
}
