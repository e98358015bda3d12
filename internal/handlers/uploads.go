package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"hospital-management-server/internal/utils"

	"github.com/gin-gonic/gin"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// profileUpload is a validated "profileImage" file that has not been written yet.
type profileUpload struct {
	header *multipart.FileHeader
	name   string
}

// profileImage reads the optional "profileImage" form file and names it
// <prefix>_<id><ext>. It returns nil when the request carries no file.
func profileImage(c *gin.Context, prefix, id string) (*profileUpload, error) {
	header, err := c.FormFile("profileImage")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, utils.NewValidationError("Invalid upload", err.Error())
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !imageExtensions[ext] {
		return nil, utils.NewValidationError("Invalid upload", "profileImage must be a jpg, png, gif or webp image")
	}
	return &profileUpload{header: header, name: prefix + "_" + id + ext}, nil
}

// URL is the public path the file is served from once saved.
func (u *profileUpload) URL() string {
	return "/uploads/" + u.name
}

// save writes the file under dir. Call it only after the row pointing at URL is stored.
func (u *profileUpload) save(c *gin.Context, dir string) error {
	if err := c.SaveUploadedFile(u.header, filepath.Join(dir, u.name)); err != nil {
		return utils.NewInternalError("Failed to save profile image", err)
	}
	return nil
}
