package handlers

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hospital-management-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func uploadContext(t *testing.T, filename string, content []byte) *gin.Context {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("name", "Jane"))
	if filename != "" {
		part, err := mw.CreateFormFile("profileImage", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPut, "/api/patient/p1", &body)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())
	return c
}

func TestProfileImage(t *testing.T) {
	dir := t.TempDir()
	c := uploadContext(t, "Me.PNG", []byte("not really a png"))

	upload, err := profileImage(c, "patient", "p1")
	require.NoError(t, err)
	require.NotNil(t, upload)
	assert.Equal(t, "/uploads/patient_p1.png", upload.URL())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing is written before save")

	require.NoError(t, upload.save(c, dir))
	saved, err := os.ReadFile(filepath.Join(dir, "patient_p1.png"))
	require.NoError(t, err)
	assert.Equal(t, "not really a png", string(saved))
}

func TestProfileImage_NoFile(t *testing.T) {
	upload, err := profileImage(uploadContext(t, "", nil), "patient", "p1")
	require.NoError(t, err)
	assert.Nil(t, upload)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPut, "/api/patient/p1", strings.NewReader(`{"name":"Jane"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	upload, err = profileImage(c, "patient", "p1")
	require.NoError(t, err)
	assert.Nil(t, upload)
}

func TestProfileImage_RejectsOtherTypes(t *testing.T) {
	upload, err := profileImage(uploadContext(t, "payload.exe", []byte("MZ")), "doctor", "d1")
	assert.Nil(t, upload)

	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, utils.KindValidation, appErr.Kind)
}
