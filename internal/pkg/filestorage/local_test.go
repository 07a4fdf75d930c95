package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// makeFileHeader builds a multipart.FileHeader the way an HTTP upload
// would, so Open() works against real temporary storage.
func makeFileHeader(t *testing.T, fieldName, fileName string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, fileName)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("writing part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, "/", &buf)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("ParseMultipartForm: %v", err)
	}

	files := req.MultipartForm.File[fieldName]
	if len(files) != 1 {
		t.Fatalf("expected exactly one file, got %d", len(files))
	}
	return files[0]
}

func TestSaveFileWithPath(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalStorage(dir, "http://localhost:8080/uploads")
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	fh := makeFileHeader(t, "video_file", "practice.mp4", []byte("fake video bytes"))
	url, err := storage.SaveFileWithPath(fh, "videos")
	if err != nil {
		t.Fatalf("SaveFileWithPath: %v", err)
	}

	if !strings.HasPrefix(url, "http://localhost:8080/uploads/videos/") {
		t.Errorf("url = %q, want prefix %q", url, "http://localhost:8080/uploads/videos/")
	}
	if !strings.HasSuffix(url, ".mp4") {
		t.Errorf("url = %q, want .mp4 extension preserved", url)
	}
	if strings.Contains(url, "practice") {
		t.Errorf("url = %q, stored name must not reuse the client filename", url)
	}

	storedName := filepath.Base(url)
	content, err := os.ReadFile(filepath.Join(dir, "videos", storedName))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(content) != "fake video bytes" {
		t.Errorf("stored content = %q, want %q", content, "fake video bytes")
	}
}

func TestSaveFileWithPathNilHeader(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	if _, err := storage.SaveFileWithPath(nil, "videos"); err == nil {
		t.Error("expected error for nil file header")
	}
}

func TestDeleteFile(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalStorage(dir, "http://localhost:8080/uploads")
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	fh := makeFileHeader(t, "video_file", "clip.webm", []byte("bytes"))
	url, err := storage.SaveFileWithPath(fh, "videos")
	if err != nil {
		t.Fatalf("SaveFileWithPath: %v", err)
	}

	if err := storage.DeleteFile(url); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}

	storedName := filepath.Base(url)
	if _, err := os.Stat(filepath.Join(dir, "videos", storedName)); !os.IsNotExist(err) {
		t.Error("file should be removed")
	}

	// Deleting again is not an error.
	if err := storage.DeleteFile(url); err != nil {
		t.Errorf("DeleteFile on missing file: %v", err)
	}
}
