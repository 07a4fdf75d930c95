package filestorage

import (
	"mime/multipart"
)

// FileStorage defines the interface for durable upload storage.
type FileStorage interface {
	// SaveFileWithPath stores an uploaded file under a subdirectory and
	// returns the accessible URL for the stored file. The stored name is
	// a fresh random key plus the original extension; the original
	// filename never reaches the filesystem.
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// DeleteFile removes a stored file given its accessible URL.
	// Deleting a file that does not exist is not an error.
	DeleteFile(fileURL string) error
}
