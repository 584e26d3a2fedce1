package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/hamza/campuscard/internal/pkg/logger"
)

// LocalStorage saves student photos on the local filesystem.
type LocalStorage struct {
	basePath string // root directory where files are stored
	baseURL  string // base URL under which the files are served
}

// NewLocalStorage creates a new LocalStorage instance.
// basePath is the directory path on the server; baseURL, if provided,
// is prepended to returned file paths.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  baseURL,
	}, nil
}

// SaveFileWithPath saves a file to a specified subdirectory under a
// generated unique name, and returns the accessible URL.
func (ls *LocalStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	fullDirPath := ls.basePath
	if subPath != "" {
		fullDirPath = filepath.Join(ls.basePath, subPath)
		if err := os.MkdirAll(fullDirPath, os.ModePerm); err != nil {
			return "", fmt.Errorf("failed to create subdirectory: %w", err)
		}
	}

	// Unique filename prevents collisions across uploads
	ext := filepath.Ext(fileHeader.Filename)
	uniqueFilename := uuid.New().String() + ext
	dstPath := filepath.Join(fullDirPath, uniqueFilename)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	var accessiblePath string
	if ls.baseURL != "" {
		accessiblePath = strings.TrimRight(ls.baseURL, "/") + "/"
		if subPath != "" {
			accessiblePath += subPath + "/"
		}
		accessiblePath += uniqueFilename
	} else {
		accessiblePath = filepath.Join("uploads", subPath, uniqueFilename)
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", uniqueFilename).Msg("File saved")
	return accessiblePath, nil
}

// SaveFile saves an uploaded file using the default path
func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader) (string, error) {
	return ls.SaveFileWithPath(fileHeader, "")
}

// DeleteFile removes a file from storage. It accepts the accessible
// path as stored on the record. Deleting a missing file is not an
// error (idempotent).
func (ls *LocalStorage) DeleteFile(filePath string) error {
	physicalPath := ls.GetFullPath(filePath)
	if physicalPath == "" {
		if filePath == "" {
			return nil
		}
		return fmt.Errorf("invalid file path: %s", filePath)
	}

	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// GetFullPath returns the full filesystem path for a given file URL.
// URLs produced by SaveFileWithPath keep one subdirectory level, which
// must survive the round trip back to the filesystem.
func (ls *LocalStorage) GetFullPath(fileURL string) string {
	filename := path.Base(fileURL)
	if filename == "" || filename == "." || filename == "/" {
		return ""
	}

	subDir := path.Base(path.Dir(fileURL))
	if subDir == "" || subDir == "." || subDir == "/" || strings.Contains(subDir, ":") {
		return filepath.Join(ls.basePath, filename)
	}

	// The segment before the filename is either the storage subPath or
	// the tail of the base URL; only keep it when it maps to a real
	// subdirectory on disk.
	candidate := filepath.Join(ls.basePath, subDir, filename)
	if info, err := os.Stat(filepath.Join(ls.basePath, subDir)); err == nil && info.IsDir() {
		return candidate
	}
	return filepath.Join(ls.basePath, filename)
}
