package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/plastinin/doctext/internal/domain"
)

// TempStorage хранит файлы одного запроса на локальном диске.
// Ключ файла: абсолютный путь вида <base>/<uuid>/<имя файла>;
// Delete удаляет весь каталог запроса.
type TempStorage struct {
	baseDir     string
	maxFileSize int64
}

// NewTempStorage создаёт хранилище в baseDir (по умолчанию os.TempDir())
func NewTempStorage(baseDir string, maxFileSize int64) (*TempStorage, error) {
	if baseDir == "" {
		baseDir = filepath.Join(os.TempDir(), "doctext")
	}

	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve temp dir: %w", err)
	}

	return &TempStorage{baseDir: abs, maxFileSize: maxFileSize}, nil
}

// Save записывает содержимое reader во временный файл и возвращает ключ
func (s *TempStorage) Save(ctx context.Context, fileName string, reader io.Reader) (string, error) {
	fileKey, err := s.Reserve(ctx, fileName)
	if err != nil {
		return "", err
	}

	if err := s.write(fileKey, reader); err != nil {
		_ = s.Delete(ctx, fileKey)
		return "", err
	}

	return fileKey, nil
}

func (s *TempStorage) write(fileKey string, reader io.Reader) error {
	f, err := os.OpenFile(fileKey, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	src := reader
	if s.maxFileSize > 0 {
		// Читаем на байт больше лимита, чтобы отличить "ровно лимит" от "больше"
		src = io.LimitReader(reader, s.maxFileSize+1)
	}

	n, err := io.Copy(f, src)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if s.maxFileSize > 0 && n > s.maxFileSize {
		return domain.ErrFileTooLarge
	}

	return f.Close()
}

// Reserve создаёт каталог запроса и возвращает путь для будущего файла
func (s *TempStorage) Reserve(ctx context.Context, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := sanitizeFileName(fileName)
	dir := filepath.Join(s.baseDir, uuid.New().String())
	if err := os.Mkdir(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create request dir: %w", err)
	}

	return filepath.Join(dir, name), nil
}

// Open открывает файл по ключу
func (s *TempStorage) Open(_ context.Context, fileKey string) (io.ReadCloser, error) {
	if err := s.checkKey(fileKey); err != nil {
		return nil, err
	}

	f, err := os.Open(fileKey)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// Delete удаляет файл вместе с каталогом запроса
func (s *TempStorage) Delete(_ context.Context, fileKey string) error {
	if err := s.checkKey(fileKey); err != nil {
		return err
	}

	if err := os.RemoveAll(filepath.Dir(fileKey)); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// BaseDir корневой каталог хранилища
func (s *TempStorage) BaseDir() string {
	return s.baseDir
}

// checkKey не даёт выйти за пределы baseDir
func (s *TempStorage) checkKey(fileKey string) error {
	dir := filepath.Dir(filepath.Clean(fileKey))
	if filepath.Dir(dir) != s.baseDir {
		return errors.New("file key is outside of temp storage")
	}
	return nil
}

func sanitizeFileName(fileName string) string {
	name := filepath.Base(strings.TrimSpace(fileName))
	if name == "." || name == ".." || name == string(filepath.Separator) || name == "" {
		return "upload"
	}
	return name
}
