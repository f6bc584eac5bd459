package upload

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

type Config struct {
	AllowedMIME []string
	AllowedExt  []string
	MaxSize     int64
	Directory   string
}

var imageMIME = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}
var imageExt = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

var (
	AvatarConfig = Config{
		AllowedMIME: imageMIME,
		AllowedExt:  imageExt,
		MaxSize:     5 * 1024 * 1024, // 5MB
		Directory:   "users",
	}

	ProductImageConfig = Config{
		AllowedMIME: imageMIME,
		AllowedExt:  imageExt,
		MaxSize:     10 * 1024 * 1024, // 10MB
		Directory:   "products",
	}

	PostImageConfig = Config{
		AllowedMIME: imageMIME,
		AllowedExt:  imageExt,
		MaxSize:     10 * 1024 * 1024, // 10MB
		Directory:   "blog",
	}
)

// ErrNoFile indica que o campo veio vazio; formulários de edição mantêm a imagem atual.
var ErrNoFile = &UploadError{Code: "NO_FILE", Message: "Nenhum arquivo enviado"}

type Result struct {
	Path     string
	Filename string
	Size     int64
	MIMEType string
	URL      string
}

type UploadError struct {
	Code    string
	Message string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func IsUploadError(err error) bool {
	var ue *UploadError
	return errors.As(err, &ue)
}

// Store grava os arquivos enviados sob Root, servidos em /storage/.
type Store struct {
	Root string
}

func (s Store) Save(r *http.Request, fieldName string, cfg Config) (*Result, error) {
	file, header, err := r.FormFile(fieldName)
	if err != nil {
		return nil, ErrNoFile
	}
	defer file.Close()

	if header.Size == 0 && header.Filename == "" {
		return nil, ErrNoFile
	}

	if header.Size > cfg.MaxSize {
		return nil, &UploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("Arquivo excede o limite de %dMB", cfg.MaxSize/1024/1024),
		}
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !slices.Contains(cfg.AllowedExt, ext) {
		return nil, &UploadError{
			Code:    "INVALID_EXTENSION",
			Message: fmt.Sprintf("Extensão não permitida: %s", ext),
		}
	}

	// o tipo vem do conteúdo, não do cabeçalho enviado pelo navegador
	mime, err := mimetype.DetectReader(file)
	if err != nil {
		return nil, &UploadError{Code: "READ_ERROR", Message: "Falha ao ler arquivo"}
	}
	contentType := mime.String()
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	if !slices.Contains(cfg.AllowedMIME, contentType) {
		return nil, &UploadError{
			Code:    "INVALID_TYPE",
			Message: fmt.Sprintf("Tipo de arquivo não permitido: %s", contentType),
		}
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, &UploadError{Code: "READ_ERROR", Message: "Falha ao ler arquivo"}
	}

	dir := filepath.Join(s.Root, cfg.Directory)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &UploadError{
			Code:    "DIRECTORY_ERROR",
			Message: "Falha ao criar diretório de upload",
		}
	}

	filename := generateFilename(ext)
	dstPath := filepath.Join(dir, filename)

	dst, err := os.Create(dstPath)
	if err != nil {
		return nil, &UploadError{
			Code:    "CREATE_ERROR",
			Message: "Falha ao criar arquivo",
		}
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		os.Remove(dstPath)
		return nil, &UploadError{
			Code:    "WRITE_ERROR",
			Message: "Falha ao salvar arquivo",
		}
	}

	return &Result{
		Path:     dstPath,
		Filename: filename,
		Size:     written,
		MIMEType: contentType,
		URL:      path.Join("/storage", cfg.Directory, filename),
	}, nil
}

func generateFilename(ext string) string {
	timestamp := time.Now().Unix()
	unique := uuid.New().String()[:8]
	return fmt.Sprintf("%d_%s%s", timestamp, unique, ext)
}

func DeleteFile(path string) error {
	return os.Remove(path)
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
