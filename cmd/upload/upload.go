package upload

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxMemory = 32 << 20

// Field declares a form file field and the extensions it accepts.
type Field struct {
	Name string
	Exts []string
}

func (f Field) allows(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range f.Exts {
		if ext == allowed {
			return true
		}
	}
	return false
}

var (
	Image       = []string{".png", ".jpg", ".jpeg"}
	Certificate = []string{".pdf"}
)

type ctxKey struct{}

type result struct {
	paths  map[string]string
	failed bool
}

// Path returns the server-relative path of the file accepted for field.
func Path(r *http.Request, field string) (string, bool) {
	res, _ := r.Context().Value(ctxKey{}).(*result)
	if res == nil {
		return "", false
	}
	p, ok := res.paths[field]
	return p, ok
}

// Failed reports whether an accepted file could not be stored. The
// controller still runs and decides how to answer.
func Failed(r *http.Request) bool {
	res, _ := r.Context().Value(ctxKey{}).(*result)
	return res != nil && res.failed
}

// Gate stores at most one file per declared field under root/entity and
// exposes it as /upload/<entity>/<name>. Files with an extension outside
// the field's allow-list are dropped without error, so the handler sees no
// file at all. Requests that are not multipart pass through untouched.
func Gate(log *zap.Logger, root, entity string, fields ...Field) func(http.Handler) http.Handler {
	dir := filepath.Join(root, entity)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if mediaType != "multipart/form-data" {
				next.ServeHTTP(w, r)
				return
			}
			if err := r.ParseMultipartForm(maxMemory); err != nil {
				log.Info("unreadable multipart body", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			res := &result{paths: make(map[string]string)}
			for _, field := range fields {
				files := r.MultipartForm.File[field.Name]
				if len(files) == 0 {
					continue
				}
				fh := files[0]
				if !field.allows(fh.Filename) {
					log.Info("rejected upload", zap.String("field", field.Name), zap.String("filename", fh.Filename))
					continue
				}
				name, err := save(dir, fh)
				if err != nil {
					log.Error("failed storing upload", zap.String("field", field.Name), zap.Error(err))
					res.failed = true
					continue
				}
				res.paths[field.Name] = path.Join("/upload", entity, name)
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func save(dir string, fh *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.New().String() + strings.ToLower(filepath.Ext(fh.Filename))
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("copy %s: %w", fh.Filename, err)
	}
	return name, nil
}
