package main

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	coverField         = "file"
	maxMultipartMemory = 32 << 20
)

// coverStore persists an uploaded cover under name and returns the path that
// is stored on the post, e.g. "uploads/3f2a9c.png".
type coverStore interface {
	Save(ctx context.Context, name string, f multipart.File, hdr *multipart.FileHeader) (string, error)
	Handler() http.Handler
}

// uploadExtension mirrors how covers have always been named: everything after
// the last dot, or the whole filename when there is none.
func uploadExtension(filename string) string {
	parts := strings.Split(filename, ".")
	return parts[len(parts)-1]
}

func newUploadName() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// receiveCover stores the single file part of r, if any. It must run after
// the form has been parsed.
func receiveCover(ctx context.Context, store coverStore, r *http.Request) (*string, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File) == 0 {
		return nil, nil
	}

	for field, headers := range r.MultipartForm.File {
		if field != coverField || len(headers) > 1 {
			return nil, ErrUnexpectedFile
		}
	}

	hdr := r.MultipartForm.File[coverField][0]
	f, err := hdr.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	p, err := store.Save(ctx, newUploadName(), f, hdr)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// diskStore keeps covers in a local directory served under /uploads/.
type diskStore struct {
	dir string
}

func newDiskStore(dir string) (*diskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &diskStore{dir: dir}, nil
}

// Save writes the upload under its bare generated name, then renames it to
// carry the original extension.
func (s *diskStore) Save(_ context.Context, name string, f multipart.File, hdr *multipart.FileHeader) (string, error) {
	tmp := filepath.Join(s.dir, name)

	out, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	if _, err := io.Copy(out, f); err != nil {
		out.Close()
		return "", fmt.Errorf("writing upload file: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("closing upload file: %w", err)
	}

	final := tmp + "." + uploadExtension(hdr.Filename)
	if err := os.Rename(tmp, final); err != nil {
		return "", fmt.Errorf("renaming upload file: %w", err)
	}

	return path.Join(defaultUploadDir, filepath.Base(final)), nil
}

func (s *diskStore) Handler() http.Handler {
	return http.StripPrefix("/uploads/", http.FileServer(filesOnly{http.Dir(s.dir)}))
}

// filesOnly hides directories so the upload folder is never listed.
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}
