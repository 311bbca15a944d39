package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"hidden-market/utils"
)

// ErrInvalidName is returned for object names that would escape the bucket
var ErrInvalidName = errors.New("invalid object name")

// Bucket stores binary objects and hands back a publicly resolvable URL
type Bucket interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
}

// DirBucket keeps objects as files in one directory. The server exposes the
// directory under PublicBase.
type DirBucket struct {
	Dir        string
	PublicBase string
}

// NewDirBucket creates dir if needed
func NewDirBucket(dir, publicBase string) (*DirBucket, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("objectstore: create %s: %w", dir, err)
	}
	return &DirBucket{Dir: dir, PublicBase: strings.TrimRight(publicBase, "/")}, nil
}

// Upload writes r to name and returns its public URL. Existing objects are
// never overwritten.
func (b *DirBucket) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("objectstore: %q: %w", name, ErrInvalidName)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := os.OpenFile(filepath.Join(b.Dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("objectstore: create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("objectstore: write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("objectstore: close %s: %w", name, err)
	}
	return b.PublicURL(name), nil
}

// PublicURL returns the URL an uploaded object is served at
func (b *DirBucket) PublicURL(name string) string {
	return b.PublicBase + "/" + url.PathEscape(name)
}

// ObjectName builds a timestamped object name keeping the upload's extension,
// e.g. "profile_1700000000000_9f86d081.png". The random tag keeps uploads made
// in the same millisecond apart.
func ObjectName(prefix string, unixMilli int64, original string) string {
	ext := strings.TrimPrefix(filepath.Ext(original), ".")
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%s%d_%s.%s", prefix, unixMilli, utils.GenerateID()[:8], strings.ToLower(ext))
}
