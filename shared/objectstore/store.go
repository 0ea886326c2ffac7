package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrUnknownBucket = errors.New("unknown bucket")
	ErrInvalidPath   = errors.New("invalid object path")
	ErrNotFound      = errors.New("object not found")
)

// Config holds object storage configuration
type Config struct {
	Root           string   // directory holding one subdirectory per bucket
	BaseURL        string   // externally reachable base URL of the API
	SigningKey     string   // HMAC key for signed URLs
	PublicBuckets  []string // readable without a signature
	PrivateBuckets []string
}

// Object is an open stored object
type Object struct {
	io.ReadSeekCloser
	Size        int64
	ModTime     time.Time
	ContentType string
}

// Store is a filesystem-backed bucketed object store
type Store struct {
	root    string
	baseURL string
	signer  *Signer
	buckets map[string]bool // bucket -> public
	logger  *slog.Logger
}

// New creates the bucket directories under cfg.Root
func New(cfg *Config, logger *slog.Logger) (*Store, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("object storage root is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		root:    cfg.Root,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		signer:  NewSigner(cfg.SigningKey),
		buckets: make(map[string]bool),
		logger:  logger,
	}
	for _, b := range cfg.PublicBuckets {
		s.buckets[b] = true
	}
	for _, b := range cfg.PrivateBuckets {
		s.buckets[b] = false
	}

	for b := range s.buckets {
		if err := os.MkdirAll(filepath.Join(s.root, b), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", b, err)
		}
	}

	return s, nil
}

// Upload writes data to bucket/objectPath and returns objectPath as the
// storage reference. The write is atomic; an existing object is replaced.
func (s *Store) Upload(ctx context.Context, bucket, objectPath string, data []byte, contentType string) (string, error) {
	full, err := s.resolve(bucket, objectPath)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp object: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close object: %w", err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return "", fmt.Errorf("failed to store object: %w", err)
	}

	s.logger.Debug("Object stored",
		slog.String("bucket", bucket),
		slog.String("path", objectPath),
		slog.String("content_type", contentType),
		slog.Int("size", len(data)),
	)

	return objectPath, nil
}

// Open opens bucket/objectPath for reading
func (s *Store) Open(bucket, objectPath string) (*Object, error) {
	full, err := s.resolve(bucket, objectPath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open object: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, ErrNotFound
	}

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to detect content type: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rewind object: %w", err)
	}

	return &Object{
		ReadSeekCloser: f,
		Size:           info.Size(),
		ModTime:        info.ModTime(),
		ContentType:    mt.String(),
	}, nil
}

// Remove deletes the given objects. Missing objects are ignored.
func (s *Store) Remove(ctx context.Context, bucket string, paths ...string) error {
	var errs []error
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		full, err := s.resolve(bucket, p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", p, err))
		}
	}
	return errors.Join(errs...)
}

// IsPublic reports whether bucket is readable without a signature
func (s *Store) IsPublic(bucket string) bool {
	return s.buckets[bucket]
}

// PublicURL returns the permanent URL of an object in a public bucket
func (s *Store) PublicURL(bucket, objectPath string) string {
	return s.baseURL + "/files/" + bucket + "/" + escapePath(objectPath)
}

// PathFromURL recovers the object path from a URL built by PublicURL.
// It reports false for URLs pointing anywhere else.
func (s *Store) PathFromURL(bucket, rawURL string) (string, bool) {
	prefix := s.baseURL + "/files/" + bucket + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	p, err := url.PathUnescape(strings.TrimPrefix(rawURL, prefix))
	if err != nil || p == "" {
		return "", false
	}
	return p, true
}

// SignedURL returns a URL for bucket/objectPath that stops working after ttl
func (s *Store) SignedURL(bucket, objectPath string, ttl time.Duration) (string, error) {
	if _, err := s.resolve(bucket, objectPath); err != nil {
		return "", err
	}
	token, err := s.signer.Sign(bucket, objectPath, ttl)
	if err != nil {
		return "", err
	}
	return s.PublicURL(bucket, objectPath) + "?token=" + url.QueryEscape(token), nil
}

// VerifySignature checks a download token for bucket/objectPath
func (s *Store) VerifySignature(bucket, objectPath, token string) error {
	return s.signer.Verify(bucket, objectPath, token)
}

// resolve maps bucket/objectPath to a file below the bucket directory
func (s *Store) resolve(bucket, objectPath string) (string, error) {
	if _, ok := s.buckets[bucket]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownBucket, bucket)
	}

	clean := path.Clean("/" + objectPath)
	if objectPath == "" || clean == "/" || clean != "/"+objectPath {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, objectPath)
	}

	return filepath.Join(s.root, bucket, filepath.FromSlash(clean[1:])), nil
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
