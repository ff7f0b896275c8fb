package gcs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"slices"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"github.com/hupe1980/gridbuf/blobstore"
	"google.golang.org/api/iterator"
)

// ContentType is set on every object written by the store.
const ContentType = "application/octet-stream"

var _ blobstore.BlobStore = (*Store)(nil)

// Store implements blobstore.BlobStore for Google Cloud Storage.
type Store struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewStore creates a new GCS blob store.
// rootPrefix is prepended to all keys (e.g. "grid/").
func NewStore(client *storage.Client, bucket, rootPrefix string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
	}
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

func (s *Store) object(name string) *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(s.key(name))
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrObjectNotExist)
}

// Open reads the object attributes and returns a blob pinned to the current
// generation.
func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	obj := s.object(name)
	attrs, err := obj.Attrs(ctx)
	if err != nil {
		return nil, blobstore.MapNotFound(err, isNotFound)
	}
	return &gcsBlob{
		obj:  obj.Generation(attrs.Generation),
		size: attrs.Size,
	}, nil
}

// Put writes a blob in a single upload.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	w, err := s.Create(ctx, name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.(*gcsWritableBlob).Abort()
		return err
	}
	return w.Close()
}

// Create starts a resumable upload. The object appears on Close.
func (s *Store) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	wctx, cancel := context.WithCancel(ctx)
	w := s.object(name).NewWriter(wctx)
	w.ContentType = ContentType
	w.CacheControl = "no-cache"
	return &gcsWritableBlob{w: w, cancel: cancel}, nil
}

// Delete removes a blob.
func (s *Store) Delete(ctx context.Context, name string) error {
	return blobstore.IgnoreNotFound(s.object(name).Delete(ctx), isNotFound)
}

// List returns all blob names with the given prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: s.key(prefix)})

	var names []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		name := strings.TrimPrefix(attrs.Name, s.prefix)
		name = strings.TrimPrefix(name, "/")
		if name != "" {
			names = append(names, name)
		}
	}

	slices.Sort(names)
	return names, nil
}

type gcsBlob struct {
	obj  *storage.ObjectHandle
	size int64
}

func (b *gcsBlob) Size() int64 {
	return b.size
}

func (b *gcsBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	n, err := blobstore.ReadRange(ctx, p, off, b.size, b.get)
	return n, blobstore.MapNotFound(err, isNotFound)
}

func (b *gcsBlob) get(ctx context.Context, off, n int64) (io.ReadCloser, error) {
	r, err := b.obj.NewRangeReader(ctx, off, n)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (b *gcsBlob) Close() error {
	return nil
}

type gcsWritableBlob struct {
	w      *storage.Writer
	cancel context.CancelFunc

	mu       sync.Mutex
	finished bool
	closeErr error
}

func (b *gcsWritableBlob) Write(p []byte) (int, error) {
	return b.w.Write(p)
}

// Sync is a no-op. The upload is committed on Close.
func (b *gcsWritableBlob) Sync() error {
	return nil
}

func (b *gcsWritableBlob) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.finished {
		return b.closeErr
	}
	b.finished = true
	b.closeErr = b.w.Close()
	b.cancel()
	return b.closeErr
}

// Abort cancels the upload without creating the object.
func (b *gcsWritableBlob) Abort() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.finished {
		return nil
	}
	b.finished = true
	b.cancel()
	b.closeErr = errors.New("gcs: upload aborted")
	_ = b.w.Close()
	return nil
}
