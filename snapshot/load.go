package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hupe1980/gridbuf"
	"github.com/hupe1980/gridbuf/blobstore"
	"github.com/hupe1980/gridbuf/internal/conv"
	"github.com/hupe1980/gridbuf/meta"
	"github.com/hupe1980/gridbuf/resource"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Loaded is a decoded snapshot. Datasets obtained from it are valid until
// Close.
type Loaded struct {
	Header   Header
	Codec    string
	Manifest Manifest
	// ZeroCopy is set when the dataset references the stored bytes in place.
	ZeroCopy bool

	dataset  *gridbuf.ConstDataset
	writable *gridbuf.WritableDataset
	blob     io.Closer
	release  func()

	closeOnce sync.Once
	closeErr  error
}

// Dataset returns the loaded dataset.
func (l *Loaded) Dataset() *gridbuf.ConstDataset { return l.dataset }

// Mutable returns a writable view of an owned decode. Zero-copy loads
// reference read-only mappings and return ErrReadOnly.
func (l *Loaded) Mutable() (*gridbuf.MutableDataset, error) {
	if l.writable == nil {
		return nil, ErrReadOnly
	}
	return l.writable.Mutable()
}

// Close releases the mapping and the memory reservation.
func (l *Loaded) Close() error {
	l.closeOnce.Do(func() {
		if l.blob != nil {
			l.closeErr = l.blob.Close()
		}
		if l.release != nil {
			l.release()
		}
	})
	return l.closeErr
}

// Load reads the snapshot stored under name. Uncompressed snapshots in
// mappable stores back the dataset in place unless WithCopy is given.
func Load(ctx context.Context, md *meta.MetaData, store blobstore.BlobStore, name string, optFns ...Option) (l *Loaded, err error) {
	o := applyOptions(optFns)
	start := time.Now()
	ctx, span := o.tracer.Start(ctx, "snapshot.Load", trace.WithAttributes(
		attribute.String("gridbuf.blob", name),
	))
	var n int64
	defer func() {
		if l != nil {
			span.SetAttributes(
				attribute.String("gridbuf.dataset", l.Manifest.Dataset),
				attribute.Bool("gridbuf.zero_copy", l.ZeroCopy),
			)
		}
		endSpan(span, n, err)
		o.metrics.RecordSnapshot("load", n, time.Since(start), err)
		logger := o.logger
		if l != nil {
			logger = logger.WithDataset(l.Manifest.Dataset, l.Manifest.BatchSize)
		}
		logger.LogSnapshot(ctx, "load", name, n, err)
	}()

	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	n = blob.Size()

	if m, ok := blob.(blobstore.Mappable); ok && o.zeroCopy {
		b, err := m.Bytes()
		if err != nil {
			return nil, errors.Join(err, blob.Close())
		}
		p, err := parse(b)
		if err != nil {
			return nil, errors.Join(err, blob.Close())
		}
		res, err := resolve(md, &p.manifest, p.header.BodyRawLen)
		if err != nil {
			return nil, errors.Join(err, blob.Close())
		}
		if mapped(p, res) {
			l, err := decodeView(md, p, res, &o)
			if err != nil {
				return nil, errors.Join(err, blob.Close())
			}
			if a, ok := blob.(blobstore.RandomAdvisor); ok {
				_ = a.AdviseRandom()
			}
			l.blob = blob
			return l, nil
		}
		l, err := decodeOwned(ctx, md, p, res, &o)
		return l, errors.Join(err, blob.Close())
	}

	b, err := readBlob(ctx, blob, o.controller)
	if cerr := blob.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}
	p, err := parse(b)
	if err != nil {
		return nil, err
	}
	res, err := resolve(md, &p.manifest, p.header.BodyRawLen)
	if err != nil {
		return nil, err
	}
	return decodeOwned(ctx, md, p, res, &o)
}

// blobReader adapts a Blob to io.ReaderAt.
type blobReader struct {
	ctx  context.Context
	blob blobstore.Blob
}

func (r blobReader) ReadAt(p []byte, off int64) (int, error) {
	return r.blob.ReadAt(r.ctx, p, off)
}

// readBlob reads the whole blob, throttled by the controller's I/O limit.
func readBlob(ctx context.Context, blob blobstore.Blob, rc *resource.Controller) ([]byte, error) {
	size, err := conv.Int64ToInt(blob.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	b := make([]byte, size)
	sr := io.NewSectionReader(blobReader{ctx: ctx, blob: blob}, 0, blob.Size())
	if _, err := io.ReadFull(resource.NewRateLimitedReader(ctx, sr, rc), b); err != nil {
		return nil, err
	}
	return b, nil
}
