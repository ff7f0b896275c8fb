package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"
	"unsafe"

	"github.com/hupe1980/gridbuf"
	"github.com/hupe1980/gridbuf/blobstore"
	"github.com/hupe1980/gridbuf/codec"
	"github.com/hupe1980/gridbuf/internal/conv"
	"github.com/hupe1980/gridbuf/internal/hash"
	"github.com/hupe1980/gridbuf/resource"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// chunk is a source buffer placed at off in the uncompressed body.
type chunk struct {
	off int
	b   []byte
}

func rawBytes(p unsafe.Pointer, n int) []byte {
	if n == 0 || p == nil {
		return nil
	}
	return unsafe.Slice((*byte)(p), n)
}

func idxBytes(indptr []gridbuf.Idx) []byte {
	return rawBytes(unsafe.Pointer(unsafe.SliceData(indptr)), len(indptr)*8)
}

// plan lays out every attached buffer of r in the body and builds the
// manifest describing it.
func plan(r gridbuf.Reader, id string) (Manifest, []chunk, int, error) {
	desc := r.Description()
	m := Manifest{
		ID:        id,
		Dataset:   desc.Dataset.Name,
		IsBatch:   desc.IsBatch,
		BatchSize: desc.BatchSize,
	}

	var (
		chunks []chunk
		off    int
	)
	place := func(kind, attr string, b []byte, align uintptr) Section {
		off = alignUp(off, max(int(align), SectionAlignment))
		chunks = append(chunks, chunk{off: off, b: b})
		s := Section{Kind: kind, Attribute: attr, Offset: uint64(off), Length: uint64(len(b))}
		off += len(b)
		return s
	}

	for _, info := range desc.ComponentInfo {
		comp := info.Component
		buf, err := r.Buffer(comp.Name)
		if err != nil {
			return Manifest{}, nil, 0, err
		}
		total, err := conv.Int64ToInt(info.TotalElements)
		if err != nil {
			return Manifest{}, nil, 0, err
		}

		cm := ComponentManifest{
			Name:                comp.Name,
			ElementsPerScenario: info.ElementsPerScenario,
			TotalElements:       info.TotalElements,
			Columnar:            buf.IsColumnar(),
		}
		if info.IsRagged() {
			cm.Sections = append(cm.Sections, place(SectionIndptr, "", idxBytes(buf.Indptr), 8))
		}
		if buf.IsColumnar() {
			for _, a := range buf.Attributes {
				b := rawBytes(a.Data.Pointer(), total*int(a.Attribute.Size))
				cm.Sections = append(cm.Sections, place(SectionAttribute, a.Attribute.Name, b, a.Attribute.CType.Alignment()))
			}
		} else {
			b := rawBytes(buf.Data.Pointer(), total*int(comp.Size))
			cm.Sections = append(cm.Sections, place(SectionData, "", b, comp.Alignment))
		}
		m.Components = append(m.Components, cm)
	}
	return m, chunks, off, nil
}

// Encode serializes the description and every attached buffer of r.
// A *gridbuf.WritableDataset is validated first.
func Encode(r gridbuf.Reader, optFns ...Option) ([]byte, error) {
	o := applyOptions(optFns)
	return encode(r, &o)
}

func encode(r gridbuf.Reader, o *options) ([]byte, error) {
	if v, ok := r.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}

	m, chunks, rawLen, err := plan(r, o.id)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	body := make([]byte, rawLen)
	for _, c := range chunks {
		copy(body[c.off:], c.b)
	}
	stored, comp, err := compress(body, o.compression)
	if err != nil {
		return nil, err
	}

	name := o.codec.Name()
	if len(name) == 0 || len(name) > codec.MaxNameLen {
		return nil, fmt.Errorf("snapshot: invalid codec name %q", name)
	}
	meta, err := o.codec.Marshal(&m)
	if err != nil {
		return nil, err
	}
	metaLen, err := conv.Int64ToUint32(int64(len(meta)))
	if err != nil {
		return nil, err
	}

	h := Header{
		Version:     Version,
		Compression: comp,
		CodecLen:    uint8(len(name)),
		MetaLen:     metaLen,
		MetaCRC:     hash.CRC32C([]byte(name), meta),
		BodyLen:     uint64(len(stored)),
		BodyRawLen:  uint64(len(body)),
		BodyCRC:     hash.CRC32C(stored),
	}
	copy(h.Magic[:], Magic)

	out := make([]byte, h.bodyOffset()+len(stored))
	copy(out, h.encode())
	copy(out[HeaderSize:], name)
	copy(out[HeaderSize+len(name):], meta)
	copy(out[h.bodyOffset():], stored)
	return out, nil
}

// Save encodes r and writes it to store under name. Writes are throttled by
// the controller's I/O limit.
func Save(ctx context.Context, store blobstore.BlobStore, name string, r gridbuf.Reader, optFns ...Option) (err error) {
	o := applyOptions(optFns)
	start := time.Now()
	ctx, span := o.tracer.Start(ctx, "snapshot.Save", trace.WithAttributes(
		attribute.String("gridbuf.blob", name),
		attribute.String("gridbuf.dataset", r.Name()),
		attribute.String("gridbuf.compression", o.compression.String()),
	))
	var n int64
	defer func() {
		endSpan(span, n, err)
		o.metrics.RecordSnapshot("save", n, time.Since(start), err)
		o.logger.WithDataset(r.Name(), r.BatchSize()).LogSnapshot(ctx, "save", name, n, err)
	}()

	b, err := encode(r, &o)
	if err != nil {
		return err
	}

	w, err := store.Create(ctx, name)
	if err != nil {
		return err
	}
	n, err = io.Copy(resource.NewRateLimitedWriter(ctx, w, o.controller), bytes.NewReader(b))
	if err != nil {
		abort(w)
		return err
	}
	return w.Close()
}

// abort discards a partial write. Stores without Abort only publish on
// Close, so the partial blob is dropped with the writer.
func abort(w blobstore.WritableBlob) {
	if a, ok := w.(interface{ Abort() error }); ok {
		_ = a.Abort()
	}
}

func endSpan(span trace.Span, n int64, err error) {
	span.SetAttributes(attribute.Int64("gridbuf.bytes", n))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
