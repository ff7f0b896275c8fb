package snapshot

import (
	"context"
	"fmt"
	"math"
	"time"
	"unsafe"

	"github.com/hupe1980/gridbuf"
	"github.com/hupe1980/gridbuf/codec"
	"github.com/hupe1980/gridbuf/internal/conv"
	"github.com/hupe1980/gridbuf/internal/hash"
	"github.com/hupe1980/gridbuf/internal/mem"
	"github.com/hupe1980/gridbuf/meta"
)

// parsed is a snapshot whose header, manifest and checksums were verified.
type parsed struct {
	header   Header
	codec    string
	manifest Manifest
	stored   []byte
}

func parse(b []byte) (*parsed, error) {
	h, err := decodeHeader(b)
	if err != nil {
		return nil, err
	}

	nameEnd := HeaderSize + int(h.CodecLen)
	metaEnd := nameEnd + int(h.MetaLen)
	if metaEnd > len(b) {
		return nil, fmt.Errorf("%w: manifest exceeds %d bytes", ErrCorrupt, len(b))
	}
	if err := hash.Verify("manifest", h.MetaCRC, b[HeaderSize:metaEnd]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrChecksum, err)
	}

	name := string(b[HeaderSize:nameEnd])
	c, ok := codec.ByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown codec %q", ErrCorrupt, name)
	}
	var m Manifest
	if err := c.Unmarshal(b[nameEnd:metaEnd], &m); err != nil {
		return nil, fmt.Errorf("%w: manifest: %v", ErrCorrupt, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: manifest: %v", ErrCorrupt, err)
	}

	bodyOff := h.bodyOffset()
	if bodyOff > len(b) || h.BodyLen != uint64(len(b)-bodyOff) {
		return nil, fmt.Errorf("%w: body length %d does not match %d remaining bytes", ErrCorrupt, h.BodyLen, len(b)-min(bodyOff, len(b)))
	}
	if h.Compression == CompressionNone && h.BodyLen != h.BodyRawLen {
		return nil, fmt.Errorf("%w: uncompressed body length %d, want %d", ErrCorrupt, h.BodyLen, h.BodyRawLen)
	}
	stored := b[bodyOff:]
	if err := hash.Verify("body", h.BodyCRC, stored); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrChecksum, err)
	}

	return &parsed{header: h, codec: name, manifest: m, stored: stored}, nil
}

type attrSection struct {
	attr *meta.Attribute
	sec  *Section
}

// resolved binds a component manifest to its registry entry.
type resolved struct {
	comp   *meta.Component
	cm     *ComponentManifest
	indptr *Section
	data   *Section
	attrs  []attrSection
}

func (r *resolved) align() uintptr {
	return max(r.comp.Alignment, SectionAlignment)
}

// resolve checks every section against the registry and the body bounds.
// The body must end exactly where the last section ends. Unknown datasets,
// components and attributes are reported as schema errors.
func resolve(md *meta.MetaData, m *Manifest, rawLen uint64) ([]resolved, error) {
	ds, err := md.Dataset(m.Dataset)
	if err != nil {
		return nil, err
	}
	indptrLen, err := conv.MulInt64(m.BatchSize+1, 8)
	if err != nil {
		return nil, fmt.Errorf("%w: batch size %d: %v", ErrCorrupt, m.BatchSize, err)
	}

	var end uint64

	out := make([]resolved, len(m.Components))
	for i := range m.Components {
		cm := &m.Components[i]
		comp, err := ds.Component(cm.Name)
		if err != nil {
			return nil, err
		}
		r := resolved{comp: comp, cm: cm}

		corrupt := func(format string, args ...any) error {
			return fmt.Errorf("%w: component %s: %s", ErrCorrupt, cm.Name, fmt.Sprintf(format, args...))
		}
		total, err := conv.Int64ToUint64(cm.TotalElements)
		if err != nil {
			return nil, corrupt("%v", err)
		}

		for j := range cm.Sections {
			s := &cm.Sections[j]
			if s.Offset > rawLen || s.Length > rawLen-s.Offset {
				return nil, corrupt("%s section out of bounds", s.Kind)
			}
			end = max(end, s.Offset+s.Length)

			var (
				want uint64
				size uintptr
			)
			align := uint64(r.align())
			switch s.Kind {
			case SectionIndptr:
				if r.indptr != nil {
					return nil, corrupt("duplicate indptr")
				}
				r.indptr = s
				want = uint64(indptrLen)
				align = SectionAlignment
			case SectionData:
				if r.data != nil {
					return nil, corrupt("duplicate data")
				}
				r.data = s
				size = comp.Size
			case SectionAttribute:
				attr, err := comp.Attribute(s.Attribute)
				if err != nil {
					return nil, err
				}
				for _, a := range r.attrs {
					if a.attr == attr {
						return nil, corrupt("duplicate attribute %s", attr.Name)
					}
				}
				r.attrs = append(r.attrs, attrSection{attr: attr, sec: s})
				size = attr.Size
				align = uint64(max(attr.CType.Alignment(), SectionAlignment))
			}
			if s.Kind != SectionIndptr {
				if want, err = conv.MulUint64(total, uint64(size)); err != nil {
					return nil, corrupt("%s section: %v", s.Kind, err)
				}
			}
			if s.Length != want {
				return nil, corrupt("%s section has %d bytes, want %d", s.Kind, s.Length, want)
			}
			if s.Offset%align != 0 {
				return nil, corrupt("%s section misaligned", s.Kind)
			}
		}

		if (cm.ElementsPerScenario == gridbuf.Ragged) != (r.indptr != nil) {
			return nil, corrupt("indptr section does not match layout")
		}
		if cm.Columnar == (r.data != nil) {
			return nil, corrupt("data section does not match columnar flag")
		}
		out[i] = r
	}
	if end != rawLen {
		return nil, fmt.Errorf("%w: body has %d bytes, sections end at %d", ErrCorrupt, rawLen, end)
	}
	return out, nil
}

func sectionBytes(body []byte, s *Section) []byte {
	return body[s.Offset : s.Offset+s.Length]
}

func asIndptr(b []byte) []gridbuf.Idx {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*gridbuf.Idx)(unsafe.Pointer(&b[0])), len(b)/8)
}

// reservation returns the bytes an owned decode allocates.
func reservation(res []resolved) int64 {
	var n uint64
	for _, r := range res {
		for _, s := range r.cm.Sections {
			n += s.Length
		}
	}
	v, err := conv.Uint64ToInt64(n)
	if err != nil {
		return -1
	}
	return v
}

func allocCopy(src []byte) []byte {
	dst := mem.AllocAligned(len(src))
	copy(dst, src)
	return dst
}

// decodeOwned builds the dataset in two phases: the description is declared
// on a WritableDataset first, then buffers sized from it are allocated,
// filled and set.
func decodeOwned(ctx context.Context, md *meta.MetaData, p *parsed, res []resolved, o *options) (_ *Loaded, err error) {
	m := &p.manifest
	w, err := gridbuf.NewWritableDataset(md, m.IsBatch, m.BatchSize, m.Dataset, o.datasetOptions()...)
	if err != nil {
		return nil, err
	}
	for _, r := range res {
		if err := w.AddComponentInfo(r.cm.Name, r.cm.ElementsPerScenario, r.cm.TotalElements); err != nil {
			return nil, err
		}
	}

	need := reservation(res)
	if need < 0 {
		return nil, fmt.Errorf("%w: body too large", ErrCorrupt)
	}

	// A compressed body is inflated into a scratch buffer that lives until
	// every section has been copied out.
	var scratch int64
	if p.header.Compression != CompressionNone {
		if scratch, err = conv.Uint64ToInt64(p.header.BodyRawLen); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if _, err := conv.Int64ToInt(scratch); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if need > math.MaxInt64-scratch {
			return nil, fmt.Errorf("%w: body too large", ErrCorrupt)
		}
	}

	held := need + scratch
	if err := o.controller.AcquireMemory(ctx, held); err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			o.controller.ReleaseMemory(held)
		}
	}()

	raw := p.stored
	if scratch > 0 {
		raw = make([]byte, scratch)
		if err := decompress(raw, p.stored, p.header.Compression); err != nil {
			return nil, err
		}
	}

	for _, r := range res {
		var indptr []gridbuf.Idx
		if r.indptr != nil {
			indptr = mem.AllocAlignedOf[gridbuf.Idx](int(r.indptr.Length / 8))
			copy(unsafe.Slice((*byte)(unsafe.Pointer(&indptr[0])), r.indptr.Length), sectionBytes(raw, r.indptr))
		}
		var data gridbuf.Data
		if r.data != nil {
			data = gridbuf.DataOf(allocCopy(sectionBytes(raw, r.data)))
		}
		if err := w.SetBuffer(r.cm.Name, indptr, data); err != nil {
			return nil, err
		}
		for _, a := range r.attrs {
			col := gridbuf.DataOf(allocCopy(sectionBytes(raw, a.sec)))
			if err := w.AddAttributeBuffer(r.cm.Name, a.attr.Name, col); err != nil {
				return nil, err
			}
		}
	}

	if scratch > 0 {
		o.controller.ReleaseMemory(scratch)
		held = need
	}

	ds, err := w.Const()
	if err != nil {
		return nil, err
	}
	return &Loaded{
		Header:   p.header,
		Codec:    p.codec,
		Manifest: p.manifest,
		dataset:  ds,
		writable: w,
		release:  func() { o.controller.ReleaseMemory(need) },
	}, nil
}

// mapped reports whether the stored body can back a dataset in place.
func mapped(p *parsed, res []resolved) bool {
	if p.header.Compression != CompressionNone {
		return false
	}
	align := uintptr(SectionAlignment)
	for _, r := range res {
		align = max(align, r.align())
	}
	return len(p.stored) == 0 || mem.IsAligned(unsafe.Pointer(&p.stored[0]), align)
}

// decodeView builds a ConstDataset directly over the stored body.
func decodeView(md *meta.MetaData, p *parsed, res []resolved, o *options) (*Loaded, error) {
	m := &p.manifest
	ds, err := gridbuf.NewConstDataset(md, m.IsBatch, m.BatchSize, m.Dataset, o.datasetOptions()...)
	if err != nil {
		return nil, err
	}
	body := p.stored
	for _, r := range res {
		var indptr []gridbuf.Idx
		if r.indptr != nil {
			indptr = asIndptr(sectionBytes(body, r.indptr))
		}
		var data gridbuf.Data
		if r.data != nil {
			data = gridbuf.DataOf(sectionBytes(body, r.data))
		}
		if err := ds.AddBuffer(r.cm.Name, r.cm.ElementsPerScenario, r.cm.TotalElements, indptr, data); err != nil {
			return nil, err
		}
		for _, a := range r.attrs {
			if err := ds.AddAttributeBuffer(r.cm.Name, a.attr.Name, gridbuf.DataOf(sectionBytes(body, a.sec))); err != nil {
				return nil, err
			}
		}
	}
	return &Loaded{
		Header:   p.header,
		Codec:    p.codec,
		Manifest: p.manifest,
		ZeroCopy: true,
		dataset:  ds,
	}, nil
}

// Decode verifies and decodes a snapshot into newly allocated buffers.
// The result does not reference b. The reservation made against the
// controller's memory limit is released by Loaded.Close.
func Decode(ctx context.Context, md *meta.MetaData, b []byte, optFns ...Option) (l *Loaded, err error) {
	o := applyOptions(optFns)
	start := time.Now()
	defer func() {
		o.metrics.RecordSnapshot("decode", int64(len(b)), time.Since(start), err)
	}()

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
