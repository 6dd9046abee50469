package codec

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ErrUnknownCodec is returned by ByName for an unregistered codec name.
var ErrUnknownCodec = errors.New("codec: unknown codec")

// Codec wraps plain streams with a compression format.
type Codec interface {
	// Name is the short codec name ("raw", "gzip", "zstd", "lz4").
	Name() string

	// NewWriter returns a writer that compresses into w.
	// Close flushes the frame but leaves w open.
	NewWriter(w io.Writer) (io.WriteCloser, error)

	// NewReader returns a reader that decompresses r.
	NewReader(r io.Reader) (io.ReadCloser, error)
}

// Built-in codecs.
var (
	Raw  Codec = rawCodec{}
	Gzip Codec = gzipCodec{}
	Zstd Codec = zstdCodec{}
	LZ4  Codec = lz4Codec{}
)

var byExt = map[string]Codec{
	".gz":  Gzip,
	".zst": Zstd,
	".lz4": LZ4,
}

var byName = map[string]Codec{
	Raw.Name():  Raw,
	Gzip.Name(): Gzip,
	Zstd.Name(): Zstd,
	LZ4.Name():  LZ4,
}

// ForPath picks a codec from the file extension (case-insensitive).
// Unknown extensions map to Raw.
func ForPath(path string) Codec {
	if c, ok := byExt[strings.ToLower(filepath.Ext(path))]; ok {
		return c
	}

	return Raw
}

// ByName looks a codec up by its Name.
func ByName(name string) (Codec, error) {
	if c, ok := byName[name]; ok {
		return c, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

// Names lists the registered codec names in sorted order.
func Names() []string {
	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}

type rawCodec struct{}

func (rawCodec) Name() string { return "raw" }

func (rawCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

func (rawCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

type gzipCodec struct{}

func (gzipCodec) Name() string { return "gzip" }

func (gzipCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriter(w), nil
}

func (gzipCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("codec: gzip: %w", err)
	}

	return zr, nil
}

type zstdCodec struct{}

func (zstdCodec) Name() string { return "zstd" }

func (zstdCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("codec: zstd: %w", err)
	}

	return enc, nil
}

func (zstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("codec: zstd: %w", err)
	}

	return dec.IOReadCloser(), nil
}

type lz4Codec struct{}

func (lz4Codec) Name() string { return "lz4" }

func (lz4Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return lz4.NewWriter(w), nil
}

func (lz4Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
