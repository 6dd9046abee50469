package curve

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/katalvlaran/curvefit/codec"
)

// WritePoints writes one "x y" pair per line.
// Values use the shortest representation that round-trips exactly.
func WritePoints(w io.Writer, pts []Point) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 64)
	for _, p := range pts {
		buf = buf[:0]
		buf = strconv.AppendFloat(buf, p.X, 'g', -1, 64)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, p.Y, 'g', -1, 64)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("curve: write points: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("curve: write points: %w", err)
	}

	return nil
}

// ReadPoints parses the WritePoints format.
// Blank lines and lines starting with '#' are skipped. Any other line must
// hold exactly two finite floats separated by whitespace.
//
// Errors:
//   - ErrBadLine (wrapped with the 1-based line number).
//   - Underlying read errors.
func ReadPoints(r io.Reader) ([]Point, error) {
	var pts []Point
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: line %d: want 2 fields, got %d", ErrBadLine, line, len(fields))
		}
		x, errX := strconv.ParseFloat(fields[0], 64)
		y, errY := strconv.ParseFloat(fields[1], 64)
		if err := errors.Join(errX, errY); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadLine, line, err)
		}
		if !isFinite(x) || !isFinite(y) {
			return nil, fmt.Errorf("%w: line %d: non-finite value", ErrBadLine, line)
		}
		pts = append(pts, Point{X: x, Y: y})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("curve: read points: %w", err)
	}

	return pts, nil
}

// DumpFile writes pts to path, compressing according to the extension.
func DumpFile(path string, pts []Point) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("curve: dump: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("curve: dump: %w", cerr)
		}
	}()

	w, err := codec.ForPath(path).NewWriter(f)
	if err != nil {
		return err
	}
	if err = WritePoints(w, pts); err != nil {
		_ = w.Close()
		return err
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("curve: dump: %w", err)
	}

	return nil
}

// LoadFile reads points written by DumpFile (or any WritePoints output).
func LoadFile(path string) ([]Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("curve: load: %w", err)
	}
	defer f.Close()

	r, err := codec.ForPath(path).NewReader(f)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return ReadPoints(r)
}

// Digest fingerprints a dataset with xxhash over the IEEE-754 bits of every
// coordinate, in order. Equal datasets always share a digest.
func Digest(pts []Point) uint64 {
	d := xxhash.New()
	var buf [16]byte
	for _, p := range pts {
		binary.LittleEndian.PutUint64(buf[:8], math.Float64bits(p.X))
		binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(p.Y))
		_, _ = d.Write(buf[:])
	}

	return d.Sum64()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
