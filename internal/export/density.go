package export

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"math"

	"github.com/disintegration/imaging"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// ErrNotPNG is returned when density is read from or written to bytes that
// are not a well formed PNG stream.
var ErrNotPNG = errors.New("export: not a png stream")

// PixelsPerMetre converts a DPI value to the unit used by the pHYs chunk.
func PixelsPerMetre(dpi int) uint32 {
	return uint32(math.Round(float64(dpi) / 0.0254))
}

// WithDensity decodes a raster, re-encodes it as PNG and stamps dpi into its
// pHYs chunk.  Pixel data is unchanged.
func WithDensity(data []byte, dpi int) ([]byte, error) {
	if dpi <= 0 {
		return nil, fmt.Errorf("export: invalid dpi %d", dpi)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode raster: %w", err)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return setPHYs(buf.Bytes(), PixelsPerMetre(dpi))
}

// Density reports the DPI stored in a PNG's pHYs chunk.  ok is false when the
// stream carries no metre-based density.
func Density(data []byte) (dpi int, ok bool, err error) {
	chunks, err := splitChunks(data)
	if err != nil {
		return 0, false, err
	}
	for _, c := range chunks {
		if c.typ != "pHYs" || len(c.data) != 9 || c.data[8] != 1 {
			continue
		}
		ppm := binary.BigEndian.Uint32(c.data[0:4])
		return int(math.Round(float64(ppm) * 0.0254)), true, nil
	}
	return 0, false, nil
}

type chunk struct {
	typ  string
	data []byte
	raw  []byte
}

func splitChunks(data []byte) ([]chunk, error) {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, ErrNotPNG
	}
	var out []chunk
	rest := data[len(pngSignature):]
	for len(rest) > 0 {
		if len(rest) < 12 {
			return nil, fmt.Errorf("%w: truncated chunk", ErrNotPNG)
		}
		n := binary.BigEndian.Uint32(rest[0:4])
		if uint64(n)+12 > uint64(len(rest)) {
			return nil, fmt.Errorf("%w: chunk length %d", ErrNotPNG, n)
		}
		size := int(n) + 12
		out = append(out, chunk{typ: string(rest[4:8]), data: rest[8 : 8+n], raw: rest[:size]})
		rest = rest[size:]
	}
	if len(out) == 0 || out[0].typ != "IHDR" {
		return nil, fmt.Errorf("%w: missing IHDR", ErrNotPNG)
	}
	return out, nil
}

// setPHYs writes a pHYs chunk right after IHDR, dropping any existing one.
func setPHYs(data []byte, ppm uint32) ([]byte, error) {
	chunks, err := splitChunks(data)
	if err != nil {
		return nil, err
	}
	payload := make([]byte, 9)
	binary.BigEndian.PutUint32(payload[0:4], ppm)
	binary.BigEndian.PutUint32(payload[4:8], ppm)
	payload[8] = 1

	var out bytes.Buffer
	out.Grow(len(data) + 21)
	out.Write(pngSignature)
	for i, c := range chunks {
		if c.typ == "pHYs" {
			continue
		}
		out.Write(c.raw)
		if i == 0 {
			writeChunk(&out, "pHYs", payload)
		}
	}
	return out.Bytes(), nil
}

func writeChunk(w *bytes.Buffer, typ string, data []byte) {
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(len(data)))
	copy(hdr[4:8], typ)
	w.Write(hdr[:])
	w.Write(data)

	crc := crc32.NewIEEE()
	crc.Write(hdr[4:8])
	crc.Write(data)
	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], crc.Sum32())
	w.Write(sum[:])
}
