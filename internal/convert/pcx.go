package convert

// ZSoft PCX decoding, modeled on the Decode/DecodeConfig shape of
// golang.org/x/image/bmp (no PCX package exists in x/image or elsewhere in
// the ecosystem). Supports the two layouts that cover DOS-era game assets:
// 8-bit paletted (single plane, 768-byte VGA palette trailing the pixel
// data) and 24-bit truecolor (three 8-bit planes per row).

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

func init() {
	image.RegisterFormat("pcx", "\x0a", decodePCX, decodePCXConfig)
}

var errInvalidPCX = errors.New("pcx: invalid header")

// pcxHeader is the fixed 128-byte file header, little-endian.
type pcxHeader struct {
	Manufacturer uint8 // Always 0x0A.
	Version      uint8
	Encoding     uint8 // 1 = RLE.
	BitsPerPixel uint8
	XMin, YMin   uint16
	XMax, YMax   uint16
	HDPI, VDPI   uint16
	Colormap     [48]byte // 16-color header palette (unused here).
	Reserved     uint8
	Planes       uint8
	BytesPerLine uint16
	PaletteInfo  uint16
	HScreenSize  uint16
	VScreenSize  uint16
	Filler       [54]byte
}

func readPCXHeader(r io.Reader) (pcxHeader, error) {
	var h pcxHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return h, fmt.Errorf("pcx: read header: %w", err)
	}
	if h.Manufacturer != 0x0a || h.Encoding != 1 {
		return h, errInvalidPCX
	}
	if h.XMax < h.XMin || h.YMax < h.YMin {
		return h, errInvalidPCX
	}
	return h, nil
}

func (h *pcxHeader) size() (w, h2 int) {
	return int(h.XMax) - int(h.XMin) + 1, int(h.YMax) - int(h.YMin) + 1
}

func decodePCXConfig(r io.Reader) (image.Config, error) {
	h, err := readPCXHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	w, ht := h.size()
	cfg := image.Config{Width: w, Height: ht}
	switch {
	case h.Planes == 1 && h.BitsPerPixel == 8:
		// Palette lives at EOF; report a generic model without seeking.
		cfg.ColorModel = color.RGBAModel
	case h.Planes == 3 && h.BitsPerPixel == 8:
		cfg.ColorModel = color.NRGBAModel
	default:
		return image.Config{}, fmt.Errorf("pcx: unsupported layout (%d planes, %d bpp)", h.Planes, h.BitsPerPixel)
	}
	return cfg, nil
}

func decodePCX(r io.Reader) (image.Image, error) {
	// PCX files are small legacy assets; reading whole keeps the trailing
	// palette lookup trivial.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("pcx: %w", err)
	}
	h, err := readPCXHeader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if len(data) < 128 {
		return nil, errInvalidPCX
	}
	body := data[128:]

	switch {
	case h.Planes == 1 && h.BitsPerPixel == 8:
		return decodePCX8(&h, body, data)
	case h.Planes == 3 && h.BitsPerPixel == 8:
		return decodePCX24(&h, body)
	default:
		return nil, fmt.Errorf("pcx: unsupported layout (%d planes, %d bpp)", h.Planes, h.BitsPerPixel)
	}
}

// decodePCX8 decodes a single-plane 8-bit image with its 256-color VGA
// palette, which trails the file as a 0x0C marker byte plus 768 RGB bytes.
func decodePCX8(h *pcxHeader, body, whole []byte) (image.Image, error) {
	w, ht := h.size()

	const palBlock = 769
	if len(whole) < 128+palBlock || whole[len(whole)-palBlock] != 0x0c {
		return nil, errors.New("pcx: missing VGA palette")
	}
	rawPal := whole[len(whole)-palBlock+1:]
	pal := make(color.Palette, 256)
	for i := 0; i < 256; i++ {
		pal[i] = color.RGBA{rawPal[3*i], rawPal[3*i+1], rawPal[3*i+2], 0xff}
	}

	img := image.NewPaletted(image.Rect(0, 0, w, ht), pal)
	rd := &rleReader{src: body}
	row := make([]byte, int(h.BytesPerLine))
	for y := 0; y < ht; y++ {
		if err := rd.fill(row); err != nil {
			return nil, err
		}
		copy(img.Pix[y*img.Stride:], row[:w])
	}
	return img, nil
}

// decodePCX24 decodes three sequential 8-bit planes (R, G, B) per scanline.
func decodePCX24(h *pcxHeader, body []byte) (image.Image, error) {
	w, ht := h.size()
	img := image.NewNRGBA(image.Rect(0, 0, w, ht))
	rd := &rleReader{src: body}
	plane := make([]byte, int(h.BytesPerLine))
	for y := 0; y < ht; y++ {
		for p := 0; p < 3; p++ {
			if err := rd.fill(plane); err != nil {
				return nil, err
			}
			for x := 0; x < w; x++ {
				img.Pix[y*img.Stride+4*x+p] = plane[x]
			}
		}
		for x := 0; x < w; x++ {
			img.Pix[y*img.Stride+4*x+3] = 0xff
		}
	}
	return img, nil
}

// rleReader decodes the PCX run-length encoding: a byte with the top two
// bits set is a run count (low six bits) for the byte that follows; anything
// else is a literal. Runs may span scanline boundaries, so decoding state is
// kept across fill calls.
type rleReader struct {
	src []byte
	pos int
	val byte
	run int
}

func (r *rleReader) fill(dst []byte) error {
	for i := range dst {
		for r.run == 0 { // loop again on a zero-length run (0xC0 count byte)
			if r.pos >= len(r.src) {
				return io.ErrUnexpectedEOF
			}
			b := r.src[r.pos]
			r.pos++
			if b&0xc0 == 0xc0 {
				if r.pos >= len(r.src) {
					return io.ErrUnexpectedEOF
				}
				r.run = int(b & 0x3f)
				r.val = r.src[r.pos]
				r.pos++
			} else {
				r.run = 1
				r.val = b
			}
		}
		dst[i] = r.val
		r.run--
	}
	return nil
}
