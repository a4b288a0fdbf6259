// Package watermark stamps a text mark onto generated candy images for
// download. The mark is drawn centered in semi-transparent white and the
// result is always a PNG.
package watermark

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // JPEG decoding
	"image/png"
	"regexp"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultText is the mark stamped when no text is given.
const DefaultText = "boldmaker.com"

// MinFontHeight is the smallest glyph height, in pixels, before fitting to
// the image width.
const MinFontHeight = 48

// MaxPixels bounds the declared width*height of an input image. Headers are
// checked before any pixel buffer is allocated.
const MaxPixels = 4096 * 4096

var (
	// ErrInvalidDataURI is returned for anything but a base64 image data URI.
	ErrInvalidDataURI = errors.New("invalid image data URI")

	// ErrUnsupportedImage is returned when the bytes are not a PNG or JPEG.
	ErrUnsupportedImage = errors.New("unsupported image format")
)

var (
	markColor      = color.NRGBA{R: 255, G: 255, B: 255, A: 128}
	unsafeFileChar = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// Apply decodes img, draws text centered over it and returns the PNG
// encoding. The glyph height is max(MinFontHeight, width/12), shrunk if
// needed so the mark fits within the image.
func Apply(img []byte, text string) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrUnsupportedImage, cfg.Width, cfg.Height, MaxPixels)
	}

	src, _, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if strings.TrimSpace(text) == "" {
		text = DefaultText
	}

	b := src.Bounds()
	canvas := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), src, b.Min, draw.Src)

	if mask := renderMask(text, b.Dx(), b.Dy()); mask != nil {
		mb := mask.Bounds()
		offset := image.Pt((b.Dx()-mb.Dx())/2, (b.Dy()-mb.Dy())/2)
		draw.DrawMask(canvas, mb.Add(offset), image.NewUniform(markColor), image.Point{},
			mask, image.Point{}, draw.Over)
	}

	var out bytes.Buffer
	if err := png.Encode(&out, canvas); err != nil {
		return nil, fmt.Errorf("encode watermarked image: %w", err)
	}
	return out.Bytes(), nil
}

// renderMask rasterizes text with the fixed 7x13 face and scales the result
// to the target glyph height. It returns nil when nothing visible fits.
func renderMask(text string, width, height int) *image.Alpha {
	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, text).Ceil()
	lineHeight := face.Metrics().Height.Ceil()
	if textWidth == 0 || lineHeight == 0 {
		return nil
	}

	glyphs := image.NewAlpha(image.Rect(0, 0, textWidth, lineHeight))
	d := &font.Drawer{
		Dst:  glyphs,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)

	targetHeight := max(MinFontHeight, width/12)
	scale := float64(targetHeight) / float64(lineHeight)
	if w := float64(textWidth) * scale; w > float64(width) {
		scale = float64(width) / float64(textWidth)
	}
	if h := float64(lineHeight) * scale; h > float64(height) {
		scale = float64(height) / float64(lineHeight)
	}

	dstW := int(float64(textWidth) * scale)
	dstH := int(float64(lineHeight) * scale)
	if dstW < 1 || dstH < 1 {
		return nil
	}

	scaled := image.NewAlpha(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), glyphs, glyphs.Bounds(), draw.Src, nil)
	return scaled
}

// FileName turns a candy name into a download file name: every character
// outside [a-zA-Z0-9] becomes an underscore and the result is lowercased.
func FileName(name string) string {
	base := strings.ToLower(unsafeFileChar.ReplaceAllString(name, "_"))
	if base == "" {
		base = "candy"
	}
	return base + ".png"
}

// DecodeDataURI returns the payload of a data:image/...;base64, URI.
func DecodeDataURI(uri string) ([]byte, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(uri), "data:image/")
	if !ok {
		return nil, fmt.Errorf("%w: missing data:image/ prefix", ErrInvalidDataURI)
	}
	_, payload, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return nil, fmt.Errorf("%w: missing base64 marker", ErrInvalidDataURI)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidDataURI)
	}
	return data, nil
}
