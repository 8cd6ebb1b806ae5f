package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// prepareBackground scales an image to fully cover a canvasW x canvasH
// canvas, cropping the overflow to center, and re-encodes it as PNG sized
// exactly to the canvas. The result is computed once per batch and reused
// for every page.
func prepareBackground(data []byte, canvasW, canvasH float64) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding background: %v", ErrBadImage, err)
	}

	tw := int(math.Round(canvasW))
	th := int(math.Round(canvasH))
	if tw <= 0 || th <= 0 {
		return nil, ErrBadCanvas
	}

	crop := coverCrop(src.Bounds(), float64(tw)/float64(th))

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("%w: encoding background: %v", ErrBadImage, err)
	}
	return buf.Bytes(), nil
}

// coverCrop returns the largest centered sub-rectangle of src with the
// given aspect ratio.
func coverCrop(src image.Rectangle, aspect float64) image.Rectangle {
	sw := float64(src.Dx())
	sh := float64(src.Dy())

	cw := sw
	ch := sw / aspect
	if ch > sh {
		ch = sh
		cw = sh * aspect
	}

	x0 := src.Min.X + int(math.Round((sw-cw)/2))
	y0 := src.Min.Y + int(math.Round((sh-ch)/2))
	return image.Rect(x0, y0, x0+int(math.Round(cw)), y0+int(math.Round(ch)))
}

// normalizePDFImage returns image bytes and a type string gofpdf can
// register directly. Formats the engine does not read (webp, bmp, tiff)
// are re-encoded as PNG.
func normalizePDFImage(data []byte) ([]byte, string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrBadImage, err)
	}
	switch format {
	case "png":
		return data, "PNG", nil
	case "jpeg":
		return data, "JPG", nil
	case "gif":
		return data, "GIF", nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: decoding %s image: %v", ErrBadImage, format, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", fmt.Errorf("%w: re-encoding %s image: %v", ErrBadImage, format, err)
	}
	return buf.Bytes(), "PNG", nil
}
