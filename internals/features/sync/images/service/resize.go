package service

import (
	"bytes"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// downscale memperkecil gambar raster yang lebih lebar dari maxWidth.
// gif (bisa animasi) dan svg dibiarkan apa adanya.
func downscale(data []byte, ext string, maxWidth int) ([]byte, error) {
	if maxWidth <= 0 || ext == ".gif" || ext == ".svg" {
		return data, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return data, err
	}
	if img.Bounds().Dx() <= maxWidth {
		return data, nil
	}
	dst := imaging.Resize(img, maxWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if ext == ".webp" {
		if err := webp.Encode(&buf, dst, &webp.Options{Quality: 80}); err != nil {
			return data, err
		}
		return buf.Bytes(), nil
	}

	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return data, err
	}
	if err := imaging.Encode(&buf, dst, format, imaging.JPEGQuality(85)); err != nil {
		return data, err
	}
	return buf.Bytes(), nil
}
