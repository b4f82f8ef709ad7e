package image

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"
)

const (
	defaultMaxWidth     = 1280
	defaultMaxSizeBytes = 1 * 1024 * 1024
	defaultQuality      = 80
	minDownscaleWidth   = 320
)

type ProcessedImage struct {
	Data      []byte
	Width     int
	Height    int
	SizeBytes int
	MimeType  string
	Resized   bool
}

// Processor уменьшает картинки перед отправкой в vision-модель.
type Processor struct {
	maxWidth    int
	maxSizeByte int
	quality     int
}

// NewProcessor создаёт процессор с лимитом в байтах, 0 оставляет 1 MiB по умолчанию.
func NewProcessor(maxSizeBytes int) *Processor {
	if maxSizeBytes <= 0 {
		maxSizeBytes = defaultMaxSizeBytes
	}
	return &Processor{
		maxWidth:    defaultMaxWidth,
		maxSizeByte: maxSizeBytes,
		quality:     defaultQuality,
	}
}

// Process возвращает данные без изменений, если они уже достаточно малы или формат не знаком
// стандартным декодерам (webp, svg, ...). Иначе пережимает в уменьшенный JPEG.
func (p *Processor) Process(data []byte, mimeType string) (ProcessedImage, error) {
	if len(data) == 0 {
		return ProcessedImage{}, fmt.Errorf("empty image")
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	passThrough := ProcessedImage{Data: data, SizeBytes: len(data), MimeType: mimeType}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return passThrough, nil
	}
	passThrough.Width, passThrough.Height = cfg.Width, cfg.Height
	if cfg.Width <= p.maxWidth && len(data) <= p.maxSizeByte {
		return passThrough, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return ProcessedImage{}, fmt.Errorf("decode image: %w", err)
	}

	origBounds := img.Bounds()
	origWidth := origBounds.Dx()
	origHeight := origBounds.Dy()
	if origWidth == 0 || origHeight == 0 {
		return ProcessedImage{}, fmt.Errorf("invalid image size: %dx%d", origWidth, origHeight)
	}

	quality := min(max(p.quality, defaultQuality), 100)

	resizedWidth := min(origWidth, p.maxWidth)
	resizedHeight := max(1, origHeight*resizedWidth/origWidth)

	var encoded []byte
	for {
		resized := resizeNearest(img, resizedWidth, resizedHeight)
		encoded, err = encodeJPEG(resized, quality)
		if err != nil {
			return ProcessedImage{}, err
		}

		if len(encoded) <= p.maxSizeByte {
			break
		}

		if resizedWidth <= minDownscaleWidth {
			return ProcessedImage{}, fmt.Errorf("image exceeds max size %d bytes even after downscale", p.maxSizeByte)
		}

		resizedWidth = max(1, int(float64(resizedWidth)*0.9))
		resizedHeight = max(1, origHeight*resizedWidth/origWidth)
	}

	return ProcessedImage{
		Data:      encoded,
		Width:     resizedWidth,
		Height:    resizedHeight,
		SizeBytes: len(encoded),
		MimeType:  "image/jpeg",
		Resized:   true,
	}, nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func resizeNearest(src image.Image, width int, height int) *image.RGBA {
	if width <= 0 || height <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}

	srcBounds := src.Bounds()
	srcWidth := srcBounds.Dx()
	srcHeight := srcBounds.Dy()
	if srcWidth == 0 || srcHeight == 0 {
		return image.NewRGBA(image.Rect(0, 0, width, height))
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		srcY := srcBounds.Min.Y + y*srcHeight/height
		for x := range width {
			srcX := srcBounds.Min.X + x*srcWidth/width
			dst.Set(x, y, src.At(srcX, srcY))
		}
	}

	return dst
}
