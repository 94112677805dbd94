package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/rs/zerolog/log"

	"rsspress/internal/fetch"
)

// Grayscale is a downloaded image converted for e-ink display.
type Grayscale struct {
	PNG    []byte
	Width  int
	Height int
}

// Fetcher downloads content images.
type Fetcher struct {
	Client *fetch.Client
}

// Fetch tries each candidate URL in order until one downloads and decodes,
// then converts the image to grayscale and re-encodes it as PNG.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Grayscale, error) {
	var lastErr error
	for _, candidate := range CandidateURLs(rawURL) {
		body, _, err := f.Client.Get(ctx, candidate)
		if err != nil {
			lastErr = fmt.Errorf("fetch %s: %w", candidate, err)
			log.Debug().Err(err).Str("url", candidate).Msg("image candidate failed")
			continue
		}
		img, _, err := image.Decode(bytes.NewReader(body))
		if err != nil {
			lastErr = fmt.Errorf("decode %s: %w", candidate, err)
			log.Debug().Err(err).Str("url", candidate).Msg("image decode failed")
			continue
		}
		gray := toGray(img)
		var buf bytes.Buffer
		if err := png.Encode(&buf, gray); err != nil {
			lastErr = fmt.Errorf("encode %s: %w", candidate, err)
			continue
		}
		b := gray.Bounds()
		return &Grayscale{PNG: buf.Bytes(), Width: b.Dx(), Height: b.Dy()}, nil
	}
	if lastErr == nil {
		lastErr = errors.New("no candidate URLs")
	}
	return nil, lastErr
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(b)
	draw.Draw(g, b, img, b.Min, draw.Src)
	return g
}
