package gallery

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"mime"
	"strings"

	"github.com/JaimeStill/portfolio/internal/orientation"
	"github.com/go-resty/resty/v2"
)

// Probe is the outcome of a successful image probe. Width and Height are
// zero when dimensions were not decoded.
type Probe struct {
	Width  int
	Height int
	Format string
}

// Prober checks that an image can be loaded. A returned error drops the item
// unless it wraps ErrBatchFailed, which aborts the phase.
type Prober interface {
	Probe(ctx context.Context, url string) (Probe, error)
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context, url string) (Probe, error)

func (f ProberFunc) Probe(ctx context.Context, url string) (Probe, error) {
	return f(ctx, url)
}

// HTTPProber fetches images over HTTP and optionally decodes their header.
type HTTPProber struct {
	client       *resty.Client
	maxProbeSize int64
	dimensions   bool
}

// NewHTTPProber creates a prober from the gallery configuration. A nil client
// gets a fresh resty client.
func NewHTTPProber(cfg *Config, client *resty.Client) *HTTPProber {
	if client == nil {
		client = resty.New()
	}
	client.SetHeader("Accept", "image/webp,image/*;q=0.9")

	return &HTTPProber{
		client:       client,
		maxProbeSize: cfg.MaxProbeSizeBytes(),
		dimensions:   !cfg.SkipDimensions,
	}
}

// Probe issues a GET for url. The response must be 2xx with an image/* content
// type. When dimension decoding is on, only the header is read, bounded by
// the configured probe size. Formats the decoder does not know are accepted
// without dimensions.
func (p *HTTPProber) Probe(ctx context.Context, url string) (Probe, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return Probe{}, fmt.Errorf("%w: %v", ErrProbeFailed, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if !resp.IsSuccess() {
		return Probe{}, fmt.Errorf("%w: status %d", ErrProbeFailed, resp.StatusCode())
	}

	mediaType, _, err := mime.ParseMediaType(resp.Header().Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return Probe{}, fmt.Errorf("%w: content type %q", ErrProbeFailed, resp.Header().Get("Content-Type"))
	}

	if !p.dimensions {
		return Probe{}, nil
	}

	limit := p.maxProbeSize
	if limit <= 0 {
		limit = 20 << 20
	}
	w, h, format, err := orientation.ProbeDimensions(io.LimitReader(body, limit))
	if errors.Is(err, image.ErrFormat) {
		return Probe{Format: strings.TrimPrefix(mediaType, "image/")}, nil
	}
	if err != nil {
		return Probe{}, fmt.Errorf("%w: %v", ErrProbeFailed, err)
	}
	return Probe{Width: w, Height: h, Format: format}, nil
}
