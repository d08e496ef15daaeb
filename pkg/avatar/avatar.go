package avatar

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/avatarshuffle/pkg/errors"
	"github.com/matzehuels/avatarshuffle/pkg/integrations"
	"github.com/matzehuels/avatarshuffle/pkg/observability"
)

// Defaults for [Config].
const (
	DefaultEndpoint = "https://api.openai.com/v1/images/generations"
	DefaultSize     = "256x256"
	DefaultUser     = "figma-discord-random-avatar"

	// PromptSuffix is appended to every prompt.
	PromptSuffix = ", realistic"
)

// Config holds the image API settings. APIKey, MaxRequests and
// MaxImagesPerBatch are required.
type Config struct {
	APIKey            string
	MaxRequests       int // concurrent requests per generation call
	MaxImagesPerBatch int // images requested per request
	Endpoint          string
	Size              string
	User              string
}

// Validate reports the missing required settings as a CONFIGURATION error,
// naming them by their environment variables.
func (c Config) Validate() error {
	var missing []string
	if c.APIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.MaxRequests <= 0 {
		missing = append(missing, "OPENAI_MAX_REQUESTS")
	}
	if c.MaxImagesPerBatch <= 0 {
		missing = append(missing, "OPENAI_MAX_IMAGES_PER_BATCH")
	}
	if len(missing) > 0 {
		return errors.Configuration(missing...)
	}
	return nil
}

// Plan computes the request shape for count images: each of batches
// requests asks for batchSize images. The image API is heavily rate
// limited, so the total may be less than count.
func (c Config) Plan(count int) (batchSize, batches int) {
	if count <= 0 {
		return 0, 0
	}
	batchSize = min(count, c.MaxImagesPerBatch)
	batches = min(c.MaxRequests, (count+batchSize-1)/batchSize)
	return batchSize, batches
}

// Generator produces avatar images from a text prompt.
type Generator struct {
	cfg    Config
	client *integrations.Client
}

// NewGenerator creates a generator. Empty optional fields take defaults.
func NewGenerator(cfg Config) *Generator {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Size == "" {
		cfg.Size = DefaultSize
	}
	if cfg.User == "" {
		cfg.User = DefaultUser
	}
	client := integrations.NewClient(map[string]string{"Authorization": "Bearer " + cfg.APIKey})
	client.WithHTTPClient(&http.Client{Timeout: 2 * time.Minute})
	return &Generator{cfg: cfg, client: client}
}

// WithHTTPClient replaces the HTTP client, e.g. for tests.
func (g *Generator) WithHTTPClient(h *http.Client) *Generator {
	g.client.WithHTTPClient(h)
	return g
}

type generationRequest struct {
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
	User           string `json:"user"`
}

type generationResponse struct {
	Data *[]struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// Generate requests up to count images for prompt and returns them as
// base64 payloads in batch order.
//
// Missing configuration fails before any request is made. An empty or
// whitespace-only prompt (or a count below one) yields no result: nil and
// no error. All batch
// requests run concurrently and any failure fails the whole call with an
// upstream error code.
func (g *Generator) Generate(ctx context.Context, prompt string, count int) ([]string, error) {
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(prompt) == "" || count < 1 {
		return nil, nil
	}

	batchSize, batches := g.cfg.Plan(count)
	req := generationRequest{
		Prompt:         strings.TrimSpace(prompt + PromptSuffix),
		N:              batchSize,
		Size:           g.cfg.Size,
		ResponseFormat: "b64_json",
		User:           g.cfg.User,
	}

	start := time.Now()
	results := make([][]string, batches)
	eg, ectx := errgroup.WithContext(ctx)
	for i := range batches {
		eg.Go(func() error {
			payloads, err := g.request(ectx, req)
			if err != nil {
				return err
			}
			results[i] = payloads
			return nil
		})
	}
	err := eg.Wait()

	var avatars []string
	if err == nil {
		for _, r := range results {
			avatars = append(avatars, r...)
		}
	}
	observability.Run().OnGenerate(ctx, batchSize*batches, len(avatars), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return avatars, nil
}

func (g *Generator) request(ctx context.Context, req generationRequest) ([]string, error) {
	var resp generationResponse
	if err := g.client.PostJSON(ctx, g.cfg.Endpoint, nil, req, &resp); err != nil {
		return nil, classify(err)
	}
	if resp.Data == nil {
		return nil, errors.New(errors.ErrCodeUpstreamUnknown, "invalid response data")
	}
	out := make([]string, 0, len(*resp.Data))
	for _, d := range *resp.Data {
		out = append(out, d.B64JSON)
	}
	return out, nil
}

// classify maps a transport failure onto the upstream error codes.
func classify(err error) error {
	switch code := integrations.StatusCode(err); code {
	case http.StatusInternalServerError:
		return errors.Wrap(errors.ErrCodeUpstreamServer, err, "image API internal server error")
	case http.StatusTooManyRequests:
		return errors.Wrap(errors.ErrCodeRateLimited, err, "rate limited by the image API")
	case http.StatusUnauthorized:
		return errors.Wrap(errors.ErrCodeUnauthorized, err, "invalid authentication or API key")
	case 0:
		return errors.Wrap(errors.ErrCodeUpstreamUnknown, err, "image API request failed")
	default:
		return errors.Wrap(errors.ErrCodeUpstreamUnknown, err, "unknown error code from the image API: %d", code)
	}
}

// Decode converts a base64 payload into image bytes.
func Decode(payload string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode avatar payload: %w", err)
	}
	return data, nil
}
