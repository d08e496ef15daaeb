package figma

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"

	"github.com/matzehuels/avatarshuffle/pkg/integrations"
	"github.com/matzehuels/avatarshuffle/pkg/style"
)

// DefaultBaseURL is the Figma REST API root.
const DefaultBaseURL = "https://api.figma.com"

// ErrNoStyles is returned when a file response carries no styles map.
var ErrNoStyles = errors.New("figma: no styles found")

const styleTypeFill = "FILL"

// Client fetches published styles from a Figma library file.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a client authenticated with a personal access token.
func NewClient(token string) *Client {
	return &Client{
		Client:  integrations.NewClient(map[string]string{"X-FIGMA-TOKEN": token}),
		baseURL: DefaultBaseURL,
	}
}

// WithBaseURL points the client at another API root.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// Library is the fill-style content of a library file.
type Library struct {
	Styles  style.Pool
	Version string
}

// FileStyles fetches the file and keeps its FILL styles, ordered by name.
func (c *Client) FileStyles(ctx context.Context, fileKey string) (*Library, error) {
	if fileKey == "" {
		return nil, errors.New("figma: empty file key")
	}
	endpoint := fmt.Sprintf("%s/v1/files/%s", c.baseURL, url.PathEscape(fileKey))

	var resp fileResponse
	if err := c.Get(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("figma: fetch file %s: %w", fileKey, err)
	}
	if resp.Styles == nil {
		return nil, ErrNoStyles
	}

	lib := &Library{Version: resp.Version}
	for _, s := range resp.Styles {
		if s.StyleType != styleTypeFill {
			continue
		}
		lib.Styles = append(lib.Styles, style.Style{Key: s.Key, Name: s.Name})
	}
	sort.SliceStable(lib.Styles, func(i, j int) bool {
		if lib.Styles[i].Name != lib.Styles[j].Name {
			return lib.Styles[i].Name < lib.Styles[j].Name
		}
		return lib.Styles[i].Key < lib.Styles[j].Key
	})
	return lib, nil
}
