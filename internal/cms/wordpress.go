package cms

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/carefinder/listingkit/internal/transport"
	"github.com/carefinder/listingkit/pkg/errors"
)

// WordPressConfig configures the WordPress REST updater.
type WordPressConfig struct {
	// BaseURL is the site root, e.g. https://example.com.
	BaseURL string
	// PostType is the REST base of the listing post type.
	PostType string
	// Username and AppPassword are application-password credentials.
	Username    string
	AppPassword string
	// Transport overrides the default client options.
	Transport transport.Options
}

// WordPress updates listing custom fields through the WP REST API.
type WordPress struct {
	endpoint string
	client   *transport.Client
}

var _ Updater = (*WordPress)(nil)

// NewWordPress creates a WordPress updater.
func NewWordPress(cfg WordPressConfig) (*WordPress, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.NewValidationError("base_url", cfg.BaseURL, "must be an absolute URL")
	}
	postType := cfg.PostType
	if postType == "" {
		postType = "listing"
	}
	opts := cfg.Transport
	if opts.Service == "" {
		opts.Service = "wordpress"
	}

	return &WordPress{
		endpoint: base + "/wp-json/wp/v2/" + postType,
		client: transport.New(&transport.BasicAuth{
			Username: cfg.Username,
			Password: cfg.AppPassword,
		}, opts),
	}, nil
}

// Update writes u.Fields into the listing's custom fields (acf).
func (w *WordPress) Update(ctx context.Context, u Update) error {
	if _, err := strconv.Atoi(u.ID); err != nil {
		return errors.NewValidationError("id", u.ID, "WordPress post IDs are numeric")
	}
	body := map[string]any{"acf": u.Fields}

	return w.client.Do(ctx, http.MethodPost, w.endpoint+"/"+u.ID, body, nil)
}
