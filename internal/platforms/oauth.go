package platforms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"performance-core/internal/config"
	"performance-core/internal/models"
)

// ErrUnsupportedPlatform is returned for platforms without an OAuth client
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// HubSpotEndpoint is HubSpot's OAuth 2.0 endpoint
var HubSpotEndpoint = oauth2.Endpoint{
	AuthURL:   "https://app.hubspot.com/oauth/authorize",
	TokenURL:  "https://api.hubapi.com/oauth/v1/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// Registry holds the OAuth client configuration of every supported platform
type Registry struct {
	configs    map[string]*oauth2.Config
	httpClient *http.Client
}

// NewRegistry builds OAuth configs from the integrations section of cfg
func NewRegistry(cfg *config.Config) *Registry {
	timeout := time.Duration(cfg.Integrations.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	linkedIn := endpoints.LinkedIn
	linkedIn.AuthStyle = oauth2.AuthStyleInParams

	return &Registry{
		configs: map[string]*oauth2.Config{
			models.PlatformGoogleSheets: oauthConfig(cfg.Integrations.GoogleSheets, endpoints.Google),
			models.PlatformLinkedIn:     oauthConfig(cfg.Integrations.LinkedIn, linkedIn),
			models.PlatformHubSpot:      oauthConfig(cfg.Integrations.HubSpot, HubSpotEndpoint),
		},
		httpClient: &http.Client{Timeout: timeout},
	}
}

func oauthConfig(c config.OAuthClientConfig, endpoint oauth2.Endpoint) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		Scopes:       c.Scopes,
		Endpoint:     endpoint,
	}
}

// WithEndpoint replaces the OAuth endpoint of a platform
func (r *Registry) WithEndpoint(platform string, endpoint oauth2.Endpoint) *Registry {
	if c, ok := r.configs[platform]; ok {
		c.Endpoint = endpoint
	}
	return r
}

// Config returns the OAuth config for a platform
func (r *Registry) Config(platform string) (*oauth2.Config, error) {
	c, ok := r.configs[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, platform)
	}
	return c, nil
}

// AuthCodeURL returns the consent URL for a platform carrying state
func (r *Registry) AuthCodeURL(platform, state string) (string, error) {
	c, err := r.Config(platform)
	if err != nil {
		return "", err
	}
	if c.ClientID == "" {
		return "", fmt.Errorf("no OAuth client configured for %s", platform)
	}
	return c.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// Exchange trades an authorization code for a token
func (r *Registry) Exchange(ctx context.Context, platform, code string) (*oauth2.Token, error) {
	c, err := r.Config(platform)
	if err != nil {
		return nil, err
	}
	token, err := c.Exchange(r.context(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return token, nil
}

// TokenSource returns a refreshing token source seeded with token
func (r *Registry) TokenSource(ctx context.Context, platform string, token *oauth2.Token) (oauth2.TokenSource, error) {
	c, err := r.Config(platform)
	if err != nil {
		return nil, err
	}
	return c.TokenSource(r.context(ctx), token), nil
}

// Client returns an HTTP client authorising requests from ts
func (r *Registry) Client(ctx context.Context, ts oauth2.TokenSource) *http.Client {
	client := oauth2.NewClient(r.context(ctx), ts)
	client.Timeout = r.httpClient.Timeout
	return client
}

func (r *Registry) context(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)
}

// TokenFromIntegration rebuilds the stored OAuth token of an integration
func TokenFromIntegration(i *models.Integration) *oauth2.Token {
	token := &oauth2.Token{
		AccessToken:  i.AccessToken,
		RefreshToken: i.RefreshToken,
		TokenType:    i.TokenType,
	}
	if i.TokenExpiry != nil {
		token.Expiry = *i.TokenExpiry
	}
	return token
}

// ApplyToken stores token on the integration. It reports whether anything changed.
func ApplyToken(i *models.Integration, token *oauth2.Token) bool {
	changed := i.AccessToken != token.AccessToken || i.TokenType != token.TokenType
	i.AccessToken = token.AccessToken
	i.TokenType = token.TokenType
	if token.RefreshToken != "" && token.RefreshToken != i.RefreshToken {
		i.RefreshToken = token.RefreshToken
		changed = true
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		if i.TokenExpiry == nil || !i.TokenExpiry.Equal(expiry) {
			changed = true
		}
		i.TokenExpiry = &expiry
	}
	return changed
}
