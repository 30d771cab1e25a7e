package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/arunanksharan/rivo/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleProfile is the subset of the userinfo response the backend needs.
type GoogleProfile struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleOAuth wraps the authorization-code flow against Google.
type GoogleOAuth struct {
	oauthConfig *oauth2.Config
	httpClient  *http.Client
	userInfoURL string
}

func NewGoogleOAuth(cfg *config.Config) *GoogleOAuth {
	return &GoogleOAuth{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
		},
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		userInfoURL: googleUserInfoURL,
	}
}

// AuthCodeURL builds the consent-page URL. A non-empty redirectURI
// overrides the configured one so web and mobile clients can differ.
func (g *GoogleOAuth) AuthCodeURL(state, redirectURI string) string {
	opts := []oauth2.AuthCodeOption{
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	}
	if redirectURI != "" {
		opts = append(opts, oauth2.SetAuthURLParam("redirect_uri", redirectURI))
	}
	return g.oauthConfig.AuthCodeURL(state, opts...)
}

// Exchange trades the authorization code for a provider access token.
func (g *GoogleOAuth) Exchange(ctx context.Context, code, redirectURI string) (string, error) {
	conf := *g.oauthConfig
	if redirectURI != "" {
		conf.RedirectURL = redirectURI
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)
	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: failed to exchange code for token", ErrUpstream)
	}
	return token.AccessToken, nil
}

// FetchProfile loads the Google profile behind a provider access token.
func (g *GoogleOAuth) FetchProfile(ctx context.Context, accessToken string) (*GoogleProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to retrieve user information", ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: userinfo returned status %d: %s", ErrUpstream, resp.StatusCode, string(body))
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: malformed userinfo response", ErrUpstream)
	}
	if profile.Sub == "" || profile.Email == "" {
		return nil, fmt.Errorf("%w: userinfo response missing subject or email", ErrUpstream)
	}
	return &profile, nil
}
