// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"

	"github.com/fitsched/fitsched/internal/apperr"
	"github.com/fitsched/fitsched/internal/config"
)

// Provider identifies an OAuth provider.
type Provider string

const (
	ProviderGoogle   Provider = "google"
	ProviderFacebook Provider = "facebook"
	ProviderGitHub   Provider = "github"
)

// ParseProvider maps a provider name to a Provider. Unknown names fall
// back to Google, matching the existing client contract.
func ParseProvider(name string) Provider {
	switch strings.ToLower(name) {
	case "facebook":
		return ProviderFacebook
	case "github":
		return ProviderGitHub
	default:
		return ProviderGoogle
	}
}

// OAuthUserInfo is the normalized identity returned by a provider.
type OAuthUserInfo struct {
	ID       string
	Email    string
	Name     string
	Provider Provider
}

// providerEndpoints holds the provider URLs. Tests point these at local
// httptest servers.
type providerEndpoints struct {
	GoogleAuth       string
	GoogleToken      string
	GoogleUserInfo   string
	FacebookAuth     string
	FacebookToken    string
	FacebookUserInfo string
	GitHubAuth       string
	GitHubToken      string
	GitHubUser       string
	GitHubEmails     string
}

func defaultEndpoints() providerEndpoints {
	return providerEndpoints{
		GoogleAuth:       "https://accounts.google.com/o/oauth2/v2/auth",
		GoogleToken:      "https://oauth2.googleapis.com/token",
		GoogleUserInfo:   "https://www.googleapis.com/oauth2/v2/userinfo",
		FacebookAuth:     "https://www.facebook.com/v12.0/dialog/oauth",
		FacebookToken:    "https://graph.facebook.com/v12.0/oauth/access_token",
		FacebookUserInfo: "https://graph.facebook.com/me",
		GitHubAuth:       "https://github.com/login/oauth/authorize",
		GitHubToken:      "https://github.com/login/oauth/access_token",
		GitHubUser:       "https://api.github.com/user",
		GitHubEmails:     "https://api.github.com/user/emails",
	}
}

// OAuthClient talks to the OAuth providers. It covers the three legs
// the login flow needs: authorization URL, code exchange and user info.
type OAuthClient struct {
	cfg       config.OAuthConfig
	http      *http.Client
	endpoints providerEndpoints
}

// NewOAuthClient creates a provider client from configuration.
func NewOAuthClient(cfg config.OAuthConfig) *OAuthClient {
	return &OAuthClient{
		cfg:       cfg,
		http:      &http.Client{Timeout: 15 * time.Second},
		endpoints: defaultEndpoints(),
	}
}

// provider returns the credentials for p.
func (c *OAuthClient) provider(p Provider) config.OAuthProviderConfig {
	switch p {
	case ProviderFacebook:
		return c.cfg.Facebook
	case ProviderGitHub:
		return c.cfg.GitHub
	default:
		return c.cfg.Google
	}
}

// oauth2Config assembles the oauth2.Config for p. Client credentials
// travel in the request body; all three providers accept that.
func (c *OAuthClient) oauth2Config(p Provider) *oauth2.Config {
	creds := c.provider(p)
	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURL,
	}
	switch p {
	case ProviderFacebook:
		conf.Scopes = []string{"email", "public_profile"}
		conf.Endpoint = oauth2.Endpoint{
			AuthURL:   c.endpoints.FacebookAuth,
			TokenURL:  c.endpoints.FacebookToken,
			AuthStyle: oauth2.AuthStyleInParams,
		}
	case ProviderGitHub:
		conf.Scopes = []string{"user:email"}
		conf.Endpoint = oauth2.Endpoint{
			AuthURL:   c.endpoints.GitHubAuth,
			TokenURL:  c.endpoints.GitHubToken,
			AuthStyle: oauth2.AuthStyleInParams,
		}
	default:
		conf.Scopes = []string{"email", "profile"}
		conf.Endpoint = oauth2.Endpoint{
			AuthURL:   c.endpoints.GoogleAuth,
			TokenURL:  c.endpoints.GoogleToken,
			AuthStyle: oauth2.AuthStyleInParams,
		}
	}
	return conf
}

// AuthorizationURL builds the provider's authorization page URL. No
// state parameter; the callback carries the provider name instead.
func (c *OAuthClient) AuthorizationURL(p Provider) string {
	return c.oauth2Config(p).AuthCodeURL("")
}

// ExchangeCode exchanges an authorization code for an access token.
func (c *OAuthClient) ExchangeCode(ctx context.Context, p Provider, code string) (string, error) {
	if p == ProviderFacebook {
		return c.exchangeFacebook(ctx, code)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	tok, err := c.oauth2Config(p).Exchange(ctx, code)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("OAuth token exchange error: %w", err))
	}
	if tok.AccessToken == "" {
		return "", apperr.Internal(fmt.Errorf("failed to get access token from %s", p))
	}
	return tok.AccessToken, nil
}

// exchangeFacebook performs Facebook's code exchange. Its Graph API
// dialect takes the exchange parameters as a GET query, which
// oauth2.Config.Exchange (always a POSTed form) cannot produce.
func (c *OAuthClient) exchangeFacebook(ctx context.Context, code string) (string, error) {
	creds := c.cfg.Facebook
	query := url.Values{
		"client_id":     {creds.ClientID},
		"client_secret": {creds.ClientSecret},
		"code":          {code},
		"redirect_uri":  {creds.RedirectURL},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.endpoints.FacebookToken+"?"+query.Encode(), nil)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("building token request: %w", err))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.doJSON(req, &tokenResp); err != nil {
		return "", apperr.Internal(fmt.Errorf("OAuth token exchange error: %w", err))
	}
	if tokenResp.AccessToken == "" {
		return "", apperr.Internal(fmt.Errorf("failed to get access token from facebook"))
	}
	return tokenResp.AccessToken, nil
}

// FetchUserInfo retrieves the authenticated user's identity from the
// provider. GitHub needs a second call for the primary email.
func (c *OAuthClient) FetchUserInfo(ctx context.Context, p Provider, accessToken string) (*OAuthUserInfo, error) {
	switch p {
	case ProviderFacebook:
		return c.facebookUserInfo(ctx, accessToken)
	case ProviderGitHub:
		return c.githubUserInfo(ctx, accessToken)
	default:
		return c.googleUserInfo(ctx, accessToken)
	}
}

func (c *OAuthClient) googleUserInfo(ctx context.Context, accessToken string) (*OAuthUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoints.GoogleUserInfo, nil)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var data struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := c.doJSON(req, &data); err != nil {
		return nil, apperr.Internal(fmt.Errorf("OAuth user info error: %w", err))
	}
	if data.ID == "" || data.Email == "" {
		return nil, apperr.Internal(fmt.Errorf("incomplete user info from google"))
	}
	if data.Name == "" {
		data.Name = "Google User"
	}
	return &OAuthUserInfo{ID: data.ID, Email: data.Email, Name: data.Name, Provider: ProviderGoogle}, nil
}

func (c *OAuthClient) facebookUserInfo(ctx context.Context, accessToken string) (*OAuthUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.endpoints.FacebookUserInfo+"?fields=id,name,email", nil)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var data struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := c.doJSON(req, &data); err != nil {
		return nil, apperr.Internal(fmt.Errorf("OAuth user info error: %w", err))
	}
	if data.ID == "" || data.Email == "" {
		return nil, apperr.Internal(fmt.Errorf("incomplete user info from facebook"))
	}
	if data.Name == "" {
		data.Name = "Facebook User"
	}
	return &OAuthUserInfo{ID: data.ID, Email: data.Email, Name: data.Name, Provider: ProviderFacebook}, nil
}

func (c *OAuthClient) githubUserInfo(ctx context.Context, accessToken string) (*OAuthUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoints.GitHubUser, nil)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	req.Header.Set("Authorization", "token "+accessToken)
	req.Header.Set("User-Agent", "fitsched")

	var profile struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	if err := c.doJSON(req, &profile); err != nil {
		return nil, apperr.Internal(fmt.Errorf("OAuth user info error: %w", err))
	}
	if profile.ID == 0 {
		return nil, apperr.Internal(fmt.Errorf("incomplete user info from github"))
	}
	if profile.Name == "" {
		profile.Name = "GitHub User"
	}

	emailReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoints.GitHubEmails, nil)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	emailReq.Header.Set("Authorization", "token "+accessToken)
	emailReq.Header.Set("User-Agent", "fitsched")

	var emails []struct {
		Email   string `json:"email"`
		Primary bool   `json:"primary"`
	}
	if err := c.doJSON(emailReq, &emails); err != nil {
		return nil, apperr.Internal(fmt.Errorf("OAuth email info error: %w", err))
	}
	var email string
	for _, e := range emails {
		if e.Primary {
			email = e.Email
			break
		}
	}
	if email == "" {
		return nil, apperr.Internal(fmt.Errorf("missing primary email from github"))
	}

	return &OAuthUserInfo{
		ID:       strconv.FormatInt(profile.ID, 10),
		Email:    email,
		Name:     profile.Name,
		Provider: ProviderGitHub,
	}, nil
}

// doJSON executes the request and decodes the JSON response body.
func (c *OAuthClient) doJSON(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	return json.Unmarshal(body, out)
}
