// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/fitsched/fitsched/internal/config"
)

func oauthTestConfig() config.OAuthConfig {
	return config.OAuthConfig{
		Google:   config.OAuthProviderConfig{ClientID: "g-id", ClientSecret: "g-secret", RedirectURL: "http://localhost/cb"},
		Facebook: config.OAuthProviderConfig{ClientID: "f-id", ClientSecret: "f-secret", RedirectURL: "http://localhost/cb"},
		GitHub:   config.OAuthProviderConfig{ClientID: "h-id", ClientSecret: "h-secret", RedirectURL: "http://localhost/cb"},
	}
}

func TestParseProvider(t *testing.T) {
	tests := []struct {
		input string
		want  Provider
	}{
		{"google", ProviderGoogle},
		{"facebook", ProviderFacebook},
		{"github", ProviderGitHub},
		{"GitHub", ProviderGitHub},
		{"unknown", ProviderGoogle},
		{"", ProviderGoogle},
	}
	for _, tt := range tests {
		if got := ParseProvider(tt.input); got != tt.want {
			t.Errorf("ParseProvider(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// authQuery parses an authorization URL's query parameters.
func authQuery(t *testing.T, rawURL string) url.Values {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("parse %q: %v", rawURL, err)
	}
	return u.Query()
}

func TestAuthorizationURL(t *testing.T) {
	c := NewOAuthClient(oauthTestConfig())

	google := authQuery(t, c.AuthorizationURL(ProviderGoogle))
	if google.Get("client_id") != "g-id" || google.Get("scope") != "email profile" {
		t.Errorf("google auth query = %v", google)
	}
	if google.Get("response_type") != "code" || google.Get("redirect_uri") != "http://localhost/cb" {
		t.Errorf("google auth query = %v", google)
	}

	github := authQuery(t, c.AuthorizationURL(ProviderGitHub))
	if github.Get("client_id") != "h-id" || github.Get("scope") != "user:email" {
		t.Errorf("github auth query = %v", github)
	}

	facebook := c.AuthorizationURL(ProviderFacebook)
	if !strings.Contains(facebook, "facebook.com") {
		t.Errorf("facebook auth URL = %q", facebook)
	}
}

func TestExchangeCodeGoogle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("code") != "the-code" || r.PostForm.Get("grant_type") != "authorization_code" {
			t.Errorf("unexpected form: %v", r.PostForm)
		}
		if r.PostForm.Get("client_id") != "g-id" || r.PostForm.Get("client_secret") != "g-secret" {
			t.Errorf("missing client credentials in form: %v", r.PostForm)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"token-123"}`))
	}))
	defer srv.Close()

	c := NewOAuthClient(oauthTestConfig())
	c.endpoints.GoogleToken = srv.URL

	token, err := c.ExchangeCode(context.Background(), ProviderGoogle, "the-code")
	if err != nil {
		t.Fatalf("ExchangeCode() error = %v", err)
	}
	if token != "token-123" {
		t.Errorf("token = %q", token)
	}
}

func TestExchangeCodeFacebookUsesQueryString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		q := r.URL.Query()
		if q.Get("code") != "fb-code" || q.Get("client_id") != "f-id" || q.Get("client_secret") != "f-secret" {
			t.Errorf("unexpected query: %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"fb-token"}`))
	}))
	defer srv.Close()

	c := NewOAuthClient(oauthTestConfig())
	c.endpoints.FacebookToken = srv.URL

	token, err := c.ExchangeCode(context.Background(), ProviderFacebook, "fb-code")
	if err != nil {
		t.Fatalf("ExchangeCode() error = %v", err)
	}
	if token != "fb-token" {
		t.Errorf("token = %q", token)
	}
}

func TestExchangeCodeMissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error":"bad_verification_code"}`))
	}))
	defer srv.Close()

	c := NewOAuthClient(oauthTestConfig())
	c.endpoints.GitHubToken = srv.URL

	if _, err := c.ExchangeCode(context.Background(), ProviderGitHub, "bad"); err == nil {
		t.Error("expected error when provider returns no access token")
	}
}

func TestFetchUserInfoGoogle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"42","email":"g@example.com","name":"Greta Google"}`))
	}))
	defer srv.Close()

	c := NewOAuthClient(oauthTestConfig())
	c.endpoints.GoogleUserInfo = srv.URL

	info, err := c.FetchUserInfo(context.Background(), ProviderGoogle, "tok")
	if err != nil {
		t.Fatalf("FetchUserInfo() error = %v", err)
	}
	if info.ID != "42" || info.Email != "g@example.com" || info.Name != "Greta Google" {
		t.Errorf("info = %+v", info)
	}
	if info.Provider != ProviderGoogle {
		t.Errorf("provider = %q", info.Provider)
	}
}

func TestFetchUserInfoGitHubPrimaryEmail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "token ") {
			t.Errorf("authorization = %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`{"id":7,"name":"Hank Hub"}`))
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"email":"secondary@example.com","primary":false},{"email":"primary@example.com","primary":true}]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewOAuthClient(oauthTestConfig())
	c.endpoints.GitHubUser = srv.URL + "/user"
	c.endpoints.GitHubEmails = srv.URL + "/user/emails"

	info, err := c.FetchUserInfo(context.Background(), ProviderGitHub, "tok")
	if err != nil {
		t.Fatalf("FetchUserInfo() error = %v", err)
	}
	if info.ID != "7" {
		t.Errorf("id = %q, want numeric id as string", info.ID)
	}
	if info.Email != "primary@example.com" {
		t.Errorf("email = %q, want the primary address", info.Email)
	}
}

func TestFetchUserInfoGitHubNoPrimaryEmail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":7,"name":"Hank Hub"}`))
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"email":"secondary@example.com","primary":false}]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewOAuthClient(oauthTestConfig())
	c.endpoints.GitHubUser = srv.URL + "/user"
	c.endpoints.GitHubEmails = srv.URL + "/user/emails"

	if _, err := c.FetchUserInfo(context.Background(), ProviderGitHub, "tok"); err == nil {
		t.Error("expected error without a primary email")
	}
}
