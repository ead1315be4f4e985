package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// userinfoURL is Google's OpenID Connect userinfo endpoint.
const userinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleUser is the portion of the userinfo response we consume.
// Google returns more fields; we only unmarshal what find-or-create needs.
type GoogleUser struct {
	Email   string `json:"email"`   // verified primary email
	Name    string `json:"name"`    // display name
	Picture string `json:"picture"` // profile photo URL
}

// GoogleProvider wraps golang.org/x/oauth2 for the Google authorization-code
// flow. The SPA obtains the short-lived code on the client and posts it to
// our callback; the code-for-token exchange happens server-to-server with
// the client secret, so the access token never touches the browser.
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider creates a GoogleProvider with the given credentials.
// redirectURL must match one of the authorized redirect URIs registered in
// the Google Cloud console ("postmessage" for the popup flow).
func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// Exchange trades an authorization code for the Google user profile:
// code → access token (token endpoint), then access token → userinfo.
//
// Errors returned here may embed upstream detail; callers log them
// server-side and surface only a generic federation failure to clients.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*GoogleUser, error) {
	oauthToken, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	// oauth2.Config.Client returns an *http.Client that attaches the
	// bearer token to every request.
	client := p.config.Client(ctx, oauthToken)

	resp, err := client.Get(userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("auth: calling Google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: Google userinfo returned status %d", resp.StatusCode)
	}

	var gUser GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&gUser); err != nil {
		return nil, fmt.Errorf("auth: decoding Google userinfo response: %w", err)
	}

	if gUser.Email == "" {
		return nil, fmt.Errorf("auth: Google returned a user with no email")
	}

	return &gUser, nil
}
