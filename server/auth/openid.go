// Package auth handles Steam OpenID 2.0 login and session tokens.
package auth

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const steamOpenIDEndpoint = "https://steamcommunity.com/openid/login"

var claimedIDPattern = regexp.MustCompile(`^https?://steamcommunity\.com/openid/id/(\d+)$`)

// LoginRedirectURL builds the Steam OpenID checkid_setup URL. publicURL is
// this server's externally reachable base URL; the callback lands on
// /api/auth/steam/callback.
func LoginRedirectURL(publicURL string) string {
	params := url.Values{}
	params.Set("openid.ns", "http://specs.openid.net/auth/2.0")
	params.Set("openid.mode", "checkid_setup")
	params.Set("openid.return_to", publicURL+"/api/auth/steam/callback")
	params.Set("openid.realm", publicURL+"/")
	params.Set("openid.identity", "http://specs.openid.net/auth/2.0/identifier_select")
	params.Set("openid.claimed_id", "http://specs.openid.net/auth/2.0/identifier_select")
	return steamOpenIDEndpoint + "?" + params.Encode()
}

// Verifier validates Steam OpenID callback assertions.
type Verifier struct {
	endpoint   string
	httpClient *http.Client
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithEndpoint overrides the OpenID provider endpoint.
func WithEndpoint(endpoint string) VerifierOption {
	return func(v *Verifier) {
		v.endpoint = endpoint
	}
}

// NewVerifier creates an OpenID verifier against the Steam provider.
func NewVerifier(opts ...VerifierOption) *Verifier {
	v := &Verifier{
		endpoint:   steamOpenIDEndpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify replays the callback assertion to the provider with
// check_authentication mode and extracts the Steam ID from the claimed
// identity. Returns an error for invalid or replayed assertions.
func (v *Verifier) Verify(ctx context.Context, callbackParams url.Values) (string, error) {
	if callbackParams.Get("openid.mode") != "id_res" {
		return "", errors.Errorf("unexpected openid mode %q", callbackParams.Get("openid.mode"))
	}

	steamID := extractSteamID(callbackParams.Get("openid.claimed_id"))
	if steamID == "" {
		return "", errors.New("callback has no valid claimed id")
	}

	check := url.Values{}
	for key, values := range callbackParams {
		for _, value := range values {
			check.Add(key, value)
		}
	}
	check.Set("openid.mode", "check_authentication")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(check.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "failed to build verification request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "openid verification request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read verification response")
	}
	if !verificationValid(string(body)) {
		return "", errors.New("openid assertion rejected by provider")
	}
	return steamID, nil
}

// verificationValid scans the key-value response for is_valid:true.
func verificationValid(body string) bool {
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "is_valid:true" {
			return true
		}
	}
	return false
}

func extractSteamID(claimedID string) string {
	matches := claimedIDPattern.FindStringSubmatch(claimedID)
	if len(matches) != 2 {
		return ""
	}
	return matches[1]
}
