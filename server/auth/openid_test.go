package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginRedirectURL(t *testing.T) {
	redirect := LoginRedirectURL("https://api.example.com")

	parsed, err := url.Parse(redirect)
	require.NoError(t, err)
	assert.Equal(t, "steamcommunity.com", parsed.Host)

	query := parsed.Query()
	assert.Equal(t, "checkid_setup", query.Get("openid.mode"))
	assert.Equal(t, "https://api.example.com/api/auth/steam/callback", query.Get("openid.return_to"))
	assert.Equal(t, "https://api.example.com/", query.Get("openid.realm"))
	assert.Equal(t, "http://specs.openid.net/auth/2.0/identifier_select", query.Get("openid.identity"))
}

func callbackParams(steamID string) url.Values {
	params := url.Values{}
	params.Set("openid.mode", "id_res")
	params.Set("openid.claimed_id", fmt.Sprintf("https://steamcommunity.com/openid/id/%s", steamID))
	params.Set("openid.sig", "aig")
	return params
}

func TestVerifier(t *testing.T) {
	t.Run("ValidAssertion", func(t *testing.T) {
		var gotMode string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			gotMode = r.PostForm.Get("openid.mode")
			fmt.Fprint(w, "ns:http://specs.openid.net/auth/2.0\nis_valid:true\n")
		}))
		defer server.Close()

		verifier := NewVerifier(WithEndpoint(server.URL))
		steamID, err := verifier.Verify(context.Background(), callbackParams("76561198000000001"))
		require.NoError(t, err)
		assert.Equal(t, "76561198000000001", steamID)
		assert.Equal(t, "check_authentication", gotMode)
	})

	t.Run("RejectedAssertion", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, "ns:http://specs.openid.net/auth/2.0\nis_valid:false\n")
		}))
		defer server.Close()

		verifier := NewVerifier(WithEndpoint(server.URL))
		_, err := verifier.Verify(context.Background(), callbackParams("76561198000000001"))
		assert.Error(t, err)
	})

	t.Run("WrongMode", func(t *testing.T) {
		params := callbackParams("76561198000000001")
		params.Set("openid.mode", "cancel")

		verifier := NewVerifier()
		_, err := verifier.Verify(context.Background(), params)
		assert.Error(t, err)
	})

	t.Run("BadClaimedID", func(t *testing.T) {
		params := callbackParams("76561198000000001")
		params.Set("openid.claimed_id", "https://evil.example.com/openid/id/123")

		verifier := NewVerifier()
		_, err := verifier.Verify(context.Background(), params)
		assert.Error(t, err)
	})
}

func TestExtractSteamID(t *testing.T) {
	assert.Equal(t, "123", extractSteamID("https://steamcommunity.com/openid/id/123"))
	assert.Equal(t, "123", extractSteamID("http://steamcommunity.com/openid/id/123"))
	assert.Empty(t, extractSteamID("https://steamcommunity.com/openid/id/abc"))
	assert.Empty(t, extractSteamID(""))
}
