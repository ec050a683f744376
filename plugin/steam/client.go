package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const defaultAPIBase = "https://api.steampowered.com"

// PlayerSummary is one player record from GetPlayerSummaries.
type PlayerSummary struct {
	SteamID       string `json:"steamid"`
	PersonaName   string `json:"personaname"`
	Avatar        string `json:"avatar"`
	AvatarFull    string `json:"avatarfull"`
	ProfileURL    string `json:"profileurl"`
	RealName      string `json:"realname"`
	PersonaState  int    `json:"personastate"`
	LastLogoff    int64  `json:"lastlogoff"`
	GameID        string `json:"gameid"`
	GameExtraInfo string `json:"gameextrainfo"`
}

// OwnedGame is one library entry from GetOwnedGames or
// GetRecentlyPlayedGames. Playtimes are minutes.
type OwnedGame struct {
	AppID           int32  `json:"appid"`
	Name            string `json:"name"`
	PlaytimeForever int32  `json:"playtime_forever"`
	Playtime2Weeks  int32  `json:"playtime_2weeks"`
	ImgIconURL      string `json:"img_icon_url"`
	ImgLogoURL      string `json:"img_logo_url"`
	RTimeLastPlayed int64  `json:"rtime_last_played"`
}

// Friend is one relationship entry from GetFriendList.
type Friend struct {
	SteamID     string `json:"steamid"`
	FriendSince int64  `json:"friend_since"`
}

// OwnedGames is the payload of GetOwnedGames.
type OwnedGames struct {
	GameCount int32       `json:"game_count"`
	Games     []OwnedGame `json:"games"`
}

// RecentlyPlayed is the payload of GetRecentlyPlayedGames. TotalCount is
// the number of games played in the window, which can exceed the entries
// returned.
type RecentlyPlayed struct {
	TotalCount int32       `json:"total_count"`
	Games      []OwnedGame `json:"games"`
}

// Client is a read-only Steam Web API client. A nil client is valid and
// reports every read as empty, which is how the server runs without a
// configured credential.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the Steam Web API base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a Steam Web API client. Returns nil when apiKey is
// empty.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	if apiKey == "" {
		return nil
	}
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultAPIBase,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "steam api request failed: %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return errors.Errorf("steam api returned status %d for %s", resp.StatusCode, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "failed to decode steam api response: %s", path)
	}
	return nil
}

// GetPlayerSummaries fetches profile summaries for up to 100 Steam IDs in
// one batched call. Absent players are simply missing from the result.
func (c *Client) GetPlayerSummaries(ctx context.Context, steamIDs []string) ([]PlayerSummary, error) {
	if c == nil || len(steamIDs) == 0 {
		return nil, nil
	}
	params := url.Values{}
	params.Set("steamids", strings.Join(steamIDs, ","))

	var envelope struct {
		Response struct {
			Players []PlayerSummary `json:"players"`
		} `json:"response"`
	}
	if err := c.get(ctx, "/ISteamUser/GetPlayerSummaries/v0002/", params, &envelope); err != nil {
		return nil, err
	}
	return envelope.Response.Players, nil
}

// GetPlayerSummary fetches the profile summary for a single Steam ID.
// Returns nil when the player does not exist.
func (c *Client) GetPlayerSummary(ctx context.Context, steamID string) (*PlayerSummary, error) {
	players, err := c.GetPlayerSummaries(ctx, []string{steamID})
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		return nil, nil
	}
	return &players[0], nil
}

// GetOwnedGames fetches the full owned-game library, including app info and
// played free games. A missing payload decodes as an empty library.
func (c *Client) GetOwnedGames(ctx context.Context, steamID string) (*OwnedGames, error) {
	if c == nil {
		return &OwnedGames{}, nil
	}
	params := url.Values{}
	params.Set("steamid", steamID)
	params.Set("include_appinfo", "1")
	params.Set("include_played_free_games", "1")
	params.Set("format", "json")

	var envelope struct {
		Response OwnedGames `json:"response"`
	}
	if err := c.get(ctx, "/IPlayerService/GetOwnedGames/v0001/", params, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Response, nil
}

// GetRecentlyPlayedGames fetches games played over the trailing two weeks,
// bounded to count entries in the source's own ordering.
func (c *Client) GetRecentlyPlayedGames(ctx context.Context, steamID string, count int) (*RecentlyPlayed, error) {
	if c == nil {
		return &RecentlyPlayed{}, nil
	}
	params := url.Values{}
	params.Set("steamid", steamID)
	params.Set("count", fmt.Sprintf("%d", count))
	params.Set("format", "json")

	var envelope struct {
		Response RecentlyPlayed `json:"response"`
	}
	if err := c.get(ctx, "/IPlayerService/GetRecentlyPlayedGames/v0001/", params, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Response, nil
}

// GetFriendList fetches the friend relationships for a Steam ID.
func (c *Client) GetFriendList(ctx context.Context, steamID string) ([]Friend, error) {
	if c == nil {
		return nil, nil
	}
	params := url.Values{}
	params.Set("steamid", steamID)
	params.Set("relationship", "friend")

	var envelope struct {
		FriendsList struct {
			Friends []Friend `json:"friends"`
		} `json:"friendslist"`
	}
	if err := c.get(ctx, "/ISteamUser/GetFriendList/v0001/", params, &envelope); err != nil {
		return nil, err
	}
	return envelope.FriendsList.Friends, nil
}
