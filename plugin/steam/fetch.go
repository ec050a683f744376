package steam

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

const (
	// topGamesLimit caps the ranked library section of the context.
	topGamesLimit = 30
	// recentGamesCount bounds the recently-played read.
	recentGamesCount = 10
	// friendProfileLimit caps the batched friend-summary read. The Steam
	// batch endpoint accepts more, but the context block stays small.
	friendProfileLimit = 25
)

// FriendProfile is a friend's profile summary joined with the relationship
// timestamp from the friend list.
type FriendProfile struct {
	PlayerSummary
	FriendSince int64
}

// AggregatedContext is the merged snapshot of one player's Steam data. Any
// field may be empty when its source read failed; the aggregate is still
// valid.
type AggregatedContext struct {
	Profile        *PlayerSummary
	TopGames       []OwnedGame
	RecentGames    []OwnedGame
	FriendProfiles []FriendProfile
	TotalGames     int32
}

// FetchContext issues the four context reads concurrently and merges the
// results. Each read is independent: a failed read degrades its field to
// empty rather than aborting the others. A nil client or empty steamID is a
// configuration no-op and returns (nil, nil) without any request.
func (c *Client) FetchContext(ctx context.Context, steamID string) (*AggregatedContext, error) {
	if c == nil || steamID == "" {
		return nil, nil
	}

	var (
		profile     *PlayerSummary
		library     *OwnedGames
		recentGames []OwnedGame
		friendsList []Friend
	)

	// Join, not race: every read settles before merging. Errors are
	// absorbed per field, so the group never cancels early.
	var g errgroup.Group
	g.Go(func() error {
		if p, err := c.GetPlayerSummary(ctx, steamID); err == nil {
			profile = p
		}
		return nil
	})
	g.Go(func() error {
		if owned, err := c.GetOwnedGames(ctx, steamID); err == nil {
			library = owned
		}
		return nil
	})
	g.Go(func() error {
		if recent, err := c.GetRecentlyPlayedGames(ctx, steamID, recentGamesCount); err == nil && recent != nil {
			recentGames = recent.Games
		}
		return nil
	})
	g.Go(func() error {
		if friends, err := c.GetFriendList(ctx, steamID); err == nil {
			friendsList = friends
		}
		return nil
	})
	g.Wait()

	aggregate := &AggregatedContext{
		RecentGames:    recentGames,
		FriendProfiles: c.fetchFriendProfiles(ctx, friendsList),
	}
	if profile != nil {
		aggregate.Profile = profile
	}
	if library != nil {
		aggregate.TotalGames = library.GameCount
		if aggregate.TotalGames == 0 {
			aggregate.TotalGames = int32(len(library.Games))
		}
		aggregate.TopGames = topByPlaytime(library.Games, topGamesLimit)
	}
	return aggregate, nil
}

// fetchFriendProfiles performs the batched follow-up read for up to
// friendProfileLimit friends. Failures degrade to no friends.
func (c *Client) fetchFriendProfiles(ctx context.Context, friends []Friend) []FriendProfile {
	if len(friends) == 0 {
		return nil
	}
	if len(friends) > friendProfileLimit {
		friends = friends[:friendProfileLimit]
	}

	since := make(map[string]int64, len(friends))
	ids := make([]string, 0, len(friends))
	for _, f := range friends {
		since[f.SteamID] = f.FriendSince
		ids = append(ids, f.SteamID)
	}

	summaries, err := c.GetPlayerSummaries(ctx, ids)
	if err != nil {
		return nil
	}
	profiles := make([]FriendProfile, 0, len(summaries))
	for _, s := range summaries {
		profiles = append(profiles, FriendProfile{
			PlayerSummary: s,
			FriendSince:   since[s.SteamID],
		})
	}
	return profiles
}

// topByPlaytime returns the limit most-played games, ranked by cumulative
// playtime descending. The input slice is not modified.
func topByPlaytime(games []OwnedGame, limit int) []OwnedGame {
	sorted := make([]OwnedGame, len(games))
	copy(sorted, games)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PlaytimeForever > sorted[j].PlaytimeForever
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
