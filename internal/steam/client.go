// Package steam is a client for the Steam Web API and store API, covering
// the calls the mirror needs: player summaries, wishlist, owned games and
// per-app store details. Absent records come back as nil with a nil error;
// transport and HTTP failures come back wrapped in ErrTransport.
package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/steamvault/steamvault/internal/constants"
	"github.com/steamvault/steamvault/internal/domain"
	"github.com/steamvault/steamvault/internal/httpclient"
)

// ErrTransport marks a network or HTTP-level failure, as opposed to the
// remote account or app simply not existing.
var ErrTransport = errors.New("steam: transport failure")

type Client struct {
	http   *httpclient.Client
	apiKey string

	// Overridable for tests; default to the public endpoints.
	userURL     string
	wishlistURL string
	libraryURL  string
	appURL      string
}

func NewClient(http *httpclient.Client, apiKey string) *Client {
	return &Client{
		http:        http,
		apiKey:      apiKey,
		userURL:     constants.SteamUserURL,
		wishlistURL: constants.SteamWishlistURL,
		libraryURL:  constants.SteamLibraryURL,
		appURL:      constants.SteamAppURL,
	}
}

// SetBaseURLs points every endpoint at the given host, for tests against
// a local server.
func (c *Client) SetBaseURLs(base string) {
	c.userURL = base + "/ISteamUser/GetPlayerSummaries/v0002/"
	c.wishlistURL = base + "/IWishlistService/GetWishlist/v1"
	c.libraryURL = base + "/IPlayerService/GetOwnedGames/v0001/"
	c.appURL = base + "/api/appdetails"
}

// FetchProfile retrieves the account summary for a user. Returns nil if
// the account does not exist.
func (c *Client) FetchProfile(ctx context.Context, steamID string) (*domain.User, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("steamids", steamID)

	var result playerSummariesResponse
	if err := c.getJSON(ctx, c.userURL, params, &result); err != nil {
		return nil, err
	}

	for _, p := range result.Response.Players {
		// only accept the account we asked for
		if p.SteamID != steamID {
			continue
		}
		return &domain.User{
			SteamID:     p.SteamID,
			PersonaName: p.PersonaName,
			ProfileURL:  p.ProfileURL,
			AvatarURL:   p.AvatarFull,
			RealName:    p.RealName,
			CountryCode: p.CountryCode,
			StateCode:   p.StateCode,
		}, nil
	}
	return nil, nil
}

// FetchWishlist retrieves the full wishlist for a user. An empty slice
// means the user has no wishlist items.
func (c *Client) FetchWishlist(ctx context.Context, steamID string) ([]domain.WishlistEntry, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("steamid", steamID)

	var result wishlistResponse
	if err := c.getJSON(ctx, c.wishlistURL, params, &result); err != nil {
		return nil, err
	}

	entries := make([]domain.WishlistEntry, 0, len(result.Response.Items))
	for _, item := range result.Response.Items {
		if item.AppID == 0 {
			continue
		}
		priority := item.Priority
		if priority == 0 {
			priority = constants.DefaultWishlistPriority
		}
		entries = append(entries, domain.WishlistEntry{
			SteamID:  steamID,
			AppID:    item.AppID,
			Priority: priority,
		})
	}
	return entries, nil
}

// FetchLibrary retrieves every game the user owns, including played free
// titles. An empty slice means the library is empty or private.
func (c *Client) FetchLibrary(ctx context.Context, steamID string) ([]domain.LibraryEntry, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("steamid", steamID)
	params.Set("format", "json")
	params.Set("include_played_free_games", "true")

	var result ownedGamesResponse
	if err := c.getJSON(ctx, c.libraryURL, params, &result); err != nil {
		return nil, err
	}

	entries := make([]domain.LibraryEntry, 0, len(result.Response.Games))
	for _, g := range result.Response.Games {
		if g.AppID == 0 {
			continue
		}
		entries = append(entries, domain.LibraryEntry{
			SteamID:         steamID,
			AppID:           g.AppID,
			PlaytimeMinutes: g.PlaytimeForever,
		})
	}
	return entries, nil
}

// FetchGameDetails retrieves store details for a single app. The store
// API only answers one app per call; batching is the fetcher's job, not
// the client's. Returns nil when the store has no data for the app.
func (c *Client) FetchGameDetails(ctx context.Context, appID int64) (*domain.GameDetails, error) {
	params := url.Values{}
	params.Set("appids", strconv.FormatInt(appID, 10))

	var result map[string]appDetailsEnvelope
	if err := c.getJSON(ctx, c.appURL, params, &result); err != nil {
		return nil, err
	}

	envelope, ok := result[strconv.FormatInt(appID, 10)]
	if !ok || !envelope.Success || envelope.Data == nil {
		return nil, nil
	}
	return normalizeAppDetails(appID, envelope.Data), nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: steam returned status %d", ErrTransport, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// normalizeAppDetails keeps only the fields the mirror stores, applying
// the same defaults the store omits for zero values (price, metacritic,
// pending ESRB rating).
func normalizeAppDetails(appID int64, data *appDetailsData) *domain.GameDetails {
	details := &domain.GameDetails{
		Game: domain.Game{
			AppID:               data.SteamAppID,
			GameType:            data.Type,
			Name:                data.Name,
			IsFree:              data.IsFree,
			DetailedDescription: data.DetailedDescription,
			AboutTheGame:        data.AboutTheGame,
			HeaderImage:         data.HeaderImage,
			Website:             data.Website,
			Recommendations:     data.Recommendations.Total,
			ReleaseDate:         data.ReleaseDate.Date,
			ESRBRating:          constants.ESRBRatingPending,
		},
		Developers: data.Developers,
		Publishers: data.Publishers,
	}
	if details.Game.AppID == 0 {
		details.Game.AppID = appID
	}
	if data.Ratings != nil && data.Ratings.ESRB != nil && data.Ratings.ESRB.Rating != "" {
		details.Game.ESRBRating = data.Ratings.ESRB.Rating
	}

	for _, cat := range data.Categories {
		if cat.Description != "" {
			details.Categories = append(details.Categories, cat.Description)
		}
	}
	for _, genre := range data.Genres {
		if genre.Description != "" {
			details.Genres = append(details.Genres, genre.Description)
		}
	}

	// the store drops price_overview and metacritic entirely when empty
	details.Price = domain.GamePrice{AppID: details.Game.AppID}
	if data.PriceOverview != nil {
		details.Price.Currency = data.PriceOverview.Currency
		details.Price.PriceCents = data.PriceOverview.Initial
		details.Price.FinalFormatted = data.PriceOverview.FinalFormatted
		details.Price.DiscountPercent = data.PriceOverview.DiscountPercent
	}
	details.Metacritic = domain.GameMetacritic{AppID: details.Game.AppID}
	if data.Metacritic != nil {
		details.Metacritic.Score = data.Metacritic.Score
		details.Metacritic.URL = data.Metacritic.URL
	}

	return details
}
