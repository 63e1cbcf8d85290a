// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort            = "8080"
	DefaultDBPath          = "steamvault.db"
	DefaultBatchSize       = 20
	DefaultRateLimitCount  = 200
	DefaultRateLimitWindow = 5 * time.Minute
	DefaultRefreshInterval = 7 * 24 * time.Hour
	DefaultMetadataSource  = "library"
	DefaultPollInterval    = 2 * time.Second
	DefaultHTTPTimeout     = 10 * time.Second
	DefaultRetryCount      = 3
	DefaultRetryBase       = 1 * time.Second
)

// Steam endpoints
const (
	SteamUserURL     = "https://api.steampowered.com/ISteamUser/GetPlayerSummaries/v0002/"
	SteamWishlistURL = "https://api.steampowered.com/IWishlistService/GetWishlist/v1"
	SteamLibraryURL  = "https://api.steampowered.com/IPlayerService/GetOwnedGames/v0001/"
	SteamAppURL      = "https://store.steampowered.com/api/appdetails"
)

// Metadata source options
const (
	MetadataSourceWishlist = "wishlist"
	MetadataSourceLibrary  = "library"
	MetadataSourceUnion    = "union"
)

// Database tables shared by the game entity writers
const (
	GamesTable      = "games"
	DevelopersTable = "game_developers"
	PublishersTable = "game_publishers"
	CategoriesTable = "game_categories"
	GenresTable     = "game_genres"
	PricesTable     = "game_prices"
	MetacriticTable = "game_metacritic"
)

// Wishlist entries missing a priority on the Steam side sort last.
const DefaultWishlistPriority = 9999

// ESRB code Steam uses for unrated titles.
const ESRBRatingPending = "rp"
