package domain

import (
	"time"
)

// Category identifies one mirrored slice of a user's catalog for
// scheduling and checkpointing purposes.
type Category string

const (
	CategoryWishlist Category = "wishlist"
	CategoryLibrary  Category = "library"
	CategoryGames    Category = "games"
)

// User is a Steam account mirrored locally. Created once on first sight;
// never deleted by the sync engine.
type User struct {
	SteamID     string    `json:"steam_id" db:"steam_id"`
	PersonaName string    `json:"persona_name" db:"persona_name"`
	ProfileURL  string    `json:"profile_url" db:"profile_url"`
	AvatarURL   string    `json:"avatar_url" db:"avatar_url"`
	RealName    string    `json:"real_name" db:"real_name"`
	CountryCode string    `json:"country_code" db:"country_code"`
	StateCode   string    `json:"state_code" db:"state_code"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// WishlistEntry is one (user, app) pair on the user's wishlist
type WishlistEntry struct {
	SteamID  string `json:"steam_id" db:"steam_id"`
	AppID    int64  `json:"app_id" db:"app_id"`
	Priority int    `json:"priority" db:"priority"`
}

// LibraryEntry is one owned game. PaidPriceCents is filled by the
// purchase-history importer, not by the sync engine.
type LibraryEntry struct {
	SteamID         string `json:"steam_id" db:"steam_id"`
	AppID           int64  `json:"app_id" db:"app_id"`
	PlaytimeMinutes int    `json:"playtime_minutes" db:"playtime_minutes"`
	PaidPriceCents  *int64 `json:"paid_price_cents,omitempty" db:"paid_price_cents"`
}

// Game holds the denormalized descriptive fields of a store title.
// IsFree and Recommendations are refreshed on every re-fetch; the
// descriptive text is write-once.
type Game struct {
	AppID               int64  `json:"app_id" db:"app_id"`
	GameType            string `json:"game_type" db:"game_type"`
	Name                string `json:"name" db:"name"`
	IsFree              bool   `json:"is_free" db:"is_free"`
	DetailedDescription string `json:"detailed_description" db:"detailed_description"`
	AboutTheGame        string `json:"about_the_game" db:"about_the_game"`
	HeaderImage         string `json:"header_image" db:"header_image"`
	Website             string `json:"website" db:"website"`
	Recommendations     int    `json:"recommendations" db:"recommendations"`
	ReleaseDate         string `json:"release_date" db:"release_date"`
	ESRBRating          string `json:"esrb_rating" db:"esrb_rating"`
}

// GameLabel is an (app, label) association row, shared by the developer,
// publisher, category and genre tables.
type GameLabel struct {
	AppID int64  `json:"app_id" db:"app_id"`
	Label string `json:"label" db:"label"`
}

// GamePrice is the current store price for a title, replaced wholesale on
// every re-fetch. PriceCents carries the undiscounted price.
type GamePrice struct {
	AppID           int64  `json:"app_id" db:"app_id"`
	Currency        string `json:"currency" db:"currency"`
	PriceCents      int64  `json:"price_cents" db:"price_cents"`
	FinalFormatted  string `json:"final_formatted" db:"final_formatted"`
	DiscountPercent int    `json:"discount_percent" db:"discount_percent"`
}

// GameMetacritic is the metacritic score for a title, replaced wholesale
// on every re-fetch.
type GameMetacritic struct {
	AppID int64  `json:"app_id" db:"app_id"`
	Score int    `json:"score" db:"score"`
	URL   string `json:"url" db:"url"`
}

// GameDetails is everything the store returns for one appdetails call,
// already normalized. A nil *GameDetails from the client means the store
// has no data for the app.
type GameDetails struct {
	Game       Game           `json:"game"`
	Developers []string       `json:"developers"`
	Publishers []string       `json:"publishers"`
	Categories []string       `json:"categories"`
	Genres     []string       `json:"genres"`
	Price      GamePrice      `json:"price"`
	Metacritic GameMetacritic `json:"metacritic"`
}

// Purchase is one (game name, paid price) pair recovered from an
// exported order-history page.
type Purchase struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price"`
}

// RunStatus is the lifecycle state of a sync run
type RunStatus string

const (
	RunStatusQueued    RunStatus = "queued"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// StageOutcome reports how one category fared within a run
type StageOutcome string

const (
	StageOutcomePending  StageOutcome = "pending"
	StageOutcomeSuccess  StageOutcome = "success"
	StageOutcomeCacheHit StageOutcome = "cache_hit"
	StageOutcomeFailed   StageOutcome = "failed"
	StageOutcomeSkipped  StageOutcome = "skipped"
)

// SyncRun represents one queued or executed mirror refresh for a user
type SyncRun struct {
	ID        string       `json:"id" db:"id"`
	SteamID   string       `json:"steam_id" db:"steam_id"`
	Status    RunStatus    `json:"status" db:"status"`
	Wishlist  StageOutcome `json:"wishlist" db:"wishlist"`
	Library   StageOutcome `json:"library" db:"library"`
	Metadata  StageOutcome `json:"metadata" db:"metadata"`
	Remaining int          `json:"remaining" db:"remaining"`
	Error     *string      `json:"error,omitempty" db:"error"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}
