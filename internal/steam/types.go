package steam

// Wire types for the Steam Web API and store API responses. Only the
// fields the mirror consumes are declared.

type playerSummariesResponse struct {
	Response struct {
		Players []playerSummary `json:"players"`
	} `json:"response"`
}

type playerSummary struct {
	SteamID     string `json:"steamid"`
	PersonaName string `json:"personaname"`
	ProfileURL  string `json:"profileurl"`
	AvatarFull  string `json:"avatarfull"`
	RealName    string `json:"realname"`
	CountryCode string `json:"loccountrycode"`
	StateCode   string `json:"locstatecode"`
}

type wishlistResponse struct {
	Response struct {
		Items []wishlistItem `json:"items"`
	} `json:"response"`
}

type wishlistItem struct {
	AppID    int64 `json:"appid"`
	Priority int   `json:"priority"`
}

type ownedGamesResponse struct {
	Response struct {
		GameCount int         `json:"game_count"`
		Games     []ownedGame `json:"games"`
	} `json:"response"`
}

type ownedGame struct {
	AppID           int64 `json:"appid"`
	PlaytimeForever int   `json:"playtime_forever"`
}

type appDetailsEnvelope struct {
	Success bool            `json:"success"`
	Data    *appDetailsData `json:"data"`
}

type appDetailsData struct {
	SteamAppID          int64    `json:"steam_appid"`
	Type                string   `json:"type"`
	Name                string   `json:"name"`
	IsFree              bool     `json:"is_free"`
	DetailedDescription string   `json:"detailed_description"`
	AboutTheGame        string   `json:"about_the_game"`
	HeaderImage         string   `json:"header_image"`
	Website             string   `json:"website"`
	Developers          []string `json:"developers"`
	Publishers          []string `json:"publishers"`
	Recommendations     struct {
		Total int `json:"total"`
	} `json:"recommendations"`
	ReleaseDate struct {
		ComingSoon bool   `json:"coming_soon"`
		Date       string `json:"date"`
	} `json:"release_date"`
	Ratings       *appRatings       `json:"ratings"`
	Categories    []labelled        `json:"categories"`
	Genres        []labelled        `json:"genres"`
	PriceOverview *priceOverview    `json:"price_overview"`
	Metacritic    *metacriticRating `json:"metacritic"`
}

type appRatings struct {
	ESRB *struct {
		Rating string `json:"rating"`
	} `json:"esrb"`
}

type labelled struct {
	ID          any    `json:"id"` // numeric for categories, string for genres
	Description string `json:"description"`
}

type priceOverview struct {
	Currency        string `json:"currency"`
	Initial         int64  `json:"initial"`
	Final           int64  `json:"final"`
	DiscountPercent int    `json:"discount_percent"`
	FinalFormatted  string `json:"final_formatted"`
}

type metacriticRating struct {
	Score int    `json:"score"`
	URL   string `json:"url"`
}
