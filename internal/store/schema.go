package store

// User existence is checked by writers rather than FK-enforced, matching
// how the mirror treats referential integrity: shared catalog rows
// (games and descendants) are global across users.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	steam_id TEXT PRIMARY KEY,
	persona_name TEXT,
	profile_url TEXT,
	avatar_url TEXT,
	real_name TEXT,
	country_code TEXT,
	state_code TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS wishlist (
	steam_id TEXT NOT NULL,
	app_id INTEGER NOT NULL,
	priority INTEGER NOT NULL DEFAULT 9999,
	UNIQUE(steam_id, app_id)
);

CREATE TABLE IF NOT EXISTS library (
	steam_id TEXT NOT NULL,
	app_id INTEGER NOT NULL,
	playtime_minutes INTEGER NOT NULL DEFAULT 0,
	paid_price_cents INTEGER,
	UNIQUE(steam_id, app_id)
);

CREATE TABLE IF NOT EXISTS games (
	app_id INTEGER PRIMARY KEY,
	game_type TEXT,
	name TEXT,
	is_free BOOLEAN NOT NULL DEFAULT 0,
	detailed_description TEXT,
	about_the_game TEXT,
	header_image TEXT,
	website TEXT,
	recommendations INTEGER NOT NULL DEFAULT 0,
	release_date TEXT,
	esrb_rating TEXT
);

CREATE TABLE IF NOT EXISTS game_developers (
	app_id INTEGER NOT NULL,
	label TEXT NOT NULL,
	UNIQUE(app_id, label)
);

CREATE TABLE IF NOT EXISTS game_publishers (
	app_id INTEGER NOT NULL,
	label TEXT NOT NULL,
	UNIQUE(app_id, label)
);

CREATE TABLE IF NOT EXISTS game_categories (
	app_id INTEGER NOT NULL,
	label TEXT NOT NULL,
	UNIQUE(app_id, label)
);

CREATE TABLE IF NOT EXISTS game_genres (
	app_id INTEGER NOT NULL,
	label TEXT NOT NULL,
	UNIQUE(app_id, label)
);

CREATE TABLE IF NOT EXISTS game_prices (
	app_id INTEGER PRIMARY KEY,
	currency TEXT,
	price_cents INTEGER NOT NULL DEFAULT 0,
	final_formatted TEXT,
	discount_percent INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS game_metacritic (
	app_id INTEGER PRIMARY KEY,
	score INTEGER NOT NULL DEFAULT 0,
	url TEXT
);

CREATE TABLE IF NOT EXISTS sync_schedule (
	steam_id TEXT NOT NULL,
	category TEXT NOT NULL,
	refreshed_at DATETIME NOT NULL,
	UNIQUE(steam_id, category)
);

CREATE TABLE IF NOT EXISTS sync_checkpoints (
	steam_id TEXT NOT NULL,
	category TEXT NOT NULL,
	pending_ids TEXT NOT NULL,
	updated_at DATETIME NOT NULL,
	UNIQUE(steam_id, category)
);

CREATE TABLE IF NOT EXISTS sync_runs (
	id TEXT PRIMARY KEY,
	steam_id TEXT NOT NULL,
	status TEXT NOT NULL,
	wishlist TEXT NOT NULL DEFAULT 'pending',
	library TEXT NOT NULL DEFAULT 'pending',
	metadata TEXT NOT NULL DEFAULT 'pending',
	remaining INTEGER NOT NULL DEFAULT 0,
	error TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_wishlist_user ON wishlist(steam_id);
CREATE INDEX IF NOT EXISTS idx_library_user ON library(steam_id);
CREATE INDEX IF NOT EXISTS idx_runs_status ON sync_runs(status);
`
