package domain

import "fmt"

// MissingFieldError marks a record that lacks a field required by its
// table's natural key or update policy. The store fails the whole
// submitted batch on the first one rather than dropping the row, so the
// rows-submitted accounting stays truthful.
type MissingFieldError struct {
	Record string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field %q", e.Record, e.Field)
}

// Validate checks the fields the wishlist natural key and update policy need
func (w WishlistEntry) Validate() error {
	if w.SteamID == "" {
		return &MissingFieldError{Record: "wishlist entry", Field: "steam_id"}
	}
	if w.AppID == 0 {
		return &MissingFieldError{Record: "wishlist entry", Field: "app_id"}
	}
	return nil
}

// Validate checks the fields the library natural key and update policy need
func (l LibraryEntry) Validate() error {
	if l.SteamID == "" {
		return &MissingFieldError{Record: "library entry", Field: "steam_id"}
	}
	if l.AppID == 0 {
		return &MissingFieldError{Record: "library entry", Field: "app_id"}
	}
	return nil
}

// Validate checks the game row and every sub-entity row derived from it
func (d GameDetails) Validate() error {
	if d.Game.AppID == 0 {
		return &MissingFieldError{Record: "game", Field: "app_id"}
	}
	for _, set := range []struct {
		record string
		labels []string
	}{
		{"developer", d.Developers},
		{"publisher", d.Publishers},
		{"category", d.Categories},
		{"genre", d.Genres},
	} {
		for _, label := range set.labels {
			if label == "" {
				return &MissingFieldError{Record: set.record, Field: "label"}
			}
		}
	}
	return nil
}

// Validate checks an association row in isolation
func (l GameLabel) Validate() error {
	if l.AppID == 0 {
		return &MissingFieldError{Record: "game label", Field: "app_id"}
	}
	if l.Label == "" {
		return &MissingFieldError{Record: "game label", Field: "label"}
	}
	return nil
}
