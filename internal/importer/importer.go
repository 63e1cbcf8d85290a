// Package importer recovers (game name, paid price) pairs from exported
// order-history pages. Steam and Kinguin lay their receipts out
// differently, so each source gets its own parser; both feed
// store.ApplyPaidPrices.
package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/steamvault/steamvault/internal/domain"
)

// ParseSteamHistory extracts purchases from a saved Steam receipt page.
// Item names live in .purchase_detail_field cells and their prices in the
// matching .refund_value cells.
func ParseSteamHistory(r io.Reader) ([]domain.Purchase, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse steam history: %w", err)
	}

	items := doc.Find(".purchase_line_items").First()
	if items.Length() == 0 {
		return nil, nil
	}

	names := items.Find(".purchase_detail_field")
	prices := items.Find(".refund_value")

	var purchases []domain.Purchase
	names.Each(func(i int, sel *goquery.Selection) {
		if i >= prices.Length() {
			return
		}
		cents, err := parsePriceCents(prices.Eq(i).Text())
		if err != nil {
			return
		}
		name := strings.TrimSpace(sel.Text())
		if name == "" {
			return
		}
		purchases = append(purchases, domain.Purchase{Name: name, PriceCents: cents})
	})
	return purchases, nil
}

// ParseKinguinHistory extracts purchases from a saved Kinguin order page.
// Orders are table rows; the third cell carries the product name
// (suffixed with platform noise) and the sixth the amount paid.
func ParseKinguinHistory(r io.Reader) ([]domain.Purchase, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse kinguin history: %w", err)
	}

	var purchases []domain.Purchase
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		// skip header rows
		if row.Find("th").Length() > 0 {
			return
		}
		cells := row.Find("td")
		if cells.Length() < 6 {
			return
		}

		name := trimPlatformSuffix(cells.Eq(2).Text())
		if name == "" {
			return
		}
		cents, err := parsePriceCents(cells.Eq(5).Text())
		if err != nil {
			return
		}
		purchases = append(purchases, domain.Purchase{Name: name, PriceCents: cents})
	})
	return purchases, nil
}

// trimPlatformSuffix cuts the platform/activation tail Kinguin appends to
// product names ("Dusk PC Steam Key GLOBAL" -> "Dusk").
func trimPlatformSuffix(name string) string {
	for _, marker := range []string{"PC", "Steam", "EA", "Origin"} {
		if idx := strings.Index(name, marker); idx >= 0 {
			name = name[:idx]
			break
		}
	}
	return strings.TrimSpace(name)
}

// parsePriceCents turns a displayed amount like "$12.49" into cents.
func parsePriceCents(text string) (int64, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty price")
	}
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", text, err)
	}
	return int64(amount*100 + 0.5), nil
}
