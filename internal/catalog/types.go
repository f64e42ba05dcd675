package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Item mirrors a product record returned by the catalog API.
type Item struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category,omitempty"`
	ImageRef    string  `json:"image"`
	Rating      *Rating `json:"rating,omitempty"`
}

// Rating summarizes user ratings for an item.
type Rating struct {
	Score float64 `json:"rate"`
	Count int     `json:"count"`
}

// PriceLabel formats the price with two decimals.
func (i Item) PriceLabel() string {
	return fmt.Sprintf("$%.2f", i.Price)
}

// CategoryLabel returns the trimmed category or a dash when absent.
func (i Item) CategoryLabel() string {
	if c := strings.TrimSpace(i.Category); c != "" {
		return c
	}
	return "-"
}

// RatingLabel renders the rating as "4.1 (120)" or empty when unrated.
func (i Item) RatingLabel() string {
	if i.Rating == nil {
		return ""
	}
	return fmt.Sprintf("%.1f (%d)", i.Rating.Score, i.Rating.Count)
}

// wireItem is the decode-side shape; pointer fields detect missing keys.
type wireItem struct {
	ID          *int64   `json:"id"`
	Title       *string  `json:"title"`
	Price       *float64 `json:"price"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Image       string   `json:"image"`
	Rating      *Rating  `json:"rating"`
}

// DecodeItems parses a catalog response body. Records without an id, title
// or price are rejected; out-of-range ratings and prices are clamped.
func DecodeItems(data []byte) ([]Item, error) {
	var raw []wireItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(raw))
	for idx, w := range raw {
		item, err := w.toItem()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", idx, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (w wireItem) toItem() (Item, error) {
	switch {
	case w.ID == nil:
		return Item{}, fmt.Errorf("missing id")
	case w.Title == nil:
		return Item{}, fmt.Errorf("item %d: missing title", *w.ID)
	case w.Price == nil:
		return Item{}, fmt.Errorf("item %d: missing price", *w.ID)
	}
	item := Item{
		ID:          *w.ID,
		Title:       *w.Title,
		Price:       max(*w.Price, 0),
		Description: w.Description,
		Category:    w.Category,
		ImageRef:    w.Image,
	}
	if w.Rating != nil {
		item.Rating = &Rating{
			Score: min(max(w.Rating.Score, 0), 5),
			Count: max(w.Rating.Count, 0),
		}
	}
	return item, nil
}
