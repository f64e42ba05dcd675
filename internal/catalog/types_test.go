package catalog

import (
	"strings"
	"testing"
)

func TestDecodeItems_MapsWireFields(t *testing.T) {
	body := []byte(`[
  {"id": 1, "title": "Blue Shirt", "price": 12.5, "description": "x", "category": "clothing", "image": "https://img/1.png", "rating": {"rate": 4.2, "count": 120}},
  {"id": 2, "title": "Red Hat", "price": 7, "description": "y", "image": "https://img/2.png"}
]`)
	items, err := DecodeItems(body)
	if err != nil {
		t.Fatalf("DecodeItems returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	first := items[0]
	if first.ID != 1 || first.Title != "Blue Shirt" || first.ImageRef != "https://img/1.png" {
		t.Fatalf("first item = %#v", first)
	}
	if first.Rating == nil || first.Rating.Score != 4.2 || first.Rating.Count != 120 {
		t.Fatalf("first rating = %#v, want 4.2/120", first.Rating)
	}
	if items[1].Category != "" || items[1].Rating != nil {
		t.Fatalf("second item optional fields = %#v, want empty", items[1])
	}
}

func TestDecodeItems_RejectsMissingIdentity(t *testing.T) {
	cases := map[string]string{
		"missing id":    `[{"title": "a", "price": 1}]`,
		"missing title": `[{"id": 3, "price": 1}]`,
		"missing price": `[{"id": 3, "title": "a"}]`,
	}
	for want, body := range cases {
		t.Run(want, func(t *testing.T) {
			_, err := DecodeItems([]byte(body))
			if err == nil || !strings.Contains(err.Error(), want) {
				t.Fatalf("DecodeItems error = %v, want %q", err, want)
			}
		})
	}
}

func TestDecodeItems_ClampsRanges(t *testing.T) {
	items, err := DecodeItems([]byte(`[{"id": 1, "title": "a", "price": -3, "rating": {"rate": 9, "count": -1}}]`))
	if err != nil {
		t.Fatalf("DecodeItems returned error: %v", err)
	}
	got := items[0]
	if got.Price != 0 {
		t.Fatalf("Price = %v, want 0", got.Price)
	}
	if got.Rating.Score != 5 || got.Rating.Count != 0 {
		t.Fatalf("Rating = %#v, want score 5 count 0", got.Rating)
	}
}

func TestItemLabels(t *testing.T) {
	item := Item{Price: 7, Category: "  hats "}
	if item.PriceLabel() != "$7.00" {
		t.Fatalf("PriceLabel = %q, want $7.00", item.PriceLabel())
	}
	if item.CategoryLabel() != "hats" {
		t.Fatalf("CategoryLabel = %q, want hats", item.CategoryLabel())
	}
	if item.RatingLabel() != "" {
		t.Fatalf("RatingLabel = %q, want empty", item.RatingLabel())
	}
	item.Category = ""
	item.Rating = &Rating{Score: 4.3, Count: 9}
	if item.CategoryLabel() != "-" {
		t.Fatalf("CategoryLabel = %q, want -", item.CategoryLabel())
	}
	if item.RatingLabel() != "4.3 (9)" {
		t.Fatalf("RatingLabel = %q, want 4.3 (9)", item.RatingLabel())
	}
}
