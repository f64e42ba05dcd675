package persist

import (
	"strings"
	"testing"

	"github.com/five82/shopfront/internal/catalog"
	"github.com/five82/shopfront/internal/state"
)

func TestEncodeFavoritesOnly(t *testing.T) {
	s := state.Initial()
	s.Items = []catalog.Item{{ID: 1, Title: "A"}}
	s.Favorites = state.FavoriteIDs{2, 3}
	s.Status = state.StatusFailed
	s.Error = "boom"

	data, err := encode(DefaultKey, CurrentVersion, DefaultWhitelist, s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{"key":"products","version":1,"payload":{"favorites":[2,3]}}`
	if string(data) != want {
		t.Fatalf("encode = %s, want %s", data, want)
	}
}

func TestEncodeEmptyFavoritesIsArray(t *testing.T) {
	data, err := encode(DefaultKey, CurrentVersion, DefaultWhitelist, state.State{})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(data), `"favorites":[]`) {
		t.Fatalf("encode = %s, want empty favorites array", data)
	}
}

func TestDecodeWithItems(t *testing.T) {
	fields := Whitelist{FieldFavorites, FieldItems}
	s := state.Initial()
	s.Items = []catalog.Item{{ID: 7, Title: "Seven", Price: 7.5}}
	s.Favorites = state.FavoriteIDs{7}

	data, err := encode(DefaultKey, CurrentVersion, fields, s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	p, err := decode(data, DefaultKey, CurrentVersion, fields)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !p.HasItems || len(p.Items) != 1 || p.Items[0].Title != "Seven" {
		t.Fatalf("items = %#v, want restored", p.Items)
	}

	// Items present in storage are ignored once they leave the whitelist.
	p, err = decode(data, DefaultKey, CurrentVersion, DefaultWhitelist)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.HasItems {
		t.Fatalf("items restored without whitelist")
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"corrupt", `{"key":`, "decode envelope"},
		{"wrong key", `{"key":"other","version":1,"payload":{"favorites":[]}}`, "envelope key"},
		{"wrong version", `{"key":"products","version":2,"payload":{"favorites":[]}}`, "envelope version"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode([]byte(tt.data), DefaultKey, CurrentVersion, DefaultWhitelist)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("decode error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestDecodeDropsDuplicateFavorites(t *testing.T) {
	data := `{"key":"products","version":1,"payload":{"favorites":[3,2,3]}}`
	p, err := decode([]byte(data), DefaultKey, CurrentVersion, DefaultWhitelist)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(p.Favorites) != 2 || p.Favorites[0] != 3 || p.Favorites[1] != 2 {
		t.Fatalf("favorites = %v, want [3 2]", p.Favorites)
	}
}

func TestParseWhitelist(t *testing.T) {
	w, err := ParseWhitelist([]string{" Items ", "favorites", "items"})
	if err != nil {
		t.Fatalf("ParseWhitelist: %v", err)
	}
	if len(w) != 2 || !w.Has(FieldFavorites) || !w.Has(FieldItems) {
		t.Fatalf("whitelist = %v", w)
	}

	w, err = ParseWhitelist(nil)
	if err != nil || len(w) != 1 || w[0] != FieldFavorites {
		t.Fatalf("ParseWhitelist(nil) = %v, %v", w, err)
	}

	for _, bad := range []string{"status", "error"} {
		if _, err := ParseWhitelist([]string{bad}); err == nil {
			t.Fatalf("ParseWhitelist(%q) succeeded, want error", bad)
		}
	}
}

func TestPartialApplyKeepsTransientFields(t *testing.T) {
	base := state.Initial()
	base.Items = []catalog.Item{{ID: 1}}
	p := Partial{Favorites: state.FavoriteIDs{4}}
	got := p.Apply(base)
	if got.Status != state.StatusIdle || got.Error != "" {
		t.Fatalf("status/error changed: %#v", got)
	}
	if len(got.Items) != 1 {
		t.Fatalf("items replaced without HasItems")
	}
	if len(got.Favorites) != 1 || got.Favorites[0] != 4 {
		t.Fatalf("favorites = %v", got.Favorites)
	}
}
