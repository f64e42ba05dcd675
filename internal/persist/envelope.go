package persist

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/five82/shopfront/internal/catalog"
	"github.com/five82/shopfront/internal/state"
)

const (
	// DefaultKey is the storage key of the products envelope.
	DefaultKey = "products"
	// CurrentVersion is bumped whenever Payload changes incompatibly.
	CurrentVersion = 1
)

// Envelope is the persisted record.
type Envelope struct {
	Key     string  `json:"key"`
	Version int     `json:"version"`
	Payload Payload `json:"payload"`
}

// Payload holds exactly the whitelisted fields.
type Payload struct {
	Favorites []int64        `json:"favorites"`
	Items     []catalog.Item `json:"items,omitempty"`
}

// Field names a State field eligible for persistence.
type Field string

const (
	FieldFavorites Field = "favorites"
	FieldItems     Field = "items"
)

// Whitelist is the static set of persisted fields.
type Whitelist []Field

// DefaultWhitelist persists favorites only; remote data is refetched.
var DefaultWhitelist = Whitelist{FieldFavorites}

// Has reports whether f is whitelisted.
func (w Whitelist) Has(f Field) bool {
	for _, v := range w {
		if v == f {
			return true
		}
	}
	return false
}

// ParseWhitelist validates field names from configuration. Favorites are
// always included; transient fields (status, error) are rejected.
func ParseWhitelist(names []string) (Whitelist, error) {
	out := Whitelist{FieldFavorites}
	for _, name := range names {
		f := Field(strings.ToLower(strings.TrimSpace(name)))
		switch f {
		case "", FieldFavorites:
		case FieldItems:
			if !out.Has(FieldItems) {
				out = append(out, FieldItems)
			}
		default:
			return nil, fmt.Errorf("field %q cannot be persisted", name)
		}
	}
	return out, nil
}

// Partial is the decoded subset of State found in storage.
type Partial struct {
	Favorites state.FavoriteIDs
	Items     []catalog.Item
	HasItems  bool
}

// Apply overlays p onto base. Status and Error are never restored.
func (p Partial) Apply(base state.State) state.State {
	base.Favorites = p.Favorites
	if p.HasItems {
		base.Items = p.Items
	}
	return base
}

func encode(key string, version int, fields Whitelist, s state.State) ([]byte, error) {
	env := Envelope{Key: key, Version: version}
	env.Payload.Favorites = []int64(s.Favorites)
	if env.Payload.Favorites == nil {
		env.Payload.Favorites = []int64{}
	}
	if fields.Has(FieldItems) {
		env.Payload.Items = s.Items
	}
	return json.Marshal(env)
}

func decode(data []byte, key string, version int, fields Whitelist) (Partial, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Partial{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Key != key {
		return Partial{}, fmt.Errorf("envelope key %q, want %q", env.Key, key)
	}
	if env.Version != version {
		return Partial{}, fmt.Errorf("envelope version %d, want %d", env.Version, version)
	}
	p := Partial{Favorites: state.Normalize(env.Payload.Favorites)}
	if fields.Has(FieldItems) && env.Payload.Items != nil {
		p.Items = env.Payload.Items
		p.HasItems = true
	}
	return p, nil
}
