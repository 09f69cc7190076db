// Package scene assembles the city view: placed items, inhabitants, and the
// seasonal backdrop.
package scene

import (
	"fmt"
	"log/slog"

	"github.com/mindscape-city/mindscape/internal/app/minigame"
	"github.com/mindscape-city/mindscape/internal/app/rotation"
	"github.com/mindscape-city/mindscape/internal/domain"
)

// Store is the inventory behind the scene.
type Store interface {
	ListCityItems(placedOnly bool) ([]domain.CityItem, error)
	GetCityItem(id string) (domain.CityItem, error)
	PlaceCityItem(id string, x, y, z float64) error
}

// View is the renderable city state.
type View struct {
	Season    domain.Season     `json:"season"`
	Placed    []domain.CityItem `json:"placed"`
	Inventory []domain.CityItem `json:"inventory"` // earned but not placed
	NPCs      []domain.NPC      `json:"npcs"`
}

// residents are the fixed city inhabitants.
var residents = []domain.NPC{
	{ID: "npc_luna", Name: "Luna", Type: "quest_giver", PositionX: 4, PositionZ: -2, Greeting: "The city grows with every mindful moment."},
	{ID: "npc_felix", Name: "Felix", Type: "musician", PositionX: -3, PositionZ: 5, Greeting: "Listen... even the wind takes breaks."},
	{ID: "npc_ivy", Name: "Ivy", Type: "gardener", PositionX: 1, PositionZ: 8, Greeting: "Breathe with the garden and watch it bloom."},
}

// Builder produces scene views.
type Builder struct {
	store Store
	clock minigame.Clock
	log   *slog.Logger
}

// NewBuilder wires a scene builder.
func NewBuilder(store Store, clock minigame.Clock, log *slog.Logger) *Builder {
	return &Builder{store: store, clock: clock, log: log.With("component", "scene")}
}

// Build assembles the current view.
func (b *Builder) Build() (View, error) {
	items, err := b.store.ListCityItems(false)
	if err != nil {
		return View{}, fmt.Errorf("list city items: %w", err)
	}

	v := View{
		Season: rotation.SeasonFor(b.clock.Now()),
		NPCs:   residents,
	}
	for _, item := range items {
		if item.IsPlaced {
			v.Placed = append(v.Placed, item)
		} else {
			v.Inventory = append(v.Inventory, item)
		}
	}
	return v, nil
}

// PlaceItem moves an inventory item into the scene at the given position.
func (b *Builder) PlaceItem(id string, x, y, z float64) (domain.CityItem, error) {
	if err := b.store.PlaceCityItem(id, x, y, z); err != nil {
		return domain.CityItem{}, err
	}
	item, err := b.store.GetCityItem(id)
	if err != nil {
		return domain.CityItem{}, err
	}
	b.log.Info("item placed", "item", item.ItemName, "x", x, "z", z)
	return item, nil
}

// ResolveClick maps a scene click to the item or resident at that id.
// Items win over residents when both match.
func (b *Builder) ResolveClick(id string) (item *domain.CityItem, npc *domain.NPC, err error) {
	it, err := b.store.GetCityItem(id)
	if err == nil {
		return &it, nil, nil
	}
	for i := range residents {
		if residents[i].ID == id {
			return nil, &residents[i], nil
		}
	}
	return nil, nil, domain.ErrItemNotFound
}
