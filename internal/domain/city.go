package domain

import "time"

// ─── City Items ─────────────────────────────────────────────────────────────

// CityItem is an earned item in the user's inventory. Unplaced items sit in
// the inventory drawer until the user places them in the scene.
type CityItem struct {
	ID        string    `json:"id"`
	ItemName  string    `json:"item_name"`
	ItemType  string    `json:"item_type"` // decoration, building, reward
	Rarity    Rarity    `json:"rarity"`
	IsPlaced  bool      `json:"is_placed"`
	PositionX float64   `json:"position_x"`
	PositionY float64   `json:"position_y"`
	PositionZ float64   `json:"position_z"`
	CreatedAt time.Time `json:"created_at"`
}

// NPC is a friendly city inhabitant surfaced in the scene.
type NPC struct {
	ID        string  `json:"id"`
	Name      string  `json:"npc_name"`
	Type      string  `json:"npc_type"` // quest_giver, musician, gardener
	PositionX float64 `json:"position_x"`
	PositionY float64 `json:"position_y"`
	PositionZ float64 `json:"position_z"`
	Greeting  string  `json:"greeting,omitempty"`
}
