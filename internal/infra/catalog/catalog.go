// Package catalog is the built-in registry of activity templates.
// This is Mindscape's "activity phonebook": the immutable pool the daily
// rotation draws from. Defined at process start, never mutated.
package catalog

import "github.com/mindscape-city/mindscape/internal/domain"

// Templates is the built-in activity template list, ordered by unlock level
// within each tier. Type is the unique key.
var Templates = []domain.ActivityTemplate{
	{
		Type:            "cloud_catcher",
		Name:            "Cloud Catcher",
		Description:     "Catch sparkling clouds floating across the sky",
		DurationMinutes: 3,
		Difficulty:      domain.Easy,
		Reward:          domain.Reward{ItemName: "Weather Vane", Rarity: domain.Common, ItemType: "decoration"},
		UnlockLevel:     1,
	},
	{
		Type:            "lantern_release",
		Name:            "Lantern Release",
		Description:     "Write an intention and release a magical lantern",
		DurationMinutes: 4,
		Difficulty:      domain.Easy,
		Reward:          domain.Reward{ItemName: "Festival Lantern", Rarity: domain.Common, ItemType: "decoration"},
		UnlockLevel:     1,
	},
	{
		Type:            "balloon_voyage",
		Name:            "Balloon Voyage",
		Description:     "Guide a hot air balloon through magical sparkles",
		DurationMinutes: 3,
		Difficulty:      domain.Easy,
		Reward:          domain.Reward{ItemName: "Sky Balloon", Rarity: domain.Common, ItemType: "decoration"},
		UnlockLevel:     2,
	},
	{
		Type:            "garden_bloom",
		Name:            "Garden Bloom",
		Description:     "Help magical plants grow with mindful breathing",
		DurationMinutes: 5,
		Difficulty:      domain.Medium,
		Reward:          domain.Reward{ItemName: "Enchanted Garden", Rarity: domain.Rare, ItemType: "building"},
		UnlockLevel:     3,
	},
	{
		Type:            "cozy_sketch",
		Name:            "Cozy Sketch",
		Description:     "Draw something beautiful for your city museum",
		DurationMinutes: 5,
		Difficulty:      domain.Easy,
		Reward:          domain.Reward{ItemName: "Art Gallery", Rarity: domain.Rare, ItemType: "building"},
		UnlockLevel:     4,
	},
	{
		Type:            "rooftop_melody",
		Name:            "Rooftop Melody",
		Description:     "Create beautiful music with your city buildings",
		DurationMinutes: 4,
		Difficulty:      domain.Medium,
		Reward:          domain.Reward{ItemName: "Music Box Tower", Rarity: domain.Rare, ItemType: "building"},
		UnlockLevel:     5,
	},
	{
		Type:            "wind_chime",
		Name:            "Wind Chime Whisper",
		Description:     "Create harmonious melodies with magical chimes",
		DurationMinutes: 3,
		Difficulty:      domain.Medium,
		Reward:          domain.Reward{ItemName: "Harmony Chimes", Rarity: domain.Common, ItemType: "decoration"},
		UnlockLevel:     6,
	},
	{
		Type:            "star_path",
		Name:            "Star Path",
		Description:     "Trace constellations in the night sky",
		DurationMinutes: 4,
		Difficulty:      domain.Medium,
		Reward:          domain.Reward{ItemName: "Observatory", Rarity: domain.Rare, ItemType: "building"},
		UnlockLevel:     7,
	},
	{
		Type:            "memory_market",
		Name:            "Memory Market",
		Description:     "Remember and collect items from the magical market",
		DurationMinutes: 4,
		Difficulty:      domain.Expert,
		Reward:          domain.Reward{ItemName: "Grand Marketplace", Rarity: domain.Legendary, ItemType: "building"},
		UnlockLevel:     8,
	},
	{
		Type:            "mystery_visitor",
		Name:            "Mystery Visitor",
		Description:     "Solve riddles from a mysterious city visitor",
		DurationMinutes: 5,
		Difficulty:      domain.Expert,
		Reward:          domain.Reward{ItemName: "Wizard Tower", Rarity: domain.Legendary, ItemType: "building"},
		UnlockLevel:     10,
	},
}

// Lookup finds a template by activity type. Returns nil if not found.
func Lookup(activityType string) *domain.ActivityTemplate {
	for i := range Templates {
		if Templates[i].Type == activityType {
			return &Templates[i]
		}
	}
	return nil
}
