package rotation

import (
	"fmt"
	"strings"

	"github.com/mindscape-city/mindscape/internal/domain"
)

// SkinChance is the per-template probability that an unlocked template
// receives a seasonal skin on a given rotation.
const SkinChance = 0.3

// seasonalNames maps (season, activity type) to the seasonal display name.
// A template without an entry for the current season is never skinned.
var seasonalNames = map[domain.Season]map[string]string{
	domain.Spring: {
		"cloud_catcher":  "Cherry Blossom Catcher",
		"garden_bloom":   "Spring Flower Bloom",
		"balloon_voyage": "Butterfly Balloon Ride",
	},
	domain.Summer: {
		"cloud_catcher":  "Rainbow Cloud Catcher",
		"star_path":      "Firefly Path",
		"balloon_voyage": "Sunset Balloon Journey",
	},
	domain.Autumn: {
		"cloud_catcher": "Autumn Leaf Catcher",
		"garden_bloom":  "Harvest Moon Garden",
		"wind_chime":    "Autumn Wind Symphony",
	},
	domain.Winter: {
		"cloud_catcher":   "Snowflake Catcher",
		"star_path":       "Aurora Path",
		"lantern_release": "Winter Solstice Lantern",
	},
}

// SeasonalVariant rewrites a template into its seasonal skin, if the lookup
// table has one for this season. The reward item name gains a season prefix
// and common rarity upgrades exactly one step to rare; rare and legendary
// pass through unchanged. Templates without a mapping return unchanged and
// carry no seasonal tag.
func SeasonalVariant(tmpl domain.ActivityTemplate, season domain.Season) domain.ActivityTemplate {
	name, ok := seasonalNames[season][tmpl.Type]
	if !ok {
		return tmpl
	}

	prefix := string(season)
	prefix = strings.ToUpper(prefix[:1]) + prefix[1:]

	tmpl.Name = name
	tmpl.SeasonalTag = season
	tmpl.Reward.ItemName = fmt.Sprintf("%s %s", prefix, tmpl.Reward.ItemName)
	if tmpl.Reward.Rarity == domain.Common {
		tmpl.Reward.Rarity = domain.Rare
	}
	return tmpl
}
