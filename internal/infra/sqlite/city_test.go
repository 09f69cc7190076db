package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/mindscape-city/mindscape/internal/domain"
)

// ─── City Items ─────────────────────────────────────────────────────────────

func TestInsertCityItem_RoundTrip(t *testing.T) {
	db := newTestDB(t)

	created := time.Date(2025, 4, 7, 14, 5, 0, 0, time.Local)
	item := domain.CityItem{
		ID:        "i1",
		ItemName:  "Winter Weather Vane",
		ItemType:  "decoration",
		Rarity:    domain.Rare,
		CreatedAt: created,
	}
	if err := db.InsertCityItem(item); err != nil {
		t.Fatalf("InsertCityItem() error: %v", err)
	}

	got, err := db.GetCityItem("i1")
	if err != nil {
		t.Fatalf("GetCityItem() error: %v", err)
	}
	if got.ItemName != "Winter Weather Vane" || got.Rarity != domain.Rare || got.IsPlaced {
		t.Errorf("item = %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
}

func TestGetCityItem_Missing(t *testing.T) {
	db := newTestDB(t)
	if _, err := db.GetCityItem("nope"); !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("err = %v, want ErrItemNotFound", err)
	}
}

func TestPlaceCityItem(t *testing.T) {
	db := newTestDB(t)
	db.InsertCityItem(domain.CityItem{ID: "i1", ItemName: "Paper Crane", ItemType: "decoration", Rarity: domain.Common, CreatedAt: time.Now()})

	if err := db.PlaceCityItem("i1", 1.5, 0, -2.25); err != nil {
		t.Fatalf("PlaceCityItem() error: %v", err)
	}

	got, _ := db.GetCityItem("i1")
	if !got.IsPlaced {
		t.Error("item not marked placed")
	}
	if got.PositionX != 1.5 || got.PositionY != 0 || got.PositionZ != -2.25 {
		t.Errorf("position = (%v, %v, %v)", got.PositionX, got.PositionY, got.PositionZ)
	}
}

func TestPlaceCityItem_Missing(t *testing.T) {
	db := newTestDB(t)
	if err := db.PlaceCityItem("nope", 0, 0, 0); !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("err = %v, want ErrItemNotFound", err)
	}
}

func TestListCityItems_PlacedOnly(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()
	db.InsertCityItem(domain.CityItem{ID: "placed", ItemName: "Golden Tree", ItemType: "reward", Rarity: domain.Rare, CreatedAt: now})
	db.InsertCityItem(domain.CityItem{ID: "drawer", ItemName: "Paper Crane", ItemType: "decoration", Rarity: domain.Common, CreatedAt: now})
	db.PlaceCityItem("placed", 3, 0, 4)

	all, err := db.ListCityItems(false)
	if err != nil {
		t.Fatalf("ListCityItems(false) error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len(all) = %d, want 2", len(all))
	}

	placed, err := db.ListCityItems(true)
	if err != nil {
		t.Fatalf("ListCityItems(true) error: %v", err)
	}
	if len(placed) != 1 || placed[0].ID != "placed" {
		t.Errorf("placed = %+v", placed)
	}
}
