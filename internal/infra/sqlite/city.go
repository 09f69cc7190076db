package sqlite

import (
	"database/sql"
	"errors"

	"github.com/mindscape-city/mindscape/internal/domain"
)

// ─── City Inventory Repository ──────────────────────────────────────────────

// InsertCityItem adds an earned item to the inventory, unplaced.
func (d *DB) InsertCityItem(item domain.CityItem) error {
	_, err := d.db.Exec(
		`INSERT INTO city_items (id, item_name, item_type, rarity, is_placed, position_x, position_y, position_z, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.ItemName, item.ItemType, string(item.Rarity),
		item.IsPlaced, item.PositionX, item.PositionY, item.PositionZ, item.CreatedAt.Unix(),
	)
	return err
}

// GetCityItem fetches one item by id.
func (d *DB) GetCityItem(id string) (domain.CityItem, error) {
	row := d.db.QueryRow(
		`SELECT id, item_name, item_type, rarity, is_placed, position_x, position_y, position_z, created_at
		 FROM city_items WHERE id = ?`, id,
	)
	item, err := scanCityItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CityItem{}, domain.ErrItemNotFound
	}
	return item, err
}

// ListCityItems returns the inventory. placedOnly restricts to items already
// in the scene.
func (d *DB) ListCityItems(placedOnly bool) ([]domain.CityItem, error) {
	query := `SELECT id, item_name, item_type, rarity, is_placed, position_x, position_y, position_z, created_at
		 FROM city_items`
	if placedOnly {
		query += ` WHERE is_placed = 1`
	}
	query += ` ORDER BY created_at`

	rows, err := d.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CityItem
	for rows.Next() {
		item, err := scanCityItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// PlaceCityItem marks an item placed at the given position.
func (d *DB) PlaceCityItem(id string, x, y, z float64) error {
	res, err := d.db.Exec(
		`UPDATE city_items SET is_placed = 1, position_x = ?, position_y = ?, position_z = ? WHERE id = ?`,
		x, y, z, id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func scanCityItem(row scanner) (domain.CityItem, error) {
	var item domain.CityItem
	var rarity string
	var createdAt int64
	err := row.Scan(&item.ID, &item.ItemName, &item.ItemType, &rarity,
		&item.IsPlaced, &item.PositionX, &item.PositionY, &item.PositionZ, &createdAt)
	if err != nil {
		return domain.CityItem{}, err
	}
	item.Rarity = domain.Rarity(rarity)
	item.CreatedAt = unixTime(createdAt)
	return item, nil
}
