package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/wrenfield/chorejar/internal/model"
)

type StoreItemStore struct {
	db *sql.DB
}

func NewStoreItemStore(db *sql.DB) *StoreItemStore {
	return &StoreItemStore{db: db}
}

const storeItemCols = `id, uuid, name, description, price, icon, available, created_at`

func scanStoreItem(scanner interface{ Scan(...any) error }) (*model.StoreItem, error) {
	var it model.StoreItem
	var available int
	err := scanner.Scan(&it.ID, &it.UUID, &it.Name, &it.Description, &it.Price, &it.Icon, &available, &it.CreatedAt)
	if err != nil {
		return nil, err
	}
	it.Available = available != 0
	return &it, nil
}

func (s *StoreItemStore) Create(name, description string, price float64, icon string) (*model.StoreItem, error) {
	result, err := s.db.Exec(
		`INSERT INTO store_items (uuid, name, description, price, icon) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), name, description, price, icon,
	)
	if err != nil {
		return nil, fmt.Errorf("insert store item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *StoreItemStore) GetByID(id int64) (*model.StoreItem, error) {
	row := s.db.QueryRow(`SELECT `+storeItemCols+` FROM store_items WHERE id = ?`, id)
	it, err := scanStoreItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get store item: %w", err)
	}
	return it, nil
}

func (s *StoreItemStore) List() ([]model.StoreItem, error) {
	return s.list(`SELECT ` + storeItemCols + ` FROM store_items ORDER BY available DESC, name ASC`)
}

// ListAvailable returns only items children can currently buy.
func (s *StoreItemStore) ListAvailable() ([]model.StoreItem, error) {
	return s.list(`SELECT ` + storeItemCols + ` FROM store_items WHERE available = 1 ORDER BY name ASC`)
}

func (s *StoreItemStore) list(query string) ([]model.StoreItem, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list store items: %w", err)
	}
	defer rows.Close()

	var items []model.StoreItem
	for rows.Next() {
		it, err := scanStoreItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (s *StoreItemStore) Update(id int64, name, description string, price float64, icon string, available bool) (*model.StoreItem, error) {
	var a int
	if available {
		a = 1
	}
	_, err := s.db.Exec(
		`UPDATE store_items SET name = ?, description = ?, price = ?, icon = ?, available = ? WHERE id = ?`,
		name, description, price, icon, a, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update store item: %w", err)
	}
	return s.GetByID(id)
}

func (s *StoreItemStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM store_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete store item: %w", err)
	}
	return nil
}
