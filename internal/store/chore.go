package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/wrenfield/chorejar/internal/model"
)

type ChoreStore struct {
	db *sql.DB
}

func NewChoreStore(db *sql.DB) *ChoreStore {
	return &ChoreStore{db: db}
}

const choreCols = `id, uuid, name, description, amount, active, created_at`

func scanChore(scanner interface{ Scan(...any) error }) (*model.Chore, error) {
	var c model.Chore
	var active int
	err := scanner.Scan(&c.ID, &c.UUID, &c.Name, &c.Description, &c.Amount, &active, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.Active = active != 0
	return &c, nil
}

func (s *ChoreStore) Create(name, description string, amount float64) (*model.Chore, error) {
	result, err := s.db.Exec(
		`INSERT INTO chores (uuid, name, description, amount) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), name, description, amount,
	)
	if err != nil {
		return nil, fmt.Errorf("insert chore: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ChoreStore) GetByID(id int64) (*model.Chore, error) {
	row := s.db.QueryRow(`SELECT `+choreCols+` FROM chores WHERE id = ?`, id)
	c, err := scanChore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chore: %w", err)
	}
	return c, nil
}

// List returns all chores, active first, then by name.
func (s *ChoreStore) List() ([]model.Chore, error) {
	return s.list(`SELECT ` + choreCols + ` FROM chores ORDER BY active DESC, name ASC`)
}

// ListActive returns only chores visible in the chore library.
func (s *ChoreStore) ListActive() ([]model.Chore, error) {
	return s.list(`SELECT ` + choreCols + ` FROM chores WHERE active = 1 ORDER BY name ASC`)
}

func (s *ChoreStore) list(query string) ([]model.Chore, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list chores: %w", err)
	}
	defer rows.Close()

	var chores []model.Chore
	for rows.Next() {
		c, err := scanChore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chore: %w", err)
		}
		chores = append(chores, *c)
	}
	return chores, rows.Err()
}

// GetByIDs fetches the given chores as a map, for ledger title lookups.
// Missing ids are simply absent from the result.
func (s *ChoreStore) GetByIDs(ids []int64) (map[int64]model.Chore, error) {
	chores := make(map[int64]model.Chore, len(ids))
	for _, id := range ids {
		c, err := s.GetByID(id)
		if err != nil {
			return nil, err
		}
		if c != nil {
			chores[c.ID] = *c
		}
	}
	return chores, nil
}

func (s *ChoreStore) Update(id int64, name, description string, amount float64, active bool) (*model.Chore, error) {
	var a int
	if active {
		a = 1
	}
	_, err := s.db.Exec(
		`UPDATE chores SET name = ?, description = ?, amount = ?, active = ? WHERE id = ?`,
		name, description, amount, a, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update chore: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes a chore. Completions referencing it keep their persisted
// jar amounts; their chore_id is set to NULL by the foreign key.
func (s *ChoreStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM chores WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete chore: %w", err)
	}
	return nil
}
