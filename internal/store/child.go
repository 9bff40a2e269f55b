package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/wrenfield/chorejar/internal/model"
)

type ChildStore struct {
	db *sql.DB
}

func NewChildStore(db *sql.DB) *ChildStore {
	return &ChildStore{db: db}
}

const childCols = `id, uuid, name, age, avatar_color, spending_balance, savings_balance, giving_balance, weekly_cap, pin IS NOT NULL, created_at`

func scanChild(scanner interface{ Scan(...any) error }) (*model.Child, error) {
	var c model.Child
	err := scanner.Scan(&c.ID, &c.UUID, &c.Name, &c.Age, &c.AvatarColor,
		&c.SpendingBalance, &c.SavingsBalance, &c.GivingBalance, &c.WeeklyCap,
		&c.HasPIN, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ChildStore) Create(name string, age int, avatarColor string, weeklyCap float64) (*model.Child, error) {
	result, err := s.db.Exec(
		`INSERT INTO children (uuid, name, age, avatar_color, weekly_cap) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), name, age, avatarColor, weeklyCap,
	)
	if err != nil {
		return nil, fmt.Errorf("insert child: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ChildStore) GetByID(id int64) (*model.Child, error) {
	row := s.db.QueryRow(`SELECT `+childCols+` FROM children WHERE id = ?`, id)
	c, err := scanChild(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get child: %w", err)
	}
	return c, nil
}

// List returns all children ordered by name.
func (s *ChildStore) List() ([]model.Child, error) {
	rows, err := s.db.Query(`SELECT ` + childCols + ` FROM children ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	var children []model.Child
	for rows.Next() {
		c, err := scanChild(rows)
		if err != nil {
			return nil, fmt.Errorf("scan child: %w", err)
		}
		children = append(children, *c)
	}
	return children, rows.Err()
}

func (s *ChildStore) Update(id int64, name string, age int, avatarColor string, weeklyCap float64) (*model.Child, error) {
	_, err := s.db.Exec(
		`UPDATE children SET name = ?, age = ?, avatar_color = ?, weekly_cap = ? WHERE id = ?`,
		name, age, avatarColor, weeklyCap, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update child: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes a child. Completions cascade via foreign key.
func (s *ChildStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM children WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete child: %w", err)
	}
	return nil
}

// SetPIN stores a bcrypt-hashed PIN for the child.
func (s *ChildStore) SetPIN(id int64, hashedPIN string) error {
	_, err := s.db.Exec(`UPDATE children SET pin = ? WHERE id = ?`, hashedPIN, id)
	if err != nil {
		return fmt.Errorf("set child pin: %w", err)
	}
	return nil
}

func (s *ChildStore) ClearPIN(id int64) error {
	_, err := s.db.Exec(`UPDATE children SET pin = NULL WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("clear child pin: %w", err)
	}
	return nil
}

// GetPINHash returns the stored PIN hash, or empty string if no PIN is set.
func (s *ChildStore) GetPINHash(id int64) (string, error) {
	var hash sql.NullString
	err := s.db.QueryRow(`SELECT pin FROM children WHERE id = ?`, id).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get child pin: %w", err)
	}
	return hash.String, nil
}
