package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/wrenfield/chorejar/internal/model"
)

type ParentStore struct {
	db *sql.DB
}

func NewParentStore(db *sql.DB) *ParentStore {
	return &ParentStore{db: db}
}

const parentCols = `id, uuid, name, role, pin IS NOT NULL, created_at`

func scanParent(scanner interface{ Scan(...any) error }) (*model.Parent, error) {
	var p model.Parent
	err := scanner.Scan(&p.ID, &p.UUID, &p.Name, &p.Role, &p.HasPIN, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ParentStore) Create(name, role string) (*model.Parent, error) {
	result, err := s.db.Exec(
		`INSERT INTO parents (uuid, name, role) VALUES (?, ?, ?)`,
		uuid.NewString(), name, role,
	)
	if err != nil {
		return nil, fmt.Errorf("insert parent: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ParentStore) GetByID(id int64) (*model.Parent, error) {
	row := s.db.QueryRow(`SELECT `+parentCols+` FROM parents WHERE id = ?`, id)
	p, err := scanParent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get parent: %w", err)
	}
	return p, nil
}

func (s *ParentStore) List() ([]model.Parent, error) {
	rows, err := s.db.Query(`SELECT ` + parentCols + ` FROM parents ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list parents: %w", err)
	}
	defer rows.Close()

	var parents []model.Parent
	for rows.Next() {
		p, err := scanParent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan parent: %w", err)
		}
		parents = append(parents, *p)
	}
	return parents, rows.Err()
}

func (s *ParentStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM parents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete parent: %w", err)
	}
	return nil
}

func (s *ParentStore) SetPIN(id int64, hashedPIN string) error {
	_, err := s.db.Exec(`UPDATE parents SET pin = ? WHERE id = ?`, hashedPIN, id)
	if err != nil {
		return fmt.Errorf("set parent pin: %w", err)
	}
	return nil
}

func (s *ParentStore) GetPINHash(id int64) (string, error) {
	var hash sql.NullString
	err := s.db.QueryRow(`SELECT pin FROM parents WHERE id = ?`, id).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get parent pin: %w", err)
	}
	return hash.String, nil
}
