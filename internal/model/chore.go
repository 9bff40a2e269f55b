package model

import "time"

type Chore struct {
	ID          int64     `json:"id"`
	UUID        string    `json:"uuid"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

type StoreItem struct {
	ID          int64     `json:"id"`
	UUID        string    `json:"uuid"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Icon        string    `json:"icon"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
}
