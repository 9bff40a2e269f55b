package model

import "time"

// DefaultWeeklyCap is the earning ceiling applied to new children.
const DefaultWeeklyCap = 10.0

type Child struct {
	ID              int64     `json:"id"`
	UUID            string    `json:"uuid"`
	Name            string    `json:"name"`
	Age             int       `json:"age"`
	AvatarColor     string    `json:"avatar_color"`
	SpendingBalance float64   `json:"spending_balance"`
	SavingsBalance  float64   `json:"savings_balance"`
	GivingBalance   float64   `json:"giving_balance"`
	WeeklyCap       float64   `json:"weekly_cap"`
	HasPIN          bool      `json:"has_pin"`
	CreatedAt       time.Time `json:"created_at"`
}

// TotalBalance is the sum of all three jars.
func (c *Child) TotalBalance() float64 {
	return c.SpendingBalance + c.SavingsBalance + c.GivingBalance
}
