// Package allowance implements the money rules of the chore tracker: the
// 80/10/10 jar split, weekly earning caps, purchase payment splitting, and
// the transaction ledger. Everything here is pure computation over fetched
// data; persistence lives in the store package.
package allowance

import "errors"

// Jar identifies one of the three sub-balances that partition a child's money.
type Jar string

const (
	JarSpending Jar = "spending"
	JarSavings  Jar = "savings"
	JarGiving   Jar = "giving"
)

// Fixed allocation proportions for chore earnings.
const (
	spendingShare = 0.8
	savingsShare  = 0.1
	givingShare   = 0.1
)

var (
	// ErrInsufficientFunds means the selected jar(s) cannot cover the amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidJar means the jar name is not spending, savings, or giving.
	ErrInvalidJar = errors.New("invalid jar")
)

// JarSplit is a signed amount divided across the three jars.
type JarSplit struct {
	Spending float64 `json:"spending"`
	Savings  float64 `json:"savings"`
	Giving   float64 `json:"giving"`
}

// Total returns the signed sum of the three jar amounts.
func (s JarSplit) Total() float64 {
	return s.Spending + s.Savings + s.Giving
}

// Negate flips the sign of every jar amount.
func (s JarSplit) Negate() JarSplit {
	return JarSplit{Spending: -s.Spending, Savings: -s.Savings, Giving: -s.Giving}
}

// Allocate splits a chore reward across the jars: 80% spending, 10% savings,
// 10% giving. The three outputs sum to amount up to floating-point rounding.
func Allocate(amount float64) JarSplit {
	return JarSplit{
		Spending: amount * spendingShare,
		Savings:  amount * savingsShare,
		Giving:   amount * givingShare,
	}
}

// ValidJar reports whether j names one of the three jars.
func ValidJar(j Jar) bool {
	return j == JarSpending || j == JarSavings || j == JarGiving
}

// ToJar places the full amount in a single jar. Used for bonuses and
// expenses, where the operator picks the jar instead of using the fixed
// split.
func ToJar(j Jar, amount float64) (JarSplit, error) {
	switch j {
	case JarSpending:
		return JarSplit{Spending: amount}, nil
	case JarSavings:
		return JarSplit{Savings: amount}, nil
	case JarGiving:
		return JarSplit{Giving: amount}, nil
	}
	return JarSplit{}, ErrInvalidJar
}

// ExpenseSplit builds the negative jar amounts for an expense paid from a
// single jar, refusing when the jar balance cannot cover it.
func ExpenseSplit(j Jar, amount, jarBalance float64) (JarSplit, error) {
	if amount > jarBalance {
		return JarSplit{}, ErrInsufficientFunds
	}
	split, err := ToJar(j, amount)
	if err != nil {
		return JarSplit{}, err
	}
	return split.Negate(), nil
}
