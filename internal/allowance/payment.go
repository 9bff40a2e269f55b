package allowance

// PaymentMethod is how a store purchase is funded. Giving money is never
// spendable in the store.
type PaymentMethod string

const (
	PaySpending PaymentMethod = "spending"
	PaySavings  PaymentMethod = "savings"
	// PayBoth drains the spending jar first and puts the remainder on
	// savings. Offered only when neither jar can cover the price alone but
	// together they can.
	PayBoth PaymentMethod = "both"
)

// PaymentOptions returns the methods able to fund a purchase of price given
// the child's current spending and savings balances.
func PaymentOptions(price, spendingBalance, savingsBalance float64) []PaymentMethod {
	var methods []PaymentMethod
	if price <= spendingBalance {
		methods = append(methods, PaySpending)
	}
	if price <= savingsBalance {
		methods = append(methods, PaySavings)
	}
	if price > spendingBalance && price > savingsBalance && price <= spendingBalance+savingsBalance {
		methods = append(methods, PayBoth)
	}
	return methods
}

// SplitPurchase builds the negative jar amounts for a purchase funded by the
// given method, refusing when the method cannot cover the price.
func SplitPurchase(method PaymentMethod, price, spendingBalance, savingsBalance float64) (JarSplit, error) {
	switch method {
	case PaySpending:
		if price > spendingBalance {
			return JarSplit{}, ErrInsufficientFunds
		}
		return JarSplit{Spending: -price}, nil
	case PaySavings:
		if price > savingsBalance {
			return JarSplit{}, ErrInsufficientFunds
		}
		return JarSplit{Savings: -price}, nil
	case PayBoth:
		if price > spendingBalance+savingsBalance {
			return JarSplit{}, ErrInsufficientFunds
		}
		fromSpending := spendingBalance
		if price < fromSpending {
			fromSpending = price
		}
		return JarSplit{Spending: -fromSpending, Savings: -(price - fromSpending)}, nil
	}
	return JarSplit{}, ErrInvalidJar
}
