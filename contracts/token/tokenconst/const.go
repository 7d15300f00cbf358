package tokenconst

const (
	// Decimals is the precision of token balances.
	Decimals = 12

	// UnitScale is the amount of minimal token fractions in one whole token.
	UnitScale = 1_000_000_000_000

	// ErrInsufficientPayment is thrown by Credit when the attached GAS payment
	// does not cover the price of the requested amount.
	ErrInsufficientPayment = "insufficient payment"

	// ErrInsufficientBalance is thrown by transfer operations when the sender
	// does not hold the requested amount.
	ErrInsufficientBalance = "insufficient balance"

	// ErrInsufficientAllowance is thrown by TransferFrom when the spender
	// allowance does not cover the requested amount.
	ErrInsufficientAllowance = "insufficient allowance"
)
