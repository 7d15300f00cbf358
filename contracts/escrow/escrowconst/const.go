package escrowconst

const (
	// ErrBalanceTooLow is thrown by Refund and Pay when the escrow balance of
	// the payer does not cover the requested amount.
	ErrBalanceTooLow = "escrow balance too low"
)
