package orderstate

// Type is an enumeration for order states.
type Type int

// Various order states.
const (
	// Ordered stands for freshly placed orders with funds locked in escrow.
	Ordered Type = iota

	// Completed stands for orders accepted by the buyer with sellers paid.
	Completed

	// Complained stands for orders disputed by the buyer with funds
	// refunded.
	Complained
)
