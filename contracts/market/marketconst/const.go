package marketconst

const (
	// MaxTitleLen is the maximum length of an item title in bytes.
	MaxTitleLen = 32

	// ErrTitleTooLong is thrown by OfferItem when the item title exceeds
	// MaxTitleLen bytes.
	ErrTitleTooLong = "title too long"

	// ErrMismatchedLengths is thrown by order and price methods when item and
	// quantity slices differ in length.
	ErrMismatchedLengths = "mismatched input lengths"

	// ErrUnknownItem is thrown on an item id no offer was registered under.
	ErrUnknownItem = "unknown item"

	// ErrUnknownOrder is thrown on an order id no order was registered under.
	ErrUnknownOrder = "unknown order"

	// ErrInsufficientInventory is thrown by Order when the requested quantity
	// exceeds the available quantity of an item.
	ErrInsufficientInventory = "insufficient inventory"

	// ErrInvalidOrderState is thrown by Complete and Complain on orders that
	// have already been resolved.
	ErrInvalidOrderState = "invalid order state"
)
