package market

import (
	"github.com/bosonplayground/blockchain-challenge/common"
	"github.com/bosonplayground/blockchain-challenge/contracts/market/marketconst"
	"github.com/bosonplayground/blockchain-challenge/contracts/market/orderstate"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type (
	// Item is an offer registered on the marketplace.
	Item struct {
		// Short item description, at most MaxTitleLen bytes
		Title []byte
		// Price of one unit in token fractions
		Price int
		// Amount of units still open for ordering
		AvailableQuantity int
		// Amount of units moved into orders
		OrderedQuantity int
		// Account that offered the item and receives its payments
		Seller interop.Hash160
	}

	// OrderData is a placed order.
	OrderData struct {
		// Order lifecycle state
		Status orderstate.Type
		// Account that placed the order
		Buyer interop.Hash160
		// Ordered item ids
		ItemIDs []int
		// Ordered quantity per item, same length as ItemIDs
		Quantities []int
	}
)

const (
	escrowKey   = "escrowScriptHash"
	ownerKey    = "owner"
	nbItemsKey  = "nbItems"
	nbOrdersKey = "nbOrders"

	itemPrefix        = 'i'
	orderPrefix       = 'o'
	buyerOrdersPrefix = 'c'
)

// nolint:unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		version := args[len(args)-1].(int)

		common.CheckVersion(version)

		return
	}

	args := data.([]any)
	escrowHash := args[0].(interop.Hash160)
	owner := args[1].(interop.Hash160)

	if len(escrowHash) != interop.Hash160Len {
		panic("invalid escrow contract")
	}

	if len(owner) != interop.Hash160Len {
		panic("invalid owner")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, escrowKey, escrowHash)
	storage.Put(ctx, ownerKey, owner)

	runtime.Log("market contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the contract owner.
func Update(nefFile, manifest []byte, data any) {
	ctx := storage.GetReadOnlyContext()
	common.CheckOwner(getOwner(ctx))

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("market contract updated")
}

// OfferItem registers a new item offer and returns its id. It can be invoked
// only on behalf of the seller. Zero price and zero quantity offers are
// permitted.
//
// It produces NewItem notification.
func OfferItem(seller interop.Hash160, title []byte, price, quantity int) int {
	common.CheckWitness(seller)

	if len(title) > marketconst.MaxTitleLen {
		panic(marketconst.ErrTitleTooLong)
	}

	if price < 0 {
		panic("negative price")
	}

	if quantity < 0 {
		panic("negative quantity")
	}

	ctx := storage.GetContext()
	id := getCounter(ctx, nbItemsKey)

	item := Item{
		Title:             title,
		Price:             price,
		AvailableQuantity: quantity,
		OrderedQuantity:   0,
		Seller:            seller,
	}
	common.SetSerialized(ctx, itemKey(id), item)
	storage.Put(ctx, nbItemsKey, id+1)

	runtime.Notify("NewItem", id, seller, title, price, quantity)

	return id
}

// ComputePrice returns the total price in token fractions of the given
// quantities of the given items.
func ComputePrice(itemIDs, quantities []int) int {
	ctx := storage.GetReadOnlyContext()

	if len(itemIDs) != len(quantities) {
		panic(marketconst.ErrMismatchedLengths)
	}

	total := 0
	for i := 0; i < len(itemIDs); i++ {
		item := getItem(ctx, itemIDs[i])
		total += item.Price * quantities[i]
	}

	return total
}

// Order places an order of the given quantities of the given items and
// returns the order id. It can be invoked only on behalf of the buyer. The
// total price is locked in the escrow contract, so the buyer must have
// approved the escrow contract as a spender in the token contract
// beforehand. Repeating an item id is allowed, its quantities add up.
//
// It produces NewOrder notification.
func Order(buyer interop.Hash160, itemIDs, quantities []int) int {
	common.CheckWitness(buyer)

	if len(itemIDs) != len(quantities) {
		panic(marketconst.ErrMismatchedLengths)
	}

	ctx := storage.GetContext()

	total := 0
	for i := 0; i < len(itemIDs); i++ {
		qty := quantities[i]
		if qty < 0 {
			panic("negative quantity")
		}

		item := getItem(ctx, itemIDs[i])
		if item.AvailableQuantity < qty {
			panic(marketconst.ErrInsufficientInventory)
		}

		item.AvailableQuantity -= qty
		item.OrderedQuantity += qty
		common.SetSerialized(ctx, itemKey(itemIDs[i]), item)

		total += item.Price * qty
	}

	contract.Call(getEscrow(ctx), "placePayment", contract.All, buyer, total)

	id := getCounter(ctx, nbOrdersKey)
	order := OrderData{
		Status:     orderstate.Ordered,
		Buyer:      buyer,
		ItemIDs:    itemIDs,
		Quantities: quantities,
	}
	common.SetSerialized(ctx, orderKey(id), order)
	storage.Put(ctx, nbOrdersKey, id+1)

	buyerKey := append([]byte{buyerOrdersPrefix}, buyer...)
	orders := common.GetIntList(ctx, buyerKey)
	orders = append(orders, id)
	common.SetSerialized(ctx, buyerKey, orders)

	runtime.Notify("NewOrder", id, buyer)

	return id
}

// Complete accepts a placed order and settles it: every ordered item's
// seller receives its own share of the escrowed total. It can be invoked
// only on behalf of the order's buyer and only while the order is in the
// Ordered state.
//
// It produces OrderCompleted notification.
func Complete(orderID int) {
	ctx := storage.GetContext()
	order := getOrder(ctx, orderID)

	common.CheckOwner(order.Buyer)

	if order.Status != orderstate.Ordered {
		panic(marketconst.ErrInvalidOrderState)
	}

	escrowHash := getEscrow(ctx)
	for i := 0; i < len(order.ItemIDs); i++ {
		item := getItem(ctx, order.ItemIDs[i])
		share := item.Price * order.Quantities[i]
		if share > 0 {
			contract.Call(escrowHash, "pay", contract.All, order.Buyer, item.Seller, share)
		}
	}

	order.Status = orderstate.Completed
	common.SetSerialized(ctx, orderKey(orderID), order)

	runtime.Notify("OrderCompleted", orderID, order.Buyer)
}

// Complain disputes a placed order: the full escrowed total returns to the
// buyer. It can be invoked only on behalf of the order's buyer and only
// while the order is in the Ordered state.
//
// It produces OrderComplained notification.
func Complain(orderID int) {
	ctx := storage.GetContext()
	order := getOrder(ctx, orderID)

	common.CheckOwner(order.Buyer)

	if order.Status != orderstate.Ordered {
		panic(marketconst.ErrInvalidOrderState)
	}

	total := 0
	for i := 0; i < len(order.ItemIDs); i++ {
		item := getItem(ctx, order.ItemIDs[i])
		total += item.Price * order.Quantities[i]
	}

	if total > 0 {
		contract.Call(getEscrow(ctx), "refund", contract.All, order.Buyer, total)
	}

	order.Status = orderstate.Complained
	common.SetSerialized(ctx, orderKey(orderID), order)

	runtime.Notify("OrderComplained", orderID, order.Buyer)
}

// GetMyOrders returns ids of all orders the buyer has ever placed. It can be
// invoked only on behalf of the buyer.
func GetMyOrders(buyer interop.Hash160) []int {
	common.CheckWitness(buyer)

	ctx := storage.GetReadOnlyContext()
	return common.GetIntList(ctx, append([]byte{buyerOrdersPrefix}, buyer...))
}

// GetOrderData returns the order registered under the given id.
func GetOrderData(orderID int) OrderData {
	ctx := storage.GetReadOnlyContext()
	return getOrder(ctx, orderID)
}

// ItemData returns the item registered under the given id.
func ItemData(itemID int) Item {
	ctx := storage.GetReadOnlyContext()
	return getItem(ctx, itemID)
}

// NbItems returns the amount of registered items.
func NbItems() int {
	ctx := storage.GetReadOnlyContext()
	return getCounter(ctx, nbItemsKey)
}

// NbOrders returns the amount of placed orders.
func NbOrders() int {
	ctx := storage.GetReadOnlyContext()
	return getCounter(ctx, nbOrdersKey)
}

// IterateItems returns an iterator over all registered items. Iteration is
// through key-value pairs, where key is an item id and value is an Item
// structure.
func IterateItems() iterator.Iterator {
	return storage.Find(storage.GetReadOnlyContext(), []byte{itemPrefix},
		storage.RemovePrefix|storage.DeserializeValues)
}

// EscrowAddress returns the script hash of the escrow contract the market
// settles through.
func EscrowAddress() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getEscrow(ctx)
}

// Owner returns the script hash of the contract owner.
func Owner() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getOwner(ctx)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func itemKey(id int) []byte {
	return append([]byte{itemPrefix}, convert.ToBytes(id)...)
}

func orderKey(id int) []byte {
	return append([]byte{orderPrefix}, convert.ToBytes(id)...)
}

func getItem(ctx storage.Context, id int) Item {
	data := storage.Get(ctx, itemKey(id))
	if data == nil {
		panic(marketconst.ErrUnknownItem)
	}

	return std.Deserialize(data.([]byte)).(Item)
}

func getOrder(ctx storage.Context, id int) OrderData {
	data := storage.Get(ctx, orderKey(id))
	if data == nil {
		panic(marketconst.ErrUnknownOrder)
	}

	return std.Deserialize(data.([]byte)).(OrderData)
}

func getCounter(ctx storage.Context, key string) int {
	counter := storage.Get(ctx, key)
	if counter != nil {
		return counter.(int)
	}

	return 0
}

func getEscrow(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, escrowKey).(interop.Hash160)
}

func getOwner(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, ownerKey).(interop.Hash160)
}
