// Package market contains RPC wrappers for Boson Market contract.
package market

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// MarketItem is a contract-specific market.Item type used by its methods.
type MarketItem struct {
	Title []byte
	Price *big.Int
	AvailableQuantity *big.Int
	OrderedQuantity *big.Int
	Seller util.Uint160
}

// MarketOrderData is a contract-specific market.OrderData type used by its methods.
type MarketOrderData struct {
	Status *big.Int
	Buyer util.Uint160
	ItemIDs []*big.Int
	Quantities []*big.Int
}

// NewItemEvent represents "NewItem" event emitted by the contract.
type NewItemEvent struct {
	ItemId *big.Int
	Seller util.Uint160
	Title []byte
	Price *big.Int
	Quantity *big.Int
}

// NewOrderEvent represents "NewOrder" event emitted by the contract.
type NewOrderEvent struct {
	OrderId *big.Int
	Buyer util.Uint160
}

// OrderCompletedEvent represents "OrderCompleted" event emitted by the contract.
type OrderCompletedEvent struct {
	OrderId *big.Int
	Buyer util.Uint160
}

// OrderComplainedEvent represents "OrderComplained" event emitted by the contract.
type OrderComplainedEvent struct {
	OrderId *big.Int
	Buyer util.Uint160
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// ComputePrice invokes `computePrice` method of contract.
func (c *ContractReader) ComputePrice(itemIds []any, quantities []any) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "computePrice", itemIds, quantities))
}

// EscrowAddress invokes `escrowAddress` method of contract.
func (c *ContractReader) EscrowAddress() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "escrowAddress"))
}

// GetMyOrders invokes `getMyOrders` method of contract.
func (c *ContractReader) GetMyOrders(buyer util.Uint160) ([]*big.Int, error) {
	return unwrap.ArrayOfBigInts(c.invoker.Call(c.hash, "getMyOrders", buyer))
}

// GetOrderData invokes `getOrderData` method of contract.
func (c *ContractReader) GetOrderData(orderId *big.Int) (*MarketOrderData, error) {
	return itemToMarketOrderData(unwrap.Item(c.invoker.Call(c.hash, "getOrderData", orderId)))
}

// ItemData invokes `itemData` method of contract.
func (c *ContractReader) ItemData(itemId *big.Int) (*MarketItem, error) {
	return itemToMarketItem(unwrap.Item(c.invoker.Call(c.hash, "itemData", itemId)))
}

// IterateItems invokes `iterateItems` method of contract.
func (c *ContractReader) IterateItems() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "iterateItems"))
}

// IterateItemsExpanded is similar to IterateItems (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) IterateItemsExpanded(_numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "iterateItems", _numOfIteratorItems))
}

// NbItems invokes `nbItems` method of contract.
func (c *ContractReader) NbItems() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "nbItems"))
}

// NbOrders invokes `nbOrders` method of contract.
func (c *ContractReader) NbOrders() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "nbOrders"))
}

// Owner invokes `owner` method of contract.
func (c *ContractReader) Owner() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "owner"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Complain creates a transaction invoking `complain` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Complain(orderId *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "complain", orderId)
}

// ComplainTransaction creates a transaction invoking `complain` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ComplainTransaction(orderId *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "complain", orderId)
}

// ComplainUnsigned creates a transaction invoking `complain` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ComplainUnsigned(orderId *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "complain", nil, orderId)
}

// Complete creates a transaction invoking `complete` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Complete(orderId *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "complete", orderId)
}

// CompleteTransaction creates a transaction invoking `complete` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CompleteTransaction(orderId *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "complete", orderId)
}

// CompleteUnsigned creates a transaction invoking `complete` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CompleteUnsigned(orderId *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "complete", nil, orderId)
}

// OfferItem creates a transaction invoking `offerItem` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) OfferItem(seller util.Uint160, title []byte, price *big.Int, quantity *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "offerItem", seller, title, price, quantity)
}

// OfferItemTransaction creates a transaction invoking `offerItem` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) OfferItemTransaction(seller util.Uint160, title []byte, price *big.Int, quantity *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "offerItem", seller, title, price, quantity)
}

// OfferItemUnsigned creates a transaction invoking `offerItem` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) OfferItemUnsigned(seller util.Uint160, title []byte, price *big.Int, quantity *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "offerItem", nil, seller, title, price, quantity)
}

// Order creates a transaction invoking `order` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Order(buyer util.Uint160, itemIds []any, quantities []any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "order", buyer, itemIds, quantities)
}

// OrderTransaction creates a transaction invoking `order` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) OrderTransaction(buyer util.Uint160, itemIds []any, quantities []any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "order", buyer, itemIds, quantities)
}

// OrderUnsigned creates a transaction invoking `order` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) OrderUnsigned(buyer util.Uint160, itemIds []any, quantities []any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "order", nil, buyer, itemIds, quantities)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(nefFile []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, nefFile, manifest, data)
}

// itemToMarketItem converts stack item into *MarketItem.
func itemToMarketItem(item stackitem.Item, err error) (*MarketItem, error) {
	if err != nil {
		return nil, err
	}
	var res = new(MarketItem)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of MarketItem from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *MarketItem) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 5 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.Title, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field Title: %w", err)
	}

	index++
	res.Price, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Price: %w", err)
	}

	index++
	res.AvailableQuantity, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field AvailableQuantity: %w", err)
	}

	index++
	res.OrderedQuantity, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field OrderedQuantity: %w", err)
	}

	index++
	res.Seller, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Seller: %w", err)
	}

	return nil
}

// itemToMarketOrderData converts stack item into *MarketOrderData.
func itemToMarketOrderData(item stackitem.Item, err error) (*MarketOrderData, error) {
	if err != nil {
		return nil, err
	}
	var res = new(MarketOrderData)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of MarketOrderData from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *MarketOrderData) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.Status, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Status: %w", err)
	}

	index++
	res.Buyer, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Buyer: %w", err)
	}

	index++
	res.ItemIDs, err = func (item stackitem.Item) ([]*big.Int, error) {
		arr, ok := item.Value().([]stackitem.Item)
		if !ok {
			return nil, errors.New("not an array")
		}
		res := make([]*big.Int, len(arr))
		for i := range res {
			res[i], err = arr[i].TryInteger()
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		return res, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field ItemIDs: %w", err)
	}

	index++
	res.Quantities, err = func (item stackitem.Item) ([]*big.Int, error) {
		arr, ok := item.Value().([]stackitem.Item)
		if !ok {
			return nil, errors.New("not an array")
		}
		res := make([]*big.Int, len(arr))
		for i := range res {
			res[i], err = arr[i].TryInteger()
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		return res, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Quantities: %w", err)
	}

	return nil
}

// NewItemEventsFromApplicationLog retrieves a set of all emitted events
// with "NewItem" name from the provided [result.ApplicationLog].
func NewItemEventsFromApplicationLog(log *result.ApplicationLog) ([]*NewItemEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*NewItemEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "NewItem" {
				continue
			}
			event := new(NewItemEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize NewItemEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to NewItemEvent or
// returns an error if it's not possible to do to so.
func (e *NewItemEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 5 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.ItemId, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ItemId: %w", err)
	}

	index++
	e.Seller, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Seller: %w", err)
	}

	index++
	e.Title, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field Title: %w", err)
	}

	index++
	e.Price, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Price: %w", err)
	}

	index++
	e.Quantity, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Quantity: %w", err)
	}

	return nil
}

// NewOrderEventsFromApplicationLog retrieves a set of all emitted events
// with "NewOrder" name from the provided [result.ApplicationLog].
func NewOrderEventsFromApplicationLog(log *result.ApplicationLog) ([]*NewOrderEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*NewOrderEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "NewOrder" {
				continue
			}
			event := new(NewOrderEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize NewOrderEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to NewOrderEvent or
// returns an error if it's not possible to do to so.
func (e *NewOrderEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.OrderId, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field OrderId: %w", err)
	}

	index++
	e.Buyer, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Buyer: %w", err)
	}

	return nil
}

// OrderCompletedEventsFromApplicationLog retrieves a set of all emitted events
// with "OrderCompleted" name from the provided [result.ApplicationLog].
func OrderCompletedEventsFromApplicationLog(log *result.ApplicationLog) ([]*OrderCompletedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*OrderCompletedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "OrderCompleted" {
				continue
			}
			event := new(OrderCompletedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize OrderCompletedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to OrderCompletedEvent or
// returns an error if it's not possible to do to so.
func (e *OrderCompletedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.OrderId, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field OrderId: %w", err)
	}

	index++
	e.Buyer, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Buyer: %w", err)
	}

	return nil
}

// OrderComplainedEventsFromApplicationLog retrieves a set of all emitted events
// with "OrderComplained" name from the provided [result.ApplicationLog].
func OrderComplainedEventsFromApplicationLog(log *result.ApplicationLog) ([]*OrderComplainedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*OrderComplainedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "OrderComplained" {
				continue
			}
			event := new(OrderComplainedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize OrderComplainedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to OrderComplainedEvent or
// returns an error if it's not possible to do to so.
func (e *OrderComplainedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.OrderId, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field OrderId: %w", err)
	}

	index++
	e.Buyer, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Buyer: %w", err)
	}

	return nil
}
