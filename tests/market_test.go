package tests

import (
	"path"
	"testing"

	"github.com/bosonplayground/blockchain-challenge/common"
	"github.com/bosonplayground/blockchain-challenge/contracts/market/marketconst"
	"github.com/bosonplayground/blockchain-challenge/contracts/market/orderstate"
	"github.com/bosonplayground/blockchain-challenge/contracts/token/tokenconst"
	rpcmarket "github.com/bosonplayground/blockchain-challenge/rpc/market"
	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const marketPath = "../contracts/market"

func deployMarketContract(t *testing.T, e *neotest.Executor, addrEscrow, owner util.Uint160) util.Uint160 {
	args := make([]any, 2)
	args[0] = addrEscrow
	args[1] = owner

	c := neotest.CompileFile(t, e.CommitteeHash, marketPath, path.Join(marketPath, "config.yml"))
	e.DeployContract(t, c, args)
	return c.Hash
}

// newMarketInvoker deploys the whole contract suite and hands escrow
// ownership over to the market contract. It returns market and token
// invokers together with the escrow contract hash.
func newMarketInvoker(t *testing.T) (*neotest.ContractInvoker, *neotest.ContractInvoker, util.Uint160) {
	e := newExecutor(t)
	tokenHash := deployTokenContract(t, e, e.CommitteeHash, tokenUnitPrice)
	escrowHash := deployEscrowContract(t, e, tokenHash, e.CommitteeHash)
	marketHash := deployMarketContract(t, e, escrowHash, e.CommitteeHash)

	e.CommitteeInvoker(escrowHash).Invoke(t, stackitem.Null{}, "transferOwnership", marketHash)

	return e.CommitteeInvoker(marketHash), e.CommitteeInvoker(tokenHash), escrowHash
}

func offerItem(t *testing.T, c *neotest.ContractInvoker, seller neotest.Signer, title string, price, quantity int64) int64 {
	s, err := c.TestInvoke(t, "nbItems")
	require.NoError(t, err)
	id := s.Pop().BigInt().Int64()

	cSeller := c.WithSigners(seller)
	cSeller.Invoke(t, stackitem.Make(id), "offerItem", seller.ScriptHash(), []byte(title), price, quantity)
	return id
}

func getItemData(t *testing.T, c *neotest.ContractInvoker, id int64) *rpcmarket.MarketItem {
	s, err := c.TestInvoke(t, "itemData", id)
	require.NoError(t, err)

	res := new(rpcmarket.MarketItem)
	require.NoError(t, res.FromStackItem(s.Pop().Item()))
	return res
}

func getOrderData(t *testing.T, c *neotest.ContractInvoker, id int64) *rpcmarket.MarketOrderData {
	s, err := c.TestInvoke(t, "getOrderData", id)
	require.NoError(t, err)

	res := new(rpcmarket.MarketOrderData)
	require.NoError(t, res.FromStackItem(s.Pop().Item()))
	return res
}

func TestMarketDeploy(t *testing.T) {
	c, _, escrowHash := newMarketInvoker(t)

	c.Invoke(t, stackitem.Make(0), "nbItems")
	c.Invoke(t, stackitem.Make(0), "nbOrders")
	c.Invoke(t, stackitem.NewBuffer(escrowHash.BytesBE()), "escrowAddress")
	c.Invoke(t, stackitem.NewBuffer(c.CommitteeHash.BytesBE()), "owner")
	c.Invoke(t, stackitem.Make(common.Version), "version")

	// the market contract controls the escrow now
	cEscrow := c.CommitteeInvoker(escrowHash)
	cEscrow.Invoke(t, stackitem.NewBuffer(c.Hash.BytesBE()), "owner")
}

func TestOfferItem(t *testing.T) {
	c, _, _ := newMarketInvoker(t)

	seller := c.NewAccount(t)
	cSeller := c.WithSigners(seller)

	const price = tokenUnit / 2

	c.InvokeFail(t, common.ErrWitnessFailed, "offerItem", seller.ScriptHash(), []byte("Teapot"), price, 3)

	longTitle := make([]byte, marketconst.MaxTitleLen+1)
	cSeller.InvokeFail(t, marketconst.ErrTitleTooLong, "offerItem", seller.ScriptHash(), longTitle, price, 3)

	tx := cSeller.Invoke(t, stackitem.Make(0), "offerItem", seller.ScriptHash(), []byte("Teapot"), price, 3)
	c.CheckTxNotificationEvent(t, tx, 0, state.NotificationEvent{
		ScriptHash: c.Hash,
		Name:       "NewItem",
		Item: stackitem.NewArray([]stackitem.Item{
			stackitem.Make(0),
			stackitem.NewByteArray(seller.ScriptHash().BytesBE()),
			stackitem.NewByteArray([]byte("Teapot")),
			stackitem.Make(price),
			stackitem.Make(3),
		}),
	})

	item := getItemData(t, c, 0)
	require.Equal(t, []byte("Teapot"), item.Title)
	require.Equal(t, int64(price), item.Price.Int64())
	require.Equal(t, int64(3), item.AvailableQuantity.Int64())
	require.Equal(t, int64(0), item.OrderedQuantity.Int64())
	require.Equal(t, seller.ScriptHash(), item.Seller)

	// free and out-of-stock offers are permitted
	require.Equal(t, int64(1), offerItem(t, c, seller, "Pamphlet", 0, 100))
	require.Equal(t, int64(2), offerItem(t, c, seller, "Unobtainium", price, 0))

	c.Invoke(t, stackitem.Make(3), "nbItems")
	c.InvokeFail(t, marketconst.ErrUnknownItem, "itemData", 3)

	s, err := c.TestInvoke(t, "iterateItems")
	require.NoError(t, err)
	iter, ok := s.Pop().Value().(*storage.Iterator)
	require.True(t, ok)
	require.Len(t, iteratorToArray(iter), 3)
}

func TestMarketComputePrice(t *testing.T) {
	c, _, _ := newMarketInvoker(t)

	seller := c.NewAccount(t)
	offerItem(t, c, seller, "Teapot", tokenUnit, 3)
	offerItem(t, c, seller, "Cup", tokenUnit/4, 10)

	c.InvokeFail(t, marketconst.ErrMismatchedLengths, "computePrice", []any{0, 1}, []any{1})
	c.InvokeFail(t, marketconst.ErrUnknownItem, "computePrice", []any{2}, []any{1})

	c.Invoke(t, stackitem.Make(tokenUnit+2*(tokenUnit/4)), "computePrice", []any{0, 1}, []any{1, 2})
	c.Invoke(t, stackitem.Make(0), "computePrice", []any{}, []any{})
}

func TestOrder(t *testing.T) {
	c, cToken, escrowHash := newMarketInvoker(t)

	seller := c.NewAccount(t)
	buyer := c.NewAccount(t)
	cBuyer := c.WithSigners(buyer)

	const price = tokenUnit / 2
	offerItem(t, c, seller, "Teapot", price, 3)
	offerItem(t, c, seller, "Cup", price/2, 10)

	c.InvokeFail(t, common.ErrWitnessFailed, "order", buyer.ScriptHash(), []any{0}, []any{1})
	cBuyer.InvokeFail(t, marketconst.ErrMismatchedLengths, "order", buyer.ScriptHash(), []any{0, 1}, []any{1})
	cBuyer.InvokeFail(t, marketconst.ErrUnknownItem, "order", buyer.ScriptHash(), []any{5}, []any{1})
	cBuyer.InvokeFail(t, marketconst.ErrInsufficientInventory, "order", buyer.ScriptHash(), []any{0}, []any{4})

	// funds are locked on ordering, so an unfunded buyer cannot order
	cBuyer.InvokeFail(t, tokenconst.ErrInsufficientAllowance, "order", buyer.ScriptHash(), []any{0}, []any{1})

	const budget = 3 * tokenUnit
	creditAndApprove(t, cToken, escrowHash, buyer, budget)

	total := int64(price + 2*(price/2))
	tx := cBuyer.Invoke(t, stackitem.Make(0), "order", buyer.ScriptHash(), []any{0, 1}, []any{1, 2})
	c.CheckTxNotificationEvent(t, tx, 1, state.NotificationEvent{
		ScriptHash: c.Hash,
		Name:       "NewOrder",
		Item: stackitem.NewArray([]stackitem.Item{
			stackitem.Make(0),
			stackitem.NewByteArray(buyer.ScriptHash().BytesBE()),
		}),
	})

	c.Invoke(t, stackitem.Make(1), "nbOrders")

	order := getOrderData(t, c, 0)
	require.Equal(t, int64(orderstate.Ordered), order.Status.Int64())
	require.Equal(t, buyer.ScriptHash(), order.Buyer)
	require.Len(t, order.ItemIDs, 2)
	require.Equal(t, int64(0), order.ItemIDs[0].Int64())
	require.Equal(t, int64(1), order.ItemIDs[1].Int64())
	require.Equal(t, int64(1), order.Quantities[0].Int64())
	require.Equal(t, int64(2), order.Quantities[1].Int64())

	item := getItemData(t, c, 0)
	require.Equal(t, int64(2), item.AvailableQuantity.Int64())
	require.Equal(t, int64(1), item.OrderedQuantity.Int64())

	// the total is locked in escrow
	cToken.Invoke(t, stackitem.Make(total), "balanceOf", escrowHash)
	cToken.Invoke(t, stackitem.Make(budget-total), "balanceOf", buyer.ScriptHash())

	cEscrowBuyer := c.CommitteeInvoker(escrowHash).WithSigners(buyer)
	cEscrowBuyer.Invoke(t, stackitem.Make(total), "balanceOf", buyer.ScriptHash())

	// order history is visible to the buyer only
	cBuyer.Invoke(t, stackitem.NewArray([]stackitem.Item{stackitem.Make(0)}), "getMyOrders", buyer.ScriptHash())
	c.InvokeFail(t, common.ErrWitnessFailed, "getMyOrders", buyer.ScriptHash())

	c.InvokeFail(t, marketconst.ErrUnknownOrder, "getOrderData", 1)
}

func TestOrderDuplicateItem(t *testing.T) {
	c, cToken, escrowHash := newMarketInvoker(t)

	seller := c.NewAccount(t)
	buyer := c.NewAccount(t)
	cBuyer := c.WithSigners(buyer)

	const price = tokenUnit / 4
	offerItem(t, c, seller, "Teapot", price, 2)

	creditAndApprove(t, cToken, escrowHash, buyer, tokenUnit)

	// repeated ids add up against the same inventory
	cBuyer.InvokeFail(t, marketconst.ErrInsufficientInventory, "order", buyer.ScriptHash(), []any{0, 0}, []any{2, 1})

	cBuyer.Invoke(t, stackitem.Make(0), "order", buyer.ScriptHash(), []any{0, 0}, []any{1, 1})

	item := getItemData(t, c, 0)
	require.Equal(t, int64(0), item.AvailableQuantity.Int64())
	require.Equal(t, int64(2), item.OrderedQuantity.Int64())

	cToken.Invoke(t, stackitem.Make(2*price), "balanceOf", escrowHash)
}

func TestOrderFree(t *testing.T) {
	c, _, _ := newMarketInvoker(t)

	seller := c.NewAccount(t)
	buyer := c.NewAccount(t)
	cBuyer := c.WithSigners(buyer)

	offerItem(t, c, seller, "Pamphlet", 0, 10)

	// zero total needs no tokens at all
	cBuyer.Invoke(t, stackitem.Make(0), "order", buyer.ScriptHash(), []any{0}, []any{3})

	order := getOrderData(t, c, 0)
	require.Equal(t, int64(orderstate.Ordered), order.Status.Int64())

	cBuyer.Invoke(t, stackitem.Null{}, "complete", 0)
}

func TestComplete(t *testing.T) {
	c, cToken, escrowHash := newMarketInvoker(t)

	seller1 := c.NewAccount(t)
	seller2 := c.NewAccount(t)
	buyer := c.NewAccount(t)
	cBuyer := c.WithSigners(buyer)

	const (
		price1 = tokenUnit / 2
		price2 = tokenUnit / 4
	)
	offerItem(t, c, seller1, "Teapot", price1, 3)
	offerItem(t, c, seller2, "Cup", price2, 10)

	const budget = 2 * tokenUnit
	creditAndApprove(t, cToken, escrowHash, buyer, budget)
	cBuyer.Invoke(t, stackitem.Make(0), "order", buyer.ScriptHash(), []any{0, 1}, []any{1, 2})

	c.InvokeFail(t, marketconst.ErrUnknownOrder, "complete", 42)

	stranger := c.WithSigners(c.NewAccount(t))
	stranger.InvokeFail(t, common.ErrNotAuthorized, "complete", 0)

	tx := cBuyer.Invoke(t, stackitem.Null{}, "complete", 0)
	c.CheckTxNotificationEvent(t, tx, 2, state.NotificationEvent{
		ScriptHash: c.Hash,
		Name:       "OrderCompleted",
		Item: stackitem.NewArray([]stackitem.Item{
			stackitem.Make(0),
			stackitem.NewByteArray(buyer.ScriptHash().BytesBE()),
		}),
	})

	order := getOrderData(t, c, 0)
	require.Equal(t, int64(orderstate.Completed), order.Status.Int64())

	// every seller gets its own share
	cToken.Invoke(t, stackitem.Make(price1), "balanceOf", seller1.ScriptHash())
	cToken.Invoke(t, stackitem.Make(2*price2), "balanceOf", seller2.ScriptHash())
	cToken.Invoke(t, stackitem.Make(0), "balanceOf", escrowHash)

	// an order is resolved exactly once
	cBuyer.InvokeFail(t, marketconst.ErrInvalidOrderState, "complete", 0)
	cBuyer.InvokeFail(t, marketconst.ErrInvalidOrderState, "complain", 0)
}

func TestComplain(t *testing.T) {
	c, cToken, escrowHash := newMarketInvoker(t)

	seller := c.NewAccount(t)
	buyer := c.NewAccount(t)
	cBuyer := c.WithSigners(buyer)

	const price = tokenUnit / 2
	offerItem(t, c, seller, "Teapot", price, 3)

	const budget = 2 * tokenUnit
	creditAndApprove(t, cToken, escrowHash, buyer, budget)
	cBuyer.Invoke(t, stackitem.Make(0), "order", buyer.ScriptHash(), []any{0}, []any{2})

	c.InvokeFail(t, marketconst.ErrUnknownOrder, "complain", 42)

	stranger := c.WithSigners(c.NewAccount(t))
	stranger.InvokeFail(t, common.ErrNotAuthorized, "complain", 0)

	tx := cBuyer.Invoke(t, stackitem.Null{}, "complain", 0)
	c.CheckTxNotificationEvent(t, tx, 1, state.NotificationEvent{
		ScriptHash: c.Hash,
		Name:       "OrderComplained",
		Item: stackitem.NewArray([]stackitem.Item{
			stackitem.Make(0),
			stackitem.NewByteArray(buyer.ScriptHash().BytesBE()),
		}),
	})

	order := getOrderData(t, c, 0)
	require.Equal(t, int64(orderstate.Complained), order.Status.Int64())

	// the whole total comes back to the buyer, the seller gets nothing
	cToken.Invoke(t, stackitem.Make(budget), "balanceOf", buyer.ScriptHash())
	cToken.Invoke(t, stackitem.Make(0), "balanceOf", seller.ScriptHash())
	cToken.Invoke(t, stackitem.Make(0), "balanceOf", escrowHash)

	cBuyer.InvokeFail(t, marketconst.ErrInvalidOrderState, "complain", 0)
	cBuyer.InvokeFail(t, marketconst.ErrInvalidOrderState, "complete", 0)
}
