package tests

import (
	"path"
	"testing"

	"github.com/bosonplayground/blockchain-challenge/common"
	"github.com/bosonplayground/blockchain-challenge/contracts/token/tokenconst"
	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const (
	tokenPath = "../contracts/token"

	// tokenUnitPrice is the deploy-time price of one whole token in GAS
	// fractions.
	tokenUnitPrice = 10_000
	// tokenUnit is the amount of fractions in one whole token.
	tokenUnit = tokenconst.UnitScale
)

func deployTokenContract(t *testing.T, e *neotest.Executor, owner util.Uint160, unitPrice int64) util.Uint160 {
	args := make([]any, 2)
	args[0] = owner
	args[1] = unitPrice

	c := neotest.CompileFile(t, e.CommitteeHash, tokenPath, path.Join(tokenPath, "config.yml"))
	e.DeployContract(t, c, args)
	return c.Hash
}

func newTokenInvoker(t *testing.T) *neotest.ContractInvoker {
	e := newExecutor(t)
	h := deployTokenContract(t, e, e.CommitteeHash, tokenUnitPrice)
	return e.CommitteeInvoker(h)
}

func tokenPrice(amount int64) int64 {
	return amount * tokenUnitPrice / tokenUnit
}

func TestTokenDeploy(t *testing.T) {
	c := newTokenInvoker(t)

	c.Invoke(t, stackitem.Make("Boson Token"), "name")
	c.Invoke(t, stackitem.Make("BTK"), "symbol")
	c.Invoke(t, stackitem.Make(tokenconst.Decimals), "decimals")
	c.Invoke(t, stackitem.Make(0), "totalSupply")
	c.Invoke(t, stackitem.Make(tokenUnitPrice), "unitPrice")
	c.Invoke(t, stackitem.NewBuffer(c.CommitteeHash.BytesBE()), "owner")
	c.Invoke(t, stackitem.Make(common.Version), "version")
}

func TestTokenComputePrice(t *testing.T) {
	c := newTokenInvoker(t)

	c.Invoke(t, stackitem.Make(0), "computePrice", 0)
	c.Invoke(t, stackitem.Make(tokenUnitPrice), "computePrice", tokenUnit)
	c.Invoke(t, stackitem.Make(5*tokenUnitPrice), "computePrice", 5*tokenUnit)

	// fraction of a unit price is rounded down
	c.Invoke(t, stackitem.Make(tokenUnitPrice/2), "computePrice", tokenUnit/2)
}

func TestTokenCredit(t *testing.T) {
	c := newTokenInvoker(t)

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)

	const amount = 2 * tokenUnit
	payment := tokenPrice(amount)

	cAcc.InvokeFail(t, tokenconst.ErrInsufficientPayment, "credit", acc.ScriptHash(), amount, payment-1)
	c.InvokeFail(t, common.ErrWitnessFailed, "credit", acc.ScriptHash(), amount, payment)

	tx := cAcc.Invoke(t, stackitem.Null{}, "credit", acc.ScriptHash(), amount, payment)
	c.CheckTxNotificationEvent(t, tx, 1, state.NotificationEvent{
		ScriptHash: c.Hash,
		Name:       "Transfer",
		Item: stackitem.NewArray([]stackitem.Item{
			stackitem.Null{},
			stackitem.NewByteArray(acc.ScriptHash().BytesBE()),
			stackitem.Make(amount),
		}),
	})

	c.Invoke(t, stackitem.Make(amount), "balanceOf", acc.ScriptHash())
	c.Invoke(t, stackitem.Make(amount), "totalSupply")

	// the payment settles on the contract account
	gasInvoker := c.CommitteeInvoker(c.NativeHash(t, nativenames.Gas))
	gasInvoker.Invoke(t, stackitem.Make(payment), "balanceOf", c.Hash)

	// overpayment is kept as well
	cAcc.Invoke(t, stackitem.Null{}, "credit", acc.ScriptHash(), amount, 2*payment)
	c.Invoke(t, stackitem.Make(2*amount), "balanceOf", acc.ScriptHash())
	gasInvoker.Invoke(t, stackitem.Make(3*payment), "balanceOf", c.Hash)
}

func TestTokenTransfer(t *testing.T) {
	c := newTokenInvoker(t)

	acc1 := c.NewAccount(t)
	acc2 := c.NewAccount(t)
	cAcc1 := c.WithSigners(acc1)

	const amount = 3 * tokenUnit
	cAcc1.Invoke(t, stackitem.Null{}, "credit", acc1.ScriptHash(), amount, tokenPrice(amount))

	c.InvokeFail(t, common.ErrWitnessFailed, "transfer", acc1.ScriptHash(), acc2.ScriptHash(), tokenUnit)
	cAcc1.InvokeFail(t, tokenconst.ErrInsufficientBalance, "transfer", acc1.ScriptHash(), acc2.ScriptHash(), amount+1)
	cAcc1.InvokeFail(t, "negative amount", "transfer", acc1.ScriptHash(), acc2.ScriptHash(), -1)

	tx := cAcc1.Invoke(t, stackitem.Null{}, "transfer", acc1.ScriptHash(), acc2.ScriptHash(), tokenUnit)
	c.CheckTxNotificationEvent(t, tx, 0, state.NotificationEvent{
		ScriptHash: c.Hash,
		Name:       "Transfer",
		Item: stackitem.NewArray([]stackitem.Item{
			stackitem.NewByteArray(acc1.ScriptHash().BytesBE()),
			stackitem.NewByteArray(acc2.ScriptHash().BytesBE()),
			stackitem.Make(tokenUnit),
		}),
	})

	c.Invoke(t, stackitem.Make(amount-tokenUnit), "balanceOf", acc1.ScriptHash())
	c.Invoke(t, stackitem.Make(tokenUnit), "balanceOf", acc2.ScriptHash())

	// transfers conserve the supply
	c.Invoke(t, stackitem.Make(amount), "totalSupply")
}

func TestTokenApprove(t *testing.T) {
	c := newTokenInvoker(t)

	owner := c.NewAccount(t)
	spender := c.NewAccount(t)
	cOwner := c.WithSigners(owner)

	c.Invoke(t, stackitem.Make(0), "allowance", owner.ScriptHash(), spender.ScriptHash())

	c.InvokeFail(t, common.ErrWitnessFailed, "approve", owner.ScriptHash(), spender.ScriptHash(), tokenUnit)

	tx := cOwner.Invoke(t, stackitem.Null{}, "approve", owner.ScriptHash(), spender.ScriptHash(), tokenUnit)
	c.CheckTxNotificationEvent(t, tx, 0, state.NotificationEvent{
		ScriptHash: c.Hash,
		Name:       "Approval",
		Item: stackitem.NewArray([]stackitem.Item{
			stackitem.NewByteArray(owner.ScriptHash().BytesBE()),
			stackitem.NewByteArray(spender.ScriptHash().BytesBE()),
			stackitem.Make(tokenUnit),
		}),
	})

	c.Invoke(t, stackitem.Make(tokenUnit), "allowance", owner.ScriptHash(), spender.ScriptHash())

	// a new approval overwrites the previous one
	cOwner.Invoke(t, stackitem.Null{}, "approve", owner.ScriptHash(), spender.ScriptHash(), 2*tokenUnit)
	c.Invoke(t, stackitem.Make(2*tokenUnit), "allowance", owner.ScriptHash(), spender.ScriptHash())

	cOwner.Invoke(t, stackitem.Null{}, "approve", owner.ScriptHash(), spender.ScriptHash(), 0)
	c.Invoke(t, stackitem.Make(0), "allowance", owner.ScriptHash(), spender.ScriptHash())
}

func TestTokenTransferFrom(t *testing.T) {
	c := newTokenInvoker(t)

	owner := c.NewAccount(t)
	spender := c.NewAccount(t)
	receiver := c.NewAccount(t)
	cOwner := c.WithSigners(owner)
	cSpender := c.WithSigners(spender)

	const amount = 2 * tokenUnit
	cOwner.Invoke(t, stackitem.Null{}, "credit", owner.ScriptHash(), amount, tokenPrice(amount))

	cSpender.InvokeFail(t, tokenconst.ErrInsufficientAllowance, "transferFrom",
		spender.ScriptHash(), owner.ScriptHash(), receiver.ScriptHash(), tokenUnit)

	cOwner.Invoke(t, stackitem.Null{}, "approve", owner.ScriptHash(), spender.ScriptHash(), 3*tokenUnit)

	c.InvokeFail(t, common.ErrWitnessFailed, "transferFrom",
		spender.ScriptHash(), owner.ScriptHash(), receiver.ScriptHash(), tokenUnit)

	// allowance may exceed the balance, the transfer still fails
	cSpender.InvokeFail(t, tokenconst.ErrInsufficientBalance, "transferFrom",
		spender.ScriptHash(), owner.ScriptHash(), receiver.ScriptHash(), 3*tokenUnit)

	cSpender.Invoke(t, stackitem.Null{}, "transferFrom",
		spender.ScriptHash(), owner.ScriptHash(), receiver.ScriptHash(), tokenUnit)

	c.Invoke(t, stackitem.Make(amount-tokenUnit), "balanceOf", owner.ScriptHash())
	c.Invoke(t, stackitem.Make(tokenUnit), "balanceOf", receiver.ScriptHash())
	c.Invoke(t, stackitem.Make(2*tokenUnit), "allowance", owner.ScriptHash(), spender.ScriptHash())
}

func TestTokenTransferOwnership(t *testing.T) {
	c := newTokenInvoker(t)

	newOwner := c.NewAccount(t)
	cNewOwner := c.WithSigners(newOwner)

	cNewOwner.InvokeFail(t, common.ErrNotAuthorized, "transferOwnership", newOwner.ScriptHash())

	c.Invoke(t, stackitem.Null{}, "transferOwnership", newOwner.ScriptHash())
	c.Invoke(t, stackitem.NewBuffer(newOwner.ScriptHash().BytesBE()), "owner")

	// the previous owner is an ordinary account now
	c.InvokeFail(t, common.ErrNotAuthorized, "transferOwnership", c.CommitteeHash)
}

func TestTokenUpdate(t *testing.T) {
	c := newTokenInvoker(t)

	notOwner := c.NewAccount(t)
	cNotOwner := c.WithSigners(notOwner)
	cNotOwner.InvokeFail(t, common.ErrNotAuthorized, "update", []byte{}, []byte{}, nil)

	// the update path is open for deployed contracts of the previous version
	require.Less(t, common.PrevVersion, common.Version)
}
