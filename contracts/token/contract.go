package token

import (
	"github.com/bosonplayground/blockchain-challenge/common"
	"github.com/bosonplayground/blockchain-challenge/contracts/token/tokenconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Token holds all token info.
type Token struct {
	// Token name
	Name string
	// Ticker symbol
	Symbol string
	// Amount of decimals
	Decimals int
	// Storage key for circulation value
	SupplyKey string
}

const (
	name        = "Boson Token"
	symbol      = "BTK"
	decimals    = tokenconst.Decimals
	circulation = "supply"

	unitPriceKey = "unitPrice"
	ownerKey     = "owner"

	balancePrefix   = 'b'
	allowancePrefix = 'a'
)

var token Token

func createToken() Token {
	return Token{
		Name:      name,
		Symbol:    symbol,
		Decimals:  decimals,
		SupplyKey: circulation,
	}
}

func init() {
	token = createToken()
}

// OnNEP17Payment is a callback for NEP-17 compatible native GAS contract.
// The only payments the token contract takes are those collected by Credit.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(gas.Hash) {
		common.AbortWithMessage("token contract accepts GAS only")
	}
}

// nolint:unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		version := args[len(args)-1].(int)

		common.CheckVersion(version)

		return
	}

	args := data.([]any)
	owner := args[0].(interop.Hash160)
	unitPrice := args[1].(int)

	if len(owner) != interop.Hash160Len {
		panic("invalid owner")
	}

	if unitPrice <= 0 {
		panic("invalid unit price")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, ownerKey, owner)
	storage.Put(ctx, unitPriceKey, unitPrice)

	runtime.Log("token contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the contract owner.
func Update(nefFile, manifest []byte, data any) {
	ctx := storage.GetReadOnlyContext()
	common.CheckOwner(getOwner(ctx))

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("token contract updated")
}

// Name returns the token display name.
func Name() string {
	return token.Name
}

// Symbol returns the token ticker symbol.
func Symbol() string {
	return token.Symbol
}

// Decimals returns the precision of token balances.
func Decimals() int {
	return token.Decimals
}

// TotalSupply returns the total amount of minted tokens.
func TotalSupply() int {
	ctx := storage.GetReadOnlyContext()
	return token.getSupply(ctx)
}

// BalanceOf returns the token balance of the specified account.
func BalanceOf(account interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return getBalance(ctx, account)
}

// Allowance returns the amount the spender is still allowed to transfer from
// the owner account, see [Approve].
func Allowance(owner, spender interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return getAllowance(ctx, owner, spender)
}

// UnitPrice returns the price of one whole token in GAS fractions. It is set
// at deploy and never changes.
func UnitPrice() int {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, unitPriceKey).(int)
}

// ComputePrice returns the GAS price of the specified amount of token
// fractions. The result is rounded down.
func ComputePrice(amount int) int {
	ctx := storage.GetReadOnlyContext()
	return computePrice(ctx, amount)
}

// Credit mints amount of token fractions to the specified account against a
// GAS payment. It can be invoked only on behalf of the account. Payment must
// cover [ComputePrice] of amount, any excess is kept by the contract.
//
// It produces Transfer notification with empty sender.
func Credit(to interop.Hash160, amount, payment int) {
	common.CheckWitness(to)

	if amount < 0 {
		panic("negative amount")
	}

	ctx := storage.GetContext()
	if payment < computePrice(ctx, amount) {
		panic(tokenconst.ErrInsufficientPayment)
	}

	if !gas.Transfer(to, runtime.GetExecutingScriptHash(), payment, nil) {
		panic("failed to collect payment")
	}

	setBalance(ctx, to, getBalance(ctx, to)+amount)
	storage.Put(ctx, token.SupplyKey, token.getSupply(ctx)+amount)

	runtime.Notify("Transfer", interop.Hash160(nil), to, amount)
}

// Transfer moves amount of token fractions from one account to another. It
// can be invoked only on behalf of the sender account.
//
// It produces Transfer notification.
func Transfer(from, to interop.Hash160, amount int) {
	common.CheckWitness(from)

	if len(to) != interop.Hash160Len {
		panic("invalid receiver")
	}

	if amount < 0 {
		panic("negative amount")
	}

	ctx := storage.GetContext()
	move(ctx, from, to, amount)

	runtime.Notify("Transfer", from, to, amount)
}

// Approve sets the amount of token fractions the spender may transfer from
// the owner account with [TransferFrom]. It overwrites any previous
// allowance. It can be invoked only on behalf of the owner account.
//
// It produces Approval notification.
func Approve(owner, spender interop.Hash160, amount int) {
	common.CheckWitness(owner)

	if len(spender) != interop.Hash160Len {
		panic("invalid spender")
	}

	if amount < 0 {
		panic("negative amount")
	}

	ctx := storage.GetContext()
	key := allowanceKey(owner, spender)
	if amount == 0 {
		storage.Delete(ctx, key)
	} else {
		storage.Put(ctx, key, amount)
	}

	runtime.Notify("Approval", owner, spender, amount)
}

// TransferFrom moves amount of token fractions from one account to another
// on behalf of the spender, decreasing the spender allowance. It can be
// invoked only on behalf of the spender, see [Approve].
//
// It produces Transfer notification.
func TransferFrom(spender, from, to interop.Hash160, amount int) {
	common.CheckWitness(spender)

	if len(to) != interop.Hash160Len {
		panic("invalid receiver")
	}

	if amount < 0 {
		panic("negative amount")
	}

	ctx := storage.GetContext()
	allowed := getAllowance(ctx, from, spender)
	if allowed < amount {
		panic(tokenconst.ErrInsufficientAllowance)
	}

	key := allowanceKey(from, spender)
	if allowed == amount {
		storage.Delete(ctx, key)
	} else {
		storage.Put(ctx, key, allowed-amount)
	}

	move(ctx, from, to, amount)

	runtime.Notify("Transfer", from, to, amount)
}

// Owner returns the script hash of the contract owner.
func Owner() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getOwner(ctx)
}

// TransferOwnership hands contract ownership over to another account. It can
// be invoked only by the current owner.
func TransferOwnership(newOwner interop.Hash160) {
	if len(newOwner) != interop.Hash160Len {
		panic("invalid new owner")
	}

	ctx := storage.GetContext()
	common.CheckOwner(getOwner(ctx))

	storage.Put(ctx, ownerKey, newOwner)
	runtime.Log("token contract ownership transferred")
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// getSupply gets the token totalSupply value from VM storage.
func (t Token) getSupply(ctx storage.Context) int {
	supply := storage.Get(ctx, t.SupplyKey)
	if supply != nil {
		return supply.(int)
	}

	return 0
}

func computePrice(ctx storage.Context, amount int) int {
	unitPrice := storage.Get(ctx, unitPriceKey).(int)
	return unitPrice * amount / tokenconst.UnitScale
}

func move(ctx storage.Context, from, to interop.Hash160, amount int) {
	fromBalance := getBalance(ctx, from)
	if fromBalance < amount {
		panic(tokenconst.ErrInsufficientBalance)
	}

	setBalance(ctx, from, fromBalance-amount)
	setBalance(ctx, to, getBalance(ctx, to)+amount)
}

func getBalance(ctx storage.Context, holder interop.Hash160) int {
	balance := storage.Get(ctx, append([]byte{balancePrefix}, holder...))
	if balance != nil {
		return balance.(int)
	}

	return 0
}

func setBalance(ctx storage.Context, holder interop.Hash160, balance int) {
	key := append([]byte{balancePrefix}, holder...)
	if balance == 0 {
		storage.Delete(ctx, key)
	} else {
		storage.Put(ctx, key, balance)
	}
}

func allowanceKey(owner, spender interop.Hash160) []byte {
	key := append([]byte{allowancePrefix}, owner...)
	return append(key, spender...)
}

func getAllowance(ctx storage.Context, owner, spender interop.Hash160) int {
	allowance := storage.Get(ctx, allowanceKey(owner, spender))
	if allowance != nil {
		return allowance.(int)
	}

	return 0
}

func getOwner(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, ownerKey).(interop.Hash160)
}
