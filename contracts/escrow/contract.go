package escrow

import (
	"github.com/bosonplayground/blockchain-challenge/common"
	"github.com/bosonplayground/blockchain-challenge/contracts/escrow/escrowconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	tokenKey = "tokenScriptHash"
	ownerKey = "owner"

	escrowPrefix = 'e'
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
	tokenHash := args[0].(interop.Hash160)
	owner := args[1].(interop.Hash160)

	if len(tokenHash) != interop.Hash160Len {
		panic("invalid token contract")
	}

	if len(owner) != interop.Hash160Len {
		panic("invalid owner")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, tokenKey, tokenHash)
	storage.Put(ctx, ownerKey, owner)

	runtime.Log("escrow contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the contract owner.
func Update(nefFile, manifest []byte, data any) {
	ctx := storage.GetReadOnlyContext()
	common.CheckOwner(getOwner(ctx))

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("escrow contract updated")
}

// PlacePayment locks amount of tokens of the payer in escrow. The tokens are
// pulled from the payer with a delegated token transfer, so the payer must
// have approved the escrow contract as a spender beforehand. It can be
// invoked only by the contract owner.
func PlacePayment(payer interop.Hash160, amount int) {
	ctx := storage.GetContext()
	common.CheckOwner(getOwner(ctx))

	if len(payer) != interop.Hash160Len {
		panic("invalid payer")
	}

	if amount < 0 {
		panic("negative amount")
	}

	self := runtime.GetExecutingScriptHash()
	contract.Call(getToken(ctx), "transferFrom", contract.All, self, payer, self, amount)

	setEscrow(ctx, payer, getEscrow(ctx, payer)+amount)
}

// Refund releases amount of escrowed tokens back to the payer. It can be
// invoked only by the contract owner.
func Refund(payer interop.Hash160, amount int) {
	ctx := storage.GetContext()
	common.CheckOwner(getOwner(ctx))

	if amount < 0 {
		panic("negative amount")
	}

	balance := getEscrow(ctx, payer)
	if balance < amount {
		panic(escrowconst.ErrBalanceTooLow)
	}

	setEscrow(ctx, payer, balance-amount)

	self := runtime.GetExecutingScriptHash()
	contract.Call(getToken(ctx), "transfer", contract.All, self, payer, amount)
}

// Pay releases amount of tokens escrowed by the payer to the payee. It can
// be invoked only by the contract owner.
func Pay(payer, payee interop.Hash160, amount int) {
	ctx := storage.GetContext()
	common.CheckOwner(getOwner(ctx))

	if len(payee) != interop.Hash160Len {
		panic("invalid payee")
	}

	if amount < 0 {
		panic("negative amount")
	}

	balance := getEscrow(ctx, payer)
	if balance < amount {
		panic(escrowconst.ErrBalanceTooLow)
	}

	setEscrow(ctx, payer, balance-amount)

	self := runtime.GetExecutingScriptHash()
	contract.Call(getToken(ctx), "transfer", contract.All, self, payee, amount)
}

// BalanceOf returns the escrowed balance of the specified account. It can be
// invoked only on behalf of the account itself or the contract owner.
func BalanceOf(account interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	if !common.CanActAs(account) && !common.CanActAs(getOwner(ctx)) {
		panic(common.ErrNotAuthorized)
	}

	return getEscrow(ctx, account)
}

// TokenAddress returns the script hash of the token contract the escrow
// operates on.
func TokenAddress() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getToken(ctx)
}

// Owner returns the script hash of the contract owner.
func Owner() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getOwner(ctx)
}

// TransferOwnership hands contract ownership over to another account. It can
// be invoked only by the current owner. The market contract is handed the
// ownership after deploy to become the sole escrow controller.
func TransferOwnership(newOwner interop.Hash160) {
	if len(newOwner) != interop.Hash160Len {
		panic("invalid new owner")
	}

	ctx := storage.GetContext()
	common.CheckOwner(getOwner(ctx))

	storage.Put(ctx, ownerKey, newOwner)
	runtime.Log("escrow contract ownership transferred")
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func getEscrow(ctx storage.Context, account interop.Hash160) int {
	balance := storage.Get(ctx, append([]byte{escrowPrefix}, account...))
	if balance != nil {
		return balance.(int)
	}

	return 0
}

func setEscrow(ctx storage.Context, account interop.Hash160, balance int) {
	key := append([]byte{escrowPrefix}, account...)
	if balance == 0 {
		storage.Delete(ctx, key)
	} else {
		storage.Put(ctx, key, balance)
	}
}

func getToken(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, tokenKey).(interop.Hash160)
}

func getOwner(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, ownerKey).(interop.Hash160)
}
