package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

const (
	// ErrWitnessFailed appears when the method must be called on behalf
	// of a certain account but was not.
	ErrWitnessFailed = "witness check failed"
	// ErrNotAuthorized appears when the method is restricted to a
	// designated account (the contract owner or a record owner) and the
	// caller is not it.
	ErrNotAuthorized = "not authorized"
)

// CanActAs returns true if the current invocation is authorized to act on
// behalf of addr: either addr witnessed the transaction or addr is the
// calling contract. The second case lets a contract that owns another
// contract invoke its restricted methods.
func CanActAs(addr interop.Hash160) bool {
	if len(addr) != interop.Hash160Len {
		return false
	}

	if runtime.CheckWitness(addr) {
		return true
	}

	return runtime.GetCallingScriptHash().Equals(addr)
}

// CheckWitness checks that the invocation acts on behalf of caller.
// It panics with ErrWitnessFailed message on fail.
func CheckWitness(caller interop.Hash160) {
	if !CanActAs(caller) {
		panic(ErrWitnessFailed)
	}
}

// CheckOwner checks that the invocation acts on behalf of the designated
// owner account. It panics with ErrNotAuthorized message on fail.
func CheckOwner(owner interop.Hash160) {
	if !CanActAs(owner) {
		panic(ErrNotAuthorized)
	}
}
