/*
Package token implements Boson Token contract.

Token contract stores fungible marketplace token balances. Tokens are minted
on demand with Credit against a native GAS payment: the price of one whole
token in GAS fractions is fixed at deploy. The contract keeps a higher (12)
decimal precision than native GAS to support micro payments of the
marketplace.

Besides direct transfers, the contract supports delegated transfers through
an allowance table: an account owner approves a spender for an amount and
the spender later moves up to that amount with TransferFrom. The escrow
contract is the main consumer of this mechanism.

# Contract notifications

Transfer notification. Minting produces it with empty from field.

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer

Approval notification. Produced when an allowance is set.

	Approval:
	  - name: owner
	    type: Hash160
	  - name: spender
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package token

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'supply' -> int
   total amount of minted token fractions
 - 'unitPrice' -> int
   price of one whole token in GAS fractions, set at deploy
 - 'owner' -> interop.Hash160
   contract owner
 - b<interop.Hash160> -> int
   token balance of the account
 - a<interop.Hash160><interop.Hash160> -> int
   allowance of the spender (second hash) over the owner (first hash) account

Zero balances and allowances are not stored, their keys are removed.
*/
