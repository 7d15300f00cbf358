/*
Package escrow implements Boson Escrow contract.

Escrow contract locks marketplace tokens of buyers until their orders are
resolved. All mutating methods are restricted to the contract owner, which is
handed over to the market contract right after deploy, so the market contract
is the only party able to lock and release funds.

Funds enter the escrow with PlacePayment as a delegated transfer from the
payer (the payer must approve the escrow contract as a spender in the token
contract first). They leave it either back to the payer with Refund or to a
payee with Pay. Escrowed balances are confidential: BalanceOf answers only to
the account itself and to the contract owner.

The contract produces no notifications of its own, the underlying token
contract emits Transfer for every movement.
*/
package escrow

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'tokenScriptHash' -> interop.Hash160
   script hash of the token contract, set at deploy
 - 'owner' -> interop.Hash160
   contract owner
 - e<interop.Hash160> -> int
   escrowed token balance of the account

Zero escrow balances are not stored, their keys are removed.
*/
