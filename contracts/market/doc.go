/*
Package market implements Boson Market contract.

Market contract keeps the item catalog and the order book of the
marketplace. Sellers register offers with OfferItem, buyers place orders
with Order and later resolve them either with Complete, which settles the
escrowed payment to the sellers, or with Complain, which refunds it. An
order is resolved exactly once.

All money movement goes through the escrow contract the market owns: placing
an order locks the total in escrow, completion pays every item's seller its
own share, a complaint returns the whole total to the buyer. A failure
anywhere in the chain (allowance, balance, inventory) faults the transaction
and leaves no partial state.

Notifications carry enough data for an external indexer to reconstruct the
full catalog and order history without replaying invocations.

# Contract notifications

NewItem notification. Produced when a seller registers an offer.

	NewItem:
	  - name: itemId
	    type: Integer
	  - name: seller
	    type: Hash160
	  - name: title
	    type: ByteArray
	  - name: price
	    type: Integer
	  - name: quantity
	    type: Integer

NewOrder notification. Produced when a buyer places an order.

	NewOrder:
	  - name: orderId
	    type: Integer
	  - name: buyer
	    type: Hash160

OrderCompleted notification. Produced when a buyer accepts an order.

	OrderCompleted:
	  - name: orderId
	    type: Integer
	  - name: buyer
	    type: Hash160

OrderComplained notification. Produced when a buyer disputes an order.

	OrderComplained:
	  - name: orderId
	    type: Integer
	  - name: buyer
	    type: Hash160
*/
package market

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'escrowScriptHash' -> interop.Hash160
   script hash of the escrow contract, set at deploy
 - 'owner' -> interop.Hash160
   contract owner
 - 'nbItems' -> int
   amount of registered items, next item id
 - 'nbOrders' -> int
   amount of placed orders, next order id
 - i<id> -> std.Serialize(Item)
   item registered under the id
 - o<id> -> std.Serialize(OrderData)
   order registered under the id
 - c<interop.Hash160> -> std.Serialize([]int)
   ids of all orders the buyer has placed
*/
