package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/bosonplayground/blockchain-challenge/rpc/escrow"
	"github.com/bosonplayground/blockchain-challenge/rpc/market"
	"github.com/bosonplayground/blockchain-challenge/rpc/token"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	marketHashStr := flag.String("market", "", "Script hash of the market contract (LE hex)")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *marketHashStr == "":
		log.Fatal("missing market contract hash")
	}

	marketHash, err := util.Uint160DecodeStringLE(*marketHashStr)
	if err != nil {
		log.Fatal(fmt.Errorf("decode market contract hash: %w", err))
	}

	err = dump(*neoRPCEndpoint, marketHash)
	if err != nil {
		log.Fatal(err)
	}
}

// dump prints the state of the whole contract suite reachable from the
// market contract: token parameters, escrow binding and the full item
// catalog.
func dump(neoBlockchainRPCEndpoint string, marketHash util.Uint160) error {
	b, err := newRemoteBlockchain(neoBlockchainRPCEndpoint)
	if err != nil {
		return fmt.Errorf("init remote blockchain: %w", err)
	}

	defer b.close()

	marketReader := market.NewReader(b.invoker, marketHash)

	escrowHash, err := marketReader.EscrowAddress()
	if err != nil {
		return fmt.Errorf("get escrow contract address: %w", err)
	}

	escrowReader := escrow.NewReader(b.invoker, escrowHash)

	tokenHash, err := escrowReader.TokenAddress()
	if err != nil {
		return fmt.Errorf("get token contract address: %w", err)
	}

	tokenReader := token.NewReader(b.invoker, tokenHash)

	symbol, err := tokenReader.Symbol()
	if err != nil {
		return fmt.Errorf("get token symbol: %w", err)
	}

	supply, err := tokenReader.TotalSupply()
	if err != nil {
		return fmt.Errorf("get token total supply: %w", err)
	}

	unitPrice, err := tokenReader.UnitPrice()
	if err != nil {
		return fmt.Errorf("get token unit price: %w", err)
	}

	nbOrders, err := marketReader.NbOrders()
	if err != nil {
		return fmt.Errorf("get order count: %w", err)
	}

	fmt.Printf("market:    %s\n", marketHash.StringLE())
	fmt.Printf("escrow:    %s\n", escrowHash.StringLE())
	fmt.Printf("token:     %s (%s, unit price %s, supply %s)\n",
		tokenHash.StringLE(), symbol, unitPrice, supply)
	fmt.Printf("orders:    %s\n", nbOrders)

	return dumpCatalog(b, marketReader)
}

// dumpCatalog walks the item catalog through an iterator session and prints
// every registered item.
func dumpCatalog(b *remoteBlockchain, reader *market.ContractReader) error {
	sessionID, iter, err := reader.IterateItems()
	if err != nil {
		return fmt.Errorf("open item iterator: %w", err)
	}

	defer func() {
		_ = b.invoker.TerminateSession(sessionID)
	}()

	const batchSize = 100

	for {
		batch, err := b.invoker.TraverseIterator(sessionID, &iter, batchSize)
		if err != nil {
			return fmt.Errorf("traverse item iterator: %w", err)
		}

		if len(batch) == 0 {
			return nil
		}

		for _, kv := range batch {
			pair, ok := kv.Value().([]stackitem.Item)
			if !ok || len(pair) != 2 {
				return fmt.Errorf("unexpected iterator element %s", kv.Type())
			}

			id, err := pair[0].TryInteger()
			if err != nil {
				return fmt.Errorf("item id: %w", err)
			}

			var item market.MarketItem
			if err := item.FromStackItem(pair[1]); err != nil {
				return fmt.Errorf("item %s: %w", id, err)
			}

			fmt.Printf("item %s: %q price %s available %s ordered %s seller %s\n",
				id, string(item.Title), item.Price, item.AvailableQuantity,
				item.OrderedQuantity, item.Seller.StringLE())
		}
	}
}
