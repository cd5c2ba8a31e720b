// ohactl is an interactive REPL for exercising an in-memory tpht.Table.
//
// Usage:
//
//	ohactl [--key-size N] [--value-size N] [--max-elems N] [--config FILE]
//
// Commands (in REPL):
//
//	insert <key> <value> [slot]   Insert or fetch an entry
//	get <key>                     Retrieve an entry by key
//	del <key>                     Delete an entry
//	slot <timeout> <max-elems>    Register a new timeout slot
//	setslot <key> <slot>          Move a key into a timeout slot
//	touch <key> <timestamp>       Update an entry's timeout timestamp
//	time <timestamp>              Advance the table's global clock
//	sweep [limit]                 Report and evict expired entries
//	len                           Count live entries
//	help                          Show this help
//	exit / quit / q               Exit
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
