// Command stylelens-cli runs the product-term pipeline over text from the
// command line, without the HTTP server or any collaborator.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
