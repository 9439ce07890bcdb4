package main

import (
	"fmt"
	"os"

	"github.com/giovaniif/cart/cmd/api"
)

func main() {
	if err := api.StartServer(); err != nil {
		fmt.Fprintf(os.Stderr, "cart: %v\n", err)
		os.Exit(1)
	}
}
