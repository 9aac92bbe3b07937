package main

import (
	"fmt"
	"os"

	"github.com/JayWelsh/claim-against-nft/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "nftclaim: %v\n", err)
		os.Exit(1)
	}
}
