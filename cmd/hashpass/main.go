// Command hashpass generates the bcrypt passphrase hash for the config
// file's auth.passphrase_hash field.
package main

import (
	"fmt"
	"os"

	"github.com/pokernight/ledger/internal/auth"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: hashpass <passphrase>")
		os.Exit(2)
	}

	hash, err := auth.HashPassphrase(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
