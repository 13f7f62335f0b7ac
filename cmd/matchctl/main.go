// Command matchctl is the operator CLI for the compatibility scorer: it ranks
// and scores users (against the database or an offline profile file), mints
// development tokens, generates signing keys and seeds the zodiac table.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
