package main

import (
	"fmt"
	"os"

	"github.com/subosito/gotenv"
)

func main() {
	_ = gotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
