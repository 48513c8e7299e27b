// salestune tunes per-category sales forecast models from daily history and
// writes one forecast artifact per (category, target) pair.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
