// Command vestro runs the investment research workflow service.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "vestro:", err)
		os.Exit(1)
	}
}
