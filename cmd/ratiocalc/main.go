// Command ratiocalc applies and reverses token ratios and fees from the
// command line.
package main

import (
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
