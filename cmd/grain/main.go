// Command grain builds and inspects datasets registered in this
// binary.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
