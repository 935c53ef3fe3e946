// ./main.go
package main

import (
	"github.com/onboardkit/onboardkit/cmd"
)

// main is the entry point for the onboardkit CLI.
func main() {
	cmd.Execute()
}
