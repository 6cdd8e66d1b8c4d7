// Command gorotor encrypts files with a rotor stack followed by AES-256-CBC.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/gorotor/internal/commands"
)

// Set via ldflags at build time.
var version = "unknown"

func main() {
	if err := commands.NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}
}
