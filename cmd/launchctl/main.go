// Command launchctl syncs and inspects the launch table from a shell.
package main

import (
	"fmt"
	"os"

	"github.com/launchsync/launchsync/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
