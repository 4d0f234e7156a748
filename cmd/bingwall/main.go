// Bing Wallpaper Client - CLI and refresh daemon.
package main

import (
	"os"

	"github.com/bingwall/bingwall/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
