// Command setup is the bootstrapper template. Stamp a package into a built
// copy with "setupkit bundle" to produce a distributable setup program.
//
// Build it as a GUI program so no console window opens when it is
// double-clicked:
//
//	GOOS=windows go build -ldflags "-H=windowsgui" -o Setup.exe ./cmd/setup
package main

import (
	"os"

	"github.com/squirrel-labs/squirrel-setup/internal/cli"
)

// version, commit, and date are set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(cli.ExecuteSetup(version, commit, date))
}
