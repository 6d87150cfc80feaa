// Command stub starts the installed version of the application it is named
// after, forwarding its command line.
//
// Build it as a GUI program so shortcuts do not flash a console window:
//
//	GOOS=windows go build -ldflags "-H=windowsgui" -o MyApp.exe ./cmd/stub
package main

import (
	"os"

	"github.com/squirrel-labs/squirrel-setup/internal/cli"
)

func main() {
	os.Exit(cli.ExecuteStub())
}
