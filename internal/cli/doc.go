// Package cli defines the Cobra command trees for the three binaries: the
// setupkit developer tool, the Setup bootstrapper and the application stub.
// Commands only parse flags and format output; the work happens in the
// internal packages they call.
package cli
