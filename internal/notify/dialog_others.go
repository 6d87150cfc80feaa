//go:build !windows

package notify

// Default returns the notifier for this platform: the console.
func Default() Notifier {
	return NewConsole()
}
