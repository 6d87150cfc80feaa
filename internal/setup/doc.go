// Package setup runs one bootstrap: map the host executable, locate the
// embedded package, check disk space, extract the updater, hand off to it
// and clean up.
//
// Every failure funnels into Bootstrapper.Run, which is the only place that
// talks to the user. Cleanup runs on every path out of Bootstrap.
package setup
