// Package handoff builds Windows-style command lines and launches child
// processes from them, either waiting for the exit code or detaching.
//
// A command line is a single string, program first. On Windows it is handed
// to CreateProcess unchanged; on other systems it is split back into argv
// with the same rules CommandLineToArgvW applies.
package handoff
