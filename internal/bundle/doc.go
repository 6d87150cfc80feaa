// Package bundle reads and writes the 48-byte marker that ties a Setup
// executable to the package appended to it.
//
// The marker is a static byte array compiled into every binary importing
// this package. Its layout is fixed: a little-endian int64 payload offset,
// a little-endian int64 payload length, then a 32-byte signature (SHA-256 of
// "squirrel bundle"). The stamping step (Stamp, or `setupkit bundle`) finds
// the signature in the template file and overwrites the 16 bytes in front of
// it. The running process only ever reads the marker.
package bundle
