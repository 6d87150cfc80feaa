// Package platform provides the OS shims setup and the stub need: resolving
// the running executable, recognising UNC paths, checking token elevation,
// permission bits, and following the "current" version link. On Windows the
// elevation check queries the process token; elsewhere it reports false.
package platform
