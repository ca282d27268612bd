//go:build !windows

package main

// enableVirtualTerminal is a no-op outside Windows: every other terminal
// this targets already understands ANSI escapes and UTF-8 natively.
func enableVirtualTerminal() {}
