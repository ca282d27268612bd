//go:build windows

package main

import (
	"golang.org/x/sys/windows"
)

// enableVirtualTerminal switches the console to UTF-8 and turns on ANSI
// escape processing, so the colored diagnostic/output lines in run() render
// instead of printing raw escape codes.
func enableVirtualTerminal() {
	windows.SetConsoleOutputCP(windows.CP_UTF8)

	for _, handle := range []windows.Handle{windows.Stdout, windows.Stderr} {
		var mode uint32
		if err := windows.GetConsoleMode(handle, &mode); err != nil {
			continue
		}
		windows.SetConsoleMode(handle, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING)
	}
}
