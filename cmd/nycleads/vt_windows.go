//go:build windows

package main

import (
	"os"

	"golang.org/x/sys/windows"
)

// enableVT switches the console to VT mode: arrow keys reach browse as CSI
// sequences on stdin and the redraw codes render on stdout. Redirected
// handles are not consoles and are left alone.
func enableVT() {
	setConsoleFlag(os.Stdin, windows.ENABLE_VIRTUAL_TERMINAL_INPUT)
	setConsoleFlag(os.Stdout, windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING)
}

func setConsoleFlag(f *os.File, flag uint32) {
	h := windows.Handle(f.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return
	}
	if mode&flag == 0 {
		windows.SetConsoleMode(h, mode|flag)
	}
}
