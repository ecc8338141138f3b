//go:build windows

package main

import (
	"os/exec"
	"syscall"
)

// setSysProcAttr hides the console window of the detached server process
func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: 0x00000008, // DETACHED_PROCESS
	}
}
