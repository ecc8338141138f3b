//go:build !windows

package main

import (
	"os/exec"
	"syscall"
)

// setSysProcAttr detaches the server process into its own session
func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}
}
