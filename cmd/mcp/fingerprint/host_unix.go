// Copyright 2026 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package fingerprint

import (
	"os"
	"runtime"

	"golang.org/x/sys/unix"
)

// hostInfo describes the local OS using uname(2).
func hostInfo() OSInfo {
	info := OSInfo{
		System:    runtime.GOOS,
		Machine:   runtime.GOARCH,
		Processor: runtime.GOARCH,
	}

	var u unix.Utsname
	if err := unix.Uname(&u); err == nil {
		info.System = unix.ByteSliceToString(u.Sysname[:])
		info.Release = unix.ByteSliceToString(u.Release[:])
		info.Version = unix.ByteSliceToString(u.Version[:])
		info.Machine = unix.ByteSliceToString(u.Machine[:])
		info.Processor = info.Machine
	}

	info.Hostname, _ = os.Hostname()
	return info
}
