// Copyright 2026 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package fingerprint

import (
	"os"
	"runtime"
)

func hostInfo() OSInfo {
	info := OSInfo{
		System:    runtime.GOOS,
		Machine:   runtime.GOARCH,
		Processor: runtime.GOARCH,
	}
	info.Hostname, _ = os.Hostname()
	return info
}
