// Copyright 2026 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package fingerprint

import (
	"io/fs"
	"regexp"
	"runtime"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/bmatcuk/doublestar/v4"
)

var (
	glibcPatterns = []string{
		"lib*/libc.so.6",
		"lib*/*/libc.so.6",
		"usr/lib*/libc.so.6",
		"usr/lib*/*/libc.so.6",
	}
	muslPatterns = []string{
		"lib/ld-musl-*.so.1",
		"usr/lib/ld-musl-*.so.1",
	}
	glibcSymbol = regexp.MustCompile(`GLIBC_([0-9]+\.[0-9]+(?:\.[0-9]+)?)`)
)

// platformInfo describes the running binary and the C library found in fsys.
func platformInfo(fsys fs.FS) PlatformInfo {
	return PlatformInfo{
		RuntimeVersion:        runtime.Version(),
		RuntimeImplementation: runtime.Compiler,
		LibcVersion:           libcVersion(fsys),
	}
}

// processPlatform returns a func reporting the platform of the running
// process. fsys is scanned on the first call only.
func processPlatform(fsys fs.FS) func() PlatformInfo {
	return sync.OnceValue(func() PlatformInfo {
		return platformInfo(fsys)
	})
}

// libcVersion returns the (library, version) pair of the system C library.
// For glibc the version is the highest GLIBC_ symbol version in libc.so.6.
// Both elements are empty when no C library is found.
func libcVersion(fsys fs.FS) [2]string {
	for _, pattern := range glibcPatterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			continue
		}
		for _, match := range matches {
			data, err := fs.ReadFile(fsys, match)
			if err != nil {
				continue
			}
			if v := highestGlibcSymbol(data); v != "" {
				return [2]string{"glibc", v}
			}
		}
	}

	for _, pattern := range muslPatterns {
		if matches, err := doublestar.Glob(fsys, pattern); err == nil && len(matches) > 0 {
			return [2]string{"musl", ""}
		}
	}

	return [2]string{"", ""}
}

func highestGlibcSymbol(data []byte) string {
	var best *semver.Version
	var bestRaw string
	for _, m := range glibcSymbol.FindAllSubmatch(data, -1) {
		v, err := semver.NewVersion(string(m[1]))
		if err != nil {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
			bestRaw = string(m[1])
		}
	}
	return bestRaw
}
