// Copyright 2026 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package resolver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/bmatcuk/doublestar/v4"
)

const (
	distInfoSuffix = ".dist-info"
	eggInfoSuffix  = ".egg-info"
)

var nameSeparators = regexp.MustCompile(`[-_.]+`)

// NormalizeName returns the PEP 503 normalized form of a distribution name.
func NormalizeName(name string) string {
	return strings.ToLower(nameSeparators.ReplaceAllString(strings.TrimSpace(name), "-"))
}

// DistInfoRegistry reads installed distribution metadata from
// Python site-packages directories.
type DistInfoRegistry struct {
	dirs []string
}

// NewDistInfoRegistry returns a registry searching the given
// site-packages directories in order.
func NewDistInfoRegistry(dirs ...string) *DistInfoRegistry {
	return &DistInfoRegistry{dirs: dirs}
}

// Dirs returns the searched site-packages directories.
func (r *DistInfoRegistry) Dirs() []string {
	return r.dirs
}

// installed is a distribution found in a site-packages directory.
type installed struct {
	version string
	path    string
}

// Version returns the version of the installed distribution matching name.
// When several site-packages directories hold a match, the highest version wins.
func (r *DistInfoRegistry) Version(ctx context.Context, name string) (string, error) {
	want := NormalizeName(name)
	if want == "" {
		return "", fmt.Errorf("%w: empty package name", ErrNotInstalled)
	}

	var found []installed
	for _, dir := range r.dirs {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		found = append(found, scanSitePackages(dir, want)...)
	}

	if len(found) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotInstalled, name)
	}
	return highest(found).version, nil
}

// scanSitePackages returns the distributions in dir whose normalized name is want.
// Unreadable directories and metadata files are skipped.
func scanSitePackages(dir, want string) []installed {
	matches, err := doublestar.Glob(os.DirFS(dir), "*{"+distInfoSuffix+","+eggInfoSuffix+"}")
	if err != nil {
		return nil
	}

	var result []installed
	for _, entry := range matches {
		if NormalizeName(distributionName(entry)) != want {
			continue
		}

		path := filepath.Join(dir, entry)
		version, err := readMetadataVersion(path)
		if err != nil || version == "" {
			continue
		}
		result = append(result, installed{version: version, path: path})
	}
	return result
}

// distributionName extracts the project name from a metadata directory name,
// e.g. "typing_extensions-4.9.0.dist-info" or "six-1.16.0-py3.11.egg-info".
func distributionName(entry string) string {
	base := strings.TrimSuffix(strings.TrimSuffix(entry, distInfoSuffix), eggInfoSuffix)
	if i := strings.Index(base, "-"); i > 0 {
		return base[:i]
	}
	return base
}

// readMetadataVersion reads the Version header of a dist-info or egg-info entry.
// Egg-info entries may be a directory holding PKG-INFO or the PKG-INFO file itself.
func readMetadataVersion(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	file := path
	if info.IsDir() {
		name := "METADATA"
		if strings.HasSuffix(path, eggInfoSuffix) {
			name = "PKG-INFO"
		}
		file = filepath.Join(path, name)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	return parseVersionField(data), nil
}

// highest returns the distribution with the greatest version.
// Versions that do not parse never replace the current pick.
func highest(found []installed) installed {
	best := found[0]
	bestVer, bestErr := semver.NewVersion(best.version)
	for _, candidate := range found[1:] {
		v, err := semver.NewVersion(candidate.version)
		if err != nil {
			continue
		}
		if bestErr != nil || v.GreaterThan(bestVer) {
			best, bestVer, bestErr = candidate, v, nil
		}
	}
	return best
}

// SitePackagesFromEnv returns the site-packages directories of the active
// virtual environment followed by the PYTHONPATH entries.
func SitePackagesFromEnv(lookupEnv func(string) (string, bool)) []string {
	var dirs []string

	if venv, ok := lookupEnv("VIRTUAL_ENV"); ok && venv != "" {
		for _, pattern := range []string{"{lib,lib64}/python*/site-packages", "Lib/site-packages"} {
			matches, err := doublestar.Glob(os.DirFS(venv), pattern)
			if err != nil {
				continue
			}
			for _, m := range matches {
				dirs = append(dirs, filepath.Join(venv, filepath.FromSlash(m)))
			}
		}
	}

	if pythonPath, ok := lookupEnv("PYTHONPATH"); ok && pythonPath != "" {
		for _, p := range filepath.SplitList(pythonPath) {
			if p != "" {
				dirs = append(dirs, p)
			}
		}
	}

	return dedupe(dirs)
}

func dedupe(dirs []string) []string {
	seen := make(map[string]bool, len(dirs))
	result := make([]string, 0, len(dirs))
	for _, d := range dirs {
		clean := filepath.Clean(d)
		if seen[clean] {
			continue
		}
		if info, err := os.Stat(clean); err != nil || !info.IsDir() {
			continue
		}
		seen[clean] = true
		result = append(result, clean)
	}
	return result
}
