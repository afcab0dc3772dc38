// Copyright 2026 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package fingerprint

import (
	"context"
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"
	"k8s.io/utils/ptr"

	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/metrics"
)

const (
	probeServerVersion = "server_version"
	probeAPIServer     = "api_server"
	probeProviderID    = "provider_id"
	probeCapture       = "capture"
)

// Fingerprint is a snapshot of the cluster and the local host
// sent along with cluster documentation queries.
type Fingerprint struct {
	Version       string        `json:"version"`
	CloudProvider CloudProvider `json:"cloud_provider"`
	OSInfo        OSInfo        `json:"os_info"`
	APIServer     *string       `json:"api_server"`
	PlatformInfo  PlatformInfo  `json:"platform_info"`
}

// OSInfo describes the operating system of the local host.
type OSInfo struct {
	System    string `json:"system"`
	Release   string `json:"release"`
	Version   string `json:"version"`
	Machine   string `json:"machine"`
	Processor string `json:"processor"`
	Hostname  string `json:"hostname"`
}

// PlatformInfo describes the runtime of this binary.
type PlatformInfo struct {
	RuntimeVersion        string    `json:"runtime_version"`
	RuntimeImplementation string    `json:"runtime_implementation"`
	LibcVersion           [2]string `json:"libc_version"`
}

// Fingerprinter captures environment fingerprints.
type Fingerprinter struct {
	probe    ClusterProbe
	host     func() OSInfo
	platform func() PlatformInfo
	recorder *metrics.Recorder
	logger   logr.Logger
}

// Option configures a Fingerprinter.
type Option func(*Fingerprinter)

// WithMetrics sets the recorder for probe failures.
func WithMetrics(m *metrics.Recorder) Option {
	return func(f *Fingerprinter) {
		f.recorder = m
	}
}

// WithLogger sets the logger.
func WithLogger(l logr.Logger) Option {
	return func(f *Fingerprinter) {
		f.logger = l
	}
}

// New creates a Fingerprinter that asks the given probe about the cluster.
func New(probe ClusterProbe, opts ...Option) *Fingerprinter {
	f := &Fingerprinter{
		probe:    probe,
		host:     hostInfo,
		platform: processPlatform(os.DirFS("/")),
		logger:   logr.Discard(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Capture builds a fresh fingerprint. The cluster probes run concurrently
// and a failing probe leaves only its own field empty. Capture never fails:
// if anything panics, the fields populated so far are returned.
func (f *Fingerprinter) Capture(ctx context.Context) (fp *Fingerprint) {
	fp = &Fingerprint{}
	defer func() {
		if r := recover(); r != nil {
			f.recorder.RecordProbeFailure(probeCapture)
			f.logger.Error(fmt.Errorf("panic: %v", r), "fingerprint capture aborted")
		}
	}()

	var version, apiServer, providerID string
	var g errgroup.Group
	g.Go(func() error {
		version = f.attempt(ctx, probeServerVersion, f.probe.ServerVersion)
		return nil
	})
	g.Go(func() error {
		apiServer = f.attempt(ctx, probeAPIServer, f.probe.APIServer)
		return nil
	})
	g.Go(func() error {
		providerID = f.attempt(ctx, probeProviderID, f.probe.ProviderID)
		return nil
	})
	_ = g.Wait()

	fp.Version = version
	fp.CloudProvider = ClassifyProvider(providerID)
	if apiServer != "" {
		fp.APIServer = ptr.To(apiServer)
	}
	fp.OSInfo = f.host()
	fp.PlatformInfo = f.platform()

	f.logger.Info("detected cluster information", "fingerprint", fp)
	return fp
}

// attempt runs a single probe, turning errors and panics into an empty result.
func (f *Fingerprinter) attempt(ctx context.Context, name string,
	probe func(context.Context) (string, error)) (value string) {
	defer func() {
		if r := recover(); r != nil {
			f.fail(name, fmt.Errorf("panic: %v", r))
			value = ""
		}
	}()

	v, err := probe(ctx)
	if err != nil {
		f.fail(name, err)
		return ""
	}
	return v
}

func (f *Fingerprinter) fail(probe string, err error) {
	f.recorder.RecordProbeFailure(probe)
	f.logger.Info("cluster probe failed", "probe", probe, "error", err.Error())
}
