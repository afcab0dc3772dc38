// Copyright 2026 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package fingerprint

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/metrics"
)

type fakeProbe struct {
	version    func() (string, error)
	apiServer  func() (string, error)
	providerID func() (string, error)
}

func (p *fakeProbe) ServerVersion(context.Context) (string, error) { return p.version() }
func (p *fakeProbe) APIServer(context.Context) (string, error)     { return p.apiServer() }
func (p *fakeProbe) ProviderID(context.Context) (string, error)    { return p.providerID() }

func value(s string) func() (string, error) {
	return func() (string, error) { return s, nil }
}

func failure(msg string) func() (string, error) {
	return func() (string, error) { return "", errors.New(msg) }
}

func newTestFingerprinter(probe ClusterProbe, opts ...Option) *Fingerprinter {
	f := New(probe, opts...)
	f.host = func() OSInfo {
		return OSInfo{System: "Linux", Release: "6.8.0", Machine: "x86_64", Processor: "x86_64", Hostname: "dev"}
	}
	f.platform = func() PlatformInfo {
		return PlatformInfo{RuntimeVersion: "go1.26.0", RuntimeImplementation: "gc", LibcVersion: [2]string{"glibc", "2.39"}}
	}
	return f
}

func TestCapture(t *testing.T) {
	g := NewWithT(t)

	f := newTestFingerprinter(&fakeProbe{
		version:    value("v1.33.1"),
		apiServer:  value("https://127.0.0.1:6443"),
		providerID: value("aws:///eu-west-1a/i-0abc123"),
	})

	fp := f.Capture(context.Background())
	g.Expect(fp.Version).To(Equal("v1.33.1"))
	g.Expect(fp.CloudProvider).To(Equal(ProviderAWS))
	g.Expect(fp.APIServer).NotTo(BeNil())
	g.Expect(*fp.APIServer).To(Equal("https://127.0.0.1:6443"))
	g.Expect(fp.OSInfo.Hostname).To(Equal("dev"))
	g.Expect(fp.PlatformInfo.LibcVersion).To(Equal([2]string{"glibc", "2.39"}))

	data, err := json.Marshal(fp)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(string(data)).To(MatchJSON(`{
		"version": "v1.33.1",
		"cloud_provider": "aws",
		"api_server": "https://127.0.0.1:6443",
		"os_info": {
			"system": "Linux",
			"release": "6.8.0",
			"version": "",
			"machine": "x86_64",
			"processor": "x86_64",
			"hostname": "dev"
		},
		"platform_info": {
			"runtime_version": "go1.26.0",
			"runtime_implementation": "gc",
			"libc_version": ["glibc", "2.39"]
		}
	}`))
}

func TestCapture_ProbeFailures(t *testing.T) {
	tests := []struct {
		name         string
		probe        *fakeProbe
		version      string
		provider     CloudProvider
		apiServer    bool
		failedProbes []string
	}{
		{
			name: "all cluster probes fail",
			probe: &fakeProbe{
				version:    failure("kubectl failed: exit status 1"),
				apiServer:  failure("kubectl failed: exit status 1"),
				providerID: failure("kubectl timed out after 5s"),
			},
			provider:     ProviderAbsent,
			failedProbes: []string{probeServerVersion, probeAPIServer, probeProviderID},
		},
		{
			name: "server unreachable but kubeconfig readable",
			probe: &fakeProbe{
				version:    failure("connection refused"),
				apiServer:  value("https://10.0.0.1:6443"),
				providerID: failure("connection refused"),
			},
			apiServer:    true,
			provider:     ProviderAbsent,
			failedProbes: []string{probeServerVersion, probeProviderID},
		},
		{
			name: "nodes without provider ID",
			probe: &fakeProbe{
				version:    value("v1.31.0"),
				apiServer:  value("https://10.0.0.1:6443"),
				providerID: value(""),
			},
			version:   "v1.31.0",
			apiServer: true,
			provider:  ProviderAbsent,
		},
		{
			name: "unrecognized provider",
			probe: &fakeProbe{
				version:    value("v1.31.0"),
				apiServer:  value(""),
				providerID: value("kind://docker/kind/kind-control-plane"),
			},
			version:  "v1.31.0",
			provider: ProviderUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			recorder := metrics.NewRecorder()

			fp := newTestFingerprinter(tt.probe, WithMetrics(recorder)).Capture(context.Background())
			g.Expect(fp).NotTo(BeNil())
			g.Expect(fp.Version).To(Equal(tt.version))
			g.Expect(fp.CloudProvider).To(Equal(tt.provider))
			g.Expect(fp.APIServer != nil).To(Equal(tt.apiServer))
			g.Expect(fp.OSInfo.System).To(Equal("Linux"))
			g.Expect(fp.PlatformInfo.RuntimeImplementation).To(Equal("gc"))

			count, err := testutil.GatherAndCount(recorder.Registry(), "grounddocs_mcp_fingerprint_probe_failures_total")
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(count).To(Equal(len(tt.failedProbes)))
		})
	}
}

func TestCapture_PanickingProbe(t *testing.T) {
	g := NewWithT(t)

	f := newTestFingerprinter(&fakeProbe{
		version:    value("v1.30.2"),
		apiServer:  func() (string, error) { panic("nil kubeconfig") },
		providerID: value("gce://project/zone/node"),
	})

	fp := f.Capture(context.Background())
	g.Expect(fp.Version).To(Equal("v1.30.2"))
	g.Expect(fp.APIServer).To(BeNil())
	g.Expect(fp.CloudProvider).To(Equal(ProviderGCP))
	g.Expect(fp.OSInfo.Hostname).To(Equal("dev"))
}

func TestCapture_PanicKeepsPartialResult(t *testing.T) {
	g := NewWithT(t)

	f := newTestFingerprinter(&fakeProbe{
		version:    value("v1.30.2"),
		apiServer:  value("https://10.0.0.1:6443"),
		providerID: value("azure:///subscriptions/123"),
	})
	f.platform = func() PlatformInfo { panic("unreadable root filesystem") }

	var fp *Fingerprint
	g.Expect(func() { fp = f.Capture(context.Background()) }).NotTo(Panic())
	g.Expect(fp).NotTo(BeNil())
	g.Expect(fp.Version).To(Equal("v1.30.2"))
	g.Expect(fp.CloudProvider).To(Equal(ProviderAzure))
	g.Expect(fp.OSInfo.System).To(Equal("Linux"))
	g.Expect(fp.PlatformInfo).To(Equal(PlatformInfo{}))
}

func TestCapture_Concurrent(t *testing.T) {
	g := NewWithT(t)

	release := make(chan struct{})
	started := make(chan struct{}, 3)
	wait := func(v string) func() (string, error) {
		return func() (string, error) {
			started <- struct{}{}
			<-release
			return v, nil
		}
	}

	f := newTestFingerprinter(&fakeProbe{
		version:    wait("v1.33.0"),
		apiServer:  wait("https://10.0.0.1:6443"),
		providerID: wait("aws:///i-1"),
	})

	done := make(chan *Fingerprint)
	go func() { done <- f.Capture(context.Background()) }()

	// All probes must be in flight before any of them returns.
	for range 3 {
		<-started
	}
	close(release)

	fp := <-done
	g.Expect(fp.Version).To(Equal("v1.33.0"))
	g.Expect(fp.CloudProvider).To(Equal(ProviderAWS))
}

func TestHostInfo(t *testing.T) {
	g := NewWithT(t)

	info := hostInfo()
	g.Expect(info.System).NotTo(BeEmpty())
	g.Expect(info.Machine).NotTo(BeEmpty())
	g.Expect(strings.TrimSpace(info.Hostname)).To(Equal(info.Hostname))
}
