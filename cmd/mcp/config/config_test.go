// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/spf13/pflag"
)

func envFrom(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	g := NewWithT(t)

	cfg, err := Load("", envFrom(nil))
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(cfg.Validate()).To(Succeed())

	g.Expect(cfg.Spec.Backend.URL).To(Equal(DefaultAPIServerURL))
	g.Expect(cfg.Spec.Backend.APIKey).To(BeEmpty())
	g.Expect(cfg.Spec.Transport).To(Equal(TransportSTDIO))
	g.Expect(cfg.Spec.Cluster.Probe).To(Equal(ClusterProbeKubectl))
	g.Expect(cfg.BackendTimeout()).To(Equal(DefaultBackendTimeout))
	g.Expect(cfg.ProbeTimeout()).To(Equal(DefaultProbeTimeout))
}

func TestLoad_Precedence(t *testing.T) {
	tests := []struct {
		testName   string
		file       string
		env        map[string]string
		matchURL   string
		matchKey   string
		matchProbe string
		matchErr   string
	}{
		{
			testName: "env overrides defaults",
			env: map[string]string{
				EnvAPIServerURL:   "https://docs.example.com",
				EnvAPIKey:         "gd_primary",
				EnvAPIKeyFallback: "gd_fallback",
			},
			matchURL:   "https://docs.example.com",
			matchKey:   "gd_primary",
			matchProbe: ClusterProbeKubectl,
		},
		{
			testName: "falls back to API_KEY",
			env: map[string]string{
				EnvAPIKeyFallback: "gd_fallback",
			},
			matchURL:   DefaultAPIServerURL,
			matchKey:   "gd_fallback",
			matchProbe: ClusterProbeKubectl,
		},
		{
			testName: "file overrides defaults and env overrides file",
			file: `
apiVersion: mcp.grounddocs.io/v1
kind: Config
spec:
  backend:
    url: https://file.example.com
    apiKey: gd_file
  cluster:
    probe: api
    probeTimeout: 3s
`,
			env: map[string]string{
				EnvAPIServerURL: "https://env.example.com",
			},
			matchURL:   "https://env.example.com",
			matchKey:   "gd_file",
			matchProbe: ClusterProbeAPI,
		},
		{
			testName: "rejects unknown fields",
			file: `
spec:
  backend:
    endpoint: https://file.example.com
`,
			matchErr: "unknown field",
		},
		{
			testName: "rejects wrong kind",
			file: `
apiVersion: mcp.grounddocs.io/v1
kind: Secret
`,
			matchErr: "unexpected kind",
		},
	}

	for _, test := range tests {
		t.Run(test.testName, func(t *testing.T) {
			g := NewWithT(t)

			path := ""
			if test.file != "" {
				path = writeConfigFile(t, test.file)
			}

			cfg, err := Load(path, envFrom(test.env))
			if test.matchErr != "" {
				g.Expect(err).To(HaveOccurred())
				g.Expect(err.Error()).To(ContainSubstring(test.matchErr))
				return
			}

			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(cfg.Spec.Backend.URL).To(Equal(test.matchURL))
			g.Expect(cfg.Spec.Backend.APIKey).To(Equal(test.matchKey))
			g.Expect(cfg.Spec.Cluster.Probe).To(Equal(test.matchProbe))
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	g := NewWithT(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), envFrom(nil))
	g.Expect(err).To(HaveOccurred())
	g.Expect(err.Error()).To(ContainSubstring("failed to read config"))
}

func TestConfig_ApplyFlags(t *testing.T) {
	g := NewWithT(t)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs)
	err := fs.Parse([]string{
		"--api-server-url=https://flags.example.com",
		"--timeout=30s",
		"--site-packages=/opt/venv/lib/python3.12/site-packages",
		"--enable-tools=k8s_get_documentation",
	})
	g.Expect(err).ToNot(HaveOccurred())

	cfg, err := Load("", envFrom(map[string]string{
		EnvAPIServerURL: "https://env.example.com",
		EnvAPIKey:       "gd_env",
	}))
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(cfg.ApplyFlags(fs)).To(Succeed())

	g.Expect(cfg.Spec.Backend.URL).To(Equal("https://flags.example.com"))
	g.Expect(cfg.Spec.Backend.APIKey).To(Equal("gd_env"))
	g.Expect(cfg.BackendTimeout()).To(Equal(30 * time.Second))
	g.Expect(cfg.ProbeTimeout()).To(Equal(DefaultProbeTimeout))
	g.Expect(cfg.Spec.Python.SitePackages).To(ConsistOf("/opt/venv/lib/python3.12/site-packages"))
	g.Expect(cfg.Spec.EnabledTools).To(ConsistOf("k8s_get_documentation"))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		testName string
		mutate   func(c *Config)
		matchErr string
	}{
		{
			testName: "rejects unknown transport",
			mutate:   func(c *Config) { c.Spec.Transport = "sse" },
			matchErr: "transport must be one of",
		},
		{
			testName: "rejects relative backend url",
			mutate:   func(c *Config) { c.Spec.Backend.URL = "localhost:8000" },
			matchErr: "absolute http(s) URL",
		},
		{
			testName: "rejects unknown cluster probe",
			mutate:   func(c *Config) { c.Spec.Cluster.Probe = "ssh" },
			matchErr: "cluster probe must be one of",
		},
		{
			testName: "rejects empty kubectl command",
			mutate:   func(c *Config) { c.Spec.Cluster.KubectlCommand = "" },
			matchErr: "kubectl command is required",
		},
		{
			testName: "rejects invalid port for http",
			mutate: func(c *Config) {
				c.Spec.Transport = TransportHTTP
				c.Spec.Port = 0
			},
			matchErr: "port must be between",
		},
		{
			testName: "rejects unknown log level",
			mutate:   func(c *Config) { c.Spec.Logging.Level = "trace" },
			matchErr: "log level must be one of",
		},
		{
			testName: "accepts api probe without kubectl",
			mutate: func(c *Config) {
				c.Spec.Cluster.Probe = ClusterProbeAPI
				c.Spec.Cluster.KubectlCommand = ""
			},
		},
	}

	for _, test := range tests {
		t.Run(test.testName, func(t *testing.T) {
			g := NewWithT(t)

			cfg := DefaultConfig()
			test.mutate(cfg)
			err := cfg.Validate()

			if test.matchErr != "" {
				g.Expect(err).To(HaveOccurred())
				g.Expect(err.Error()).To(ContainSubstring(test.matchErr))
			} else {
				g.Expect(err).ToNot(HaveOccurred())
			}
		})
	}
}
