// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"time"

	"github.com/spf13/pflag"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"
)

const (
	// EnvAPIServerURL is the environment variable holding the backend base URL.
	EnvAPIServerURL = "GROUNDDOCS_API_SERVER_URL"
	// EnvAPIKey is the environment variable holding the backend API key.
	EnvAPIKey = "GROUND_DOCS_API_KEY"
	// EnvAPIKeyFallback is checked when EnvAPIKey is not set.
	EnvAPIKeyFallback = "API_KEY"

	// DefaultAPIServerURL is the local development endpoint of the backend.
	DefaultAPIServerURL = "http://localhost:8000"
	// DefaultBackendTimeout bounds a single documentation request.
	DefaultBackendTimeout = 2 * time.Minute
	// DefaultProbeTimeout bounds every child process and cluster call.
	DefaultProbeTimeout = 5 * time.Second
	// DefaultPort is the listen port of the http transport.
	DefaultPort = 8080
)

// DefaultConfig returns the configuration used when nothing else is specified.
func DefaultConfig() *Config {
	return &Config{
		TypeMeta: metav1.TypeMeta{
			APIVersion: GroupVersion.String(),
			Kind:       ConfigKind,
		},
		Spec: ConfigSpec{
			Transport: TransportSTDIO,
			Port:      DefaultPort,
			Backend: BackendSpec{
				URL:     DefaultAPIServerURL,
				Timeout: &metav1.Duration{Duration: DefaultBackendTimeout},
			},
			Python: PythonSpec{
				PipCommand: "pip",
			},
			Cluster: ClusterSpec{
				Probe:          ClusterProbeKubectl,
				KubectlCommand: "kubectl",
				ProbeTimeout:   &metav1.Duration{Duration: DefaultProbeTimeout},
			},
			Logging: LoggingSpec{
				Level:    "info",
				Encoding: "console",
			},
		},
	}
}

// Load builds the configuration from the defaults, the optional file
// at path and the environment, in this order of precedence (last wins).
func Load(path string, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := cfg.merge(data); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	cfg.applyEnv(lookupEnv)

	return cfg, nil
}

// merge decodes the YAML document on top of the current values.
// Fields missing from the document keep their current values.
func (c *Config) merge(data []byte) error {
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return err
	}
	if c.Kind != "" && c.Kind != ConfigKind {
		return fmt.Errorf("unexpected kind %q, expected %q", c.Kind, ConfigKind)
	}
	if c.APIVersion != "" && c.APIVersion != GroupVersion.String() {
		return fmt.Errorf("unexpected apiVersion %q, expected %q", c.APIVersion, GroupVersion.String())
	}
	return nil
}

func (c *Config) applyEnv(lookupEnv func(string) (string, bool)) {
	if v, ok := lookupEnv(EnvAPIServerURL); ok && v != "" {
		c.Spec.Backend.URL = v
	}
	if v, ok := lookupEnv(EnvAPIKey); ok && v != "" {
		c.Spec.Backend.APIKey = v
	} else if v, ok := lookupEnv(EnvAPIKeyFallback); ok && v != "" && c.Spec.Backend.APIKey == "" {
		c.Spec.Backend.APIKey = v
	}
}

// AddFlags registers the command-line flags that override the configuration.
func AddFlags(fs *pflag.FlagSet) {
	d := DefaultConfig().Spec
	fs.String("transport", d.Transport,
		"The transport protocol to use for the MCP server. Options: [stdio, http].")
	fs.Int("port", d.Port,
		"The port to use for the MCP server. This is only used when the transport is set to 'http'.")
	fs.StringSlice("enable-tools", nil,
		"Register only the listed tools. All tools are registered when empty.")
	fs.String("api-server-url", d.Backend.URL,
		"The base URL of the documentation service. Overrides "+EnvAPIServerURL+".")
	fs.String("api-key", "",
		"The API key sent to the documentation service. Overrides "+EnvAPIKey+".")
	fs.Duration("timeout", d.Backend.Timeout.Duration,
		"The length of time to wait for the documentation service before giving up.")
	fs.String("pip-command", d.Python.PipCommand,
		"The package manager used to look up installed library versions.")
	fs.StringSlice("site-packages", nil,
		"Extra site-packages directories searched for installed distributions.")
	fs.String("cluster-probe", d.Cluster.Probe,
		"How the cluster is fingerprinted. Options: [kubectl, api].")
	fs.String("kubectl-command", d.Cluster.KubectlCommand,
		"The kubectl binary name or path.")
	fs.Duration("probe-timeout", d.Cluster.ProbeTimeout.Duration,
		"The length of time to wait for a local command or cluster call.")
	fs.String("log-level", d.Logging.Level,
		"The log verbosity. Options: [debug, info, error].")
	fs.String("log-encoding", d.Logging.Encoding,
		"The log encoding. Options: [console, json].")
}

// ApplyFlags copies the values of the flags set on the command line.
// Flags left at their defaults do not override the file or environment.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var err error
	str := func(name string, dst *string) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetString(name)
		}
	}
	strs := func(name string, dst *[]string) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetStringSlice(name)
		}
	}
	dur := func(name string, dst **metav1.Duration) {
		if err == nil && fs.Changed(name) {
			var d time.Duration
			d, err = fs.GetDuration(name)
			*dst = &metav1.Duration{Duration: d}
		}
	}

	str("transport", &c.Spec.Transport)
	if err == nil && fs.Changed("port") {
		c.Spec.Port, err = fs.GetInt("port")
	}
	strs("enable-tools", &c.Spec.EnabledTools)
	str("api-server-url", &c.Spec.Backend.URL)
	str("api-key", &c.Spec.Backend.APIKey)
	dur("timeout", &c.Spec.Backend.Timeout)
	str("pip-command", &c.Spec.Python.PipCommand)
	strs("site-packages", &c.Spec.Python.SitePackages)
	str("cluster-probe", &c.Spec.Cluster.Probe)
	str("kubectl-command", &c.Spec.Cluster.KubectlCommand)
	dur("probe-timeout", &c.Spec.Cluster.ProbeTimeout)
	str("log-level", &c.Spec.Logging.Level)
	str("log-encoding", &c.Spec.Logging.Encoding)

	return err
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	switch c.Spec.Transport {
	case TransportSTDIO, TransportHTTP:
	default:
		return fmt.Errorf("transport must be one of [%s, %s], got %q",
			TransportSTDIO, TransportHTTP, c.Spec.Transport)
	}
	if c.Spec.Transport == TransportHTTP && (c.Spec.Port <= 0 || c.Spec.Port > 65535) {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Spec.Port)
	}

	u, err := url.Parse(c.Spec.Backend.URL)
	if err != nil {
		return fmt.Errorf("invalid backend url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend url must be an absolute http(s) URL, got %q", c.Spec.Backend.URL)
	}
	if c.BackendTimeout() <= 0 {
		return fmt.Errorf("backend timeout must be positive")
	}

	if c.Spec.Python.PipCommand == "" {
		return fmt.Errorf("pip command is required")
	}

	switch c.Spec.Cluster.Probe {
	case ClusterProbeKubectl:
		if c.Spec.Cluster.KubectlCommand == "" {
			return fmt.Errorf("kubectl command is required when the cluster probe is %q", ClusterProbeKubectl)
		}
	case ClusterProbeAPI:
	default:
		return fmt.Errorf("cluster probe must be one of [%s, %s], got %q",
			ClusterProbeKubectl, ClusterProbeAPI, c.Spec.Cluster.Probe)
	}
	if c.ProbeTimeout() <= 0 {
		return fmt.Errorf("probe timeout must be positive")
	}

	if !slices.Contains([]string{"debug", "info", "error"}, c.Spec.Logging.Level) {
		return fmt.Errorf("log level must be one of [debug, info, error], got %q", c.Spec.Logging.Level)
	}
	if !slices.Contains([]string{"console", "json"}, c.Spec.Logging.Encoding) {
		return fmt.Errorf("log encoding must be one of [console, json], got %q", c.Spec.Logging.Encoding)
	}

	return nil
}

// BackendTimeout returns the documentation request timeout.
func (c *Config) BackendTimeout() time.Duration {
	if c.Spec.Backend.Timeout == nil {
		return DefaultBackendTimeout
	}
	return c.Spec.Backend.Timeout.Duration
}

// ProbeTimeout returns the child process and cluster call timeout.
func (c *Config) ProbeTimeout() time.Duration {
	if c.Spec.Cluster.ProbeTimeout == nil {
		return DefaultProbeTimeout
	}
	return c.Spec.Cluster.ProbeTimeout.Duration
}
