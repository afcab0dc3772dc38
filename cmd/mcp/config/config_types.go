// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package config

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	// ConfigKind is the kind of the GroundDocs MCP configuration API.
	ConfigKind = "Config"

	// TransportHTTP is the streamable http transport mode.
	TransportHTTP = "http"
	// TransportSTDIO is the stdio transport mode.
	TransportSTDIO = "stdio"

	// ClusterProbeKubectl answers the cluster questions by running kubectl.
	ClusterProbeKubectl = "kubectl"
	// ClusterProbeAPI answers the cluster questions through the Kubernetes API.
	ClusterProbeAPI = "api"
)

// Config is the GroundDocs MCP configuration.
type Config struct {
	metav1.TypeMeta `json:",inline"`

	// Spec holds the GroundDocs MCP configuration.
	Spec ConfigSpec `json:"spec"`
}

// ConfigSpec holds the GroundDocs MCP configuration.
type ConfigSpec struct {
	// Transport is the MCP transport. One of: http, stdio.
	// +kubebuilder:validation:Enum=http;stdio
	// +optional
	Transport string `json:"transport,omitempty"`

	// Port is the listen port used by the http transport.
	// +optional
	Port int `json:"port,omitempty"`

	// EnabledTools restricts the registered tools to this list.
	// All tools are registered when empty.
	// +optional
	EnabledTools []string `json:"enabledTools,omitempty"`

	// Backend holds the documentation service settings.
	// +optional
	Backend BackendSpec `json:"backend,omitempty"`

	// Python holds the settings used to detect installed library versions.
	// +optional
	Python PythonSpec `json:"python,omitempty"`

	// Cluster holds the settings used to fingerprint the Kubernetes cluster.
	// +optional
	Cluster ClusterSpec `json:"cluster,omitempty"`

	// Logging holds the logger settings.
	// +optional
	Logging LoggingSpec `json:"logging,omitempty"`
}

// BackendSpec holds the documentation service settings.
type BackendSpec struct {
	// URL is the base URL of the documentation service.
	// +optional
	URL string `json:"url,omitempty"`

	// APIKey is sent in the x-api-key header when set.
	// +optional
	APIKey string `json:"apiKey,omitempty"`

	// Timeout bounds a single documentation request.
	// +optional
	Timeout *metav1.Duration `json:"timeout,omitempty"`
}

// PythonSpec holds the settings used to detect installed library versions.
type PythonSpec struct {
	// PipCommand is the package manager invoked with the show subcommand.
	// +optional
	PipCommand string `json:"pipCommand,omitempty"`

	// SitePackages are extra directories searched for installed distributions.
	// +optional
	SitePackages []string `json:"sitePackages,omitempty"`
}

// ClusterSpec holds the settings used to fingerprint the Kubernetes cluster.
type ClusterSpec struct {
	// Probe selects how the cluster is queried. One of: kubectl, api.
	// +kubebuilder:validation:Enum=kubectl;api
	// +optional
	Probe string `json:"probe,omitempty"`

	// KubectlCommand is the kubectl binary name or path.
	// +optional
	KubectlCommand string `json:"kubectlCommand,omitempty"`

	// ProbeTimeout bounds every child process and cluster call.
	// +optional
	ProbeTimeout *metav1.Duration `json:"probeTimeout,omitempty"`
}

// LoggingSpec holds the logger settings.
type LoggingSpec struct {
	// Level is one of: debug, info, error.
	// +optional
	Level string `json:"level,omitempty"`

	// Encoding is one of: console, json.
	// +optional
	Encoding string `json:"encoding,omitempty"`
}
