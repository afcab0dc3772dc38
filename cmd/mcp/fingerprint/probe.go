// Copyright 2026 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package fingerprint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/command"
	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/k8s"
)

// ClusterProbe answers the questions asked about the cluster
// selected by the current kube context.
type ClusterProbe interface {
	// ServerVersion returns the Kubernetes API server git version.
	ServerVersion(ctx context.Context) (string, error)
	// APIServer returns the API server URL.
	APIServer(ctx context.Context) (string, error)
	// ProviderID returns the provider ID of the first node,
	// or an empty string if the cluster has no nodes.
	ProviderID(ctx context.Context) (string, error)
}

// KubectlProbe implements ClusterProbe by running kubectl.
type KubectlProbe struct {
	runner     command.Runner
	kubectl    string
	kubeconfig *k8s.KubeConfig
}

// NewKubectlProbe returns a probe that runs the given kubectl command
// against the kubeconfig file and context selected in kubeconfig.
func NewKubectlProbe(runner command.Runner, kubectl string, kubeconfig *k8s.KubeConfig) *KubectlProbe {
	if kubectl == "" {
		kubectl = "kubectl"
	}
	return &KubectlProbe{
		runner:     runner,
		kubectl:    kubectl,
		kubeconfig: kubeconfig,
	}
}

type kubectlVersion struct {
	ServerVersion *struct {
		GitVersion string `json:"gitVersion"`
	} `json:"serverVersion"`
}

// ServerVersion runs kubectl version and returns serverVersion.gitVersion.
func (p *KubectlProbe) ServerVersion(ctx context.Context) (string, error) {
	out, err := p.run(ctx, "version", "--output=json")
	if err != nil {
		return "", err
	}

	var v kubectlVersion
	if err := json.Unmarshal(out, &v); err != nil {
		return "", fmt.Errorf("unable to parse kubectl version output: %w", err)
	}
	if v.ServerVersion == nil || v.ServerVersion.GitVersion == "" {
		return "", errors.New("kubectl version output has no server version")
	}
	return v.ServerVersion.GitVersion, nil
}

// APIServer returns the server URL of the minified kubeconfig.
func (p *KubectlProbe) APIServer(ctx context.Context) (string, error) {
	out, err := p.run(ctx, "config", "view", "--minify",
		"--output=jsonpath={.clusters[0].cluster.server}")
	if err != nil {
		return "", err
	}
	return trimJSONPath(out), nil
}

// ProviderID returns spec.providerID of the first node.
func (p *KubectlProbe) ProviderID(ctx context.Context) (string, error) {
	out, err := p.run(ctx, "get", "nodes", "-o", "jsonpath={.items[0].spec.providerID}")
	if err != nil {
		return "", err
	}
	return trimJSONPath(out), nil
}

func (p *KubectlProbe) run(ctx context.Context, args ...string) ([]byte, error) {
	if p.kubeconfig != nil {
		args = p.kubeconfig.KubectlArgs(args...)
	}
	return p.runner.Run(ctx, p.kubectl, args...)
}

// trimJSONPath strips the whitespace and the quotes a
// quoted jsonpath template leaves around the value.
func trimJSONPath(out []byte) string {
	return strings.Trim(strings.TrimSpace(string(out)), `'"`)
}
