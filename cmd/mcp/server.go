// Copyright 2026 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package main

import (
	"os"
	"slices"

	"github.com/go-logr/logr"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"

	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/backend"
	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/command"
	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/config"
	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/docsearch"
	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/fingerprint"
	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/k8s"
	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/metrics"
	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/prompter"
	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/resolver"
	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/toolbox"
)

// newMCPServer wires the documentation pipeline and
// returns an MCP server exposing its tools and prompts.
func newMCPServer(cfg *config.Config, kubeconfig *k8s.KubeConfig, runner command.Runner,
	recorder *metrics.Recorder, logger logr.Logger) *mcp.Server {
	registry := resolver.NewDistInfoRegistry(
		append(slices.Clone(cfg.Spec.Python.SitePackages), resolver.SitePackagesFromEnv(os.LookupEnv)...)...)
	versionResolver := resolver.New(
		registry,
		runner,
		resolver.WithPipCommand(cfg.Spec.Python.PipCommand),
		resolver.WithMetrics(recorder),
		resolver.WithLogger(logger.WithName("resolver")),
	)

	fingerprinter := fingerprint.New(
		newClusterProbe(cfg, kubeconfig, runner),
		fingerprint.WithMetrics(recorder),
		fingerprint.WithLogger(logger.WithName("fingerprint")),
	)

	client := backend.NewClient(cfg.Spec.Backend.URL,
		backend.WithAPIKey(cfg.Spec.Backend.APIKey),
		backend.WithTimeout(cfg.BackendTimeout()),
		backend.WithUserAgent("grounddocs-mcp/"+VERSION),
		backend.WithMetrics(recorder),
		backend.WithLogger(logger.WithName("backend")),
	)

	docs := docsearch.NewService(client, versionResolver, fingerprinter, logger.WithName("docsearch"))

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "grounddocs-mcp",
		Version: VERSION,
	}, &mcp.ServerOptions{
		HasTools:   true,
		HasPrompts: true,
	})

	tm := toolbox.NewManager(docs, kubeconfig, cfg.BackendTimeout()+cfg.ProbeTimeout(), cfg.Spec.EnabledTools)
	tools := tm.RegisterTools(mcpServer)

	pm := prompter.NewManager()
	prompts := pm.RegisterPrompts(mcpServer)

	logger.Info("MCP server configured",
		"backend", cfg.Spec.Backend.URL,
		"clusterProbe", cfg.Spec.Cluster.Probe,
		"sitePackages", registry.Dirs(),
		"tools", tools,
		"prompts", prompts)
	return mcpServer
}

// newClusterProbe returns the cluster probe selected in the configuration.
func newClusterProbe(cfg *config.Config, kubeconfig *k8s.KubeConfig, runner command.Runner) fingerprint.ClusterProbe {
	if cfg.Spec.Cluster.Probe == config.ClusterProbeAPI {
		return fingerprint.NewAPIProbe(func() (kubernetes.Interface, *rest.Config, error) {
			return kubeconfig.NewClientset(cfg.ProbeTimeout())
		})
	}
	return fingerprint.NewKubectlProbe(runner, cfg.Spec.Cluster.KubectlCommand, kubeconfig)
}
