// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package k8s

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"k8s.io/cli-runtime/pkg/genericclioptions"
)

// KubeConfig represents a configuration for managing Kubernetes
// contexts and clusters. This must be kept thread-safe.
type KubeConfig struct {
	mu                 sync.RWMutex
	currentContextName string
	flags              *genericclioptions.ConfigFlags
}

// KubeConfigContext represents a Kubernetes context with
// its associated cluster and current selection status.
type KubeConfigContext struct {
	ClusterName    string `json:"cluster"`
	ContextName    string `json:"context"`
	CurrentContext bool   `json:"current"`
}

// NewKubeConfig initializes a new instance of KubeConfig
// set to the context selected by the flags.
func NewKubeConfig(flags *genericclioptions.ConfigFlags) *KubeConfig {
	if flags == nil {
		flags = genericclioptions.NewConfigFlags(false)
	}
	return &KubeConfig{
		flags: flags,
	}
}

// Contexts returns a slice of all Kubernetes contexts
// currently loaded in the kubeconfig files.
func (c *KubeConfig) Contexts() ([]KubeConfigContext, error) {
	rawConfig, err := c.flags.ToRawKubeConfigLoader().RawConfig()
	if err != nil {
		return nil, fmt.Errorf("loading kubeconfig failed: %w", err)
	}

	currentContext := c.CurrentContext()
	if currentContext == "" {
		currentContext = rawConfig.CurrentContext
	}

	contexts := make([]KubeConfigContext, 0, len(rawConfig.Contexts))
	for name, ct := range rawConfig.Contexts {
		contexts = append(contexts, KubeConfigContext{
			ContextName:    name,
			ClusterName:    ct.Cluster,
			CurrentContext: name == currentContext,
		})
	}

	slices.SortFunc(contexts, func(a, b KubeConfigContext) int {
		return strings.Compare(a.ContextName, b.ContextName)
	})
	return contexts, nil
}

// SetCurrentContext sets the specified context as the current context in the KubeConfig.
// It returns an error if the context with the given name does not exist.
// This function does not change the kubeconfig file.
func (c *KubeConfig) SetCurrentContext(name string) error {
	rawConfig, err := c.flags.ToRawKubeConfigLoader().RawConfig()
	if err != nil {
		return fmt.Errorf("loading kubeconfig failed: %w", err)
	}

	if _, exists := rawConfig.Contexts[name]; !exists {
		return fmt.Errorf("context %s not found", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentContextName = name
	return nil
}

// CurrentContext returns the context selected with SetCurrentContext,
// falling back to the --kube-context flag. An empty string means
// the current context of the kubeconfig file.
func (c *KubeConfig) CurrentContext() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.currentContextName != "" {
		return c.currentContextName
	}
	if c.flags.Context != nil {
		return *c.flags.Context
	}
	return ""
}

// KubeconfigPath returns the kubeconfig file set with the --kubeconfig flag.
func (c *KubeConfig) KubeconfigPath() string {
	if c.flags.KubeConfig != nil {
		return *c.flags.KubeConfig
	}
	return ""
}
