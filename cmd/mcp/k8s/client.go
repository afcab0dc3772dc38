// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package k8s

import (
	"fmt"
	"time"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// RESTConfig loads the kubeconfig and returns the REST configuration
// of the current context, bounded by the given request timeout.
func (c *KubeConfig) RESTConfig(timeout time.Duration) (*rest.Config, error) {
	rawConfig, err := c.flags.ToRawKubeConfigLoader().RawConfig()
	if err != nil {
		return nil, fmt.Errorf("loading kubeconfig failed: %w", err)
	}

	contextName := c.CurrentContext()
	if contextName == "" {
		contextName = rawConfig.CurrentContext
	}

	cfg, err := clientcmd.NewNonInteractiveClientConfig(rawConfig, contextName,
		&clientcmd.ConfigOverrides{}, nil).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("loading context %q failed: %w", contextName, err)
	}

	cfg.Timeout = timeout
	cfg.QPS = 100.0
	cfg.Burst = 300
	return cfg, nil
}

// NewClientset creates a Kubernetes clientset for the current context.
func (c *KubeConfig) NewClientset(timeout time.Duration) (kubernetes.Interface, *rest.Config, error) {
	cfg, err := c.RESTConfig(timeout)
	if err != nil {
		return nil, nil, err
	}

	clientset, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	return clientset, cfg, nil
}
