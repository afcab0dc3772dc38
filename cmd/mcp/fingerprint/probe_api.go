// Copyright 2026 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package fingerprint

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
)

// ClientsetFunc returns a clientset and its REST config
// for the currently selected kube context.
type ClientsetFunc func() (kubernetes.Interface, *rest.Config, error)

// APIProbe implements ClusterProbe with client-go,
// for hosts without a kubectl binary.
type APIProbe struct {
	clientset ClientsetFunc
}

// NewAPIProbe returns a probe that builds a clientset on every call,
// so that a context switch is picked up by the next capture.
func NewAPIProbe(fn ClientsetFunc) *APIProbe {
	return &APIProbe{clientset: fn}
}

// ServerVersion queries the discovery endpoint for the server version.
func (p *APIProbe) ServerVersion(_ context.Context) (string, error) {
	clientset, _, err := p.clientset()
	if err != nil {
		return "", err
	}

	info, err := clientset.Discovery().ServerVersion()
	if err != nil {
		return "", fmt.Errorf("unable to get server version: %w", err)
	}
	return info.GitVersion, nil
}

// APIServer returns the host of the REST config.
func (p *APIProbe) APIServer(_ context.Context) (string, error) {
	_, cfg, err := p.clientset()
	if err != nil {
		return "", err
	}
	return cfg.Host, nil
}

// ProviderID lists a single node and returns its spec.providerID.
func (p *APIProbe) ProviderID(ctx context.Context) (string, error) {
	clientset, _, err := p.clientset()
	if err != nil {
		return "", err
	}

	nodes, err := clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{Limit: 1})
	if err != nil {
		return "", fmt.Errorf("unable to list nodes: %w", err)
	}
	if len(nodes.Items) == 0 {
		return "", nil
	}
	return nodes.Items[0].Spec.ProviderID, nil
}
