// Copyright 2026 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package k8s

// KubectlArgs prepends the global kubectl flags selecting the
// kubeconfig file and the current context to the given arguments.
func (c *KubeConfig) KubectlArgs(args ...string) []string {
	var global []string
	if path := c.KubeconfigPath(); path != "" {
		global = append(global, "--kubeconfig", path)
	}
	if ctx := c.CurrentContext(); ctx != "" {
		global = append(global, "--context", ctx)
	}
	return append(global, args...)
}
