// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"k8s.io/cli-runtime/pkg/genericclioptions"
	_ "k8s.io/client-go/plugin/pkg/client/auth"
	"k8s.io/client-go/tools/clientcmd"
	ctrllog "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/config"
)

var (
	VERSION = "0.0.0-dev.0"
)

var rootCmd = &cobra.Command{
	Use:               "grounddocs-mcp",
	Version:           VERSION,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
	Long: `Model Context Protocol Server for GroundDocs.
Answers documentation queries about Python libraries and Kubernetes,
enriched with the installed library version or a fingerprint of the
current cluster, using the GroundDocs documentation service.`,
}

type rootFlags struct {
	configFile string
}

var (
	rootArgs       = rootFlags{}
	kubeconfigArgs = genericclioptions.NewConfigFlags(false)
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootArgs.configFile, "config", "",
		"Path to a configuration file. Flags and environment variables override its values.")
	config.AddFlags(rootCmd.PersistentFlags())
	addKubeConfigFlags(rootCmd)
	rootCmd.SetOut(os.Stdout)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	log.SetFlags(0)
	ctrllog.SetLogger(logr.New(ctrllog.NullLogSink{}))

	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrf("✗ %v\n", err)
		os.Exit(1)
	}
}

// addKubeConfigFlags maps the kubectl config flags to the given persistent flags.
func addKubeConfigFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(kubeconfigArgs.KubeConfig, "kubeconfig", getCurrentKubeconfigPath(),
		"Path to the kubeconfig file.")
	cmd.PersistentFlags().StringVar(kubeconfigArgs.Context, "kube-context", "",
		"The name of the kubeconfig context to use.")
}

// getCurrentKubeconfigPath returns the KUBECONFIG file holding the current context.
// An empty string lets kubectl and client-go apply their default loading rules.
func getCurrentKubeconfigPath() string {
	kubeConfig := os.Getenv("KUBECONFIG")
	if kubeConfig == "" {
		return ""
	}

	paths := filepath.SplitList(kubeConfig)
	if len(paths) == 1 {
		return paths[0]
	}

	var currentContext string
	for _, path := range paths {
		kc, err := clientcmd.LoadFromFile(path)
		if err != nil {
			continue
		}
		if currentContext == "" {
			currentContext = kc.CurrentContext
		}
		_, ok := kc.Contexts[currentContext]
		if ok {
			return path
		}
	}
	return kubeConfig
}
