// Package k8s provides Kubernetes helpers for rendered manifests: namespace
// discovery from the local environment and content checksums.
package k8s

import (
	"fmt"
	"os"
	"strings"

	"k8s.io/client-go/tools/clientcmd"
)

const (
	// defaultServiceAccountPath is the default path to the service account namespace file
	defaultServiceAccountPath = "/var/run/secrets/kubernetes.io/serviceaccount/namespace"
	// defaultPodNamespaceEnv is the default environment variable for POD_NAMESPACE
	defaultPodNamespaceEnv = "POD_NAMESPACE"
)

// CurrentNamespace attempts to determine the namespace the rendered manifests
// will most likely be applied to. Unlike kubectl it does not fall back to
// "default": it reports false when no source names a namespace, so manifests
// stay namespace-less.
func CurrentNamespace() (string, bool) {
	// Method 1: the current kubectl context, the usual case on a workstation
	if ns, err := getNamespaceFromKubeConfig(); err == nil {
		return ns, true
	}

	// Method 2: the environment, e.g. inside a CI job pod
	if ns, err := getNamespaceFromEnvVar(defaultPodNamespaceEnv); err == nil {
		return ns, true
	}

	// Method 3: the service account namespace file when running in-cluster
	if ns, err := getNamespaceFromServiceAccountPath(defaultServiceAccountPath); err == nil {
		return ns, true
	}

	return "", false
}

// getNamespaceFromServiceAccountPath attempts to read the namespace from a service account token file
// This is a thin I/O wrapper - the logic is in parseNamespaceFromFile
func getNamespaceFromServiceAccountPath(path string) (string, error) {
	//nolint:gosec // G304: Reading from configurable path is intentional for testing
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read namespace file: %w", err)
	}
	return parseNamespaceFromFile(data)
}

// parseNamespaceFromFile parses namespace from file data
func parseNamespaceFromFile(data []byte) (string, error) {
	// Only newlines are trimmed, other whitespace is kept as written.
	ns := strings.TrimRight(string(data), "\n\r")
	if ns == "" {
		return "", fmt.Errorf("namespace file is empty")
	}
	return ns, nil
}

// getNamespaceFromEnvVar attempts to get the namespace from a specific environment variable
func getNamespaceFromEnvVar(envVar string) (string, error) {
	return validateNamespaceValue(os.Getenv(envVar), envVar)
}

// validateNamespaceValue validates a namespace value from an environment variable
func validateNamespaceValue(ns, source string) (string, error) {
	if ns == "" {
		return "", fmt.Errorf("%s environment variable not set", source)
	}
	return ns, nil
}

// getNamespaceFromKubeConfig attempts to get the namespace from the current kubectl context
func getNamespaceFromKubeConfig() (string, error) {
	return extractNamespaceFromKubeconfig(loadKubeconfigRaw())
}

// loadKubeconfigRaw loads the raw kubeconfig honouring KUBECONFIG
func loadKubeconfigRaw() clientcmd.ClientConfig {
	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	configOverrides := &clientcmd.ConfigOverrides{}
	return clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, configOverrides)
}

// extractNamespaceFromKubeconfig extracts namespace from kubeconfig
func extractNamespaceFromKubeconfig(kubeConfig clientcmd.ClientConfig) (string, error) {
	rawConfig, err := kubeConfig.RawConfig()
	if err != nil {
		return "", fmt.Errorf("failed to load kubeconfig: %w", err)
	}

	currentContext := rawConfig.CurrentContext
	if currentContext == "" {
		return "", fmt.Errorf("no current context set in kubeconfig")
	}

	contextConfig, exists := rawConfig.Contexts[currentContext]
	if !exists {
		return "", fmt.Errorf("current context %q not found in kubeconfig", currentContext)
	}

	ns := strings.TrimSpace(contextConfig.Namespace)
	if ns == "" {
		return "", fmt.Errorf("no namespace set in current context %q", currentContext)
	}

	return ns, nil
}
