// Copyright 2026 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package fingerprint

import "strings"

// CloudProvider identifies the infrastructure hosting the cluster nodes.
// The zero value means the provider could not be determined.
type CloudProvider string

const (
	ProviderAbsent  CloudProvider = ""
	ProviderAWS     CloudProvider = "aws"
	ProviderGCP     CloudProvider = "gcp"
	ProviderAzure   CloudProvider = "azure"
	ProviderUnknown CloudProvider = "unknown"
)

// MarshalJSON encodes an absent provider as null.
func (p CloudProvider) MarshalJSON() ([]byte, error) {
	if p == ProviderAbsent {
		return []byte("null"), nil
	}
	return []byte(`"` + string(p) + `"`), nil
}

// ClassifyProvider maps a node provider ID to a cloud provider.
// The checks run in order, so the first matching marker wins.
func ClassifyProvider(providerID string) CloudProvider {
	switch {
	case providerID == "":
		return ProviderAbsent
	case strings.Contains(providerID, "aws"):
		return ProviderAWS
	case strings.Contains(providerID, "gce"):
		return ProviderGCP
	case strings.Contains(providerID, "azure"):
		return ProviderAzure
	default:
		return ProviderUnknown
	}
}
