// Package system holds shared types for host-facing action services.
package system

// Host addresses the machine a system action runs against. An empty URL
// means the local host; Credentials names a secret resource with the SSH
// credentials for remote hosts.
type Host struct {
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`
	Credentials string `json:"credentials,omitempty" yaml:"credentials,omitempty"`
}
