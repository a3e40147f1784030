package config

import (
	"fmt"

	"github.com/onehostcloud/cloud-init/pkg/netconf"
)

// Manifest describes the desired state of the managed network files.
type Manifest struct {
	HostsPath      string         `yaml:"hostsPath"`
	ResolvConfPath string         `yaml:"resolvConfPath"`
	Hosts          []HostEntry    `yaml:"hosts,omitempty"`
	Resolv         ResolvSettings `yaml:"resolv,omitempty"`
}

// HostEntry is one managed hosts-file mapping.
type HostEntry struct {
	IP       string   `yaml:"ip"`
	Hostname string   `yaml:"hostname"`
	Aliases  []string `yaml:"aliases,omitempty"`
}

// ResolvSettings is the managed portion of resolv.conf. Unmanaged
// directives in the file are left untouched.
type ResolvSettings struct {
	Nameservers   []string `yaml:"nameservers,omitempty"`
	SearchDomains []string `yaml:"searchDomains,omitempty"`
	Domain        string   `yaml:"domain,omitempty"`
}

// Validate checks that the manifest is well formed. An empty manifest
// is valid; it manages nothing.
func (m *Manifest) Validate() error {
	if m.HostsPath == "" {
		return ErrMissingHostsPath
	}
	if m.ResolvConfPath == "" {
		return ErrMissingResolvConfPath
	}

	for i, entry := range m.Hosts {
		if entry.IP == "" {
			return &ErrInvalidHostEntry{Index: i, Reason: "ip is empty"}
		}
		if entry.Hostname == "" {
			return &ErrInvalidHostEntry{Index: i, Reason: "hostname is empty"}
		}
	}

	// The same ceilings the editor enforces, caught before any file is
	// touched.
	if n := len(m.Resolv.Nameservers); n > netconf.MaxNameservers {
		return &ErrTooManyValues{What: "nameservers", Count: n, Limit: netconf.MaxNameservers}
	}
	if n := len(m.Resolv.SearchDomains); n > netconf.MaxSearchDomains {
		return &ErrTooManyValues{What: "search domains", Count: n, Limit: netconf.MaxSearchDomains}
	}

	return nil
}

// Manifest errors
var (
	ErrMissingHostsPath      = fmt.Errorf("hostsPath is missing")
	ErrMissingResolvConfPath = fmt.Errorf("resolvConfPath is missing")
)

// ErrInvalidHostEntry indicates a malformed entry in the hosts section
type ErrInvalidHostEntry struct {
	Index  int
	Reason string
}

func (e *ErrInvalidHostEntry) Error() string {
	return fmt.Sprintf("invalid host entry at index %d: %s", e.Index, e.Reason)
}

// ErrTooManyValues indicates a resolv list longer than its ceiling
type ErrTooManyValues struct {
	What  string
	Count int
	Limit int
}

func (e *ErrTooManyValues) Error() string {
	return fmt.Sprintf("%d %s configured, the resolver supports at most %d", e.Count, e.What, e.Limit)
}
