package editor

import (
	"fmt"
	"reflect"

	"github.com/onehostcloud/cloud-init/internal/config"
	"github.com/onehostcloud/cloud-init/pkg/netconf"
)

// Logger is the logging surface the applier needs. Satisfied by
// *utils.Logger.
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Applier brings the managed files in line with a manifest. Apply is
// idempotent: a file already matching its desired state is not
// rewritten, so a file watcher triggering a re-apply settles instead of
// looping.
type Applier struct {
	manifest *config.Manifest
	logger   Logger
}

// NewApplier creates an applier for the given manifest.
func NewApplier(manifest *config.Manifest, logger Logger) *Applier {
	return &Applier{
		manifest: manifest,
		logger:   logger,
	}
}

// Apply applies the whole manifest: hosts entries first, then the
// resolver settings.
func (a *Applier) Apply() error {
	if err := a.applyHosts(); err != nil {
		return fmt.Errorf("hosts: %w", err)
	}
	if err := a.applyResolvConf(); err != nil {
		return fmt.Errorf("resolv.conf: %w", err)
	}
	return nil
}

// applyHosts ensures every manifest entry is present in the hosts file
// exactly once. Lines for unmanaged IPs are left alone.
func (a *Applier) applyHosts() error {
	if len(a.manifest.Hosts) == 0 {
		return nil
	}

	path := a.manifest.HostsPath
	original, err := ReadFileText(path)
	if err != nil {
		return err
	}
	hf := netconf.NewHostsFile(original)

	for _, entry := range a.manifest.Hosts {
		want := append([]string{entry.Hostname}, entry.Aliases...)
		existing := hf.Entries(entry.IP)
		if len(existing) == 1 && reflect.DeepEqual(existing[0], want) {
			continue
		}
		hf.RemoveEntries(entry.IP)
		hf.AddEntry(entry.IP, entry.Hostname, entry.Aliases...)
		a.logger.Info("hosts: set %s -> %s", entry.IP, entry.Hostname)
	}

	return a.saveIfChanged(path, original, hf.Render())
}

// applyResolvConf ensures the managed nameservers, search domains and
// local domain are present. Unmanaged directives and comments are left
// alone.
func (a *Applier) applyResolvConf() error {
	settings := a.manifest.Resolv
	if len(settings.Nameservers) == 0 && len(settings.SearchDomains) == 0 && settings.Domain == "" {
		return nil
	}

	path := a.manifest.ResolvConfPath
	original, err := ReadFileText(path)
	if err != nil {
		return err
	}
	rc := netconf.NewResolvConf(original)

	for _, ns := range settings.Nameservers {
		if _, err := rc.AddNameserver(ns); err != nil {
			return err
		}
	}
	for _, sd := range settings.SearchDomains {
		if _, err := rc.AddSearchDomain(sd); err != nil {
			return err
		}
	}
	if settings.Domain != "" {
		current, _, err := rc.LocalDomain()
		if err != nil {
			return err
		}
		if current != settings.Domain {
			if err := rc.SetLocalDomain(settings.Domain); err != nil {
				return err
			}
			a.logger.Info("resolv.conf: set local domain to %s", settings.Domain)
		}
	}

	rendered, err := rc.Render()
	if err != nil {
		return err
	}
	return a.saveIfChanged(path, original, rendered)
}

func (a *Applier) saveIfChanged(path, original, rendered string) error {
	if rendered == original {
		return nil
	}
	if err := Save(path, rendered); err != nil {
		return err
	}
	a.logger.Info("wrote %s", path)
	return nil
}
