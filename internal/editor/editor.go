package editor

import (
	"fmt"
	"os"

	"github.com/onehostcloud/cloud-init/pkg/netconf"
)

// ReadFileText returns the raw text of path, or an empty string when
// the file does not exist yet.
func ReadFileText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// LoadHosts parses the hosts file at path. A missing file yields an
// empty document.
func LoadHosts(path string) (*netconf.HostsFile, error) {
	text, err := ReadFileText(path)
	if err != nil {
		return nil, err
	}
	return netconf.NewHostsFile(text), nil
}

// LoadResolvConf parses the resolver configuration at path. A missing
// file yields an empty document.
func LoadResolvConf(path string) (*netconf.ResolvConf, error) {
	text, err := ReadFileText(path)
	if err != nil {
		return nil, err
	}
	return netconf.NewResolvConf(text), nil
}

// Save writes text to path safely: to a temporary file first, then an
// atomic rename, so a reader never sees a half-written file.
func Save(path, text string) error {
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tempPath, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename %s: %w", tempPath, err)
	}

	return nil
}
