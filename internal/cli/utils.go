package cli

import (
	"fmt"
	"net"
	"strings"

	"github.com/miekg/dns"

	"github.com/onehostcloud/cloud-init/pkg/netconf"
)

// validateIP rejects anything net.ParseIP does not accept.
func validateIP(s string) error {
	if net.ParseIP(s) == nil {
		return fmt.Errorf("%q is not a valid IP address", s)
	}
	return nil
}

// validateDomain rejects names the resolver itself would refuse.
func validateDomain(s string) error {
	if _, ok := dns.IsDomainName(s); !ok {
		return fmt.Errorf("%q is not a valid domain name", s)
	}
	return nil
}

// PrintHostEntries prints the entries found for one IP
func PrintHostEntries(ip string, entries [][]string) {
	if len(entries) == 0 {
		fmt.Printf("No entries for %s\n", ip)
		return
	}
	for _, names := range entries {
		fmt.Printf("%s\t%s\n", ip, strings.Join(names, "\t"))
	}
}

// PrintList prints a named list of values
func PrintList(label string, values []string) {
	if len(values) == 0 {
		fmt.Printf("%s: none\n", label)
		return
	}
	fmt.Printf("%s:\n", label)
	for i, v := range values {
		fmt.Printf("  [%d] %s\n", i, v)
	}
}

// PrintResolvConf prints a summary of a resolver configuration
func PrintResolvConf(path string, rc *netconf.ResolvConf) error {
	ns, err := rc.Nameservers()
	if err != nil {
		return err
	}
	sds, err := rc.SearchDomains()
	if err != nil {
		return err
	}
	domain, ok, err := rc.LocalDomain()
	if err != nil {
		return err
	}

	fmt.Printf("\n=== %s ===\n\n", path)
	PrintList("Nameservers", ns)
	PrintList("Search domains", sds)
	if ok {
		fmt.Printf("Local domain: %s\n", domain)
	} else {
		fmt.Println("Local domain: not set")
	}
	fmt.Println()
	return nil
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	fmt.Printf("✗ Error: "+format+"\n", args...)
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	fmt.Printf("✓ "+format+"\n", args...)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// consoleLogger adapts the applier's logging surface to plain stdout
// output for one-shot CLI runs.
type consoleLogger struct{}

func (consoleLogger) Info(format string, args ...interface{})  { fmt.Printf(format+"\n", args...) }
func (consoleLogger) Warn(format string, args ...interface{})  { fmt.Printf("warning: "+format+"\n", args...) }
func (consoleLogger) Error(format string, args ...interface{}) { fmt.Printf("error: "+format+"\n", args...) }
