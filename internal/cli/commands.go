package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/onehostcloud/cloud-init/internal/config"
	"github.com/onehostcloud/cloud-init/internal/editor"
)

// NewRootCommand creates the root command for netconfctl
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "netconfctl",
		Short: "hosts and resolv.conf management tool",
		Long: `netconfctl edits hosts and resolv.conf files while preserving
comments, blank lines and the order of lines it was not asked to change.`,
	}

	cmd.AddCommand(newHostsCommand())
	cmd.AddCommand(newResolvCommand())
	cmd.AddCommand(newApplyCommand())
	cmd.AddCommand(newCheckCommand())

	return cmd
}

// newHostsCommand creates the hosts command group
func newHostsCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "hosts",
		Short: "Edit a hosts file",
	}
	cmd.PersistentFlags().StringVarP(&file, "file", "f", config.DefaultHostsPath, "Path to the hosts file")

	cmd.AddCommand(newHostsListCommand(&file))
	cmd.AddCommand(newHostsAddCommand(&file))
	cmd.AddCommand(newHostsDelCommand(&file))

	return cmd
}

// newHostsListCommand creates the hosts list command
func newHostsListCommand(file *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list [ip]",
		Short: "List hosts entries, optionally for one IP",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hf, err := editor.LoadHosts(*file)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				PrintHostEntries(args[0], hf.Entries(args[0]))
				return nil
			}

			fmt.Print(hf.Render())
			return nil
		},
	}
}

// newHostsAddCommand creates the hosts add command
func newHostsAddCommand(file *string) *cobra.Command {
	return &cobra.Command{
		Use:   "add <ip> <hostname> [alias...]",
		Short: "Append a hosts entry",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateIP(args[0]); err != nil {
				return err
			}
			for _, name := range args[1:] {
				if err := validateDomain(name); err != nil {
					return err
				}
			}

			hf, err := editor.LoadHosts(*file)
			if err != nil {
				return err
			}
			hf.AddEntry(args[0], args[1], args[2:]...)
			if err := editor.Save(*file, hf.Render()); err != nil {
				return err
			}

			PrintSuccess("Added %s -> %s", args[0], args[1])
			return nil
		},
	}
}

// newHostsDelCommand creates the hosts del command
func newHostsDelCommand(file *string) *cobra.Command {
	return &cobra.Command{
		Use:   "del <ip>",
		Short: "Remove every entry for an IP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hf, err := editor.LoadHosts(*file)
			if err != nil {
				return err
			}
			removed := len(hf.Entries(args[0]))
			hf.RemoveEntries(args[0])
			if err := editor.Save(*file, hf.Render()); err != nil {
				return err
			}

			PrintSuccess("Removed %d entr%s for %s", removed, plural(removed, "y", "ies"), args[0])
			return nil
		},
	}
}

// newResolvCommand creates the resolv command group
func newResolvCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "resolv",
		Short: "Edit a resolv.conf file",
	}
	cmd.PersistentFlags().StringVarP(&file, "file", "f", config.DefaultResolvConfPath, "Path to the resolv.conf file")

	cmd.AddCommand(newNameserversCommand(&file))
	cmd.AddCommand(newAddNameserverCommand(&file))
	cmd.AddCommand(newSearchCommand(&file))
	cmd.AddCommand(newAddSearchCommand(&file))
	cmd.AddCommand(newDomainCommand(&file))
	cmd.AddCommand(newResolvShowCommand(&file))

	return cmd
}

// newNameserversCommand creates the resolv nameservers command
func newNameserversCommand(file *string) *cobra.Command {
	return &cobra.Command{
		Use:   "nameservers",
		Short: "List configured nameservers",
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := editor.LoadResolvConf(*file)
			if err != nil {
				return err
			}
			ns, err := rc.Nameservers()
			if err != nil {
				return err
			}
			PrintList("Nameservers", ns)
			return nil
		},
	}
}

// newAddNameserverCommand creates the resolv add-nameserver command
func newAddNameserverCommand(file *string) *cobra.Command {
	return &cobra.Command{
		Use:   "add-nameserver <ip>",
		Short: "Add a nameserver (3 at most)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateIP(args[0]); err != nil {
				return err
			}

			rc, err := editor.LoadResolvConf(*file)
			if err != nil {
				return err
			}
			ns, err := rc.AddNameserver(args[0])
			if err != nil {
				return err
			}
			text, err := rc.Render()
			if err != nil {
				return err
			}
			if err := editor.Save(*file, text); err != nil {
				return err
			}

			PrintSuccess("Nameservers: %v", ns)
			return nil
		},
	}
}

// newSearchCommand creates the resolv search command
func newSearchCommand(file *string) *cobra.Command {
	return &cobra.Command{
		Use:   "search",
		Short: "List configured search domains",
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := editor.LoadResolvConf(*file)
			if err != nil {
				return err
			}
			sds, err := rc.SearchDomains()
			if err != nil {
				return err
			}
			PrintList("Search domains", sds)
			return nil
		},
	}
}

// newAddSearchCommand creates the resolv add-search command
func newAddSearchCommand(file *string) *cobra.Command {
	return &cobra.Command{
		Use:   "add-search <domain>",
		Short: "Add a search domain (6 at most)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateDomain(args[0]); err != nil {
				return err
			}

			rc, err := editor.LoadResolvConf(*file)
			if err != nil {
				return err
			}
			sds, err := rc.AddSearchDomain(args[0])
			if err != nil {
				return err
			}
			text, err := rc.Render()
			if err != nil {
				return err
			}
			if err := editor.Save(*file, text); err != nil {
				return err
			}

			PrintSuccess("Search domains: %v", sds)
			return nil
		},
	}
}

// newDomainCommand creates the resolv domain command
func newDomainCommand(file *string) *cobra.Command {
	return &cobra.Command{
		Use:   "domain [value]",
		Short: "Show or set the local domain",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := editor.LoadResolvConf(*file)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				domain, ok, err := rc.LocalDomain()
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println("No local domain configured")
					return nil
				}
				fmt.Println(domain)
				return nil
			}

			if err := validateDomain(args[0]); err != nil {
				return err
			}
			if err := rc.SetLocalDomain(args[0]); err != nil {
				return err
			}
			text, err := rc.Render()
			if err != nil {
				return err
			}
			if err := editor.Save(*file, text); err != nil {
				return err
			}

			PrintSuccess("Local domain set to %s", args[0])
			return nil
		},
	}
}

// newResolvShowCommand creates the resolv show command
func newResolvShowCommand(file *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show a summary of the resolver configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := editor.LoadResolvConf(*file)
			if err != nil {
				return err
			}
			return PrintResolvConf(*file, rc)
		},
	}
}

// newApplyCommand creates the apply command
func newApplyCommand() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a desired-state manifest to the managed files",
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, err := config.Load(manifestPath)
			if err != nil {
				return fmt.Errorf("failed to load manifest: %w", err)
			}

			applier := editor.NewApplier(manifest, consoleLogger{})
			if err := applier.Apply(); err != nil {
				return err
			}

			PrintSuccess("Manifest applied")
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "config", "c", config.DefaultManifestPath, "Path to the manifest")
	return cmd
}

// newCheckCommand creates the check command
func newCheckCommand() *cobra.Command {
	var hostsPath, resolvPath string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Parse the managed files and report problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := false

			if _, err := editor.LoadHosts(hostsPath); err != nil {
				PrintError("%s: %v", hostsPath, err)
				failed = true
			} else {
				PrintSuccess("%s parses cleanly", hostsPath)
			}

			rc, err := editor.LoadResolvConf(resolvPath)
			if err == nil {
				_, err = rc.Nameservers()
			}
			if err != nil {
				PrintError("%s: %v", resolvPath, err)
				failed = true
			} else {
				PrintSuccess("%s parses cleanly", resolvPath)
			}

			if failed {
				return fmt.Errorf("one or more files failed to parse")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&hostsPath, "hosts", config.DefaultHostsPath, "Path to the hosts file")
	cmd.Flags().StringVar(&resolvPath, "resolv", config.DefaultResolvConfPath, "Path to the resolv.conf file")
	return cmd
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
