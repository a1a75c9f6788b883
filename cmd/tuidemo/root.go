package main

import (
	"fmt"

	"github.com/grindlemire/tuicore/internal/config"
	"github.com/spf13/cobra"
)

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	configPath string
}

// load reads the config file named by --config, if any.
func (o *rootOptions) load() (*config.Config, error) {
	return config.Load(o.configPath)
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "tuidemo",
		Short:         "Lay out and run YAML render trees",
		Long:          "tuidemo loads a render tree from a YAML file and prints its layout or mounts it on the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (yaml, toml or json)")

	cmd.AddCommand(newLayoutCommand(opts))
	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tuidemo version %s\n", version)
		},
	})

	return cmd
}
