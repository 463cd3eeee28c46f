package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/k1LoW/errors"
	"github.com/spf13/cobra"
	rootpkg "tools.zach/dev/pwsthumb"
	"tools.zach/dev/pwsthumb/internal/atomicfile"
	"tools.zach/dev/pwsthumb/internal/config"
)

// ///////////////////////////////////////////////
// Config Subcommands
// ///////////////////////////////////////////////

func newConfigCommand(o *options, stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the pwsthumb config file",
		Args:  cobra.NoArgs,
	}

	var force bool
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Write the documented default config",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(*cobra.Command, []string) error {
			return errors.WithStack(initConfig(o.configPath, force, stdout))
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")

	showCmd := &cobra.Command{
		Use:          "show",
		Short:        "Print the effective config",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(*cobra.Command, []string) error {
			cfg, err := config.Load(o.configPath)
			if err != nil {
				return errors.WithStack(err)
			}
			data, err := cfg.Encode()
			if err != nil {
				return errors.WithStack(err)
			}
			_, err = stdout.Write(data)
			return err
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintln(stdout, o.configPath)
		},
	}

	cmd.AddCommand(initCmd, showCmd, pathCmd)
	return cmd
}

// initConfig writes the embedded default config to path.
func initConfig(path string, force bool, stdout io.Writer) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := atomicfile.Write(path, rootpkg.DefaultConfigTOML, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(stdout, "wrote %s\n", path)
	return nil
}
