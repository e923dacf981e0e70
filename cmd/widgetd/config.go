package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vango-dev/widgetkit/internal/config"
	"github.com/vango-dev/widgetkit/internal/errors"
)

func configCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect configuration files",
	}
	cmd.AddCommand(configInitCmd(), configShowCmd(configPath))
	return cmd
}

func configInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file holding the defaults",
		Long: `Write a config file holding the built-in defaults. The format follows
the file extension: .json, .yaml, .yml or .toml.

Examples:
  widgetd config init
  widgetd config init widgetd.toml --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ConfigBaseName + ".yaml"
			if len(args) > 0 {
				path = args[0]
			}

			if _, err := os.Stat(path); err == nil && !force {
				return errors.New("W201").
					WithOp("config init").
					WithDetail(fmt.Sprintf("%s already exists", path)).
					WithSuggestion("Pass --force to overwrite it")
			}

			cfg := config.New()
			if err := cfg.SaveTo(path); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "wrote %s", cfg.Path())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}

func configShowCmd(configPath *string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults are applied.

Examples:
  widgetd config show
  widgetd config show -c widgetd.toml --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			ext := "." + strings.TrimPrefix(format, ".")
			data, err := cfg.Marshal(ext)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if path := cfg.Path(); path != "" && ext != ".json" {
				fmt.Fprintf(out, "# loaded from %s\n", path)
			}
			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: json, yaml or toml")

	return cmd
}
