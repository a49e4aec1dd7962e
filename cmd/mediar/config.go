package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/mediar/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}
	cmd.AddCommand(newConfigTestCmd(a), newConfigInitCmd(a))
	return cmd
}

func newConfigTestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "test [path]",
		Short:       "Validate configuration file",
		Long:        "Validates config.toml syntax, field values and environment variable substitution.",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(_ *cobra.Command, args []string) error {
			path := a.configPath
			if len(args) > 0 {
				path = args[0]
			}
			if path == "" {
				found, err := config.Discover()
				if err != nil {
					return err
				}
				path = found
			}

			printf(a.out, "Validating %s...\n\n", path)

			cfg, err := config.Load(path)
			if err != nil {
				var configErr *config.ConfigError
				if errors.As(err, &configErr) {
					a.printConfigErrors(configErr)
					return fmt.Errorf("configuration invalid")
				}
				return fmt.Errorf("failed to load config: %w", err)
			}

			a.printConfigSummary(cfg)
			if cfg.TMDB.APIToken == "" {
				printf(a.out, "\nWarning: no TMDB API token; organize and search need %s or tmdb.api_token\n", config.TokenEnv)
			}
			printf(a.out, "\nConfiguration valid!\n")
			return nil
		},
	}
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:         "init [path]",
		Short:       "Write an example configuration file",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(_ *cobra.Command, args []string) error {
			path := config.DefaultPath()
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.WriteDefault(path); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			printf(a.out, "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}

func (a *app) printConfigErrors(e *config.ConfigError) {
	if len(e.Missing) > 0 {
		printf(a.out, "Missing environment variables:\n")
		for _, m := range e.Missing {
			printf(a.out, "  - %s\n", m)
		}
		printf(a.out, "\n")
	}

	if len(e.Errors) > 0 {
		printf(a.out, "Validation errors:\n")
		for _, err := range e.Errors {
			printf(a.out, "  - %s\n", err)
		}
		printf(a.out, "\n")
	}
}

func (a *app) printConfigSummary(cfg *config.Config) {
	root := cfg.Library.Root
	if root == "" {
		root = "(target argument required)"
	}
	printf(a.out, "Configuration Summary:\n")
	printf(a.out, "  Log level:    %s\n", cfg.LogLevel)
	printf(a.out, "  Library:      %s\n", root)
	printf(a.out, "  Action:       %s (rerun policy: %s)\n", cfg.Library.Action, cfg.Library.RerunPolicy)
	printf(a.out, "  TMDB:         %s (language: %s, cache ttl: %s)\n", cfg.TMDB.BaseURL, cfg.TMDB.Language, cfg.TMDB.CacheTTL)
	if cfg.TVDB.APIKey != "" {
		printf(a.out, "  TVDB:         %s\n", cfg.TVDB.BaseURL)
	}
	printf(a.out, "  Database:     %s\n", cfg.Database.Path)
}
