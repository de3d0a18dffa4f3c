package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/httpdiff/internal/config"
)

// buildConfig creates a Config from the configuration file and cobra
// command flags. Flags set on the command line win over the file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error

	if cfg.Method, err = flags.GetString("method"); err != nil {
		return nil, err
	}
	if cfg.Body, err = flags.GetString("body"); err != nil {
		return nil, err
	}
	if cfg.Host, err = flags.GetString("host"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = flags.GetString("agent"); err != nil {
		return nil, err
	}
	if cfg.HeaderFlags, err = flags.GetStringArray("header"); err != nil {
		return nil, err
	}
	if cfg.HeadersFile, err = flags.GetString("headers"); err != nil {
		return nil, err
	}
	if cfg.Ignore, err = flags.GetStringArray("ignore"); err != nil {
		return nil, err
	}
	if cfg.DiffTool, err = flags.GetString("diffapp"); err != nil {
		return nil, err
	}
	if cfg.KeepTempFiles, err = flags.GetBool("keep"); err != nil {
		return nil, err
	}
	if cfg.Insecure, err = flags.GetBool("insecure"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.ConnectTimeout, err = flags.GetDuration("connect-timeout"); err != nil {
		return nil, err
	}
	if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
		return nil, err
	}
	if cfg.Proxy, err = flags.GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.FollowRedirects, err = flags.GetBool("follow-redirects"); err != nil {
		return nil, err
	}
	if cfg.Mono, err = flags.GetBool("mono"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if cfg.Profile, err = flags.GetString("profile"); err != nil {
		return nil, err
	}
	if cfg.LogFormat, err = flags.GetString("log-format"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	cfg.URLs = args

	if err := applyConfigFile(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyConfigFile merges the configuration file into cfg.
// If user explicitly specified a config file path, error if not found.
// If no path specified, silently continue if no file found.
func applyConfigFile(cmd *cobra.Command, cfg *config.Config) error {
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath == "" {
		if explicitConfigPath {
			return fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
		}
		if cfg.Profile != "" {
			return fmt.Errorf("%w: %q (no configuration file found)", config.ErrUnknownProfile, cfg.Profile)
		}
		return nil
	}

	file, err := config.LoadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	profile, err := file.GetProfile(cfg.Profile)
	if err != nil {
		return err
	}

	cfg.Apply(profile, cmd.Flags().Changed)
	return nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
