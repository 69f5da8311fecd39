// Copyright 2024 The tawhiri authors.
// SPDX-License-Identifier: Apache-2.0

// Package cmd wires the ctl commands into a cobra command tree with
// flag/env/config-file plumbing.
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	tawhiri "github.com/KerlinMichel/tawhiri"
	"github.com/KerlinMichel/tawhiri/errors"
	"github.com/KerlinMichel/tawhiri/logger"
	"github.com/KerlinMichel/tawhiri/prometheus"
)

func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	conf := tawhiri.NewConfig()
	rc := &cobra.Command{
		Use:   "tawhiri",
		Short: "tawhiri wind dataset tools.",
		Long: `Tools for administering the memory-mapped wind dataset files fed to the
trajectory predictor: allocating fresh datasets, listing a dataset
directory and inspecting dataset contents.

` + tawhiri.VersionInfo() + "\n",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			return setAllConfig(v, cmd.Flags())
		},
	}
	flags := rc.PersistentFlags()
	flags.StringP("config", "c", "", "Configuration file to read from.")
	flags.StringVarP(&conf.DataDir, "data-dir", "d", conf.DataDir, "Directory datasets live in.")
	flags.BoolVar(&conf.Verbose, "verbose", conf.Verbose, "Enable debug logging.")
	flags.StringVar(&conf.Stats, "stats", conf.Stats, "Stats client: "+strings.Join(tawhiri.StatsTypes, ", ")+".")

	rc.AddCommand(newCreateCommand(conf, stdin, stdout, stderr))
	rc.AddCommand(newListCommand(conf, stdin, stdout, stderr))
	rc.AddCommand(newInspectCommand(conf, stdin, stdout, stderr))
	rc.AddCommand(newGenerateConfigCommand(stdin, stdout, stderr))

	rc.SetOut(stdout)
	rc.SetErr(stderr)
	return rc
}

// setupCommand applies the resolved configuration to a ctl command's IO:
// verbose logging if requested, and the configured stats client.
func setupCommand(conf *tawhiri.Config, cio *tawhiri.CmdIO) (tawhiri.StatsClient, error) {
	if conf.Verbose {
		cio.SetLogger(logger.NewVerboseLogger(cio.Stderr))
	}
	return newStatsClient(conf.Stats, cio.Logger())
}

// newStatsClient dispatches on the configured stats client name.
func newStatsClient(name string, log logger.Logger) (tawhiri.StatsClient, error) {
	switch name {
	case "nop", "":
		return tawhiri.NopStatsClient, nil
	case "expvar":
		return tawhiri.NewExpvarStatsClient(), nil
	case "prometheus":
		return prometheus.NewPrometheusClient(log), nil
	default:
		return nil, errors.Errorf("unknown stats client %q (accepted: %s)",
			name, strings.Join(tawhiri.StatsTypes, ", "))
	}
}

// setAllConfig takes a FlagSet to be the definition of all configuration
// options, as well as their defaults. It then reads from the command line,
// the environment, and a config file (if specified), and applies the
// configuration in that priority order. Since each flag in the set contains
// a pointer to where its value should be stored, setAllConfig can directly
// modify the value of each config variable.
//
// setAllConfig looks for environment variables which are capitalized
// versions of the flag names with dashes replaced by underscores, and
// prefixed with TAWHIRI plus an underscore.
func setAllConfig(v *viper.Viper, flags *pflag.FlagSet) error {
	// add cmd line flag def to viper
	if err := v.BindPFlags(flags); err != nil {
		return err
	}

	// add env to viper
	v.SetEnvPrefix("TAWHIRI")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	c := v.GetString("config")
	validTags := make(map[string]bool)
	flags.VisitAll(func(f *pflag.Flag) {
		validTags[f.Name] = true
	})

	// add config file to viper
	if c != "" {
		v.SetConfigFile(c)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading configuration file '%s': %v", c, err)
		}
		for _, key := range v.AllKeys() {
			if _, ok := validTags[key]; !ok {
				return fmt.Errorf("invalid option in configuration file: %v", key)
			}
		}
	}

	// set all values from viper back onto the flags
	var flagErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if flagErr != nil {
			return
		}
		if !f.Changed && v.IsSet(f.Name) {
			if err := f.Value.Set(v.GetString(f.Name)); err != nil {
				flagErr = err
			}
		}
	})
	return flagErr
}
