package main

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kbukum/componentkit/config"
	"github.com/kbukum/componentkit/director"
	"github.com/kbukum/componentkit/resolver"
	"github.com/kbukum/componentkit/version"
)

type runFlags struct {
	configFile string
	envFile    string
	envPrefix  string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           director.ServiceName,
		Short:         "Run components in dependency order",
		Long:          "componentd builds the components listed in a config file, initializes them in dependency order and shuts them down in reverse on SIGINT or SIGTERM.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newCheckCmd(), newResolveCmd(), newVersionCmd())
	return root
}

func (f *runFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configFile, "config", "c", director.ServiceName+".yml", "config file")
	cmd.Flags().StringVar(&f.envFile, "env-file", "", ".env file loaded before environment binding")
	cmd.Flags().StringVar(&f.envPrefix, "env-prefix", "COMPONENTD", "only bind environment variables with this prefix")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "override log_level")
}

func (f *runFlags) loaderOptions() []config.LoaderOption {
	opts := []config.LoaderOption{config.WithEnvPrefix(f.envPrefix)}
	if f.envFile != "" {
		opts = append(opts, config.WithEnvFile(f.envFile))
	}
	return opts
}

func (f *runFlags) load() (*director.Config, error) {
	cfg, err := director.Load(f.configFile, f.loaderOptions()...)
	if err != nil {
		return nil, err
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newRunCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start every configured component and wait for a signal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			d := director.New()
			return d.Run(ctx, cfg)
		},
	}
	flags.bind(cmd)
	return cmd
}

func newCheckCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Load and validate a config file, then list its components",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d components, config_dir %s\n", cfg.Name, len(cfg.Components), cfg.ConfigDir)
			for _, c := range cfg.Components {
				ref := c.Package
				if ref == "" {
					ref = "-"
				}
				fmt.Fprintf(out, "  %s\t%s\t%s\t%v\n", c.Name, c.Type, ref, c.Dependencies)
			}
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func newResolveCmd() *cobra.Command {
	var configDir string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "resolve [package]",
		Short: "Print the name a package reference resolves to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := resolver.Spec{ConfigDir: configDir}
			if len(args) == 1 {
				spec.Package = args[0]
			}
			res, err := resolver.ResolveSpec(spec)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			fmt.Fprintf(out, "%s (%s)\n", res.Name, res.Kind)
			return nil
		},
	}
	cmd.Flags().StringVar(&configDir, "config-dir", "", "directory relative references resolve against")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
		},
	}
}
