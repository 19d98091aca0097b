package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ayusman/tuicher/internal/action"
	"github.com/ayusman/tuicher/internal/app"
	"github.com/ayusman/tuicher/internal/config"
	"github.com/ayusman/tuicher/internal/logging"
	"github.com/ayusman/tuicher/internal/plugin"
	"github.com/ayusman/tuicher/internal/store"
	"github.com/ayusman/tuicher/internal/ui"
)

type options struct {
	configDir string
	pluginDir string
	logLevel  string
	logFormat string
	logOutput string
	timeout   time.Duration
	framed    bool
}

// env is the wired application for one command invocation.
type env struct {
	log      zerolog.Logger
	settings *config.FileProvider
	store    *store.Store
	plugins  *plugin.Registry
	app      *app.App
	renderer *ui.Renderer
	closers  []func() error
}

func (e *env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i]())
	}
	return errors.Join(errs...)
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "tuicher",
		Short:         "Keyword launcher with out-of-process plugins",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configDir, "config-dir", "", "configuration directory (default: user config dir)")
	flags.StringVar(&opts.pluginDir, "plugin-dir", "", "plugin directory (default: <config-dir>/plugins)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "console", "log format: console or json")
	flags.StringVar(&opts.logOutput, "log-output", "stderr", "log destination: stderr, stdout or a file path")
	flags.DurationVar(&opts.timeout, "timeout", 5*time.Second, "plugin exchange timeout (0 disables)")
	flags.BoolVar(&opts.framed, "frame", false, "draw a border around result lists")

	root.AddCommand(
		newSearchCmd(opts),
		newSelectCmd(opts),
		newHistoryCmd(opts),
		newConfigCmd(opts),
		newPluginsCmd(opts),
	)
	return root
}

func (o *options) resolveDirs() (configDir, pluginDir string, err error) {
	configDir = o.configDir
	if configDir == "" {
		if configDir, err = config.DefaultDir(); err != nil {
			return "", "", err
		}
	}

	pluginDir = o.pluginDir
	if pluginDir == "" {
		pluginDir = filepath.Join(configDir, "plugins")
	}
	return configDir, pluginDir, nil
}

// setup wires logging, settings, history and the launcher.
func (o *options) setup() (*env, error) {
	configDir, pluginDir, err := o.resolveDirs()
	if err != nil {
		return nil, err
	}

	log, closeLog, err := logging.New(logging.Options{Level: o.logLevel, Format: o.logFormat, Output: o.logOutput})
	if err != nil {
		return nil, err
	}
	e := &env{log: log, closers: []func() error{closeLog}}

	e.settings = config.NewFileProvider(configDir, log)
	cfg, err := e.settings.Load()
	if err != nil {
		e.Close()
		return nil, err
	}
	e.renderer = ui.NewRenderer(cfg.Theme, o.framed)

	e.store, err = store.New(filepath.Join(configDir, "history.db"))
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	e.closers = append(e.closers, e.store.Close)

	e.plugins = plugin.NewRegistry(pluginDir, log)
	e.app, err = app.New(app.Config{
		Settings: e.settings,
		Plugins:  e.plugins,
		Runner:   plugin.NewExecutor(o.timeout, log),
		Dispatcher: action.NewDispatcher(action.Config{
			Opener:    action.NewSystemOpener(),
			Clipboard: action.NewSystemClipboard(),
			Session:   action.NewSystemSession(),
			Settings:  e.settings,
			Logger:    log,
		}),
		History: e.store.History(),
		Logger:  log,
	})
	if err != nil {
		e.Close()
		return nil, err
	}

	log.Debug().Str("config_dir", configDir).Str("plugin_dir", pluginDir).Msg("launcher ready")
	return e, nil
}

// withEnv runs fn with a wired env and closes it afterwards.
func (o *options) withEnv(fn func(e *env) error) error {
	e, err := o.setup()
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(e)
}

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _, err := opts.resolveDirs()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), config.NewFileProvider(configDir, zerolog.Nop()).Path())
			return nil
		},
	})
	return cmd
}

func newPluginsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List registered plugins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withEnv(func(e *env) error {
				list := e.plugins.List()
				if len(list) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no plugins registered")
					return nil
				}
				for _, p := range list {
					fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-8s %s\n", p.ID, p.Keyword, p.Executable)
				}
				return nil
			})
		},
	}
}
