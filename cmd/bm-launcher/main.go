// Command bm-launcher fuzzy-searches browser bookmarks. By default it runs as
// a pop-launcher plugin speaking JSON lines on stdin and stdout.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// run executes the command line args against the given streams.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "bm-launcher",
		Short: "Fuzzy-search browser bookmarks",
		Long: `bm-launcher - fuzzy-search browser bookmarks

Without a subcommand it runs as a pop-launcher plugin: queries starting with
the keyword ("cb" by default) are answered with the best matching bookmarks,
and activating a result opens it with the system URL handler.

Configuration:
  ~/.config/bm-launcher/config.toml
  BM_LAUNCHER_SOURCE, BM_LAUNCHER_PATH, BM_LAUNCHER_KEYWORD,
  BM_LAUNCHER_MAX_RESULTS, BM_LAUNCHER_LOG_LEVEL (also read from .env)`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runPlugin(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.flags.source, "source", "", "bookmark source: chrome, chromium, brave, firefox, html")
	flags.StringVar(&a.flags.path, "path", "", "bookmark store path (default: the browser's profile)")
	flags.StringVar(&a.flags.config, "config", "", "config file (default ~/.config/bm-launcher/config.toml)")
	flags.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newPluginCmd(a),
		newSearchCmd(a),
		newPickCmd(a),
		newListCmd(a),
		newExportCmd(a),
	)
	return root
}
