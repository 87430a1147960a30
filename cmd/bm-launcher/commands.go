package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/bm-launcher/internal/exporter"
	"github.com/nikbrunner/bm-launcher/internal/launcher"
	"github.com/nikbrunner/bm-launcher/internal/opener"
	"github.com/nikbrunner/bm-launcher/internal/picker"
	"github.com/nikbrunner/bm-launcher/internal/session"
)

func newPluginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plugin",
		Short: "Run as a pop-launcher plugin on stdin/stdout (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runPlugin(cmd.Context())
		},
	}
}

// runPlugin serves launcher requests until Exit, end of input, or an
// activation. A successful activation replaces the process.
func (a *app) runPlugin(ctx context.Context) error {
	records, err := a.loadRecords()
	if err != nil {
		return err
	}

	sess := a.newSession(records, a.cfg.Keyword, opener.Exec{Command: a.openerCommand()})
	a.log.Info("plugin started", "session", sess.ID(), "records", sess.Len(), "keyword", sess.Keyword())

	return launcher.Serve(ctx, a.stdin, a.stdout, sess, a.log)
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query...>",
		Short: "Print the best matches for a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			records, err := a.loadRecords()
			if err != nil {
				return err
			}

			sess := a.newSession(records, "", nil)
			var out session.Collector
			if err := sess.Search(&out, strings.Join(args, " ")); err != nil {
				return err
			}

			for _, e := range out.Entries {
				fmt.Fprintf(a.stdout, "%d\t%s\t%s\n", e.ID, e.Name, e.Description)
			}
			return nil
		},
	}
}

func newPickCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pick [query...]",
		Short: "Interactively search and open a bookmark",
		RunE: func(_ *cobra.Command, args []string) error {
			records, err := a.loadRecords()
			if err != nil {
				return err
			}

			sess := a.newSession(records, "", opener.Start{Command: a.openerCommand()})
			p, err := picker.Run(sess, strings.Join(args, " "), tea.WithAltScreen(), tea.WithInput(a.stdin), tea.WithOutput(a.stdout))
			if err != nil {
				return fmt.Errorf("running picker: %w", err)
			}
			if err := p.Err(); err != nil {
				return err
			}

			if selected, ok := p.Selected(); ok {
				fmt.Fprintf(a.stdout, "Opening: %s\n", selected.Target)
			}
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print every bookmark in traversal order",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			records, err := a.loadRecords()
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(a.stdout)
				enc.SetEscapeHTML(false)
				for _, r := range records {
					if err := enc.Encode(r); err != nil {
						return err
					}
				}
				return nil
			}

			for _, r := range records {
				fmt.Fprintf(a.stdout, "%s\t%s\n", r.Label, r.Target)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print one JSON object per line")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var keepTree bool

	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Export bookmarks as Netscape bookmark HTML (\"-\" for stdout)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			tree, err := a.loadTree()
			if err != nil {
				return err
			}

			records := tree.Records()
			content := exporter.ExportRecords(records)
			if keepTree {
				content = exporter.ExportHTML(tree)
			}

			var path string
			if len(args) > 0 {
				path = args[0]
			}
			if path == "-" {
				_, err := fmt.Fprint(a.stdout, content)
				return err
			}
			if path == "" {
				if path, err = exporter.DefaultExportPath(); err != nil {
					return err
				}
			}

			if err := exporter.WriteFile(path, content); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
			fmt.Fprintf(a.stdout, "Exported %d bookmarks to %s\n", len(records), path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&keepTree, "tree", false, "keep the folder structure instead of a flat list")
	return cmd
}
