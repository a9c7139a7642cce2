package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/zatekoja/feedbackdashboard/internal/infrastructure/observability"
)

type renderOptions struct {
	out    string
	strict bool
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Load the dashboard once and write it as a standalone HTML document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.out, "out", "o", "-", `output file, "-" for stdout`)
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit non-zero when the load hit a failure")
	return cmd
}

func runRender(cmd *cobra.Command, root *rootOptions, opts *renderOptions) error {
	ctx := cmd.Context()
	application, _, closeApp, err := loadApp(ctx, root)
	if err != nil {
		return err
	}
	defer closeApp()

	var buf bytes.Buffer
	report, err := application.RenderOnce(ctx, &buf)
	if err != nil {
		return err
	}

	if err := writeOutput(cmd.OutOrStdout(), opts.out, buf.Bytes()); err != nil {
		return err
	}

	observability.GetLogger().Info().
		Str("run_id", report.RunID).
		Int("rows", report.Rows).
		Bool("chart_created", report.ChartCreated).
		Dur("duration", report.Duration).
		Msg("Dashboard rendered")

	if opts.strict && report.Failed() {
		return fmt.Errorf("dashboard load failed: %w", report.Err)
	}
	return nil
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
