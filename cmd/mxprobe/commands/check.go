package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/optimode/mxprobe"
)

func newCheckCmd(a *app) *cobra.Command {
	var (
		format  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "check <email> [email...]",
		Short: "Probe one or more addresses and print the verdicts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "text" {
				return fmt.Errorf("unknown output format %q (want json or text)", format)
			}

			p, err := a.prober()
			if err != nil {
				return err
			}

			results := make([]mxprobe.Result, 0, len(args))
			for _, email := range args {
				ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
				results = append(results, p.Verify(ctx, email))
				cancel()
			}

			if format == "text" {
				return writeText(cmd.OutOrStdout(), results)
			}
			return writeJSONLines(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "json", "output format: json or text")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "upper bound for each address")
	return cmd
}

func writeJSONLines(w io.Writer, results []mxprobe.Result) error {
	enc := json.NewEncoder(w)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

func writeText(w io.Writer, results []mxprobe.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EMAIL\tSTATUS\tMX\tCODE\tERROR")
	for _, r := range results {
		code := "-"
		if r.SMTPCode != 0 {
			code = fmt.Sprint(r.SMTPCode)
		}
		mx := r.MXUsed
		if mx == "" {
			mx = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Email, r.Status, mx, code, r.Error)
	}
	return tw.Flush()
}
