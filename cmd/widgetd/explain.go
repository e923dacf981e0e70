package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vango-dev/widgetkit/internal/errors"
)

func explainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain [code]",
		Short: "Describe an error code",
		Long: `Describe an error code, or list every code when none is given.

Examples:
  widgetd explain
  widgetd explain W002`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "CODE\tCATEGORY\tMESSAGE")
				for _, code := range errors.Codes() {
					tmpl, _ := errors.Lookup(code)
					fmt.Fprintf(tw, "%s\t%s\t%s\n", code, tmpl.Category, tmpl.Message)
				}
				return tw.Flush()
			}

			if _, ok := errors.Lookup(args[0]); !ok {
				return errors.New("W201").
					WithOp("explain").
					WithDetail(fmt.Sprintf("unknown error code %q", args[0])).
					WithSuggestion("Run 'widgetd explain' to list the codes")
			}
			fmt.Fprint(out, errors.New(args[0]).Format())
			return nil
		},
	}
}
