package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/ccnlkit/pkg/ccnl/preview"
	"github.com/randalmurphal/ccnlkit/pkg/ccnl/service"
)

// outputFlags selects how a rendered document is printed.
type outputFlags struct {
	html   bool
	pretty bool
	width  int
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.html, "html", false, "print a sanitized HTML preview with missing keys highlighted")
	cmd.Flags().BoolVar(&o.pretty, "pretty", false, "render the document as markdown for the terminal")
	cmd.Flags().IntVar(&o.width, "width", 80, "word wrap width for --pretty")
	cmd.MarkFlagsMutuallyExclusive("html", "pretty")
}

func (o *outputFlags) write(w io.Writer, doc service.Document) {
	switch {
	case o.html:
		fmt.Fprint(w, preview.JoinSections(doc.SectionsResult()))
	case o.pretty:
		fmt.Fprint(w, preview.Terminal(doc.Output, o.width))
	default:
		fmt.Fprintln(w, doc.Output)
	}
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		pairs      []string
		valuesFile string
		save       bool
		strict     bool
		output     outputFlags
	)

	cmd := &cobra.Command{
		Use:   "render <template-id>",
		Short: "Render a catalog template",
		Long: `Render every section of a catalog template. Unresolved placeholders are
kept as {{key}} and listed on standard error.`,
		Example: `  ccnl render lettera-assunzione --set name="Mario Rossi" --set company.name=ACME
  ccnl render lettera-assunzione --values assunzione.yaml --save
  ccnl render lettera-assunzione --values assunzione.yaml --html > anteprima.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bindings, err := parseBindings(valuesFile, pairs)
			if err != nil {
				return err
			}
			svc, closeStore, err := a.service(save)
			if err != nil {
				return err
			}
			defer closeStore()

			ctx := commandContext(cmd)
			display := bindings
			if output.html {
				display = preview.EscapeBindings(a.renderer(), bindings)
			}
			doc, err := svc.RenderDocument(ctx, args[0], display)
			if err != nil {
				return err
			}
			output.write(a.out, doc)
			if !doc.Complete() {
				fmt.Fprintln(a.errOut, missingLine(doc.MissingKeys))
			}

			if save {
				d, err := svc.SaveDocument(ctx, doc, bindings)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.errOut, successStyle.Render("draft saved: "+d.ID))
			}
			if strict {
				return doc.Err()
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&pairs, "set", nil, "bind a placeholder (key=value), repeatable")
	cmd.Flags().StringVar(&valuesFile, "values", "", "YAML or JSON file with placeholder values")
	cmd.Flags().BoolVar(&save, "save", false, "save the result as a draft")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when placeholders are missing")
	output.register(cmd)
	return cmd
}
