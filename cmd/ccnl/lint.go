package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/ccnlkit/pkg/ccnl/catalog"
)

func newLintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Check catalog templates for unused and undeclared fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := catalog.LoadPath(a.settings.CatalogPath)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			issues := cat.LintAll()
			if len(issues) == 0 {
				fmt.Fprintln(a.out, successStyle.Render(fmt.Sprintf("%d templates, %d profiles: no issues",
					len(cat.TemplateIDs()), len(cat.ProfileCodes()))))
				return nil
			}
			for _, issue := range issues {
				fmt.Fprintln(a.out, warningStyle.Render(issue.String()))
			}
			return fmt.Errorf("%d lint issues", len(issues))
		},
	}
}
