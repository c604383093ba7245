package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/ccnlkit/pkg/ccnl/cost"
)

func newCompareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <code-a> <code-b>",
		Short: "Compare the annual employer cost of two contract profiles",
		Long: `Simulate two catalog profiles and print each cost line side by side.
Deltas are B - A; the percentage is relative to A.`,
		Example: `  ccnl compare COMM-4 METAL-5`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := a.service(false)
			if err != nil {
				return err
			}
			defer closeStore()

			cmp, err := svc.CompareProfiles(commandContext(cmd), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, comparisonTable(cmp))
			fmt.Fprintln(a.out, verdict(cmp))
			return nil
		},
	}
}

func comparisonTable(cmp cost.Comparison) string {
	t := &table{
		headers: []string{"VOCE", cmp.A.Code, cmp.B.Code, "DELTA", "%"},
		right:   map[int]bool{1: true, 2: true, 3: true, 4: true},
	}
	for _, l := range cmp.Lines {
		t.add(l.Name, cost.Format(l.A), cost.Format(l.B), cost.Format(l.Delta), cost.FormatPercent(l.Percent))
	}
	t.add(
		headerStyle.Render("Totale annuo"),
		cost.Format(cmp.A.TotalAnnual),
		cost.Format(cmp.B.TotalAnnual),
		cost.Format(cmp.DeltaAnnual),
		cost.FormatPercent(cmp.Percent),
	)
	t.add(
		headerStyle.Render("Totale mensile"),
		cost.Format(cmp.A.TotalMonthly),
		cost.Format(cmp.B.TotalMonthly),
		cost.Format(cmp.DeltaMonthly),
		"",
	)
	return t.render()
}

func verdict(cmp cost.Comparison) string {
	if cmp.Cheaper == "" {
		return mutedStyle.Render("same annual cost")
	}
	return successStyle.Render(fmt.Sprintf("%s is cheaper by %s per year", cmp.Cheaper, cost.Format(absolute(cmp.DeltaAnnual))))
}

func absolute(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func newSimulateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "simulate <code>",
		Short: "Print the annual employer cost of a contract profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := a.service(false)
			if err != nil {
				return err
			}
			defer closeStore()

			b, err := svc.SimulateProfile(args[0])
			if err != nil {
				return err
			}
			t := &table{
				headers: []string{"VOCE", "ANNUO", "MENSILE"},
				right:   map[int]bool{1: true, 2: true},
			}
			t.add("Retribuzione lorda", cost.Format(b.GrossAnnual), cost.Format(b.GrossMonthly))
			for _, l := range b.Lines {
				t.add(l.Name, cost.Format(l.Annual), cost.Format(l.Monthly))
			}
			t.add(headerStyle.Render("Totale"), cost.Format(b.TotalAnnual), cost.Format(b.TotalMonthly))
			fmt.Fprint(a.out, t.render())
			return nil
		},
	}
}
