package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/ccnlkit/pkg/ccnl/drafts"
)

const draftTimeLayout = "02/01/2006 15:04"

func newDraftsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "Manage saved drafts",
	}
	cmd.AddCommand(
		newDraftsListCmd(a),
		newDraftsShowCmd(a),
		newDraftsResumeCmd(a),
		newDraftsDeleteCmd(a),
	)
	return cmd
}

func newDraftsListCmd(a *app) *cobra.Command {
	var templateID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List drafts, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			list, err := store.List(commandContext(cmd), templateID)
			if err != nil {
				return fmt.Errorf("list drafts: %w", err)
			}
			if len(list) == 0 {
				fmt.Fprintln(a.out, mutedStyle.Render("no drafts"))
				return nil
			}

			t := &table{
				headers: []string{"ID", "TEMPLATE", "UPDATED", "MISSING"},
				right:   map[int]bool{3: true},
			}
			for _, d := range list {
				t.add(d.ID, d.TemplateID, d.UpdatedAt.Local().Format(draftTimeLayout), strconv.Itoa(len(d.MissingKeys)))
			}
			fmt.Fprint(a.out, t.render())
			return nil
		},
	}
	cmd.Flags().StringVar(&templateID, "template", "", "only drafts of this template")
	return cmd
}

func newDraftsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			d, err := store.Load(commandContext(cmd), args[0])
			if err != nil {
				return fmt.Errorf("load draft %s: %w", args[0], err)
			}
			printDraft(a, d)
			return nil
		},
	}
}

func newDraftsResumeCmd(a *app) *cobra.Command {
	var (
		pairs      []string
		valuesFile string
		strict     bool
	)

	cmd := &cobra.Command{
		Use:   "resume <id>",
		Short: "Add values to a draft and render it again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			extra, err := parseBindings(valuesFile, pairs)
			if err != nil {
				return err
			}
			svc, closeStore, err := a.service(true)
			if err != nil {
				return err
			}
			defer closeStore()

			d, err := svc.ResumeDraft(commandContext(cmd), args[0], extra)
			if err != nil {
				return err
			}
			printDraft(a, d)
			if strict && !d.Complete() {
				return fmt.Errorf("draft %s still has %d missing values", d.ID, len(d.MissingKeys))
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&pairs, "set", nil, "bind a placeholder (key=value), repeatable")
	cmd.Flags().StringVar(&valuesFile, "values", "", "YAML or JSON file with placeholder values")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when placeholders are still missing")
	return cmd
}

func newDraftsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(commandContext(cmd), args[0]); err != nil {
				return fmt.Errorf("delete draft %s: %w", args[0], err)
			}
			fmt.Fprintln(a.errOut, successStyle.Render("draft deleted: "+args[0]))
			return nil
		},
	}
}

func printDraft(a *app, d drafts.Draft) {
	fmt.Fprintln(a.errOut, mutedStyle.Render(fmt.Sprintf("%s  %s  %s", d.ID, d.TemplateID, d.UpdatedAt.Local().Format(draftTimeLayout))))
	fmt.Fprintln(a.out, d.Output)
	if d.Complete() {
		fmt.Fprintln(a.errOut, successStyle.Render("complete"))
		return
	}
	fmt.Fprintln(a.errOut, missingLine(d.MissingKeys))
}
