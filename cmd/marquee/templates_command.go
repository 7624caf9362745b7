package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"marquee/internal/media"
)

func newTemplatesCommand(ctx *commandContext) *cobra.Command {
	templatesCmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect stored caption templates",
	}
	templatesCmd.AddCommand(newTemplatesListCommand(ctx))
	return templatesCmd
}

func newTemplatesListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <user-id> <category>",
		Short: "List a user's templates for a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			category, ok := media.ParseCategory(args[1])
			if !ok {
				return fmt.Errorf("unknown category %q (movie, series, anime, comic)", args[1])
			}

			users, err := ctx.openStore()
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer users.Close()

			templates, err := users.ListTemplates(cmd.Context(), id, category)
			if err != nil {
				return fmt.Errorf("list templates: %w", err)
			}
			if len(templates) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No %s templates for user %d\n", category, id)
				return nil
			}

			rows := make([][]string, 0, len(templates))
			for _, tpl := range templates {
				active := ""
				if tpl.Active {
					active = "yes"
				}
				rows = append(rows, []string{tpl.Name, active, fmt.Sprint(len(tpl.Body))})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Name", "Active", "Body bytes"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
}
