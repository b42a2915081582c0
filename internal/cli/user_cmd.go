package cli

import (
	"fmt"

	"github.com/alexanderramin/credo/internal/cli/formatter"
	"github.com/alexanderramin/credo/internal/domain"
	"github.com/spf13/cobra"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage the users recorded on edits",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add NAME",
			Short: "Register a user",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				u := &domain.User{Name: args[0]}
				if err := app.Users.Create(cmd.Context(), u); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Added user "+u.Name))
				return nil
			},
		},
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "List users",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				users, err := app.Users.List(cmd.Context())
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(users))
				for _, u := range users {
					name := u.Name
					if u.Name == app.UserName {
						name = formatter.Bold(name) + formatter.Dim(" (you)")
					}
					rows = append(rows, []string{formatter.TruncID(u.ID), name, formatter.HumanTimestamp(u.CreatedAt)})
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"ID", "NAME", "SINCE"}, rows))
				return nil
			},
		},
	)
	return cmd
}
