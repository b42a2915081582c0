package cli

import (
	"fmt"

	"github.com/alexanderramin/credo/internal/cli/formatter"
	"github.com/alexanderramin/credo/internal/domain"
	"github.com/spf13/cobra"
)

func newModelCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Manage models",
	}

	cmd.AddCommand(
		newModelAddCmd(app),
		newModelListCmd(app),
		newModelRemoveCmd(app),
	)
	return cmd
}

func newModelAddCmd(app *App) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := &domain.Model{Name: args[0], Description: description}
			if err := app.Models.Create(cmd.Context(), m); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Created model %s (%s)", m.Name, m.DisplayID())))
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Model description")
	return cmd
}

func newModelListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List models",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			models, err := app.Models.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(models) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No models. Create one with: credo model add NAME"))
				return nil
			}

			rows := make([][]string, 0, len(models))
			for _, m := range models {
				rows = append(rows, []string{
					formatter.TruncID(m.ID),
					formatter.Bold(m.Name),
					m.Description,
					formatter.HumanTimestamp(m.CreatedAt),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"ID", "NAME", "DESCRIPTION", "CREATED"}, rows))
			return nil
		},
	}
}

func newModelRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm REF",
		Aliases: []string{"remove"},
		Short:   "Delete a model and every tree in it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.Models.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := app.Models.Delete(cmd.Context(), m.ID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Removed model "+m.Name))
			return nil
		},
	}
}
