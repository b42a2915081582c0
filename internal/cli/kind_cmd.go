package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/alexanderramin/credo/internal/cli/formatter"
	"github.com/alexanderramin/credo/internal/domain"
	"github.com/alexanderramin/credo/internal/outline"
	"github.com/alexanderramin/credo/internal/service"
	"github.com/alexanderramin/credo/internal/tree"
	"github.com/spf13/cobra"
)

// kind describes how the generic tree commands read and write one node kind.
type kind[N domain.TreeNode] struct {
	name     string
	short    string
	textName string // flag and field name of the kind's text
	app      *App
	svc      func() service.TreeService[N]
	newNode  func(text, description string) N
	text     func(N) string
	// fields exposes the kind's editable text fields.
	fields func(N) (text *string, description *string)
}

func decisionKind(app *App) kind[*domain.Decision] {
	return kind[*domain.Decision]{
		name:     "decision",
		short:    "Manage the decision tree",
		textName: "title",
		app:      app,
		svc:      func() service.DecisionService { return app.Decisions },
		newNode: func(text, desc string) *domain.Decision {
			return &domain.Decision{Title: text, Description: desc}
		},
		text:   func(d *domain.Decision) string { return d.Title },
		fields: func(d *domain.Decision) (*string, *string) { return &d.Title, &d.Description },
	}
}

func uncertaintyKind(app *App) kind[*domain.Uncertainty] {
	return kind[*domain.Uncertainty]{
		name:     "uncertainty",
		short:    "Manage the uncertainty tree",
		textName: "name",
		app:      app,
		svc:      func() service.UncertaintyService { return app.Uncertainties },
		newNode: func(text, desc string) *domain.Uncertainty {
			return &domain.Uncertainty{Name: text, Description: desc}
		},
		text:   func(u *domain.Uncertainty) string { return u.Name },
		fields: func(u *domain.Uncertainty) (*string, *string) { return &u.Name, &u.Description },
	}
}

func requirementKind(app *App) kind[*domain.SystemRequirement] {
	return kind[*domain.SystemRequirement]{
		name:     "requirement",
		short:    "Manage the system requirement tree",
		textName: "statement",
		app:      app,
		svc:      func() service.RequirementService { return app.Requirements },
		newNode: func(text, desc string) *domain.SystemRequirement {
			return &domain.SystemRequirement{Statement: text, Description: desc}
		},
		text:   func(r *domain.SystemRequirement) string { return r.Statement },
		fields: func(r *domain.SystemRequirement) (*string, *string) { return &r.Statement, &r.Description },
	}
}

func newKindCmd[N domain.TreeNode](k kind[N]) *cobra.Command {
	cmd := &cobra.Command{
		Use:   k.name,
		Short: k.short,
	}

	cmd.AddCommand(
		k.addCmd(),
		k.listCmd(),
		k.showCmd(),
		k.updateCmd(),
		k.removeCmd(),
		k.moveCmd(),
		k.dropCmd(),
		k.renumberCmd(),
	)
	return cmd
}

// scope resolves the model and acting user every mutating command needs.
func (k kind[N]) scope(ctx context.Context, modelRef string) (*domain.Model, *domain.User, error) {
	model, err := resolveModel(ctx, k.app, modelRef)
	if err != nil {
		return nil, nil, err
	}
	user, err := actingUser(ctx, k.app)
	if err != nil {
		return nil, nil, err
	}
	return model, user, nil
}

func (k kind[N]) addCmd() *cobra.Command {
	var modelRef, parentRef, description string

	cmd := &cobra.Command{
		Use:   "add " + strings.ToUpper(k.textName),
		Short: "Add a " + k.name + " and number it after its siblings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			model, user, err := k.scope(ctx, modelRef)
			if err != nil {
				return err
			}

			n := k.newNode(strings.TrimSpace(args[0]), description)
			n.Base().ModelID = model.ID
			if parentRef != "" {
				parent, err := k.svc().Resolve(ctx, model.ID, parentRef)
				if err != nil {
					return fmt.Errorf("resolving parent: %w", err)
				}
				n.Base().ParentID = domain.StrPtr(parent.Base().ID)
			}

			if err := k.svc().Create(ctx, n, user); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Added %s %s %s", k.name, formatter.Label(n.Base().Label()), k.text(n))))
			return nil
		},
	}

	addModelFlag(cmd.Flags(), &modelRef)
	cmd.Flags().StringVarP(&parentRef, "parent", "p", "", "Parent generated ID or node ID")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Free-text description")
	return cmd
}

func (k kind[N]) listCmd() *cobra.Command {
	var modelRef string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the " + k.name + " tree of a model",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			model, err := resolveModel(ctx, k.app, modelRef)
			if err != nil {
				return err
			}
			nodes, err := k.svc().ListByModel(ctx, model.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Header(model.Name+" / "+k.name))
			if len(nodes) == 0 {
				fmt.Fprintln(out, formatter.Dim("(empty)"))
				return nil
			}
			fmt.Fprint(out, formatter.RenderTree(treeItems(nodes, k.text)))
			return nil
		},
	}

	addModelFlag(cmd.Flags(), &modelRef)
	return cmd
}

func (k kind[N]) showCmd() *cobra.Command {
	var modelRef string

	cmd := &cobra.Command{
		Use:   "show REF",
		Short: "Show one " + k.name + " with its full generated ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			model, err := resolveModel(ctx, k.app, modelRef)
			if err != nil {
				return err
			}
			n, err := k.svc().Resolve(ctx, model.ID, args[0])
			if err != nil {
				return err
			}
			full, err := k.svc().FullLabel(ctx, n)
			if err != nil {
				return err
			}
			children, err := k.svc().Children(ctx, n)
			if err != nil {
				return err
			}

			b := n.Base()
			text, description := k.fields(n)
			var s strings.Builder
			s.WriteString(formatter.Bold(*text) + "  " + formatter.KindBadge(n.Kind()) + "\n\n")
			s.WriteString(formatter.Field("label", formatter.Label(b.Label())))
			s.WriteString(formatter.Field("path", full))
			s.WriteString(formatter.Field("level", strconv.Itoa(b.Level)))
			s.WriteString(formatter.Field("id", formatter.TruncID(b.ID)))
			if *description != "" {
				s.WriteString(formatter.Field("about", *description))
			}
			s.WriteString(formatter.Field("updated", formatter.HumanTimestamp(b.UpdatedAt)))

			if len(children) > 0 {
				s.WriteString("\n" + formatter.Header("Children") + "\n")
				rows := make([][]string, 0, len(children))
				for _, c := range children {
					rows = append(rows, []string{formatter.Label(c.Base().Label()), k.text(c)})
				}
				s.WriteString(formatter.RenderTable([]string{"LABEL", strings.ToUpper(k.textName)}, rows))
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderBox(k.name, s.String()))
			return nil
		},
	}

	addModelFlag(cmd.Flags(), &modelRef)
	return cmd
}

func (k kind[N]) updateCmd() *cobra.Command {
	var modelRef, text, description string

	cmd := &cobra.Command{
		Use:   "update REF",
		Short: "Change the text of a " + k.name,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			model, user, err := k.scope(ctx, modelRef)
			if err != nil {
				return err
			}
			n, err := k.svc().Resolve(ctx, model.ID, args[0])
			if err != nil {
				return err
			}

			textField, descField := k.fields(n)
			if cmd.Flags().Changed(k.textName) {
				*textField = strings.TrimSpace(text)
			}
			if cmd.Flags().Changed("description") {
				*descField = description
			}
			if err := k.svc().Update(ctx, n, user); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Updated "+k.name+" "+formatter.Label(n.Base().Label())))
			return nil
		},
	}

	addModelFlag(cmd.Flags(), &modelRef)
	cmd.Flags().StringVar(&text, k.textName, "", "New "+k.textName)
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.MarkFlagsOneRequired(k.textName, "description")
	return cmd
}

func (k kind[N]) removeCmd() *cobra.Command {
	var modelRef string

	cmd := &cobra.Command{
		Use:     "rm REF",
		Aliases: []string{"remove"},
		Short:   "Delete a " + k.name + " with its subtree and close the gap",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			model, user, err := k.scope(ctx, modelRef)
			if err != nil {
				return err
			}
			n, err := k.svc().Resolve(ctx, model.ID, args[0])
			if err != nil {
				return err
			}
			label := n.Base().Label()
			if err := k.svc().Delete(ctx, n, user); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Removed "+k.name+" "+formatter.Label(label)))
			return nil
		},
	}

	addModelFlag(cmd.Flags(), &modelRef)
	return cmd
}

func (k kind[N]) moveCmd() *cobra.Command {
	var modelRef string

	cmd := &cobra.Command{
		Use:   "move REF INDEX",
		Short: "Move a " + k.name + " to a 0-based position among its siblings",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[1], err)
			}
			model, user, err := k.scope(ctx, modelRef)
			if err != nil {
				return err
			}
			n, err := k.svc().Resolve(ctx, model.ID, args[0])
			if err != nil {
				return err
			}
			from := n.Base().Label()
			if err := k.svc().Reorder(ctx, n, index, user); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Moved %s %s → %s", k.name, formatter.Label(from), formatter.Label(n.Base().Label()))))
			return nil
		},
	}

	addModelFlag(cmd.Flags(), &modelRef)
	return cmd
}

func (k kind[N]) dropCmd() *cobra.Command {
	var modelRef string

	cmd := &cobra.Command{
		Use:   "drop REF... (--before|--after|--on) TARGET",
		Short: "Drag " + k.name + " nodes before, after or onto another",
		Long: "Moves the selected nodes as a drag-and-drop would. --on makes them\n" +
			"children of TARGET; --before and --after make them its siblings.\n" +
			"Nodes are processed in the order given and a failed node does not\n" +
			"stop the rest.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			loc, targetRef, err := dropTarget(cmd.Flags())
			if err != nil {
				return err
			}
			model, user, err := k.scope(ctx, modelRef)
			if err != nil {
				return err
			}

			target, err := k.svc().Resolve(ctx, model.ID, targetRef)
			if err != nil {
				return fmt.Errorf("resolving drop target: %w", err)
			}
			g := tree.DropGesture{Target: target, Location: loc}
			for _, ref := range args {
				n, err := k.svc().Resolve(ctx, model.ID, ref)
				if err != nil {
					return err
				}
				g.Selection = append(g.Selection, n)
			}

			moved, err := k.svc().Drop(ctx, model, user, g)
			out := cmd.OutOrStdout()
			for _, sel := range g.Selection {
				n := sel.(N)
				fmt.Fprintf(out, "  %s %s\n", formatter.Label(n.Base().Label()), k.text(n))
			}
			if err != nil {
				if len(args) > 1 {
					fmt.Fprintln(out, formatter.Warning("Some nodes could not be moved"))
				}
				return err
			}
			if moved {
				fmt.Fprintln(out, formatter.Success(fmt.Sprintf("Dropped %d %s %s %s", len(args), k.name, loc, formatter.Label(target.Base().Label()))))
			} else {
				fmt.Fprintln(out, formatter.Dim("Nothing moved"))
			}
			return nil
		},
	}

	addModelFlag(cmd.Flags(), &modelRef)
	addDropFlags(cmd)
	return cmd
}

func (k kind[N]) renumberCmd() *cobra.Command {
	var modelRef string

	cmd := &cobra.Command{
		Use:   "renumber",
		Short: "Reassign every generated ID of the " + k.name + " tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			model, user, err := k.scope(ctx, modelRef)
			if err != nil {
				return err
			}
			if err := k.svc().ReorderAll(ctx, model, user); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Renumbered "+k.name+" tree of "+model.Name))
			return nil
		},
	}

	addModelFlag(cmd.Flags(), &modelRef)
	return cmd
}

// treeItems orders nodes depth-first, siblings by generated ID.
func treeItems[N domain.TreeNode](nodes []N, text func(N) string) []formatter.TreeItem {
	byParent := make(map[string][]N)
	ids := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		ids[n.Base().ID] = true
	}
	for _, n := range nodes {
		key := ""
		if p := n.Base().ParentID; p != nil && ids[*p] {
			key = *p
		}
		byParent[key] = append(byParent[key], n)
	}
	for _, group := range byParent {
		slices.SortStableFunc(group, func(a, b N) int {
			return outline.Compare(a.Base().GeneratedID, b.Base().GeneratedID)
		})
	}

	items := make([]formatter.TreeItem, 0, len(nodes))
	var walk func(parent string, depth int)
	walk = func(parent string, depth int) {
		group := byParent[parent]
		for i, n := range group {
			item := formatter.TreeItem{
				Label:  n.Base().Label(),
				Title:  text(n),
				Level:  depth,
				IsLast: i == len(group)-1,
			}
			if kids := len(byParent[n.Base().ID]); kids > 0 && depth == 0 {
				item.Detail = strconv.Itoa(kids)
			}
			items = append(items, item)
			walk(n.Base().ID, depth+1)
		}
	}
	walk("", 0)
	return items
}
