package cli

import (
	"fmt"

	"github.com/alexanderramin/credo/internal/tree"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// addModelFlag registers the --model flag shared by every tree command.
func addModelFlag(fs *pflag.FlagSet, target *string) {
	fs.StringVarP(target, "model", "m", "", "Model name or ID")
}

var dropFlags = []tree.Location{tree.LocationBefore, tree.LocationAfter, tree.LocationOn}

// addDropFlags registers --before, --after and --on, each taking the target
// reference. Exactly one may be given.
func addDropFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	for _, loc := range dropFlags {
		fs.String(loc.String(), "", fmt.Sprintf("Drop %s the given node", loc))
	}
	cmd.MarkFlagsMutuallyExclusive("before", "after", "on")
	cmd.MarkFlagsOneRequired("before", "after", "on")
}

// dropTarget returns the location and target reference chosen on fs.
func dropTarget(fs *pflag.FlagSet) (tree.Location, string, error) {
	for _, loc := range dropFlags {
		if !fs.Changed(loc.String()) {
			continue
		}
		ref, err := fs.GetString(loc.String())
		if err != nil {
			return tree.LocationNone, "", err
		}
		return loc, ref, nil
	}
	return tree.LocationNone, "", fmt.Errorf("one of --before, --after or --on is required: %w", tree.ErrInvalidDrop)
}
