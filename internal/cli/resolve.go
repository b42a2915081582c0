package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/credo/internal/domain"
)

func resolveModel(ctx context.Context, app *App, ref string) (*domain.Model, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("--model is required")
	}
	return app.Models.Resolve(ctx, ref)
}

// actingUser returns the user named by --user, creating it on first use.
func actingUser(ctx context.Context, app *App) (*domain.User, error) {
	if strings.TrimSpace(app.UserName) == "" {
		return nil, fmt.Errorf("no acting user; pass --user or set CREDO_USER")
	}
	return app.Users.Ensure(ctx, app.UserName)
}
