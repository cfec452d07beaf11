package cli

import (
	"context"
	"maps"
	"slices"
)

// Cache lists what the client keeps in local storage, one key per line with
// the stored size.
func (a *App) Cache(ctx context.Context) error {
	sizes, err := a.store.Entries(ctx)
	if err != nil {
		return err
	}
	if len(sizes) == 0 {
		a.println("Local storage is empty")
		return nil
	}
	for _, k := range slices.Sorted(maps.Keys(sizes)) {
		a.printf("%-32s %d bytes\n", k, sizes[k])
	}
	return nil
}

// ClearCache wipes local storage after confirmation. An open session is
// logged out first, so nothing writes the user back afterwards.
func (a *App) ClearCache(ctx context.Context) error {
	if !yes(a.mustPrompt("Remove the session and all cached account data? (y/n)")) {
		return nil
	}
	if err := a.Logout(ctx); err != nil {
		return err
	}
	if err := a.store.ClearAll(ctx); err != nil {
		return err
	}
	a.log.Info(ctx, "local storage cleared")
	a.println("Local storage cleared")
	return nil
}
