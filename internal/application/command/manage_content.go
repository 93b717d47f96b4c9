package command

import (
	"context"

	"github.com/deutschflow/deutschflow-hub/internal/domain/catalog"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONTENT MANAGEMENT COMMANDS (admin)
// Adds scenarios to the content library and resolves moderation items.
// The library lives in the catalog domain and guards its own invariants.
// ══════════════════════════════════════════════════════════════════════════════

// AddContentCommand carries the new scenario fields. Empty fields fall back
// to the library defaults.
type AddContentCommand struct {
	Title  string
	Status string
}

// ResolveModerationCommand identifies the moderation item and its verdict.
type ResolveModerationCommand struct {
	ID     int64
	Status string
}

// ManageContentHandler handles the admin content commands.
type ManageContentHandler struct {
	library *catalog.Library
}

// NewManageContentHandler creates the handler.
func NewManageContentHandler(library *catalog.Library) *ManageContentHandler {
	return &ManageContentHandler{library: library}
}

// HandleAddContent prepends a new scenario to the library.
func (h *ManageContentHandler) HandleAddContent(_ context.Context, cmd AddContentCommand) (catalog.ContentItem, error) {
	return h.library.AddContent(cmd.Title, cmd.Status), nil
}

// HandleResolveModeration applies the verdict to an existing item.
func (h *ManageContentHandler) HandleResolveModeration(_ context.Context, cmd ResolveModerationCommand) (catalog.ModerationItem, error) {
	return h.library.ResolveModeration(cmd.ID, cmd.Status)
}
