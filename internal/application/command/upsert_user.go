package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/deutschflow/deutschflow-hub/internal/domain/directory"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPSERT USER COMMAND
// Registers or refreshes a directory record for the platform identity.
// The record is persisted synchronously before the response is composed.
// ══════════════════════════════════════════════════════════════════════════════

// UpsertUserCommand carries the profile fields supplied by the platform.
type UpsertUserCommand struct {
	ID           string
	FirstName    string
	LastName     string
	Username     string
	LanguageCode string
}

// UpsertUserHandler handles UpsertUserCommand.
type UpsertUserHandler struct {
	users directory.Repository
}

// NewUpsertUserHandler creates the handler.
func NewUpsertUserHandler(users directory.Repository) *UpsertUserHandler {
	return &UpsertUserHandler{users: users}
}

// Handle upserts the user record. An empty identifier gets a generated
// guest id so anonymous embedding contexts still produce a record.
func (h *UpsertUserHandler) Handle(ctx context.Context, cmd UpsertUserCommand) (*directory.UserRecord, error) {
	id := cmd.ID
	if id == "" {
		id = "guest-" + uuid.New().String()
	}

	record, err := directory.NewUserRecord(id, cmd.FirstName, cmd.LastName, cmd.Username, cmd.LanguageCode)
	if err != nil {
		return nil, err
	}

	saved, err := h.users.Upsert(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("upsert user record: %w", err)
	}
	return saved, nil
}
