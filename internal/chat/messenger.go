// Package chat sends messages, modals and files to the chat platform.
package chat

//go:generate mockgen -source=messenger.go -destination=mock_messenger.go -package=chat

import (
	"context"

	"github.com/slack-go/slack"
)

// Messenger is the outbound side of the chat integration.
type Messenger interface {
	// OpenView opens a modal in response to a command or interaction.
	// triggerID expires a few seconds after the triggering event.
	// Returns the ID of the opened view.
	OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) (string, error)

	// UpdateView replaces an open modal.
	UpdateView(ctx context.Context, viewID string, view slack.ModalViewRequest) error

	// PostMessage posts text to a channel.
	PostMessage(ctx context.Context, channelID, text string) error

	// PostEphemeral posts text to a channel, visible only to userID.
	PostEphemeral(ctx context.Context, channelID, userID, text string) error

	// UploadFile shares a file in a channel.
	UploadFile(ctx context.Context, file File) error
}

// File is a document shared in a channel.
type File struct {
	ChannelID string
	Filename  string
	Title     string
	Comment   string
	Content   []byte
}
