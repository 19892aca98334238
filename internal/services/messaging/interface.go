package messaging

import "context"

// Service turns game errors and relay traffic into text people read
type Service interface {
	// GetErrorNotice returns a short notice for a failed action
	GetErrorNotice(ctx context.Context, input *GetErrorNoticeInput) (*GetErrorNoticeOutput, error)

	// GetAnnouncement returns a line announcing a relay message to a room's audience.
	// Messages not worth announcing produce an empty Message.
	GetAnnouncement(ctx context.Context, input *GetAnnouncementInput) (*GetAnnouncementOutput, error)
}
