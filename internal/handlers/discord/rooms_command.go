package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const roomsCommandTimeout = 3 * time.Second

// RoomsCommand lists the rooms the relay is mirroring
type RoomsCommand struct {
	BaseCommand
	rooms  RoomLister
	logger *zap.Logger
}

// NewRoomsCommand creates the /rooms command
func NewRoomsCommand(rooms RoomLister, logger *zap.Logger) *RoomsCommand {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomsCommand{
		BaseCommand: BaseCommand{
			Name:        "rooms",
			Description: "List the NumberJack rooms open right now",
		},
		rooms:  rooms,
		logger: logger,
	}
}

// Handle responds with the mirrored rooms
func (c *RoomsCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx, cancel := context.WithTimeout(context.Background(), roomsCommandTimeout)
	defer cancel()

	games, err := c.rooms.Rooms(ctx)
	if err != nil {
		c.logger.Warn("failed to list rooms", zap.Error(err))
		return RespondWithError(s, i, "The relay is not answering. Try again in a bit.")
	}

	if len(games) == 0 {
		return RespondWithEphemeralMessage(s, i, "No rooms are open right now. Start one!")
	}

	return RespondWithEmbed(s, i, renderRoomList(games))
}
