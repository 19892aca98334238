package discord

//go:generate mockgen -package=mocks -destination=mocks/mock_sender.go github.com/KirkDiggler/numberjack/internal/handlers/discord Sender

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/KirkDiggler/numberjack/internal/models"
	"github.com/KirkDiggler/numberjack/internal/relay"
	"github.com/KirkDiggler/numberjack/internal/services/gateway"
	"github.com/KirkDiggler/numberjack/internal/services/messaging"
)

// DefaultQueueSize bounds announcements waiting to be posted
const DefaultQueueSize = 64

// Sender posts embeds to a channel. *discordgo.Session satisfies it.
type Sender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// RoomLister lists the rooms the relay is mirroring
type RoomLister interface {
	Rooms(ctx context.Context) ([]*models.Game, error)
}

// Bot announces room lifecycle relay traffic to a Discord channel and answers /rooms
type Bot struct {
	session    *discordgo.Session
	sender     Sender
	messaging  messaging.Service
	logger     *zap.Logger
	commands   map[string]CommandHandler
	commandIDs map[string]string // Maps command name to command ID
	config     *Config
	queue      chan relay.Message
}

// compile-time check
var _ gateway.Observer = (*Bot)(nil)

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// ChannelID receives announcements
	ChannelID string

	// Messaging writes the announcement text
	Messaging messaging.Service

	// Rooms backs the /rooms command, which is not registered when nil
	Rooms RoomLister

	// Logger defaults to a no-op logger
	Logger *zap.Logger

	// QueueSize defaults to DefaultQueueSize
	QueueSize int

	// Sender replaces the Discord session for posting, no connection is opened when set
	Sender Sender
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.ChannelID == "" {
		return nil, errors.New("channel ID cannot be empty")
	}

	if cfg.Messaging == nil {
		return nil, errors.New("messaging service cannot be nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	bot := &Bot{
		sender:     cfg.Sender,
		messaging:  cfg.Messaging,
		logger:     logger,
		commands:   make(map[string]CommandHandler),
		commandIDs: make(map[string]string),
		config:     cfg,
		queue:      make(chan relay.Message, queueSize),
	}

	if bot.sender != nil {
		return bot, nil
	}

	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	// Create a new Discord session
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.AddHandler(bot.handleInteraction)

	bot.session = session
	bot.sender = session
	return bot, nil
}

// Start opens the Discord connection and registers commands
func (b *Bot) Start() error {
	if b.session == nil {
		return nil
	}

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	if b.config.Rooms != nil {
		if err := b.RegisterCommand(NewRoomsCommand(b.config.Rooms, b.logger)); err != nil {
			return fmt.Errorf("failed to register rooms command: %w", err)
		}
	}

	b.logger.Info("discord bot running", zap.String("channel_id", b.config.ChannelID))
	return nil
}

// Stop removes registered commands and closes the Discord connection
func (b *Bot) Stop() error {
	if b.session == nil {
		return nil
	}

	appID, guildID := b.commandScope()
	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, guildID, cmdID); err != nil {
			b.logger.Warn("failed to delete command", zap.String("command", cmdName), zap.Error(err))
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	appID, guildID := b.commandScope()

	createdCmd, err := b.session.ApplicationCommandCreate(appID, guildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	b.logger.Info("registered command", zap.String("command", cmd.GetName()), zap.String("guild_id", guildID))
	return nil
}

// commandScope falls back to the session user when no application ID is configured.
// An empty guild ID registers commands globally.
func (b *Bot) commandScope() (string, string) {
	appID := b.config.ApplicationID
	if appID == "" && b.session.State != nil && b.session.State.User != nil {
		appID = b.session.State.User.ID
	}
	return appID, b.config.GuildID
}

// handleInteraction dispatches slash commands
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	name := i.ApplicationCommandData().Name
	if h, ok := b.commands[name]; ok {
		if err := h.Handle(s, i); err != nil {
			b.logger.Warn("failed to handle command", zap.String("command", name), zap.Error(err))
		}
	}
}

// Observe queues a routed relay message for announcement. It never blocks the gateway loop.
func (b *Bot) Observe(ctx context.Context, msg relay.Message) {
	select {
	case b.queue <- msg:
	default:
		b.logger.Warn("announcement queue full, dropping message",
			zap.String("type", string(msg.Type())),
			zap.Uint64("room_id", msg.Room()),
		)
	}
}

// Run posts queued announcements until ctx is cancelled
func (b *Bot) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-b.queue:
			if err := b.announce(ctx, msg); err != nil {
				b.logger.Warn("failed to announce",
					zap.String("type", string(msg.Type())),
					zap.Uint64("room_id", msg.Room()),
					zap.Error(err),
				)
			}
		}
	}
}

func (b *Bot) announce(ctx context.Context, msg relay.Message) error {
	out, err := b.messaging.GetAnnouncement(ctx, &messaging.GetAnnouncementInput{Message: msg})
	if err != nil {
		return fmt.Errorf("failed to write announcement: %w", err)
	}
	if out.Message == "" {
		return nil
	}

	if _, err := b.sender.ChannelMessageSendEmbed(b.config.ChannelID, renderAnnouncement(msg, out.Message)); err != nil {
		return fmt.Errorf("failed to post announcement: %w", err)
	}
	return nil
}
