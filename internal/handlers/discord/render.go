package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/numberjack/internal/models"
	"github.com/KirkDiggler/numberjack/internal/relay"
	"github.com/KirkDiggler/numberjack/internal/services/messaging"
)

const (
	colorGreen  = 0x00ff00
	colorRed    = 0xff0000
	colorBlue   = 0x3498db
	colorGold   = 0xf1c40f
	colorYellow = 0xffcc00
	colorGrey   = 0x95a5a6
)

// renderAnnouncement wraps announcement text in an embed styled for the message type
func renderAnnouncement(msg relay.Message, text string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Description: text,
		Color:       colorBlue,
	}

	switch msg.(type) {
	case *relay.CreateRoom:
		embed.Title = "New Room"
		embed.Color = colorGreen
	case *relay.JoinRoom:
		embed.Title = "Player Joined"
	case *relay.StartGame:
		embed.Title = "Game Started"
		embed.Color = colorGreen
	case *relay.PlayerSkip:
		embed.Title = "Turn Forced"
		embed.Color = colorYellow
	case *relay.PlayerLost:
		embed.Title = "Busted"
		embed.Color = colorRed
	case *relay.PlayerWin:
		embed.Title = "Winner"
		embed.Color = colorGold
	case *relay.PlayerClaim:
		embed.Title = "Reward Claimed"
		embed.Color = colorGold
	case *relay.CloseRoom:
		embed.Title = "Room Closed"
		embed.Color = colorGrey
	}

	embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Room #%d", msg.Room())}
	return embed
}

// renderRoomList renders one field per room
func renderRoomList(games []*models.Game) *discordgo.MessageEmbed {
	fields := make([]*discordgo.MessageEmbedField, 0, len(games))
	for _, g := range games {
		if g == nil || g.Room == nil {
			continue
		}
		room := g.Room
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("Room #%d", room.ID),
			Value: fmt.Sprintf("%s · first to %d · %d player(s) · host %s",
				statusLabel(room.Status), room.MaxNumber, len(room.Players), messaging.ShortAddress(room.Creator)),
		})
	}

	return &discordgo.MessageEmbed{
		Title:  "Open Rooms",
		Color:  colorGreen,
		Fields: fields,
	}
}

func statusLabel(status models.RoomStatus) string {
	switch status {
	case models.RoomStatusNotStarted:
		return "Waiting"
	case models.RoomStatusInProgress:
		return "Playing"
	case models.RoomStatusEnded:
		return "Finished"
	default:
		return string(status)
	}
}
