package messaging

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/KirkDiggler/numberjack/internal/dice"
	"github.com/KirkDiggler/numberjack/internal/ledger"
	"github.com/KirkDiggler/numberjack/internal/models"
	"github.com/KirkDiggler/numberjack/internal/relay"
	"github.com/KirkDiggler/numberjack/internal/services/turn"
	"github.com/stretchr/testify/suite"
)

type MessagingTestSuite struct {
	suite.Suite
	ctx     context.Context
	service *service
}

func TestMessagingTestSuite(t *testing.T) {
	suite.Run(t, new(MessagingTestSuite))
}

func (s *MessagingTestSuite) SetupTest() {
	s.ctx = context.Background()

	svc, err := New(&Config{DiceRoller: dice.NewSequence()})
	s.Require().NoError(err)
	s.service = svc
}

func (s *MessagingTestSuite) TestNewRequiresConfig() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)
}

func (s *MessagingTestSuite) TestErrorNoticeForPrecondition() {
	out, err := s.service.GetErrorNotice(s.ctx, &GetErrorNoticeInput{
		Action:        "draw",
		Err:           turn.ErrNotYourTurn,
		PreferredTone: ToneNeutral,
	})
	s.Require().NoError(err)
	s.Equal("Not Your Turn", out.Title)
	s.Equal("It is not your turn yet.", out.Message)
	s.Equal(ToneNeutral, out.Tone)
}

func (s *MessagingTestSuite) TestErrorNoticePrefersWrappedPrecondition() {
	reverted := fmt.Errorf("%w: %w", ledger.ErrReverted, turn.ErrTurnNotExpired)

	out, err := s.service.GetErrorNotice(s.ctx, &GetErrorNoticeInput{Action: "force", Err: reverted})
	s.Require().NoError(err)
	s.Equal("Too Soon", out.Title)
	s.Equal(ToneFunny, out.Tone)
	s.Equal("Give them a chance! The clock hasn't run out.", out.Message)
}

func (s *MessagingTestSuite) TestErrorNoticeForSubmission() {
	failed := fmt.Errorf("%w: %w", ledger.ErrSubmission, context.DeadlineExceeded)

	out, err := s.service.GetErrorNotice(s.ctx, &GetErrorNoticeInput{Err: failed, PreferredTone: ToneNeutral})
	s.Require().NoError(err)
	s.Equal("Transaction Failed", out.Title)
}

func (s *MessagingTestSuite) TestErrorNoticeFallsBackToErrorText() {
	out, err := s.service.GetErrorNotice(s.ctx, &GetErrorNoticeInput{
		Action: "start",
		Err:    errors.New("no account connected"),
	})
	s.Require().NoError(err)
	s.Equal("Something Went Wrong", out.Title)
	s.Equal("Could not start: no account connected.", out.Message)
}

func (s *MessagingTestSuite) TestErrorNoticeRequiresError() {
	_, err := s.service.GetErrorNotice(s.ctx, &GetErrorNoticeInput{Action: "draw"})
	s.ErrorIs(err, ErrNilError)
}

func (s *MessagingTestSuite) TestAnnouncements() {
	game := &models.Game{Room: &models.Room{ID: 7, Creator: "0x1234567890abcdef", MaxNumber: 21}}

	testCases := []struct {
		name string
		msg  relay.Message
		want string
	}{
		{"create", &relay.CreateRoom{Game: game}, "Room #7 is open: first to 21 wins. Created by 0x1234...cdef."},
		{"join", &relay.JoinRoom{RoomID: 7, Player: "0xb"}, "0xb joined room #7."},
		{"start", &relay.StartGame{RoomID: 7}, "Room #7 has started."},
		{"forced skip", &relay.PlayerSkip{RoomID: 7, PlayerAddress: "0xb", Forced: true}, "0xb timed out in room #7 and was skipped."},
		{"voluntary skip", &relay.PlayerSkip{RoomID: 7, PlayerAddress: "0xb"}, ""},
		{"lost", &relay.PlayerLost{RoomID: 7, PlayerAddress: "0xb"}, "0xb busted in room #7."},
		{"win", &relay.PlayerWin{RoomID: 7, PlayerAddress: "0xa"}, "0xa won room #7."},
		{"claim", &relay.PlayerClaim{RoomID: 7, PlayerAddress: "0xa"}, "0xa claimed the reward for room #7."},
		{"close", &relay.CloseRoom{RoomID: 7}, "Room #7 is closed."},
		{"draw", &relay.PlayerDraw{RoomID: 7, PlayerAddress: "0xa", Draws: [2]int{3, 4}}, ""},
		{"advance", &relay.AdvanceTurn{RoomID: 7, PlayerAddress: "0xb"}, ""},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			out, err := s.service.GetAnnouncement(s.ctx, &GetAnnouncementInput{
				Message:       tc.msg,
				PreferredTone: ToneNeutral,
			})
			s.Require().NoError(err)
			s.Equal(tc.want, out.Message)
		})
	}
}

func (s *MessagingTestSuite) TestFunnyAnnouncementUsesRolledVariant() {
	svc, err := New(&Config{DiceRoller: dice.NewSequence(2)})
	s.Require().NoError(err)

	out, err := svc.GetAnnouncement(s.ctx, &GetAnnouncementInput{
		Message: &relay.PlayerWin{RoomID: 3, PlayerAddress: "0xa"},
	})
	s.Require().NoError(err)
	s.Equal("Winner winner! 0xa owns room #3.", out.Message)
	s.Equal(ToneFunny, out.Tone)
}

func (s *MessagingTestSuite) TestShortAddress() {
	s.Equal("0xabc", ShortAddress("0xabc"))
	s.Equal("0x1234...cdef", ShortAddress("0x1234567890abcdef"))
}
