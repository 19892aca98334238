package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	clockMocks "github.com/KirkDiggler/numberjack/internal/common/clock/mocks"
	"github.com/KirkDiggler/numberjack/internal/dice"
	"github.com/KirkDiggler/numberjack/internal/models"
	roomRepo "github.com/KirkDiggler/numberjack/internal/repositories/room"
	roomMocks "github.com/KirkDiggler/numberjack/internal/repositories/room/mocks"
	"github.com/KirkDiggler/numberjack/internal/services/turn"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"
)

type SimulatedTestSuite struct {
	suite.Suite
	mockCtrl  *gomock.Controller
	mockClock *clockMocks.MockClock
	ctx       context.Context
	now       time.Time

	alice Client
	bob   Client
	carol Client
}

func TestSimulatedTestSuite(t *testing.T) {
	suite.Run(t, new(SimulatedTestSuite))
}

func (s *SimulatedTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.ctx = context.Background()
	s.now = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)

	s.mockClock.EXPECT().Now().DoAndReturn(func() time.Time { return s.now }).AnyTimes()

	// alice 6+6, bob 1+1, alice 6+6 busts
	s.setup(roomRepo.NewMemory(), dice.NewSequence(6, 6, 1, 1, 6, 6))
}

func (s *SimulatedTestSuite) setup(repo roomRepo.Repository, roller dice.Roller) {
	sim, err := NewSimulated(&SimulatedConfig{
		Repository: repo,
		DiceRoller: roller,
		Clock:      s.mockClock,
		Logger:     zaptest.NewLogger(s.T()),
	})
	s.Require().NoError(err)

	alice, err := sim.ClientFor("0xa11ce")
	s.Require().NoError(err)
	bob, err := sim.ClientFor("0xb0b")
	s.Require().NoError(err)
	carol, err := sim.ClientFor("0xca201")
	s.Require().NoError(err)
	s.alice, s.bob, s.carol = alice, bob, carol
}

func (s *SimulatedTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *SimulatedTestSuite) createStartedRoom() uint64 {
	created, err := s.alice.CreateRoom(s.ctx, &CreateRoomInput{
		MaxNumber:   21,
		EntryFee:    10,
		Mode:        models.GameModeRounds,
		ModeValue:   5,
		TurnTimeout: 30 * time.Second,
	})
	s.Require().NoError(err)

	_, err = s.bob.JoinRoom(s.ctx, &RoomInput{RoomID: created.RoomID})
	s.Require().NoError(err)
	_, err = s.alice.StartGame(s.ctx, &RoomInput{RoomID: created.RoomID})
	s.Require().NoError(err)

	return created.RoomID
}

func (s *SimulatedTestSuite) TestNewSimulated_Validation() {
	_, err := NewSimulated(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = NewSimulated(&SimulatedConfig{})
	s.ErrorIs(err, ErrNilRepository)

	_, err = NewSimulated(&SimulatedConfig{Repository: roomRepo.NewMemory()})
	s.ErrorIs(err, ErrNilDiceRoller)

	_, err = NewSimulated(&SimulatedConfig{Repository: roomRepo.NewMemory(), DiceRoller: dice.NewSequence()})
	s.ErrorIs(err, ErrNilClock)
}

func (s *SimulatedTestSuite) TestFullGame() {
	roomID := s.createStartedRoom()

	draw, err := s.alice.PlayTurn(s.ctx, &RoomInput{RoomID: roomID})
	s.Require().NoError(err)
	s.Equal([2]int{6, 6}, draw.Draws)
	s.Equal(0, draw.Offset)
	s.Equal(uint64(4), draw.Version, "create, join, start, draw")

	_, err = s.bob.PlayTurn(s.ctx, &RoomInput{RoomID: roomID})
	s.Require().NoError(err)

	bust, err := s.alice.PlayTurn(s.ctx, &RoomInput{RoomID: roomID})
	s.Require().NoError(err)
	s.Equal(2, bust.Offset)

	eliminated, err := s.bob.GetIsEliminated(s.ctx, &PlayerInput{RoomID: roomID, Player: "0xa11ce"})
	s.Require().NoError(err)
	s.True(eliminated.Eliminated)

	draws, err := s.bob.GetPlayerDraws(s.ctx, &PlayerInput{RoomID: roomID, Player: "0xa11ce"})
	s.Require().NoError(err)
	s.Equal([]int{6, 6, 6, 6}, draws.Draws)

	room, err := s.carol.GetRoomByID(s.ctx, &RoomInput{RoomID: roomID})
	s.Require().NoError(err)
	s.Equal(models.RoomStatusEnded, room.Game.Room.Status)
	s.Equal("0xb0b", room.Game.Room.Winner)

	_, err = s.bob.ClaimReward(s.ctx, &RoomInput{RoomID: roomID})
	s.Require().NoError(err)
}

func (s *SimulatedTestSuite) TestRevertedCallsWrapTurnErrors() {
	roomID := s.createStartedRoom()

	_, err := s.bob.PlayTurn(s.ctx, &RoomInput{RoomID: roomID})
	s.ErrorIs(err, ErrReverted)
	s.ErrorIs(err, turn.ErrNotYourTurn)

	_, err = s.carol.JoinRoom(s.ctx, &RoomInput{RoomID: roomID})
	s.ErrorIs(err, ErrReverted)
	s.ErrorIs(err, turn.ErrRoomNotJoinable)

	_, err = s.bob.SkipTurn(s.ctx, &RoomInput{RoomID: 99})
	s.ErrorIs(err, ErrReverted)
	s.ErrorIs(err, ErrRoomNotFound)

	room, err := s.alice.GetRoomByID(s.ctx, &RoomInput{RoomID: roomID})
	s.Require().NoError(err)
	s.Equal(uint64(3), room.Game.Room.Version, "reverted calls do not mutate")
}

func (s *SimulatedTestSuite) TestForceAdvanceAfterTimeout() {
	roomID := s.createStartedRoom()

	s.now = s.now.Add(29 * time.Second)
	_, err := s.bob.ForceAdvance(s.ctx, &RoomInput{RoomID: roomID})
	s.ErrorIs(err, turn.ErrTurnNotExpired)

	s.now = s.now.Add(2 * time.Second)
	_, err = s.bob.ForceAdvance(s.ctx, &RoomInput{RoomID: roomID})
	s.Require().NoError(err)

	room, err := s.bob.GetRoomByID(s.ctx, &RoomInput{RoomID: roomID})
	s.Require().NoError(err)
	s.Equal("0xb0b", room.Game.Room.CurrentPlayer())
	s.True(room.Game.Player("0xa11ce").HasSkippedTurn)
}

func (s *SimulatedTestSuite) TestEndGameByRounds() {
	roomID := s.createStartedRoom()

	_, err := s.alice.EndGame(s.ctx, &RoomInput{RoomID: roomID})
	s.ErrorIs(err, turn.ErrGameNotOver)
}

func (s *SimulatedTestSuite) TestGetAvailableRooms() {
	started := s.createStartedRoom()
	open, err := s.carol.CreateRoom(s.ctx, &CreateRoomInput{
		MaxNumber: 50, Mode: models.GameModeTimeBased, ModeValue: 600, TurnTimeout: time.Minute,
	})
	s.Require().NoError(err)

	out, err := s.bob.GetAvailableRooms(s.ctx, &GetAvailableRoomsInput{})
	s.Require().NoError(err)
	s.Require().Len(out.Games, 1)
	s.Equal(open.RoomID, out.Games[0].Room.ID)
	s.NotEqual(started, open.RoomID)
}

func (s *SimulatedTestSuite) TestInvalidRoomSettingsRevert() {
	_, err := s.alice.CreateRoom(s.ctx, &CreateRoomInput{
		MaxNumber: 10, Mode: models.GameModeRounds, ModeValue: 1, TurnTimeout: time.Second,
	})
	s.ErrorIs(err, ErrReverted)
	s.ErrorIs(err, turn.ErrInvalidMaxNumber)
}

func (s *SimulatedTestSuite) TestCancelledContextIsASubmissionFailure() {
	roomID := s.createStartedRoom()

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.alice.PlayTurn(ctx, &RoomInput{RoomID: roomID})
	s.ErrorIs(err, ErrSubmission)
	s.ErrorIs(err, context.Canceled)
}

func (s *SimulatedTestSuite) TestConfirmDelayHonoursDeadline() {
	sim, err := NewSimulated(&SimulatedConfig{
		Repository:   roomRepo.NewMemory(),
		DiceRoller:   dice.NewSequence(),
		Clock:        s.mockClock,
		ConfirmDelay: time.Minute,
	})
	s.Require().NoError(err)
	client, err := sim.ClientFor("0xa11ce")
	s.Require().NoError(err)

	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Millisecond)
	defer cancel()

	_, err = client.CreateRoom(ctx, &CreateRoomInput{
		MaxNumber: 21, Mode: models.GameModeRounds, ModeValue: 1, TurnTimeout: time.Second,
	})
	s.ErrorIs(err, ErrSubmission)
	s.ErrorIs(err, context.DeadlineExceeded)
}

func (s *SimulatedTestSuite) TestRepositoryFailureIsASubmissionFailure() {
	mockRepo := roomMocks.NewMockRepository(s.mockCtrl)
	s.setup(mockRepo, dice.NewSequence())

	mockRepo.EXPECT().UpdateGame(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	_, err := s.alice.SkipTurn(s.ctx, &RoomInput{RoomID: 1})
	s.ErrorIs(err, ErrSubmission)
	s.NotErrorIs(err, ErrReverted)
}

func (s *SimulatedTestSuite) TestClientForRequiresAddress() {
	sim, err := NewSimulated(&SimulatedConfig{
		Repository: roomRepo.NewMemory(),
		DiceRoller: dice.NewSequence(),
		Clock:      s.mockClock,
	})
	s.Require().NoError(err)

	_, err = sim.ClientFor("")
	s.ErrorIs(err, ErrEmptyAddress)
}
