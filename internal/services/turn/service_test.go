package turn

import (
	"testing"
	"time"

	"github.com/KirkDiggler/numberjack/internal/dice"
	diceMocks "github.com/KirkDiggler/numberjack/internal/dice/mocks"
	"github.com/KirkDiggler/numberjack/internal/models"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type TurnMachineTestSuite struct {
	suite.Suite
	mockCtrl   *gomock.Controller
	mockRoller *diceMocks.MockRoller
	machine    Machine

	testTime time.Time
	alice    string
	bob      string
	carol    string
}

func TestTurnMachineTestSuite(t *testing.T) {
	suite.Run(t, new(TurnMachineTestSuite))
}

func (s *TurnMachineTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRoller = diceMocks.NewMockRoller(s.mockCtrl)

	machine, err := New(&Config{DiceRoller: s.mockRoller})
	s.Require().NoError(err)
	s.machine = machine

	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.alice = "0xa11ce"
	s.bob = "0xb0b"
	s.carol = "0xca201"
}

func (s *TurnMachineTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// inProgress builds a started game with the given participants, first player to move
func (s *TurnMachineTestSuite) inProgress(maxNumber int, addrs ...string) *models.Game {
	game := &models.Game{
		Room: &models.Room{
			ID:           7,
			Creator:      addrs[0],
			Players:      append([]string(nil), addrs...),
			Mode:         models.GameModeRounds,
			ModeValue:    3,
			CurrentRound: 1,
			MaxNumber:    maxNumber,
			Status:       models.RoomStatusInProgress,
			StartTime:    s.testTime,
			LastTurnAt:   s.testTime,
			TurnTimeout:  30 * time.Second,
		},
	}
	for _, addr := range addrs {
		game.Players = append(game.Players, models.NewPlayer(addr))
	}
	return game
}

func (s *TurnMachineTestSuite) expectRolls(sides int, values ...int) {
	for _, v := range values {
		s.mockRoller.EXPECT().Roll(sides).Return(v)
	}
}

func (s *TurnMachineTestSuite) kinds(events []Event) []EventKind {
	out := make([]EventKind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

func (s *TurnMachineTestSuite) TestNewValidatesConfig() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{})
	s.ErrorIs(err, ErrNilDiceRoller)
}

func (s *TurnMachineTestSuite) TestCreate_HappyPath() {
	out, err := s.machine.Create(&CreateInput{
		RoomID:      3,
		Creator:     s.alice,
		MaxNumber:   21,
		EntryFee:    100,
		Mode:        models.GameModeRounds,
		ModeValue:   3,
		TurnTimeout: 30 * time.Second,
		Now:         s.testTime,
	})
	s.Require().NoError(err)

	room := out.Game.Room
	s.Equal(uint64(3), room.ID)
	s.Equal(models.RoomStatusNotStarted, room.Status)
	s.Equal([]string{s.alice}, room.Players)
	s.Require().Len(out.Game.Players, 1)
	s.True(out.Game.Players[0].Active)
	s.Equal([]EventKind{EventCreated}, s.kinds(out.Events))
}

func (s *TurnMachineTestSuite) TestCreate_Validation() {
	base := CreateInput{
		Creator:     s.alice,
		MaxNumber:   21,
		Mode:        models.GameModeTimeBased,
		ModeValue:   300,
		TurnTimeout: 30 * time.Second,
	}

	tooLow := base
	tooLow.MaxNumber = 20
	_, err := s.machine.Create(&tooLow)
	s.ErrorIs(err, ErrInvalidMaxNumber)

	badMode := base
	badMode.Mode = "Sprint"
	_, err = s.machine.Create(&badMode)
	s.ErrorIs(err, ErrInvalidMode)

	noValue := base
	noValue.ModeValue = 0
	_, err = s.machine.Create(&noValue)
	s.ErrorIs(err, ErrInvalidModeValue)

	noTimeout := base
	noTimeout.TurnTimeout = 0
	_, err = s.machine.Create(&noTimeout)
	s.ErrorIs(err, ErrInvalidTurnTimeout)
}

func (s *TurnMachineTestSuite) TestJoin() {
	created, err := s.machine.Create(&CreateInput{
		RoomID: 1, Creator: s.alice, MaxNumber: 21,
		Mode: models.GameModeRounds, ModeValue: 2, TurnTimeout: time.Minute,
	})
	s.Require().NoError(err)

	joined, err := s.machine.Join(&JoinInput{Game: created.Game, Player: s.bob})
	s.Require().NoError(err)
	s.Equal([]string{s.alice, s.bob}, joined.Game.Room.Players)
	s.NotNil(joined.Game.Player(s.bob))
	s.Len(created.Game.Players, 1, "input must not be modified")

	_, err = s.machine.Join(&JoinInput{Game: joined.Game, Player: s.bob})
	s.ErrorIs(err, ErrAlreadyJoined)
}

func (s *TurnMachineTestSuite) TestJoin_RoomFullAndStarted() {
	small, err := New(&Config{DiceRoller: s.mockRoller, MaxPlayers: 2})
	s.Require().NoError(err)

	game := s.inProgress(21, s.alice, s.bob)
	game.Room.Status = models.RoomStatusNotStarted
	_, err = small.Join(&JoinInput{Game: game, Player: s.carol})
	s.ErrorIs(err, ErrRoomFull)

	game.Room.Status = models.RoomStatusInProgress
	_, err = s.machine.Join(&JoinInput{Game: game, Player: s.carol})
	s.ErrorIs(err, ErrRoomNotJoinable)
}

func (s *TurnMachineTestSuite) TestStart() {
	game := s.inProgress(21, s.alice, s.bob)
	game.Room.Status = models.RoomStatusNotStarted
	game.Room.CurrentRound = 0
	later := s.testTime.Add(time.Minute)

	_, err := s.machine.Start(&StartInput{Game: game, Caller: s.bob, Now: later})
	s.ErrorIs(err, ErrNotCreator)

	out, err := s.machine.Start(&StartInput{Game: game, Caller: s.alice, Now: later})
	s.Require().NoError(err)
	s.Equal(models.RoomStatusInProgress, out.Game.Room.Status)
	s.Equal(later, out.Game.Room.StartTime)
	s.Equal(later, out.Game.Room.LastTurnAt)
	s.Equal(int64(1), out.Game.Room.CurrentRound)
	s.Equal(0, out.Game.Room.CurrentPlayerIndex)

	_, err = s.machine.Start(&StartInput{Game: out.Game, Caller: s.alice, Now: later})
	s.ErrorIs(err, ErrRoomNotJoinable)
}

func (s *TurnMachineTestSuite) TestStart_NotEnoughPlayers() {
	game := s.inProgress(21, s.alice)
	game.Room.Status = models.RoomStatusNotStarted

	_, err := s.machine.Start(&StartInput{Game: game, Caller: s.alice})
	s.ErrorIs(err, ErrNotEnoughPlayers)
}

func (s *TurnMachineTestSuite) TestDraw_UnderTargetAdvances() {
	game := s.inProgress(21, s.alice, s.bob)
	now := s.testTime.Add(5 * time.Second)
	s.expectRolls(6, 4, 5)

	out, err := s.machine.Draw(&DrawInput{Game: game, Caller: s.alice, Now: now})
	s.Require().NoError(err)

	alice := out.Game.Player(s.alice)
	s.Equal([]int{4, 5}, alice.Draws)
	s.Equal(9, alice.Total)
	s.True(alice.Active)
	s.Equal(1, out.Game.Room.CurrentPlayerIndex)
	s.Equal(now, out.Game.Room.LastTurnAt)
	s.Equal([]EventKind{EventDrew, EventTurnAdvanced}, s.kinds(out.Events))
	s.Equal([2]int{4, 5}, out.Events[0].Draws)
	s.Equal(0, out.Events[0].Offset)
}

// player 1 draws past 21, is eliminated, and the turn goes to player 2, who is
// the last one standing and wins
func (s *TurnMachineTestSuite) TestDraw_BustEliminatesAndAdvances() {
	game := s.inProgress(21, s.alice, s.bob)
	game.Players[0].Draws = []int{6, 5, 5}
	game.Players[0].Total = 16
	s.expectRolls(6, 3, 3)

	out, err := s.machine.Draw(&DrawInput{Game: game, Caller: s.alice, Now: s.testTime})
	s.Require().NoError(err)

	alice := out.Game.Player(s.alice)
	s.Equal(22, alice.Total)
	s.False(alice.Active)
	s.Equal(1, out.Game.Room.CurrentPlayerIndex)
	s.Equal(s.bob, out.Game.Room.CurrentPlayer())
	s.Equal(3, out.Events[0].Offset)
	s.Contains(s.kinds(out.Events), EventBusted)
	s.Contains(s.kinds(out.Events), EventTurnAdvanced)
	s.Equal(models.RoomStatusEnded, out.Game.Room.Status)
	s.Equal(s.bob, out.Game.Room.Winner)
	s.Contains(s.kinds(out.Events), EventWon)
	s.True(game.Players[0].Active, "input must not be modified")
}

// exactly hitting the target ends the room without advancing
func (s *TurnMachineTestSuite) TestDraw_ExactTargetWins() {
	game := s.inProgress(21, s.alice, s.bob)
	game.Players[0].Draws = []int{5, 5, 5}
	game.Players[0].Total = 15
	s.expectRolls(6, 2, 4)

	out, err := s.machine.Draw(&DrawInput{Game: game, Caller: s.alice, Now: s.testTime})
	s.Require().NoError(err)

	s.Equal(models.RoomStatusEnded, out.Game.Room.Status)
	s.Equal(s.alice, out.Game.Room.Winner)
	s.Equal(0, out.Game.Room.CurrentPlayerIndex)
	s.Equal([]EventKind{EventDrew, EventWon, EventEnded}, s.kinds(out.Events))
	s.Equal(PlayerStateWon, PlayerStateOf(out.Game, s.alice))
}

func (s *TurnMachineTestSuite) TestDraw_Preconditions() {
	game := s.inProgress(21, s.alice, s.bob)

	_, err := s.machine.Draw(&DrawInput{Game: game, Caller: s.bob})
	s.ErrorIs(err, ErrNotYourTurn)

	_, err = s.machine.Draw(&DrawInput{Game: game, Caller: s.carol})
	s.ErrorIs(err, ErrNotParticipant)

	game.Players[0].Active = false
	_, err = s.machine.Draw(&DrawInput{Game: game, Caller: s.alice})
	s.ErrorIs(err, ErrPlayerEliminated)

	game.Players[0].Active = true
	game.Room.Status = models.RoomStatusNotStarted
	_, err = s.machine.Draw(&DrawInput{Game: game, Caller: s.alice})
	s.ErrorIs(err, ErrRoomNotInProgress)

	game.Room.Status = models.RoomStatusEnded
	_, err = s.machine.Skip(&SkipInput{Game: game, Caller: s.alice})
	s.ErrorIs(err, ErrRoomNotInProgress)
}

func (s *TurnMachineTestSuite) TestSkip_KeepsTotalAndAdvances() {
	game := s.inProgress(21, s.alice, s.bob, s.carol)
	game.Players[0].Draws = []int{3, 4}
	game.Players[0].Total = 7

	out, err := s.machine.Skip(&SkipInput{Game: game, Caller: s.alice, Now: s.testTime})
	s.Require().NoError(err)

	alice := out.Game.Player(s.alice)
	s.Equal(7, alice.Total)
	s.True(alice.HasSkippedTurn)
	s.Equal(s.bob, out.Game.Room.CurrentPlayer())
	s.Equal(PlayerStateSkipped, PlayerStateOf(out.Game, s.alice))
	s.Equal(PlayerStateActiveTurn, PlayerStateOf(out.Game, s.bob))
	s.Equal(PlayerStateWaiting, PlayerStateOf(out.Game, s.carol))
}

func (s *TurnMachineTestSuite) TestAdvanceTurn_SkipsInactive() {
	game := s.inProgress(21, s.alice, s.bob, s.carol)
	game.Players[1].Active = false

	out, err := s.machine.AdvanceTurn(&AdvanceTurnInput{Game: game, Now: s.testTime})
	s.Require().NoError(err)
	s.Equal(s.carol, out.Game.Room.CurrentPlayer())
	s.Equal(models.RoomStatusInProgress, out.Game.Room.Status)
}

// the scan finds nobody else and returns control to player 1, who wins
func (s *TurnMachineTestSuite) TestAdvanceTurn_LastActiveWins() {
	game := s.inProgress(21, s.alice, s.bob, s.carol)
	game.Players[1].Active = false
	game.Players[2].Active = false

	out, err := s.machine.AdvanceTurn(&AdvanceTurnInput{Game: game, Now: s.testTime})
	s.Require().NoError(err)
	s.Equal(0, out.Game.Room.CurrentPlayerIndex)
	s.Equal(models.RoomStatusEnded, out.Game.Room.Status)
	s.Equal(s.alice, out.Game.Room.Winner)
}

func (s *TurnMachineTestSuite) TestAdvanceTurn_SingleActiveFromAnyIndex() {
	for start := 0; start < 3; start++ {
		game := s.inProgress(21, s.alice, s.bob, s.carol)
		game.Players[0].Active = false
		game.Players[2].Active = false
		game.Room.CurrentPlayerIndex = start

		out, err := s.machine.AdvanceTurn(&AdvanceTurnInput{Game: game, Now: s.testTime})
		s.Require().NoError(err)
		s.Equal(models.RoomStatusEnded, out.Game.Room.Status, "start index %d", start)
		s.Equal(s.bob, out.Game.Room.Winner, "start index %d", start)
	}
}

func (s *TurnMachineTestSuite) TestAdvanceTurn_WrapStartsNewRound() {
	game := s.inProgress(21, s.alice, s.bob)
	game.Room.CurrentPlayerIndex = 1
	game.Players[0].HasSkippedTurn = true

	out, err := s.machine.AdvanceTurn(&AdvanceTurnInput{Game: game, Now: s.testTime})
	s.Require().NoError(err)
	s.Equal(0, out.Game.Room.CurrentPlayerIndex)
	s.Equal(int64(2), out.Game.Room.CurrentRound)
	s.False(out.Game.Player(s.alice).HasSkippedTurn)
	s.Equal(int64(2), out.Events[0].Round)
}

// 29s is too early, 31s is allowed
func (s *TurnMachineTestSuite) TestForceAdvance_RespectsTimeout() {
	game := s.inProgress(21, s.alice, s.bob, s.carol)

	_, err := s.machine.ForceAdvance(&ForceAdvanceInput{
		Game: game, Caller: s.bob, Now: s.testTime.Add(29 * time.Second),
	})
	s.ErrorIs(err, ErrTurnNotExpired)

	out, err := s.machine.ForceAdvance(&ForceAdvanceInput{
		Game: game, Caller: s.bob, Now: s.testTime.Add(31 * time.Second),
	})
	s.Require().NoError(err)
	s.Equal(s.bob, out.Game.Room.CurrentPlayer())
	s.True(out.Game.Player(s.alice).HasSkippedTurn)
	s.Require().NotEmpty(out.Events)
	s.Equal(EventForcedSkip, out.Events[0].Kind)
	s.Equal(s.alice, out.Events[0].Player)
	s.Equal(s.bob, out.Events[0].By)
}

func (s *TurnMachineTestSuite) TestForceAdvance_RequiresParticipant() {
	game := s.inProgress(21, s.alice, s.bob)

	_, err := s.machine.ForceAdvance(&ForceAdvanceInput{
		Game: game, Caller: s.carol, Now: s.testTime.Add(time.Hour),
	})
	s.ErrorIs(err, ErrNotParticipant)
}

func (s *TurnMachineTestSuite) TestEndGame_RoundsLimit() {
	game := s.inProgress(21, s.alice, s.bob, s.carol)
	game.Players[0].Total = 12
	game.Players[1].Total = 15
	game.Players[2].Total = 15

	_, err := s.machine.EndGame(&EndGameInput{Game: game, Caller: s.alice, Now: s.testTime})
	s.ErrorIs(err, ErrGameNotOver)

	game.Room.CurrentRound = 4
	out, err := s.machine.EndGame(&EndGameInput{Game: game, Caller: s.alice, Now: s.testTime})
	s.Require().NoError(err)
	s.Equal(models.RoomStatusEnded, out.Game.Room.Status)
	s.Equal(s.bob, out.Game.Room.Winner, "ties go to the earlier participant")
}

func (s *TurnMachineTestSuite) TestEndGame_TimeLimit() {
	game := s.inProgress(21, s.alice, s.bob)
	game.Room.Mode = models.GameModeTimeBased
	game.Room.ModeValue = 120
	game.Players[0].Total = 10
	game.Players[1].Active = false
	game.Players[1].Total = 25

	_, err := s.machine.EndGame(&EndGameInput{Game: game, Caller: s.bob, Now: s.testTime.Add(119 * time.Second)})
	s.ErrorIs(err, ErrGameNotOver)

	out, err := s.machine.EndGame(&EndGameInput{Game: game, Caller: s.bob, Now: s.testTime.Add(120 * time.Second)})
	s.Require().NoError(err)
	s.Equal(s.alice, out.Game.Room.Winner)
}

func (s *TurnMachineTestSuite) TestClaim() {
	game := s.inProgress(21, s.alice, s.bob)

	_, err := s.machine.Claim(&ClaimInput{Game: game, Caller: s.alice})
	s.ErrorIs(err, ErrRoomNotEnded)

	game.Room.Status = models.RoomStatusEnded
	game.Room.Winner = s.alice

	_, err = s.machine.Claim(&ClaimInput{Game: game, Caller: s.bob})
	s.ErrorIs(err, ErrNotWinner)

	out, err := s.machine.Claim(&ClaimInput{Game: game, Caller: s.alice})
	s.Require().NoError(err)
	s.True(out.Game.Player(s.alice).Claimed)

	_, err = s.machine.Claim(&ClaimInput{Game: out.Game, Caller: s.alice})
	s.ErrorIs(err, ErrAlreadyClaimed)
}

func (s *TurnMachineTestSuite) TestDrawSides() {
	s.Equal(6, DrawSides(21))
	s.Equal(25, DrawSides(100))
	s.Equal(1, DrawSides(0))
}

// TestInvariantsHoldThroughRandomPlay plays seeded games to the end and checks
// status monotonicity, irreversible elimination and total == sum(draws) after every step.
func TestInvariantsHoldThroughRandomPlay(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		roller := dice.New(&dice.Config{Seed: seed})
		machine, err := New(&Config{DiceRoller: roller})
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		out, err := machine.Create(&CreateInput{
			RoomID: uint64(seed), Creator: "p0", MaxNumber: 21 + int(seed),
			Mode: models.GameModeRounds, ModeValue: 50, TurnTimeout: time.Second,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		game := out.Game
		for _, addr := range []string{"p1", "p2", "p3"} {
			out, err = machine.Join(&JoinInput{Game: game, Player: addr})
			if err != nil {
				t.Fatalf("Join: %v", err)
			}
			game = out.Game
		}
		out, err = machine.Start(&StartInput{Game: game, Caller: "p0", Now: now})
		if err != nil {
			t.Fatalf("Start: %v", err)
		}
		game = out.Game

		eliminated := map[string]bool{}
		for step := 0; step < 500 && game.Room.Status == models.RoomStatusInProgress; step++ {
			prev := game
			current := game.Room.CurrentPlayer()
			if step%5 == 4 {
				out, err = machine.Skip(&SkipInput{Game: game, Caller: current, Now: now})
			} else {
				out, err = machine.Draw(&DrawInput{Game: game, Caller: current, Now: now})
			}
			if err != nil {
				t.Fatalf("seed %d step %d: %v", seed, step, err)
			}
			game = out.Game

			if !prev.Room.Status.CanMoveTo(game.Room.Status) {
				t.Fatalf("seed %d: status went from %s to %s", seed, prev.Room.Status, game.Room.Status)
			}
			for _, p := range game.Players {
				if p.Total != p.SumDraws() {
					t.Fatalf("seed %d: %s total %d != sum %d", seed, p.Address, p.Total, p.SumDraws())
				}
				if eliminated[p.Address] && p.Active {
					t.Fatalf("seed %d: %s came back to life", seed, p.Address)
				}
				if !p.Active {
					eliminated[p.Address] = true
				}
			}
			if game.Room.Status == models.RoomStatusInProgress {
				if cur := game.Player(game.Room.CurrentPlayer()); cur == nil || !cur.Active {
					t.Fatalf("seed %d: current player is not active", seed)
				}
			}
		}
		if game.Room.Status != models.RoomStatusEnded {
			t.Fatalf("seed %d: game did not end", seed)
		}
	}
}
