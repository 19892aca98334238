package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/KirkDiggler/numberjack/internal/common/uuid"
	uuidMocks "github.com/KirkDiggler/numberjack/internal/common/uuid/mocks"
	"github.com/KirkDiggler/numberjack/internal/models"
	"github.com/KirkDiggler/numberjack/internal/relay"
	"github.com/KirkDiggler/numberjack/internal/repositories/mirror"
	"github.com/KirkDiggler/numberjack/internal/services/gateway"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// signallingHub reports each registration once it is queued on the gateway
type signallingHub struct {
	*gateway.Gateway
	registered chan string
}

func (h *signallingHub) Register(conn gateway.Conn) error {
	err := h.Gateway.Register(conn)
	h.registered <- conn.ID()
	return err
}

type HandlerTestSuite struct {
	suite.Suite
	hub     *signallingHub
	server  *httptest.Server
	ctx     context.Context
	cancel  context.CancelFunc
	runDone chan error
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	// server-side goroutines outlive the test, so they must not log through t
	logger := zap.NewNop()

	gw, err := gateway.New(&gateway.Config{Mirror: mirror.NewMemory(), Logger: logger})
	s.Require().NoError(err)
	s.hub = &signallingHub{Gateway: gw, registered: make(chan string, 8)}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.runDone = make(chan error, 1)
	go func() { s.runDone <- gw.Run(s.ctx) }()

	handler, err := New(&Config{Hub: s.hub, UUID: uuid.New(), Logger: logger})
	s.Require().NoError(err)
	s.server = httptest.NewServer(handler.Routes())
}

func (s *HandlerTestSuite) TearDownTest() {
	s.server.Close()
	s.cancel()
	<-s.runDone
}

func (s *HandlerTestSuite) connect() *relay.Client {
	client, err := relay.NewClient(&relay.Config{
		URL:    "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws",
		Logger: zaptest.NewLogger(s.T()),
	})
	s.Require().NoError(err)
	s.Require().NoError(client.Connect(s.ctx))
	s.T().Cleanup(func() { _ = client.Disconnect() })

	select {
	case <-s.hub.registered:
	case <-time.After(2 * time.Second):
		s.FailNow("connection was never registered")
	}
	return client
}

func (s *HandlerTestSuite) receive(client *relay.Client) relay.Message {
	select {
	case msg := <-client.Messages():
		return msg
	case <-time.After(2 * time.Second):
		s.FailNow("no message received")
		return nil
	}
}

func (s *HandlerTestSuite) getRooms(query string) (int, []*models.Game) {
	resp, err := http.Get(s.server.URL + "/rooms" + query)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var body roomsResponse
	if resp.StatusCode == http.StatusOK {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	}
	return resp.StatusCode, body.Rooms
}

func (s *HandlerTestSuite) TestNew_Validation() {
	_, err := New(nil)
	s.Error(err)

	_, err = New(&Config{Hub: s.hub})
	s.Error(err)
}

func (s *HandlerTestSuite) TestHealth() {
	resp, err := http.Get(s.server.URL + "/health")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func (s *HandlerTestSuite) TestRoomsStartsEmpty() {
	status, rooms := s.getRooms("")
	s.Equal(http.StatusOK, status)
	s.Empty(rooms)

	status, _ = s.getRooms("?status=Sideways")
	s.Equal(http.StatusBadRequest, status)
}

func (s *HandlerTestSuite) TestRelayRoundTrip() {
	alice := s.connect()
	bob := s.connect()

	game := &models.Game{
		Room: &models.Room{
			ID:        1,
			Creator:   "0xa",
			Players:   []string{"0xa"},
			MaxNumber: 21,
			Status:    models.RoomStatusNotStarted,
		},
		Players: []*models.Player{models.NewPlayer("0xa")},
	}
	s.Require().NoError(alice.Publish(s.ctx, &relay.CreateRoom{Game: game}))

	created, ok := s.receive(bob).(*relay.CreateRoom)
	s.Require().True(ok)
	s.Equal(uint64(1), created.Room())

	s.Require().NoError(bob.Publish(s.ctx, &relay.JoinRoom{RoomID: 1, Player: "0xb"}))
	joined, ok := s.receive(alice).(*relay.JoinRoom)
	s.Require().True(ok)
	s.Equal("0xb", joined.Player)

	s.Require().NoError(alice.Publish(s.ctx, &relay.PlayerDraw{RoomID: 1, PlayerAddress: "0xa", Draws: [2]int{2, 5}}))
	drew, ok := s.receive(bob).(*relay.PlayerDraw)
	s.Require().True(ok)
	s.Equal([2]int{2, 5}, drew.Draws)

	status, rooms := s.getRooms("?status=NotStarted")
	s.Equal(http.StatusOK, status)
	s.Require().Len(rooms, 1)
	s.Equal([]string{"0xa", "0xb"}, rooms[0].Room.Players)

	_, rooms = s.getRooms("?status=Ended")
	s.Empty(rooms)
}

func (s *HandlerTestSuite) TestConnectionIDsComeFromGenerator() {
	ctrl := gomock.NewController(s.T())
	ids := uuidMocks.NewMockUUID(ctrl)
	ids.EXPECT().NewUUID().Return("conn-1")

	handler, err := New(&Config{Hub: s.hub, UUID: ids, Logger: zap.NewNop()})
	s.Require().NoError(err)
	server := httptest.NewServer(handler.Routes())
	defer server.Close()

	client, err := relay.NewClient(&relay.Config{
		URL:    "ws" + strings.TrimPrefix(server.URL, "http") + "/ws",
		Logger: zaptest.NewLogger(s.T()),
	})
	s.Require().NoError(err)
	s.Require().NoError(client.Connect(s.ctx))
	defer func() { _ = client.Disconnect() }()

	select {
	case id := <-s.hub.registered:
		s.Equal("conn-1", id)
	case <-time.After(2 * time.Second):
		s.FailNow("connection was never registered")
	}
}
