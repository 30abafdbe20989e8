package room

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/entity"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/logging"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/ratelimit"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/repository"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/service"
)

// Service orchestrates the room lifecycle: join and leave announcements,
// and rate-limited, persisted, in-order message fan-out.
type Service struct {
	hub      *Hub
	limiter  *ratelimit.SlidingWindow
	messages repository.MessageRepository
	logger   logging.Logger

	// One lock per room, held across persist+broadcast so the order
	// members observe is exactly commit order. Different rooms proceed
	// in parallel.
	roomMu sync.Mutex
	locks  map[uint]*sync.Mutex

	rateLimitMsg string
}

func NewService(hub *Hub, limiter *ratelimit.SlidingWindow, messages repository.MessageRepository, limit int, window time.Duration, logger logging.Logger) *Service {
	return &Service{
		hub:      hub,
		limiter:  limiter,
		messages: messages,
		logger:   logger,
		locks:    make(map[uint]*sync.Mutex),
		rateLimitMsg: fmt.Sprintf("Rate limit exceeded. Max %d messages per %d seconds.",
			limit, int(window.Seconds())),
	}
}

func (s *Service) roomLock(groupID uint) *sync.Mutex {
	s.roomMu.Lock()
	defer s.roomMu.Unlock()
	mu, ok := s.locks[groupID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[groupID] = mu
	}
	return mu
}

// Join registers the connection in the room and announces it. The
// registration happens first, so the joining connection receives its
// own announcement. No database interaction.
func (s *Service) Join(groupID uint, username string, c *Client) {
	s.hub.Register(groupID, c)
	c.trackJoin(groupID, username)
	s.hub.Broadcast(groupID, EventStatus, StatusPayload{
		Msg: fmt.Sprintf("%s has entered the room.", username),
	})
	s.logger.Logf("connection %s joined room %d as %q", c.addr, groupID, username)
}

// Send checks the sender's rate window, persists the message, then
// broadcasts it. A rejected or failed send is reported to the sender
// only and is never broadcast; a message that was not persisted is
// never delivered.
func (s *Service) Send(groupID, userID uint, senderName, content string, c *Client) error {
	if !s.limiter.Allow(rateKey(userID), time.Now()) {
		if c != nil {
			c.Emit(EventError, ErrorPayload{Msg: s.rateLimitMsg})
		}
		s.logger.Logf("user %d rate limited in room %d", userID, groupID)
		return service.ErrRateLimited
	}

	mu := s.roomLock(groupID)
	mu.Lock()
	defer mu.Unlock()

	msg := &entity.Message{GroupID: groupID, UserID: userID, Content: content}
	if err := s.messages.Create(msg); err != nil {
		if c != nil {
			c.Emit(EventError, ErrorPayload{Msg: "Message could not be delivered."})
		}
		s.logger.Logf("persist message for room %d failed: %v", groupID, err)
		return fmt.Errorf("persist message: %w", err)
	}

	s.hub.Broadcast(groupID, EventNewMessage, NewMessagePayload{
		GroupID:    groupID,
		UserID:     userID,
		Content:    content,
		SenderName: senderName,
	})
	return nil
}

// Leave removes the connection from the room and announces the
// departure to whoever is left.
func (s *Service) Leave(groupID uint, username string, c *Client) {
	s.hub.Unregister(groupID, c)
	c.trackLeave(groupID)
	s.hub.Broadcast(groupID, EventStatus, StatusPayload{
		Msg: fmt.Sprintf("%s has left the room.", username),
	})
	s.logger.Logf("connection %s left room %d", c.addr, groupID)
}

// Disconnect is the implicit leave: a dropped connection is removed
// from every room it was in, with the usual departure notice, so dead
// connections never linger in the registry.
func (s *Service) Disconnect(c *Client) {
	for groupID, username := range c.joinedRooms() {
		s.Leave(groupID, username, c)
	}
	c.close()
}

func rateKey(userID uint) string {
	return "user:" + strconv.FormatUint(uint64(userID), 10)
}
