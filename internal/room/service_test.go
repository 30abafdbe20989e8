package room

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/entity"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/ratelimit"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/service"
)

type MockLogger struct{}

func (m *MockLogger) Logf(format string, v ...any) {
	fmt.Printf(format+"\n", v...)
}

type MockMessageRepo struct {
	mu      sync.Mutex
	created []entity.Message
	fail    error
}

func (m *MockMessageRepo) Create(message *entity.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	message.ID = uint(len(m.created) + 1)
	m.created = append(m.created, *message)
	return nil
}

func (m *MockMessageRepo) GetByGroup(groupID uint) ([]entity.GroupMessage, error) {
	return nil, nil
}

func (m *MockMessageRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.created)
}

func newTestService(repo *MockMessageRepo) (*Service, *Hub) {
	hub := NewHub()
	limiter := ratelimit.NewSlidingWindow(10, time.Minute)
	svc := NewService(hub, limiter, repo, 10, time.Minute, &MockLogger{})
	return svc, hub
}

func TestJoinAnnouncesToRoomIncludingJoiner(t *testing.T) {
	svc, _ := newTestService(&MockMessageRepo{})
	c := NewClient(nil, "c")

	svc.Join(5, "alice", c)

	envs := drain(c)
	if len(envs) != 1 || envs[0].Event != EventStatus {
		t.Fatalf("joiner should see its own status event, got %+v", envs)
	}
	if got := string(envs[0].Data); got != `{"msg":"alice has entered the room."}` {
		t.Fatalf("unexpected status payload: %s", got)
	}
}

func TestLeaveAnnouncesToRemainingMembers(t *testing.T) {
	svc, hub := newTestService(&MockMessageRepo{})
	c := NewClient(nil, "c")
	d := NewClient(nil, "d")

	svc.Join(5, "alice", c)
	svc.Join(5, "bob", d)
	drain(c)
	drain(d)

	svc.Leave(5, "bob", d)

	if got := len(hub.Members(5)); got != 1 {
		t.Fatalf("room should have 1 member after leave, got %d", got)
	}
	envs := drain(c)
	if len(envs) != 1 || string(envs[0].Data) != `{"msg":"bob has left the room."}` {
		t.Fatalf("remaining member should see the departure, got %+v", envs)
	}
	if got := len(drain(d)); got != 0 {
		t.Fatalf("departed member should not see its own departure, got %d events", got)
	}
}

func TestSendPersistsThenBroadcasts(t *testing.T) {
	repo := &MockMessageRepo{}
	svc, _ := newTestService(repo)
	c := NewClient(nil, "c")
	d := NewClient(nil, "d")

	svc.Join(7, "alice", c)
	svc.Join(7, "bob", d)
	drain(c)
	drain(d)

	if err := svc.Send(7, 1, "alice", "hello", c); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if repo.count() != 1 {
		t.Fatalf("message should be persisted once, got %d rows", repo.count())
	}
	for _, member := range []*Client{c, d} {
		envs := drain(member)
		if len(envs) != 1 || envs[0].Event != EventNewMessage {
			t.Fatalf("every room member should receive new_message, got %+v", envs)
		}
	}
}

func TestSendFailClosedOnPersistenceError(t *testing.T) {
	repo := &MockMessageRepo{fail: errors.New("disk full")}
	svc, _ := newTestService(repo)
	c := NewClient(nil, "c")
	d := NewClient(nil, "d")

	svc.Join(7, "alice", c)
	svc.Join(7, "bob", d)
	drain(c)
	drain(d)

	if err := svc.Send(7, 1, "alice", "hello", c); err == nil {
		t.Fatal("send must fail when the store write fails")
	}

	// The failure is reported to the sender only; nothing is broadcast.
	envs := drain(c)
	if len(envs) != 1 || envs[0].Event != EventError {
		t.Fatalf("sender should receive an error event, got %+v", envs)
	}
	if got := len(drain(d)); got != 0 {
		t.Fatalf("failed send must not be broadcast, but other member got %d events", got)
	}
}

func TestEleventhSendIsRateLimitedAndNotPersisted(t *testing.T) {
	repo := &MockMessageRepo{}
	svc, _ := newTestService(repo)
	c := NewClient(nil, "c")
	d := NewClient(nil, "d")

	svc.Join(5, "alice", c)
	svc.Join(5, "bob", d)
	drain(c)
	drain(d)

	for i := 0; i < 10; i++ {
		if err := svc.Send(5, 9, "alice", "hi", c); err != nil {
			t.Fatalf("send %d should be accepted: %v", i+1, err)
		}
	}
	err := svc.Send(5, 9, "alice", "hi", c)
	if !errors.Is(err, service.ErrRateLimited) {
		t.Fatalf("11th send should be rate limited, got %v", err)
	}
	if repo.count() != 10 {
		t.Fatalf("rejected send must not be persisted, got %d rows", repo.count())
	}

	// The rate-limit notice goes to the sender alone.
	senderEvents := drain(c)
	last := senderEvents[len(senderEvents)-1]
	if last.Event != EventError {
		t.Fatalf("sender should see the rate-limit error, got %+v", last)
	}
	if got := string(last.Data); got != `{"msg":"Rate limit exceeded. Max 10 messages per 60 seconds."}` {
		t.Fatalf("unexpected rate-limit payload: %s", got)
	}
	for _, env := range drain(d) {
		if env.Event == EventError {
			t.Fatal("rate-limit error must never be broadcast to the room")
		}
	}
}

func TestBroadcastOrderMatchesPersistenceOrder(t *testing.T) {
	repo := &MockMessageRepo{}
	svc, _ := newTestService(repo)

	receiver := NewClient(nil, "r")
	svc.Join(3, "watcher", receiver)
	drain(receiver)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = svc.Send(3, uint(i+1), "sender", fmt.Sprintf("m%d", i), nil)
		}(i)
	}
	wg.Wait()

	envs := drain(receiver)
	if len(envs) != 5 {
		t.Fatalf("expected 5 broadcasts, got %d", len(envs))
	}
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for i, env := range envs {
		want := fmt.Sprintf(`"content":"%s"`, repo.created[i].Content)
		if !strings.Contains(string(env.Data), want) {
			t.Fatalf("broadcast %d out of order: got %s, persisted %q", i, env.Data, repo.created[i].Content)
		}
	}
}

func TestDisconnectLeavesEveryJoinedRoom(t *testing.T) {
	svc, hub := newTestService(&MockMessageRepo{})
	c := NewClient(nil, "c")
	watcher := NewClient(nil, "w")

	svc.Join(1, "alice", c)
	svc.Join(2, "alice", c)
	svc.Join(1, "bob", watcher)
	drain(c)
	drain(watcher)

	svc.Disconnect(c)

	if len(hub.Members(1)) != 1 || len(hub.Members(2)) != 0 {
		t.Fatal("disconnected client should be removed from every room")
	}
	envs := drain(watcher)
	if len(envs) != 1 || string(envs[0].Data) != `{"msg":"alice has left the room."}` {
		t.Fatalf("watcher should see the implicit departure, got %+v", envs)
	}
}
