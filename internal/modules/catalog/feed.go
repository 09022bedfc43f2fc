package catalog

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

const spacesTable = "spaces"

// Source yields raw change-event payloads from the remote feed.
type Source interface {
	// Subscribe opens the feed. The returned stop function tears the
	// underlying transport down; after stop the channel is closed.
	Subscribe(ctx context.Context) (<-chan []byte, func(), error)
}

// Publisher pushes change events onto the feed so that every mirror,
// this process included, converges through the same path.
type Publisher interface {
	Publish(ctx context.Context, ev ChangeEvent) error
}

// Broadcaster forwards applied events to connected UI clients.
type Broadcaster interface {
	Broadcast(msgType string, data any)
}

// RedisSource consumes change events from a redis pub/sub channel.
type RedisSource struct {
	rdb     *redis.Client
	channel string
}

func NewRedisSource(rdb *redis.Client, channel string) *RedisSource {
	return &RedisSource{rdb: rdb, channel: channel}
}

func (s *RedisSource) Subscribe(ctx context.Context) (<-chan []byte, func(), error) {
	ps := s.rdb.Subscribe(ctx, s.channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, err
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		for msg := range ps.Channel() {
			out <- []byte(msg.Payload)
		}
	}()

	stop := func() { _ = ps.Close() }
	return out, stop, nil
}

// RedisPublisher publishes change events to the same channel the
// RedisSource listens on.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

func NewRedisPublisher(rdb *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, ev ChangeEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, p.channel, payload).Err()
}

// Listener ties the change feed to the store. At most one subscription is
// active at a time so no event is delivered twice.
type Listener struct {
	store  *Store
	source Source
	notifs Broadcaster

	mu     sync.Mutex
	active *Subscription
}

func NewListener(store *Store, source Source, notifs Broadcaster) *Listener {
	return &Listener{store: store, source: source, notifs: notifs}
}

// Subscription is a handle on the running feed. Cancel is safe to call
// more than once; only the first call tears the feed down.
type Subscription struct {
	stop     func()
	done     chan struct{}
	once     sync.Once
	listener *Listener
}

func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.stop()
		<-s.done
		s.listener.mu.Lock()
		s.listener.active = nil
		s.listener.mu.Unlock()
	})
}

// Subscribe starts consuming the feed. A second call while a subscription
// is live fails with ErrAlreadySubscribed.
func (l *Listener) Subscribe(ctx context.Context) (*Subscription, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.active != nil {
		return nil, ErrAlreadySubscribed
	}

	events, stop, err := l.source.Subscribe(ctx)
	if err != nil {
		return nil, err
	}

	sub := &Subscription{
		stop:     stop,
		done:     make(chan struct{}),
		listener: l,
	}

	go func() {
		defer close(sub.done)
		for payload := range events {
			l.apply(payload)
		}
	}()

	l.active = sub
	return sub, nil
}

// apply decodes one feed payload and routes it to the store. Malformed
// payloads and foreign tables are logged and skipped; event application
// itself never fails.
func (l *Listener) apply(payload []byte) {
	var ev ChangeEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		log.Printf("catalog: dropping malformed feed payload: %v", err)
		return
	}
	if ev.Table != spacesTable {
		return
	}

	record, err := decodeSpaceRecord(ev.Record)
	if err != nil {
		log.Printf("catalog: dropping feed record for event=%s: %v", ev.Type, err)
		return
	}
	if record.ID == nil || *record.ID == "" {
		log.Printf("catalog: dropping feed record without id, event=%s", ev.Type)
		return
	}

	switch ev.Type {
	case EventInsert:
		l.store.ApplyInsert(record.toSpace())
	case EventUpdate:
		l.store.ApplyUpdate(*record.ID, record.toPatch())
	case EventDelete:
		l.store.ApplyDelete(*record.ID)
	default:
		log.Printf("catalog: dropping feed event with unknown type=%q", ev.Type)
		return
	}

	if l.notifs != nil {
		l.notifs.Broadcast("space_"+string(ev.Type), json.RawMessage(ev.Record))
	}
}
