package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/yigit/schoolconnector/internal/pkg/logger"
)

// RedisSubscriber feeds events published by the connector's message broker
// publisher into a handler. Messages are handled one at a time.
type RedisSubscriber struct {
	client  *redis.Client
	channel string
	handler Handler
	log     zerolog.Logger

	mu     sync.Mutex
	pubsub *redis.PubSub
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRedisSubscriber creates a subscriber for channel
func NewRedisSubscriber(client *redis.Client, channel string, handler Handler) *RedisSubscriber {
	return &RedisSubscriber{
		client:  client,
		channel: channel,
		handler: handler,
		log:     logger.Component("redis-events").With().Str("channel", channel).Logger(),
	}
}

// Start subscribes and begins consuming in the background
func (s *RedisSubscriber) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pubsub != nil {
		return errors.New("redis subscriber already started")
	}

	pubsub := s.client.Subscribe(ctx, s.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return fmt.Errorf("subscribe to %s: %w", s.channel, err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.pubsub = pubsub
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(runCtx, pubsub.Channel(), s.done)
	s.log.Info().Msg("Subscribed to connector events")
	return nil
}

func (s *RedisSubscriber) run(ctx context.Context, messages <-chan *redis.Message, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			s.dispatch(ctx, msg.Payload)
		}
	}
}

// dispatch decodes and handles one payload. Failures are logged; the
// connector does not redeliver broker messages.
func (s *RedisSubscriber) dispatch(ctx context.Context, payload string) {
	ev, err := Decode([]byte(payload))
	if err != nil {
		if errors.Is(err, ErrUnsupportedEvent) {
			s.log.Debug().Err(err).Msg("Skipping event")
			return
		}
		s.log.Warn().Err(err).Msg("Dropping malformed event")
		return
	}

	if err := s.handler.Handle(ctx, ev); err != nil {
		s.log.Error().Err(err).Str("kind", string(ev.Kind())).Msg("Event from broker failed")
	}
}

// Stop unsubscribes and waits for the consumer goroutine to exit
func (s *RedisSubscriber) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pubsub == nil {
		return nil
	}

	s.cancel()
	err := s.pubsub.Close()
	<-s.done
	s.pubsub = nil
	s.log.Info().Msg("Unsubscribed from connector events")
	return err
}
