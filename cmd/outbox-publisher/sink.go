package main

import (
	"context"
	"errors"

	gcppubsub "cloud.google.com/go/pubsub/v2"
)

// sink delivers messages to one topic. Messages sharing an ordering key are
// delivered in order; after a failed send the key stays paused until Resume.
type sink interface {
	Send(ctx context.Context, msg *gcppubsub.Message) error
	Resume(orderingKey string)
	Stop()
}

type topicSink struct {
	pub *gcppubsub.Publisher
}

// newTopicSink wraps a Pub/Sub publisher with ordered delivery switched on,
// so status changes for one order or table reach subscribers in sequence.
func newTopicSink(pub *gcppubsub.Publisher) (sink, error) {
	if pub == nil {
		return nil, errors.New("publisher not available")
	}
	pub.EnableMessageOrdering = true
	return &topicSink{pub: pub}, nil
}

func (s *topicSink) Send(ctx context.Context, msg *gcppubsub.Message) error {
	_, err := s.pub.Publish(ctx, msg).Get(ctx)
	return err
}

func (s *topicSink) Resume(orderingKey string) {
	s.pub.ResumePublish(orderingKey)
}

func (s *topicSink) Stop() {
	s.pub.Stop()
}
