package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
)

// SubjectPrefix is the root of every subject published by NATSSink.
const SubjectPrefix = "shopassist.orders"

// NATSSink publishes notifications to NATS so listeners in other processes can refresh.
type NATSSink struct {
	conn *nats.Conn
}

// NewNATSSink wraps an established connection.
func NewNATSSink(conn *nats.Conn) (*NATSSink, error) {
	if conn == nil {
		return nil, errors.New("nats connection is required")
	}
	return &NATSSink{conn: conn}, nil
}

// Subject returns the subject a notification is published on,
// e.g. shopassist.orders.1001.refresh.
func Subject(n Notification) string {
	return fmt.Sprintf("%s.%s.refresh", SubjectPrefix, subjectToken(n.OrderID))
}

// Broadcast implements Sink.
func (s *NATSSink) Broadcast(_ context.Context, n Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	if err := s.conn.Publish(Subject(n), data); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

// subjectToken makes s safe to use as a single NATS subject token.
func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\r', '\n':
			return '_'
		}
		return r
	}, s)
}
