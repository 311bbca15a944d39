package clientstate

import (
	"context"
	"fmt"
	"sync"

	model "hidden-market/internal/models"
)

// Chat tracks the user's conversation partners and the open conversation
type Chat struct {
	backend Backend

	mu       sync.RWMutex
	partners []string
	active   string
	messages []model.Message
}

// NewChat creates an empty chat manager
func NewChat(backend Backend) *Chat {
	return &Chat{backend: backend}
}

// RefreshPartners rebuilds the partner list from every message the user sent
// or received, in order of first appearance
func (c *Chat) RefreshPartners(ctx context.Context, userID string) error {
	msgs, err := c.backend.MessagesFor(ctx, userID)
	if err != nil {
		return fmt.Errorf("chat: refresh partners of %s: %w", userID, err)
	}

	seen := make(map[string]struct{})
	var partners []string
	add := func(id string) {
		if id == userID {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		partners = append(partners, id)
	}
	for _, m := range msgs {
		add(m.SenderID)
		add(m.ReceiverID)
	}

	c.mu.Lock()
	c.partners = partners
	c.mu.Unlock()
	return nil
}

// Open makes partnerID the active conversation and loads its messages
func (c *Chat) Open(ctx context.Context, userID, partnerID string) error {
	c.mu.Lock()
	c.active = partnerID
	c.mu.Unlock()

	msgs, err := c.backend.MessagesBetween(ctx, userID, partnerID)
	if err != nil {
		return fmt.Errorf("chat: load conversation with %s: %w", partnerID, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// a different conversation may have been opened meanwhile
	if c.active == partnerID {
		c.messages = msgs
	}
	return nil
}

// Append adds a live message to the open conversation
func (c *Chat) Append(msg model.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
}

// Close leaves the open conversation
func (c *Chat) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = ""
	c.messages = nil
}

// Active returns the partner of the open conversation, or ""
func (c *Chat) Active() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// Partners returns a copy of the partner list
func (c *Chat) Partners() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.partners...)
}

// Messages returns a copy of the open conversation
func (c *Chat) Messages() []model.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Message(nil), c.messages...)
}

// Reset forgets partners and the open conversation
func (c *Chat) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.partners = nil
	c.active = ""
	c.messages = nil
}
