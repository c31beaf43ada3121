package internal

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrEmptyMessage is returned when there is nothing to send.
	ErrEmptyMessage = errors.New("nothing to send")
	// ErrSendInFlight is returned when a send is already outstanding.
	ErrSendInFlight = errors.New("a send is already in flight")
)

// ChatAPI is the slice of the platform client the conversation needs.
type ChatAPI interface {
	SendChat(message string, files []string) (*ChatReply, error)
	ChatHistory(limit, offset int) ([]Session, error)
	EndChatSession() error
}

// Conversation maintains the ordered session list and reconciles
// optimistic local sends with server replies. The list is ordered
// most-recently-updated first; after any mutation the mutated or new
// session sits at index 0.
type Conversation struct {
	mu         sync.Mutex
	api        ChatAPI
	sessions   []Session
	selectedID string
	inFlight   bool

	now func() time.Time
}

// NewConversation returns an empty conversation over the given API.
func NewConversation(api ChatAPI) *Conversation {
	return &Conversation{api: api, now: time.Now}
}

// Sessions returns a snapshot of the session list.
func (c *Conversation) Sessions() []Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Session, len(c.sessions))
	copy(out, c.sessions)
	return out
}

// SelectedID returns the id of the selected session, or "".
func (c *Conversation) SelectedID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedID
}

// Select makes the session with the given id current.
func (c *Conversation) Select(sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexOf(sessionID) == -1 {
		return fmt.Errorf("no session %s", sessionID)
	}
	c.selectedID = sessionID
	return nil
}

// SelectedMessages returns the messages of the selected session.
func (c *Conversation) SelectedMessages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(c.selectedID)
	if i == -1 {
		return nil
	}
	out := make([]Message, len(c.sessions[i].Messages))
	copy(out, c.sessions[i].Messages)
	return out
}

// SendMessage sends text with optional attachments. The user message is
// appended optimistically (tagged pending) before the request and either
// confirmed or retracted once the server answers. Returns the assistant
// reply message on success.
func (c *Conversation) SendMessage(text string, files []string) (*Message, error) {
	if strings.TrimSpace(text) == "" && len(files) == 0 {
		return nil, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return nil, ErrSendInFlight
	}
	c.inFlight = true

	content := text
	if strings.TrimSpace(text) == "" {
		content = fmt.Sprintf("Sent %d file(s)", len(files))
	}
	provisional := Message{
		Role:     "user",
		Content:  content,
		TS:       c.now().Format(time.RFC3339),
		LocalID:  uuid.NewString(),
		Delivery: DeliveryPending,
	}

	// Attach the provisional message to the selected session when one
	// exists; otherwise it is held for reconciliation only.
	placed := false
	if i := c.indexOf(c.selectedID); i != -1 {
		c.sessions[i].Messages = append(c.sessions[i].Messages, provisional)
		c.moveToFront(i)
		placed = true
	}
	c.mu.Unlock()

	reply, err := c.api.SendChat(text, files)

	c.mu.Lock()
	defer func() {
		c.inFlight = false
		c.mu.Unlock()
	}()

	if err != nil {
		// Retract the optimistic entry instead of leaving unconfirmed
		// state merged forever.
		if placed {
			c.retract(provisional.LocalID)
		}
		return nil, err
	}

	assistant := Message{
		Role:    "assistant",
		Content: reply.Reply,
		TS:      c.now().Format(time.RFC3339),
	}

	c.confirm(provisional.LocalID)

	if i := c.indexOf(reply.SessionID); i != -1 {
		c.sessions[i].Messages = append(c.sessions[i].Messages, assistant)
		c.sessions[i].UpdatedAt = c.now()
		c.moveToFront(i)
	} else {
		provisional.Delivery = DeliveryDelivered
		fresh := Session{
			SessionID: reply.SessionID,
			UpdatedAt: c.now(),
			Messages:  []Message{provisional, assistant},
		}
		c.sessions = append([]Session{fresh}, c.sessions...)
	}

	// The server may assign a new id for what the client treated as a
	// fresh conversation.
	c.selectedID = reply.SessionID

	return &assistant, nil
}

// NewSession ends the active server-side context and clears the
// selection. Existing history is kept.
func (c *Conversation) NewSession() error {
	if err := c.api.EndChatSession(); err != nil {
		return err
	}
	c.mu.Lock()
	c.selectedID = ""
	c.mu.Unlock()
	return nil
}

// LoadHistory fetches sessions and installs them sorted by updated_at
// descending. When no optimistic send is outstanding the local list is
// replaced wholesale; otherwise server data is merged so pending
// messages are not discarded.
func (c *Conversation) LoadHistory(limit, offset int) error {
	items, err := c.api.ChatHistory(limit, offset)
	if err != nil {
		return err
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	pending := c.pendingSessions()
	if len(pending) == 0 {
		c.sessions = items
	} else {
		c.sessions = mergePending(items, pending)
	}

	if c.selectedID == "" && len(c.sessions) > 0 {
		c.selectedID = c.sessions[0].SessionID
	}
	return nil
}

// pendingSessions returns the local sessions still holding pending
// optimistic messages.
func (c *Conversation) pendingSessions() []Session {
	var out []Session
	for _, s := range c.sessions {
		if s.HasPending() {
			out = append(out, s)
		}
	}
	return out
}

// mergePending lays pending local state over freshly fetched sessions.
// Pending messages are appended to their server counterpart when one
// exists; sessions unknown to the server are kept at the front.
func mergePending(items, pending []Session) []Session {
	merged := items
	for _, local := range pending {
		found := false
		for i := range merged {
			if merged[i].SessionID != local.SessionID {
				continue
			}
			for _, m := range local.Messages {
				if m.Delivery == DeliveryPending {
					merged[i].Messages = append(merged[i].Messages, m)
				}
			}
			found = true
			break
		}
		if !found {
			merged = append([]Session{local}, merged...)
		}
	}
	return merged
}

// indexOf returns the position of a session id, or -1. Callers hold mu.
func (c *Conversation) indexOf(sessionID string) int {
	if sessionID == "" {
		return -1
	}
	for i := range c.sessions {
		if c.sessions[i].SessionID == sessionID {
			return i
		}
	}
	return -1
}

// moveToFront moves the session at i to index 0. Callers hold mu.
func (c *Conversation) moveToFront(i int) {
	if i == 0 {
		return
	}
	s := c.sessions[i]
	c.sessions = append(c.sessions[:i], c.sessions[i+1:]...)
	c.sessions = append([]Session{s}, c.sessions...)
}

// confirm marks the message with the given local id as delivered.
func (c *Conversation) confirm(localID string) {
	for i := range c.sessions {
		for j := range c.sessions[i].Messages {
			if c.sessions[i].Messages[j].LocalID == localID {
				c.sessions[i].Messages[j].Delivery = DeliveryDelivered
				return
			}
		}
	}
}

// retract removes the message with the given local id.
func (c *Conversation) retract(localID string) {
	for i := range c.sessions {
		msgs := c.sessions[i].Messages
		for j := range msgs {
			if msgs[j].LocalID == localID {
				c.sessions[i].Messages = append(msgs[:j], msgs[j+1:]...)
				return
			}
		}
	}
}
