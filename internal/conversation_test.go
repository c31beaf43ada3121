package internal

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeChatAPI implements ChatAPI with programmable responses and call
// counters.
type fakeChatAPI struct {
	mu           sync.Mutex
	sendCalls    int
	historyCalls int
	endCalls     int

	sendFn    func(message string, files []string) (*ChatReply, error)
	historyFn func(limit, offset int) ([]Session, error)
	endErr    error
}

func (f *fakeChatAPI) SendChat(message string, files []string) (*ChatReply, error) {
	f.mu.Lock()
	f.sendCalls++
	fn := f.sendFn
	f.mu.Unlock()
	if fn == nil {
		return &ChatReply{Reply: "ok", SessionID: "s1"}, nil
	}
	return fn(message, files)
}

func (f *fakeChatAPI) ChatHistory(limit, offset int) ([]Session, error) {
	f.mu.Lock()
	f.historyCalls++
	fn := f.historyFn
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(limit, offset)
}

func (f *fakeChatAPI) EndChatSession() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.endCalls++
	return f.endErr
}

func (f *fakeChatAPI) sends() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sendCalls
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestSendMessageEmptyIsNoOp(t *testing.T) {
	api := &fakeChatAPI{}
	conv := NewConversation(api)

	for _, input := range []string{"", "   ", "\t\n"} {
		_, err := conv.SendMessage(input, nil)
		if !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("SendMessage(%q) error = %v, want ErrEmptyMessage", input, err)
		}
	}

	if api.sends() != 0 {
		t.Errorf("sendCalls = %d, want 0", api.sends())
	}
	if len(conv.Sessions()) != 0 {
		t.Errorf("sessions mutated by empty send")
	}
}

func TestSendMessageCreatesSessionForNewID(t *testing.T) {
	api := &fakeChatAPI{
		sendFn: func(message string, files []string) (*ChatReply, error) {
			return &ChatReply{Reply: "hello back", SessionID: "fresh-1"}, nil
		},
	}
	conv := NewConversation(api)
	conv.now = fixedClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	reply, err := conv.SendMessage("hello", nil)
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if reply.Content != "hello back" {
		t.Errorf("reply content = %q", reply.Content)
	}

	sessions := conv.Sessions()
	if len(sessions) != 1 {
		t.Fatalf("len(sessions) = %d, want 1", len(sessions))
	}
	s := sessions[0]
	if s.SessionID != "fresh-1" {
		t.Errorf("session id = %q, want fresh-1", s.SessionID)
	}
	if len(s.Messages) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(s.Messages))
	}
	if s.Messages[0].Role != "user" || s.Messages[0].Content != "hello" {
		t.Errorf("first message = %+v", s.Messages[0])
	}
	if s.Messages[0].Delivery != DeliveryDelivered {
		t.Errorf("user message delivery = %q, want delivered", s.Messages[0].Delivery)
	}
	if s.Messages[1].Role != "assistant" || s.Messages[1].Content != "hello back" {
		t.Errorf("second message = %+v", s.Messages[1])
	}
	if conv.SelectedID() != "fresh-1" {
		t.Errorf("selected = %q, want fresh-1", conv.SelectedID())
	}
}

func TestSendMessageMovesUpdatedSessionToFront(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	api := &fakeChatAPI{
		historyFn: func(limit, offset int) ([]Session, error) {
			return []Session{
				CreateTestSession("newer", base.Add(time.Hour)),
				CreateTestSession("older", base),
			}, nil
		},
		sendFn: func(message string, files []string) (*ChatReply, error) {
			return &ChatReply{Reply: "the answer", SessionID: "older"}, nil
		},
	}
	conv := NewConversation(api)
	conv.now = fixedClock(base.Add(2 * time.Hour))

	if err := conv.LoadHistory(50, 0); err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if err := conv.Select("older"); err != nil {
		t.Fatalf("Select: %v", err)
	}

	if _, err := conv.SendMessage("question", nil); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	sessions := conv.Sessions()
	if sessions[0].SessionID != "older" {
		t.Fatalf("session at index 0 = %q, want the updated one", sessions[0].SessionID)
	}
	last := sessions[0].Messages[len(sessions[0].Messages)-1]
	if last.Role != "assistant" || last.Content != "the answer" {
		t.Errorf("last message = %+v, want the assistant reply", last)
	}
	if !sessions[0].UpdatedAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("updated_at not refreshed: %v", sessions[0].UpdatedAt)
	}
	if sessions[0].HasPending() {
		t.Errorf("provisional message still pending after reconciliation")
	}
}

func TestSendMessageRejectsConcurrentSend(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	api := &fakeChatAPI{
		sendFn: func(message string, files []string) (*ChatReply, error) {
			once.Do(func() { close(started) })
			<-release
			return &ChatReply{Reply: "done", SessionID: "s1"}, nil
		},
	}
	conv := NewConversation(api)

	errCh := make(chan error, 1)
	go func() {
		_, err := conv.SendMessage("first", nil)
		errCh <- err
	}()

	<-started
	_, err := conv.SendMessage("second", nil)
	if !errors.Is(err, ErrSendInFlight) {
		t.Errorf("second send error = %v, want ErrSendInFlight", err)
	}
	if api.sends() != 1 {
		t.Errorf("sendCalls = %d, want 1 (no duplicate request)", api.sends())
	}

	close(release)
	if err := <-errCh; err != nil {
		t.Fatalf("first send: %v", err)
	}

	// The in-flight flag must clear once the send resolves.
	if _, err := conv.SendMessage("third", nil); err != nil {
		t.Errorf("send after resolve: %v", err)
	}
}

func TestSendMessageFailureRetractsOptimisticMessage(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	api := &fakeChatAPI{
		historyFn: func(limit, offset int) ([]Session, error) {
			return []Session{CreateTestSession("s1", base)}, nil
		},
		sendFn: func(message string, files []string) (*ChatReply, error) {
			return nil, errors.New("boom")
		},
	}
	conv := NewConversation(api)

	if err := conv.LoadHistory(50, 0); err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	before := len(conv.SelectedMessages())

	if _, err := conv.SendMessage("doomed", nil); err == nil {
		t.Fatal("SendMessage succeeded, want error")
	}

	after := conv.SelectedMessages()
	if len(after) != before {
		t.Errorf("message count = %d, want %d (optimistic entry retracted)", len(after), before)
	}
	for _, m := range after {
		if m.Content == "doomed" {
			t.Errorf("failed message still present: %+v", m)
		}
	}

	// The flag must clear after a failed send too.
	api.sendFn = nil
	if _, err := conv.SendMessage("retry", nil); err != nil {
		t.Errorf("send after failure: %v", err)
	}
}

func TestLoadHistorySortsAndIsIdempotent(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	unsorted := []Session{
		CreateTestSession("b", base.Add(time.Minute)),
		CreateTestSession("c", base.Add(time.Hour)),
		CreateTestSession("a", base),
	}
	api := &fakeChatAPI{
		historyFn: func(limit, offset int) ([]Session, error) {
			out := make([]Session, len(unsorted))
			copy(out, unsorted)
			return out, nil
		},
	}
	conv := NewConversation(api)

	if err := conv.LoadHistory(50, 0); err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	first := ids(conv.Sessions())
	want := []string{"c", "b", "a"}
	for i := range want {
		if first[i] != want[i] {
			t.Fatalf("order = %v, want %v", first, want)
		}
	}

	if got := conv.SelectedID(); got != "c" {
		t.Errorf("selected = %q, want most recent session", got)
	}

	if err := conv.LoadHistory(50, 0); err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	second := ids(conv.Sessions())
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("order changed between identical loads: %v vs %v", first, second)
		}
	}
}

func TestLoadHistoryKeepsSelection(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	api := &fakeChatAPI{
		historyFn: func(limit, offset int) ([]Session, error) {
			return []Session{
				CreateTestSession("x", base.Add(time.Hour)),
				CreateTestSession("y", base),
			}, nil
		},
	}
	conv := NewConversation(api)

	if err := conv.LoadHistory(50, 0); err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if err := conv.Select("y"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if err := conv.LoadHistory(50, 0); err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if got := conv.SelectedID(); got != "y" {
		t.Errorf("selected = %q, want existing selection kept", got)
	}
}

func TestLoadHistoryMergesPendingState(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	started := make(chan struct{})
	release := make(chan struct{})
	api := &fakeChatAPI{
		historyFn: func(limit, offset int) ([]Session, error) {
			// Server copy without the in-flight message.
			return []Session{CreateTestSession("s1", base)}, nil
		},
		sendFn: func(message string, files []string) (*ChatReply, error) {
			close(started)
			<-release
			return &ChatReply{Reply: "late", SessionID: "s1"}, nil
		},
	}
	conv := NewConversation(api)

	if err := conv.LoadHistory(50, 0); err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		_, err := conv.SendMessage("still pending", nil)
		errCh <- err
	}()
	<-started

	// History arrives while the send is outstanding; the pending
	// message must survive the reload.
	if err := conv.LoadHistory(50, 0); err != nil {
		t.Fatalf("LoadHistory during send: %v", err)
	}

	found := false
	for _, m := range conv.SelectedMessages() {
		if m.Content == "still pending" && m.Delivery == DeliveryPending {
			found = true
		}
	}
	if !found {
		t.Error("pending optimistic message discarded by history reload")
	}

	close(release)
	if err := <-errCh; err != nil {
		t.Fatalf("send: %v", err)
	}
}

func TestNewSessionClearsSelectionOnly(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	api := &fakeChatAPI{
		historyFn: func(limit, offset int) ([]Session, error) {
			return []Session{CreateTestSession("s1", base)}, nil
		},
	}
	conv := NewConversation(api)

	if err := conv.LoadHistory(50, 0); err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if err := conv.NewSession(); err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if api.endCalls != 1 {
		t.Errorf("endCalls = %d, want 1", api.endCalls)
	}
	if conv.SelectedID() != "" {
		t.Errorf("selected = %q, want cleared", conv.SelectedID())
	}
	if len(conv.Sessions()) != 1 {
		t.Errorf("session history deleted by NewSession")
	}
}

func TestNewSessionPropagatesEndError(t *testing.T) {
	api := &fakeChatAPI{endErr: errors.New("server down")}
	conv := NewConversation(api)
	if err := conv.NewSession(); err == nil {
		t.Fatal("NewSession succeeded, want error")
	}
}

func ids(sessions []Session) []string {
	out := make([]string, len(sessions))
	for i, s := range sessions {
		out[i] = s.SessionID
	}
	return out
}
