// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the view-model for the active chat.
//
// The session decides what the message list shows as a message moves
// from typed to sent to confirmed. It tracks three things: the active
// chat id (zero means the new-chat composer), the last authoritative
// detail fetched from the backend, and an optimistic pair - the just
// submitted user message plus a pending assistant placeholder - that
// lives only until the next authoritative fetch lands.
//
// Views do not poll: they Subscribe a notification callback and pull a
// Snapshot when notified. All methods are safe for concurrent use; the
// network-facing ones (Submit, LoadDetail) block and are meant to run
// inside a Bubble Tea command goroutine.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/chatterm/internal/api"
	"github.com/jeranaias/chatterm/internal/util"
)

// PendingContent is the sentinel body of the assistant placeholder. The
// view renders it as a typing indicator.
const PendingContent = "..."

// TitleLimit is the maximum chat title length; titles are derived from
// the first 50 characters of the first user message, matching the server.
const TitleLimit = 50

// DataSource is the slice of the cached data layer the session needs.
// *cache.Client satisfies it.
type DataSource interface {
	GetChat(ctx context.Context, id int) (*api.ChatDetail, error)
	CreateChat(ctx context.Context, title string) (*api.CreateChatResponse, error)
	SendMessage(ctx context.Context, id int, content string) error
}

// =============================================================================
// TYPES
// =============================================================================

// OptimisticMessage is a transient, unpersisted shadow of a message. It
// carries no server identity; the uuid only keys UI list rendering.
type OptimisticMessage struct {
	ID        string
	Role      string
	Content   string
	CreatedAt time.Time
}

// Item is one renderable entry of the visible message sequence, either
// confirmed or optimistic.
type Item struct {
	Role      string
	Content   string
	CreatedAt time.Time
	Pending   bool
}

// Snapshot is the immutable view of the session state at one instant.
type Snapshot struct {
	ActiveChatID int
	Title        string
	Messages     []Item
	HasPending   bool
}

// =============================================================================
// SESSION
// =============================================================================

// Session is the chat view-model.
type Session struct {
	mu            sync.Mutex
	data          DataSource
	activeChatID  int
	authoritative *api.ChatDetail
	optimistic    []OptimisticMessage
	subscribers   []func()

	// OnNavigate is invoked after a successful submission so the router
	// can point its route at the (possibly freshly created) chat id.
	OnNavigate func(id int)
}

// New creates a session bound to the given data source, in the new-chat
// state.
func New(data DataSource) *Session {
	return &Session{data: data}
}

// Subscribe registers a change notification callback. Callbacks run
// outside the session lock and must not block.
func (s *Session) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Session) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// ActiveChatID returns the current chat id, zero if none is selected.
func (s *Session) ActiveChatID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeChatID
}

// =============================================================================
// OPERATIONS
// =============================================================================

// SelectChat points the session at a chat id. Switching to a different
// id clears the optimistic buffer and drops the stale authoritative
// detail; re-selecting the current id changes nothing, so an in-flight
// optimistic pair survives until its fetch resolves. The caller follows
// up with LoadDetail to populate the view.
func (s *Session) SelectChat(id int) {
	s.mu.Lock()
	if id == s.activeChatID {
		s.mu.Unlock()
		return
	}
	s.activeChatID = id
	s.optimistic = nil
	s.authoritative = nil
	s.mu.Unlock()
	s.notify()
}

// NewChat resets to the new-chat composer state.
func (s *Session) NewChat() {
	s.mu.Lock()
	s.activeChatID = 0
	s.optimistic = nil
	s.authoritative = nil
	s.mu.Unlock()
	s.notify()
}

// Submit sends user text to the active chat, creating the chat first if
// none is selected.
//
// The optimistic pair appears synchronously, before any network I/O.
// On failure the pair is left in place - the user's text stays visible
// rather than silently vanishing - and the error is returned for the UI
// to surface as a status line. Results that arrive after the session
// switched to a different chat are discarded.
func (s *Session) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	s.mu.Lock()
	issuedAgainst := s.activeChatID
	s.optimistic = []OptimisticMessage{
		{ID: uuid.NewString(), Role: api.RoleUser, Content: text, CreatedAt: time.Now()},
		{ID: uuid.NewString(), Role: api.RoleBot, Content: PendingContent},
	}
	s.mu.Unlock()
	s.notify()

	chatID := issuedAgainst
	if chatID == 0 {
		resp, err := s.data.CreateChat(ctx, util.TruncateRunes(text, TitleLimit))
		if err != nil {
			return err
		}
		chatID = resp.ID

		// Adopt the new id only if the session is still on the composer;
		// otherwise the user navigated away and this submission's results
		// are no longer of interest (the send below still completes).
		s.mu.Lock()
		if s.activeChatID == 0 {
			s.activeChatID = chatID
		}
		s.mu.Unlock()
		s.notify()
	}

	if err := s.data.SendMessage(ctx, chatID, text); err != nil {
		return err
	}

	s.mu.Lock()
	stale := s.activeChatID != chatID
	s.mu.Unlock()
	if stale {
		return nil
	}

	if s.OnNavigate != nil {
		s.OnNavigate(chatID)
	}
	return s.LoadDetail(ctx)
}

// LoadDetail fetches the authoritative detail for the active chat.
//
// Convergence rule: whenever the fetch yields a new response object, the
// optimistic buffer is cleared unconditionally - no matching of
// optimistic entries against confirmed ones. A cache hit returns the
// same object and clears nothing, so re-selecting the current chat never
// wipes an in-flight pair.
//
// A not-found resets to the new-chat state instead of erroring: a stale
// id in the route (a deleted chat) must not leave the view broken.
func (s *Session) LoadDetail(ctx context.Context) error {
	s.mu.Lock()
	id := s.activeChatID
	s.mu.Unlock()
	if id == 0 {
		return nil
	}

	detail, err := s.data.GetChat(ctx, id)
	if err != nil {
		if api.IsNotFound(err) {
			s.mu.Lock()
			if s.activeChatID == id {
				s.activeChatID = 0
				s.optimistic = nil
				s.authoritative = nil
			}
			s.mu.Unlock()
			s.notify()
			return nil
		}
		return err
	}

	s.mu.Lock()
	if s.activeChatID != id {
		// Session switched while the fetch was in flight.
		s.mu.Unlock()
		return nil
	}
	changed := s.authoritative != detail
	if changed {
		s.authoritative = detail
		s.optimistic = nil
	}
	s.mu.Unlock()

	if changed {
		s.notify()
	}
	return nil
}

// =============================================================================
// DERIVED STATE
// =============================================================================

// VisibleMessages returns the sequence to render: authoritative messages
// first, the optimistic pair appended, never interleaved.
func (s *Session) VisibleMessages() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibleLocked()
}

func (s *Session) visibleLocked() []Item {
	var items []Item
	if s.authoritative != nil {
		items = make([]Item, 0, len(s.authoritative.Messages)+len(s.optimistic))
		for _, m := range s.authoritative.Messages {
			items = append(items, Item{
				Role:      m.Role,
				Content:   m.Content,
				CreatedAt: util.ParseServerTime(m.CreatedAt),
			})
		}
	}
	for _, m := range s.optimistic {
		items = append(items, Item{
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
			Pending:   m.Role == api.RoleBot,
		})
	}
	return items
}

// Snapshot returns the current state for rendering.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ActiveChatID: s.activeChatID,
		Messages:     s.visibleLocked(),
		HasPending:   len(s.optimistic) > 0,
	}
	if s.authoritative != nil {
		snap.Title = s.authoritative.Title
	}
	return snap
}
