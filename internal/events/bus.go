// Package events provides the in-process observer bus the services publish
// change notifications on. Presentation layers subscribe instead of hooking
// into any particular UI event loop.
package events

import (
	"sync"

	"github.com/google/uuid"
)

// Topics published by the task and reset services.
const (
	TopicTaskAdded            = "task.added"
	TopicTaskUpdated          = "task.updated"
	TopicTaskDeleted          = "task.deleted"
	TopicTaskRestored         = "task.restored"
	TopicTaskPermanentDeleted = "task.permanent_deleted"
	TopicTaskCompleted        = "task.completed"
	TopicTaskUncompleted      = "task.uncompleted"
	TopicTagsUpdated          = "tags.updated"
	TopicRecycleBinUpdated    = "recycle_bin.updated"
	TopicDailyResetPerformed  = "reset.daily_performed"
	TopicWeeklyResetPerformed = "reset.weekly_performed"
	TopicResetServiceStarted  = "reset.service_started"
	TopicResetServiceStopped  = "reset.service_stopped"
)

// Handler receives the payload published on a topic (a task id, a reset
// count, or nil depending on the topic).
type Handler func(payload interface{})

type subscription struct {
	topic   string
	handler Handler
}

// Bus is a minimal synchronous publish/subscribe hub.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]subscription // token -> subscription
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string]subscription)}
}

// Subscribe registers a handler for one topic and returns an opaque token
// for later removal.
func (b *Bus) Subscribe(topic string, handler Handler) string {
	if handler == nil {
		return ""
	}
	token := uuid.NewString()
	b.mu.Lock()
	b.subs[token] = subscription{topic: topic, handler: handler}
	b.mu.Unlock()
	return token
}

// Unsubscribe removes a previously registered handler.
func (b *Bus) Unsubscribe(token string) {
	b.mu.Lock()
	delete(b.subs, token)
	b.mu.Unlock()
}

// Publish invokes every handler registered for the topic, synchronously and
// on the caller's goroutine. A nil bus is a valid no-op publisher.
func (b *Bus) Publish(topic string, payload interface{}) {
	if b == nil {
		return
	}
	b.mu.RLock()
	handlers := make([]Handler, 0, 4)
	for _, sub := range b.subs {
		if sub.topic == topic {
			handlers = append(handlers, sub.handler)
		}
	}
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(payload)
	}
}
