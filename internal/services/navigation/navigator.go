package navigation

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/samber/lo"

	"github.com/mcoot/xctimer/internal/model"
)

// Observer is notified with the new screen after every change
type Observer func(model.Screen)

type subscription struct {
	id int
	fn Observer
}

// Navigator tracks which screen is active. It holds no other state.
type Navigator struct {
	mu          sync.Mutex
	current     model.Screen
	logger      *slog.Logger
	subscribers []subscription
	nextSubID   int
}

// NewNavigator creates a Navigator starting on the default screen
func NewNavigator(logger *slog.Logger) *Navigator {
	return &Navigator{
		current: model.DefaultScreen,
		logger:  logger.With(slog.String("component", "navigator")),
	}
}

// Current returns the active screen
func (n *Navigator) Current() model.Screen {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Set switches to screen and notifies observers. Selecting the active
// screen again is a no-op.
func (n *Navigator) Set(screen model.Screen) error {
	if !screen.Valid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidScreen, screen)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.current == screen {
		return nil
	}
	n.logger.Debug("screen changed",
		slog.String("from", string(n.current)),
		slog.String("to", string(screen)))
	n.current = screen
	for _, sub := range n.subscribers {
		sub.fn(screen)
	}
	return nil
}

// Subscribe registers fn for screen changes and returns a function that removes it
func (n *Navigator) Subscribe(fn Observer) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextSubID++
	id := n.nextSubID
	n.subscribers = append(n.subscribers, subscription{id: id, fn: fn})

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		n.subscribers = lo.Reject(n.subscribers, func(sub subscription, _ int) bool {
			return sub.id == id
		})
	}
}
