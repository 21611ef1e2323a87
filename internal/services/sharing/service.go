package sharing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/xctimer/internal/model"
)

// Service shares session snapshots with native targets or the clipboard
type Service struct {
	logger *slog.Logger
}

// NewService creates a sharing Service
func NewService(logger *slog.Logger) *Service {
	return &Service{
		logger: logger.With(slog.String("component", "sharing")),
	}
}

// Payload builds the native share payload for a session
func (s *Service) Payload(session model.Session) (SharePayload, error) {
	url, err := DataURI(session)
	if err != nil {
		return SharePayload{}, err
	}
	return SharePayload{
		Title: session.Name + " - Cross Country Times",
		Text:  fmt.Sprintf("Times for %d runners", len(session.Runners)),
		URL:   url,
	}, nil
}

// Share offers the session to sharer when it accepts the payload, and
// otherwise copies the pretty-printed session JSON to clipboard. Failures are
// logged and reported as false. session is a snapshot; later store changes
// do not affect it.
func (s *Service) Share(ctx context.Context, session model.Session, sharer Sharer, clipboard Clipboard) bool {
	payload, err := s.Payload(session)
	if err != nil {
		s.logger.Error("failed to build share payload", slog.Any("error", err))
		return false
	}

	if sharer != nil && sharer.CanShare(payload) {
		if err := sharer.Share(ctx, payload); err != nil {
			s.logger.Warn("share failed", slog.Any("error", err))
			return false
		}
		s.logger.Info("session shared", slog.String("session_id", string(session.ID)))
		return true
	}

	if clipboard == nil {
		s.logger.Warn("no share target or clipboard available")
		return false
	}
	text, err := PrettyJSON(session)
	if err != nil {
		s.logger.Error("failed to encode session for clipboard", slog.Any("error", err))
		return false
	}
	if err := clipboard.WriteText(ctx, string(text)); err != nil {
		s.logger.Warn("clipboard copy failed", slog.Any("error", err))
		return false
	}
	s.logger.Info("session copied to clipboard", slog.String("session_id", string(session.ID)))
	return true
}
