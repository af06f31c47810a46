package services

import (
	"context"

	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
	"github.com/custodia-labs/biowatch/internal/logger"
)

// LogHandler returns an event handler that writes each change to the logger.
func LogHandler() driven.EventHandler {
	return driven.EventHandlerFunc(func(_ context.Context, ev domain.ChangeEvent) error {
		switch ev.Kind {
		case domain.ChangeDeleted:
			logger.Info("%s %s [%s] from %s", ev.Kind, ev.Identifier, ev.Category, ev.Source)
		default:
			logger.Info("%s %s [%s] from %s (%d chars)", ev.Kind, ev.Identifier, ev.Category, ev.Source, len([]rune(ev.Content)))
		}
		return nil
	})
}
