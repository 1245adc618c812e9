package worker

import (
	"github.com/visage-campus/visage-backend/internal/cache"
	"github.com/visage-campus/visage-backend/internal/events"
	"github.com/visage-campus/visage-backend/internal/service"
)

// Start registers the audit log handlers and, when a profile cache is configured,
// evicts cached profiles after identity mutations.
func Start(dispatcher events.Dispatcher, audit *service.AuditService, profiles *cache.ProfileCache) {
	if audit != nil {
		audit.RegisterHandlers()
	}
	if dispatcher == nil || profiles == nil {
		return
	}
	for _, eventType := range cache.InvalidatingEvents {
		dispatcher.Subscribe(eventType, profiles.HandleEvent)
	}
}
