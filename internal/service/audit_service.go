package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/visage-campus/visage-backend/internal/events"
)

// AuditService writes identity lifecycle events to the structured log.
// Payloads carry field names and identifiers only, never secrets.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserCreated, a.handleUserChange)
	a.dispatcher.Subscribe(events.EventUserUpdated, a.handleUserChange)
	a.dispatcher.Subscribe(events.EventUserDeleted, a.handleUserChange)
	a.dispatcher.Subscribe(events.EventProfileUpdated, a.handleUserChange)
	a.dispatcher.Subscribe(events.EventPasswordChanged, a.handleUserChange)
	a.dispatcher.Subscribe(events.EventLoginSucceeded, a.handleLogin)
	a.dispatcher.Subscribe(events.EventLoginFailed, a.handleLogin)
}

func (a *AuditService) handleUserChange(_ context.Context, event events.Event) error {
	fields := baseFields(event)
	if payload, ok := event.Payload.(events.UserChangedPayload); ok {
		fields = append(fields, zap.Strings("fields", payload.Fields))
	}
	a.logger.Info(string(event.Type), fields...)
	return nil
}

func (a *AuditService) handleLogin(_ context.Context, event events.Event) error {
	fields := baseFields(event)
	if payload, ok := event.Payload.(events.LoginPayload); ok {
		fields = append(fields, zap.String("id_number", payload.IDNumber))
		if payload.Reason != "" {
			fields = append(fields, zap.String("reason", payload.Reason))
		}
	}
	if event.Type == events.EventLoginFailed {
		a.logger.Warn(string(event.Type), fields...)
		return nil
	}
	a.logger.Info(string(event.Type), fields...)
	return nil
}

func baseFields(event events.Event) []zap.Field {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.Time("at", event.Timestamp),
	}
	if event.SubjectID != 0 {
		fields = append(fields, zap.Int64("subject_id", event.SubjectID))
	}
	if event.Actor.UserID != 0 {
		fields = append(fields,
			zap.Int64("actor_id", event.Actor.UserID),
			zap.String("actor_role", string(event.Actor.Role)))
	}
	return fields
}
