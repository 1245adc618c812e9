package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/visage-campus/visage-backend/internal/auth"
	"github.com/visage-campus/visage-backend/internal/config"
	"github.com/visage-campus/visage-backend/internal/domain"
	"github.com/visage-campus/visage-backend/internal/events"
	"github.com/visage-campus/visage-backend/internal/repository/repotest"
)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret",
			TokenTTL:   time.Hour,
			BcryptCost: bcrypt.MinCost,
		},
	}
}

func seedUser(t *testing.T, users *repotest.Users, idNumber, password string, role domain.RoleName, active bool) domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	return users.Put(domain.User{
		IDNumber:     idNumber,
		FullName:     "Test " + idNumber,
		Email:        idNumber + "@campus.edu",
		PasswordHash: hash,
		RoleName:     role,
		Active:       active,
	})
}

func principalFor(u domain.User) *auth.Principal {
	return &auth.Principal{UserID: u.ID, Username: u.IDNumber, FullName: u.FullName, Role: u.RoleName}
}

// recorder captures every event published through a real dispatcher.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func newRecorder(types ...events.EventType) (*recorder, events.Dispatcher) {
	r := &recorder{}
	d := events.NewInMemoryDispatcher(nil)
	for _, typ := range types {
		d.Subscribe(typ, func(_ context.Context, e events.Event) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.events = append(r.events, e)
			return nil
		})
	}
	return r, d
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func (r *recorder) last() events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

var allEventTypes = []events.EventType{
	events.EventUserCreated,
	events.EventUserUpdated,
	events.EventUserDeleted,
	events.EventProfileUpdated,
	events.EventPasswordChanged,
	events.EventLoginSucceeded,
	events.EventLoginFailed,
}
