package service

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"vieride/internal/booking"
)

// sessionTTL is how long an untouched wizard session survives.
const sessionTTL = 45 * time.Minute

type wizardSession struct {
	wizard   *booking.Wizard
	account  *booking.Account
	lastSeen time.Time
}

// WizardService owns the live wizard sessions. Each session wraps one wizard
// and is addressed by an opaque ID handed to the client.
type WizardService struct {
	mu       sync.Mutex
	sessions map[string]*wizardSession

	catalog   *booking.Catalog
	store     booking.Store
	notifier  booking.Notifier
	suggester booking.Suggester
}

func NewWizardService(catalog *booking.Catalog, store booking.Store, notifier booking.Notifier, suggester booking.Suggester) *WizardService {
	return &WizardService{
		sessions:  make(map[string]*wizardSession),
		catalog:   catalog,
		store:     store,
		notifier:  notifier,
		suggester: suggester,
	}
}

// Create opens a wizard session. Account may be nil for guests; existing
// seeds the wizard for modifying a booking.
func (s *WizardService) Create(account *booking.Account, existing *booking.Record) (string, *booking.Wizard, error) {
	wizard, err := booking.NewWizard(booking.Config{
		Catalog:   s.catalog,
		Store:     s.store,
		Notifier:  s.notifier,
		Suggester: s.suggester,
		Account:   account,
		Existing:  existing,
	})
	if err != nil {
		return "", nil, err
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &wizardSession{
		wizard:   wizard,
		account:  account,
		lastSeen: time.Now(),
	}
	s.mu.Unlock()
	return id, wizard, nil
}

// Get returns the session's wizard and refreshes its TTL. The account ID of
// the caller must match the session's owner; guest sessions are open.
func (s *WizardService) Get(id, accountID string) (*booking.Wizard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("wizard session %s not found or expired", id)
	}
	if session.account != nil && session.account.ID != accountID {
		return nil, fmt.Errorf("wizard session %s belongs to another account", id)
	}
	session.lastSeen = time.Now()
	return session.wizard, nil
}

func (s *WizardService) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// SweepExpired drops sessions idle past the TTL. Wired to the cron runner.
func (s *WizardService) SweepExpired() {
	cutoff := time.Now().Add(-sessionTTL)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, session := range s.sessions {
		if session.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("Cron Job: Swept %d expired wizard sessions.", removed)
	}
}
