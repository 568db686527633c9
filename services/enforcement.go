// services/enforcement.go - Account Blocking Background Sweep
package services

import (
	"context"
	"log"
	"time"

	"raterware/models"

	"gorm.io/gorm"
)

// EnforcementService periodically propagates each client's blocked flag to
// the identity provider: users of blocked clients get blocked, everyone
// else gets unblocked.
type EnforcementService struct {
	db       *gorm.DB
	auth0    *Auth0Client
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

var enforcementService *EnforcementService

// InitEnforcementService initializes the singleton enforcement service.
func InitEnforcementService(db *gorm.DB, auth0 *Auth0Client) {
	enforcementService = &EnforcementService{
		db:       db,
		auth0:    auth0,
		interval: time.Hour,
	}
}

// GetEnforcementService returns the initialized enforcement service.
func GetEnforcementService() *EnforcementService {
	return enforcementService
}

// Start launches the hourly sweep.
func (s *EnforcementService) Start() {
	if !s.auth0.Configured() {
		log.Println("Auth0 not configured, account enforcement disabled")
		return
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := s.EnforceOnce(context.Background()); err != nil {
					log.Printf("Account enforcement sweep failed: %v", err)
				}
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop stops the sweep and waits for the worker to exit.
func (s *EnforcementService) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop = nil
}

// EnforceOnce runs one sweep over all clients.
func (s *EnforcementService) EnforceOnce(ctx context.Context) error {
	log.Println("Checking and blocking users based on client status...")

	var clients []models.Client
	if err := s.db.Find(&clients).Error; err != nil {
		return err
	}

	for _, client := range clients {
		var users []models.User
		if err := s.db.Where("client_id = ?", client.ID).Find(&users).Error; err != nil {
			return err
		}

		for _, user := range users {
			if err := s.auth0.SetBlockedByEmail(ctx, user.Email, client.IsBlocked); err != nil {
				// One unreachable account must not stall the sweep
				log.Printf("Failed to update blocked state for %s: %v", user.Email, err)
			}
		}
	}

	return nil
}
