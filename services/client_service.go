// services/client_service.go - Client (Tenant) and User Administration
package services

import (
	"errors"
	"time"

	"raterware/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type ClientService struct {
	db *gorm.DB
}

func NewClientService(db *gorm.DB) *ClientService {
	return &ClientService{db: db}
}

// ================== CLIENT OPERATIONS (platform admin) ==================

// CreateClient creates a tenant together with its first admin user.
func (s *ClientService) CreateClient(name, email, adminUsername, adminEmail, adminPassword string) (*models.Client, error) {
	if name == "" || email == "" {
		return nil, errors.New("client name and email are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	client := &models.Client{
		Name:      name,
		Email:     email,
		Tier:      models.TierFree,
		CreatedAt: time.Now(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(client).Error; err != nil {
			return err
		}

		admin := &models.User{
			Username:  adminUsername,
			Email:     adminEmail,
			Password:  string(hash),
			IsAdmin:   true,
			ClientID:  client.ID,
			CreatedAt: time.Now(),
		}
		if err := tx.Create(admin).Error; err != nil {
			return err
		}

		// Every client starts with default settings
		return tx.Create(&models.Settings{ClientID: client.ID}).Error
	})
	if err != nil {
		return nil, err
	}

	return client, nil
}

// GetClient returns a client by ID.
func (s *ClientService) GetClient(clientID uint) (*models.Client, error) {
	var client models.Client
	err := s.db.First(&client, clientID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// GetClientByEmail returns a client by its billing email.
func (s *ClientService) GetClientByEmail(email string) (*models.Client, error) {
	var client models.Client
	err := s.db.Where("email = ?", email).First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// ListClients returns all tenants.
func (s *ClientService) ListClients() ([]models.Client, error) {
	var clients []models.Client
	err := s.db.Order("name ASC").Find(&clients).Error
	return clients, err
}

// UpdateClient renames a tenant.
func (s *ClientService) UpdateClient(clientID uint, name string) (*models.Client, error) {
	client, err := s.GetClient(clientID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(client).Update("name", name).Error; err != nil {
		return nil, err
	}
	client.Name = name
	return client, nil
}

// SetTier updates a client's subscription tier.
func (s *ClientService) SetTier(clientID uint, tier models.Tier) error {
	result := s.db.Model(&models.Client{}).Where("id = ?", clientID).Update("tier", tier)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrClientNotFound
	}
	return nil
}

// SetTierByEmail updates the tier of the client with the given billing
// email, creating a bare client record (with default settings) when none
// exists yet. Billing events can arrive before the client ever registers.
func (s *ClientService) SetTierByEmail(email string, tier models.Tier) (*models.Client, error) {
	if email == "" {
		return nil, errors.New("billing email is required")
	}

	var client models.Client
	err := s.db.Where("email = ?", email).First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		client = models.Client{
			Name:      email,
			Email:     email,
			Tier:      tier,
			CreatedAt: time.Now(),
		}
		err = s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&client).Error; err != nil {
				return err
			}
			return tx.Create(&models.Settings{ClientID: client.ID}).Error
		})
		if err != nil {
			return nil, err
		}
		return &client, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(&client).Update("tier", tier).Error; err != nil {
		return nil, err
	}
	client.Tier = tier
	return &client, nil
}

// ToggleBlock flips a client's blocked flag and returns the new state.
// The enforcement sweep propagates the flag to the identity provider.
func (s *ClientService) ToggleBlock(clientID uint) (bool, error) {
	client, err := s.GetClient(clientID)
	if err != nil {
		return false, err
	}
	blocked := !client.IsBlocked
	if err := s.db.Model(client).Update("is_blocked", blocked).Error; err != nil {
		return false, err
	}
	return blocked, nil
}

// DeleteClient removes a tenant and everything it owns.
func (s *ClientService) DeleteClient(clientID uint) error {
	client, err := s.GetClient(clientID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var teamIDs []uint
		if err := tx.Model(&models.Team{}).Where("client_id = ?", clientID).
			Pluck("id", &teamIDs).Error; err != nil {
			return err
		}

		if len(teamIDs) > 0 {
			var memberIDs []uint
			if err := tx.Model(&models.TeamMember{}).Where("team_id IN ?", teamIDs).
				Pluck("id", &memberIDs).Error; err != nil {
				return err
			}
			if len(memberIDs) > 0 {
				if err := tx.Where("team_member_id IN ?", memberIDs).Delete(&models.Rating{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("team_id IN ?", teamIDs).Delete(&models.TeamMember{}).Error; err != nil {
				return err
			}
			if err := tx.Where("client_id = ?", clientID).Delete(&models.Team{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("client_id = ?", clientID).Delete(&models.User{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", clientID).Delete(&models.Settings{}).Error; err != nil {
			return err
		}
		return tx.Delete(client).Error
	})
}

// ================== USER OPERATIONS (tenant admin) ==================

// GetUsers returns all users of the client.
func (s *ClientService) GetUsers(clientID uint) ([]models.User, error) {
	var users []models.User
	err := s.db.Where("client_id = ?", clientID).Preload("Teams").Order("username ASC").Find(&users).Error
	return users, err
}

// CreateUser adds a user to the client, optionally assigning managed teams.
func (s *ClientService) CreateUser(clientID uint, username, email, password string, teamIDs []uint) (*models.User, error) {
	hash := ""
	if password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hash = string(h)
	}

	user := &models.User{
		Username:  username,
		Email:     email,
		Password:  hash,
		ClientID:  clientID,
		CreatedAt: time.Now(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return assignTeams(tx, clientID, user.ID, teamIDs)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser edits one of the client's users and reassigns managed teams.
func (s *ClientService) UpdateUser(clientID, userID uint, username, email, password string, teamIDs []uint) (*models.User, error) {
	var user models.User
	err := s.db.Where("id = ? AND client_id = ?", userID, clientID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"username":   username,
		"email":      email,
		"updated_at": time.Now(),
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updates["password"] = string(hash)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return err
		}
		// Clear old assignments before applying the new set
		if err := tx.Model(&models.Team{}).
			Where("user_id = ? AND client_id = ?", userID, clientID).
			Update("user_id", nil).Error; err != nil {
			return err
		}
		return assignTeams(tx, clientID, userID, teamIDs)
	})
	if err != nil {
		return nil, err
	}

	user.Username = username
	user.Email = email
	return &user, nil
}

// DeleteUser removes one of the client's users, releasing managed teams.
func (s *ClientService) DeleteUser(clientID, userID uint) error {
	var user models.User
	err := s.db.Where("id = ? AND client_id = ?", userID, clientID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Team{}).Where("user_id = ?", userID).
			Update("user_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}

func assignTeams(tx *gorm.DB, clientID, userID uint, teamIDs []uint) error {
	for _, teamID := range teamIDs {
		if err := tx.Model(&models.Team{}).
			Where("id = ? AND client_id = ?", teamID, clientID).
			Update("user_id", userID).Error; err != nil {
			return err
		}
	}
	return nil
}

// ================== SETTINGS ==================

// GetSettings returns the client's settings, creating defaults on first use.
func (s *ClientService) GetSettings(clientID uint) (*models.Settings, error) {
	var settings models.Settings
	err := s.db.Where("client_id = ?", clientID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.Settings{ClientID: clientID}
		if err := s.db.Create(&settings).Error; err != nil {
			return nil, err
		}
		// Re-read so column defaults land in the struct
		if err := s.db.Where("client_id = ?", clientID).First(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// SaveSettings upserts the client's settings row.
func (s *ClientService) SaveSettings(clientID uint, updated models.Settings) (*models.Settings, error) {
	settings, err := s.GetSettings(clientID)
	if err != nil {
		return nil, err
	}

	updated.ID = settings.ID
	updated.ClientID = clientID
	if err := s.db.Save(&updated).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}
