// services/team_service.go - Tenant-Scoped Team and Member Management
package services

import (
	"errors"
	"time"

	"raterware/models"

	"gorm.io/gorm"
)

type TeamService struct {
	db *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{db: db}
}

// ================== TEAM CRUD OPERATIONS ==================

// CreateTeam creates a team for the client, enforcing the tier's team limit.
func (s *TeamService) CreateTeam(clientID uint, name string) (*models.Team, error) {
	if name == "" {
		return nil, errors.New("team name is required")
	}

	var client models.Client
	if err := s.db.First(&client, clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	limits := client.Tier.Limits()
	if limits.MaxTeams >= 0 {
		var count int64
		if err := s.db.Model(&models.Team{}).Where("client_id = ?", clientID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count >= int64(limits.MaxTeams) {
			return nil, ErrTierLimit
		}
	}

	team := &models.Team{
		Name:      name,
		ClientID:  clientID,
		CreatedAt: time.Now(),
	}
	if err := s.db.Create(team).Error; err != nil {
		return nil, err
	}
	return team, nil
}

// GetTeams returns all teams belonging to the client.
func (s *TeamService) GetTeams(clientID uint) ([]models.Team, error) {
	var teams []models.Team
	err := s.db.Where("client_id = ?", clientID).Order("name ASC").Find(&teams).Error
	return teams, err
}

// GetTeam returns one of the client's teams with members preloaded.
func (s *TeamService) GetTeam(clientID, teamID uint) (*models.Team, error) {
	var team models.Team
	err := s.db.Where("id = ? AND client_id = ?", teamID, clientID).
		Preload("Members").
		First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// UpdateTeam renames one of the client's teams.
func (s *TeamService) UpdateTeam(clientID, teamID uint, name string) (*models.Team, error) {
	team, err := s.GetTeam(clientID, teamID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(team).Updates(map[string]interface{}{
		"name":       name,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return nil, err
	}
	team.Name = name
	return team, nil
}

// DeleteTeam removes a team with its members and their ratings.
func (s *TeamService) DeleteTeam(clientID, teamID uint) error {
	team, err := s.GetTeam(clientID, teamID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var memberIDs []uint
		if err := tx.Model(&models.TeamMember{}).Where("team_id = ?", teamID).
			Pluck("id", &memberIDs).Error; err != nil {
			return err
		}

		if len(memberIDs) > 0 {
			if err := tx.Where("team_member_id IN ?", memberIDs).Delete(&models.Rating{}).Error; err != nil {
				return err
			}
			if err := tx.Where("team_id = ?", teamID).Delete(&models.TeamMember{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(team).Error
	})
}

// AssignManager sets or clears the managing user of a team. The user must
// belong to the same client.
func (s *TeamService) AssignManager(clientID, teamID uint, userID *uint) error {
	team, err := s.GetTeam(clientID, teamID)
	if err != nil {
		return err
	}

	if userID != nil {
		var user models.User
		if err := s.db.Where("id = ? AND client_id = ?", *userID, clientID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
	}

	return s.db.Model(team).Update("user_id", userID).Error
}

// ================== MEMBER OPERATIONS ==================

// AddMember adds a rated individual to one of the client's teams,
// enforcing the tier's member limit.
func (s *TeamService) AddMember(clientID, teamID uint, firstName, surname, employerID string) (*models.TeamMember, error) {
	team, err := s.GetTeam(clientID, teamID)
	if err != nil {
		return nil, err
	}

	var client models.Client
	if err := s.db.First(&client, clientID).Error; err != nil {
		return nil, err
	}

	limits := client.Tier.Limits()
	if limits.MaxMembersPerTeam >= 0 {
		var count int64
		if err := s.db.Model(&models.TeamMember{}).Where("team_id = ?", teamID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count >= int64(limits.MaxMembersPerTeam) {
			return nil, ErrTierLimit
		}
	}

	member := &models.TeamMember{
		FirstName:  firstName,
		Surname:    surname,
		EmployerID: employerID,
		TeamID:     team.ID,
		CreatedAt:  time.Now(),
	}
	if err := s.db.Create(member).Error; err != nil {
		return nil, err
	}
	return member, nil
}

// GetMember resolves a member within the client's tenant.
func (s *TeamService) GetMember(clientID, memberID uint) (*models.TeamMember, error) {
	var member models.TeamMember
	err := s.db.
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("team_members.id = ? AND teams.client_id = ?", memberID, clientID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// UpdateMember edits a member's identity fields.
func (s *TeamService) UpdateMember(clientID, memberID uint, firstName, surname, employerID string) (*models.TeamMember, error) {
	member, err := s.GetMember(clientID, memberID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(member).Updates(map[string]interface{}{
		"first_name":  firstName,
		"surname":     surname,
		"employer_id": employerID,
		"updated_at":  time.Now(),
	}).Error; err != nil {
		return nil, err
	}
	member.FirstName = firstName
	member.Surname = surname
	member.EmployerID = employerID
	return member, nil
}

// DeleteMember removes a member and cascades its ratings.
func (s *TeamService) DeleteMember(clientID, memberID uint) error {
	member, err := s.GetMember(clientID, memberID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_member_id = ?", member.ID).Delete(&models.Rating{}).Error; err != nil {
			return err
		}
		return tx.Delete(member).Error
	})
}

// GetTeamMembers returns all members of one of the client's teams.
func (s *TeamService) GetTeamMembers(clientID, teamID uint) ([]models.TeamMember, error) {
	team, err := s.GetTeam(clientID, teamID)
	if err != nil {
		return nil, err
	}

	var members []models.TeamMember
	err = s.db.Where("team_id = ?", team.ID).Order("surname ASC, first_name ASC").Find(&members).Error
	return members, err
}
