package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/clearday/clearday-api/internal/constants"
	"github.com/clearday/clearday-api/internal/models"
	"github.com/clearday/clearday-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrNameRequired    = errors.New("name is required")
	ErrInvalidColor    = errors.New("color must be a hex string like #3B82F6")
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name        string
	Description string
	Color       string
	UserID      uint64
}

// UpdateProjectInput represents input for updating a project
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Color       *string
}

// ProjectStats summarizes the tasks attached to a project
type ProjectStats struct {
	TotalTasks     int64 `json:"total_tasks"`
	CompletedTasks int64 `json:"completed_tasks"`
	PendingTasks   int64 `json:"pending_tasks"`
}

// ListProjects returns the user's projects
func (s *ProjectService) ListProjects(userID uint64) ([]models.Project, error) {
	projects, err := s.projectRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns one of the user's projects
func (s *ProjectService) GetProject(userID, projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(userID, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// CreateProject creates a new project for the user
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	color := input.Color
	if color == "" {
		color = constants.DefaultProjectColor
	}
	if !hexColorPattern.MatchString(color) {
		return nil, ErrInvalidColor
	}

	project := &models.Project{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Color:       color,
		UserID:      input.UserID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// UpdateProject updates the provided fields of a user's project
func (s *ProjectService) UpdateProject(userID, projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(userID, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = strings.TrimSpace(*input.Description)
	}
	if input.Color != nil {
		if !hexColorPattern.MatchString(*input.Color) {
			return nil, ErrInvalidColor
		}
		project.Color = *input.Color
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject deletes a user's project. Tasks that referenced it are
// detached, never deleted.
func (s *ProjectService) DeleteProject(userID, projectID uint64) error {
	if err := s.projectRepo.DeleteAndDetachTasks(userID, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// GetProjectStats returns the project together with its task counts
func (s *ProjectService) GetProjectStats(userID, projectID uint64) (*models.Project, *ProjectStats, error) {
	project, err := s.projectRepo.FindByID(userID, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProjectNotFound
		}
		return nil, nil, fmt.Errorf("failed to find project: %w", err)
	}

	total, completed, err := s.projectRepo.Stats(userID, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute project stats: %w", err)
	}

	return project, &ProjectStats{
		TotalTasks:     total,
		CompletedTasks: completed,
		PendingTasks:   total - completed,
	}, nil
}
