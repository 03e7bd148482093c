package collaboration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"artnexus/internal/pkg/validator"
)

// ThreadRemover drops a collaboration's message thread inside tx.
type ThreadRemover interface {
	DeleteCollaborationThread(ctx context.Context, tx *gorm.DB, collabID int64) error
}

type Service struct {
	db      *gorm.DB
	repo    Repository
	threads ThreadRemover
	log     logrus.FieldLogger
}

func NewService(db *gorm.DB, repo Repository, threads ThreadRemover, log logrus.FieldLogger) *Service {
	return &Service{db: db, repo: repo, threads: threads, log: log}
}

// Create stores the project with its owner as the first collaborator.
func (s *Service) Create(ctx context.Context, ownerID int64, in CreateInput) (*Collaboration, error) {
	in.ProjectName = strings.TrimSpace(in.ProjectName)
	if in.ProjectName == "" {
		return nil, ErrEmptyProjectName
	}
	if err := validator.Check(in); err != nil {
		return nil, err
	}

	c := &Collaboration{
		ProjectName:           in.ProjectName,
		Description:           in.Description,
		SkillsRequired:        normalizeSkills(in.SkillsRequired),
		NumberOfCollaborators: in.NumberOfCollaborators,
		OwnerID:               ownerID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, c); err != nil {
			return err
		}
		_, err := repo.AddMember(ctx, c.ID, ownerID, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("collaboration_id", c.ID).WithField("owner_id", ownerID).Info("collaboration created")
	return s.repo.GetByID(ctx, c.ID)
}

// Join is idempotent: joining twice leaves one roster entry.
func (s *Service) Join(ctx context.Context, collabID, artisteID int64) (*Collaboration, error) {
	if _, err := s.repo.GetByID(ctx, collabID); err != nil {
		return nil, err
	}

	added, err := s.repo.AddMember(ctx, collabID, artisteID, time.Now())
	if err != nil {
		return nil, err
	}
	if added {
		s.log.WithField("collaboration_id", collabID).WithField("user_id", artisteID).Info("collaborator joined")
	}
	return s.repo.GetByID(ctx, collabID)
}

func (s *Service) Edit(ctx context.Context, collabID, requesterID int64, in EditInput) (*Collaboration, error) {
	if err := validator.Check(in); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, collabID)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != requesterID {
		return nil, ErrNotOwner
	}

	fields := make(map[string]interface{})
	if in.ProjectName != nil {
		name := strings.TrimSpace(*in.ProjectName)
		if name == "" {
			return nil, ErrEmptyProjectName
		}
		fields["project_name"] = name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.SkillsRequired != nil {
		fields["skills_required"] = normalizeSkills(*in.SkillsRequired)
	}
	if in.NumberOfCollaborators != nil {
		fields["number_of_collaborators"] = *in.NumberOfCollaborators
	}

	if err := s.repo.Update(ctx, collabID, fields); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, collabID)
}

// Delete removes the project, its roster and its message thread together.
func (s *Service) Delete(ctx context.Context, collabID, requesterID int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		c, err := repo.GetForUpdate(ctx, collabID)
		if err != nil {
			return err
		}
		if c.OwnerID != requesterID {
			return ErrNotOwner
		}

		if s.threads != nil {
			if err := s.threads.DeleteCollaborationThread(ctx, tx, collabID); err != nil {
				return fmt.Errorf("delete thread of collaboration %d: %w", collabID, err)
			}
		}
		return repo.Delete(ctx, collabID)
	})
	if err != nil {
		return err
	}

	s.log.WithField("collaboration_id", collabID).WithField("owner_id", requesterID).Info("collaboration deleted")
	return nil
}

func (s *Service) Get(ctx context.Context, collabID int64) (*Collaboration, error) {
	return s.repo.GetByID(ctx, collabID)
}

func (s *Service) ListAll(ctx context.Context) ([]Collaboration, error) {
	return s.repo.List(ctx)
}

// ListMine returns projects the user owns or joined.
func (s *Service) ListMine(ctx context.Context, userID int64) ([]Collaboration, error) {
	return s.repo.ListByMember(ctx, userID)
}

// IsCollaborator is used by chat to gate thread access.
func (s *Service) IsCollaborator(ctx context.Context, collabID, userID int64) (bool, error) {
	if _, err := s.repo.GetByID(ctx, collabID); err != nil {
		return false, err
	}
	return s.repo.IsMember(ctx, collabID, userID)
}

func (s *Service) Collaborators(ctx context.Context, collabID int64) ([]int64, error) {
	return s.repo.MemberIDs(ctx, collabID)
}

func normalizeSkills(in []string) Skills {
	out := make(Skills, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
