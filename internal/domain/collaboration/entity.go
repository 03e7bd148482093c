package collaboration

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"artnexus/internal/domain/auth"
)

// Skills is stored as a JSON array in a text column so it works on both
// postgres and sqlite.
type Skills []string

func (s Skills) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (s *Skills) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = Skills{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("skills: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*s = Skills{}
		return nil
	}
	return json.Unmarshal(raw, (*[]string)(s))
}

type Collaboration struct {
	ID                    int64     `json:"id" gorm:"primaryKey"`
	ProjectName           string    `json:"project_name" gorm:"size:200;not null"`
	Description           string    `json:"description" gorm:"size:2000"`
	SkillsRequired        Skills    `json:"skills_required" gorm:"type:text;not null"`
	NumberOfCollaborators int       `json:"number_of_collaborators" gorm:"not null;default:0"`
	OwnerID               int64     `json:"owner_id" gorm:"not null;index"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`

	Owner   *auth.User `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Members []Member   `json:"members,omitempty" gorm:"foreignKey:CollaborationID;constraint:OnDelete:CASCADE"`
}

func (Collaboration) TableName() string {
	return "collaborations"
}

// Member is one roster entry. The composite key makes joining idempotent.
type Member struct {
	CollaborationID int64     `json:"collaboration_id" gorm:"primaryKey;autoIncrement:false"`
	UserID          int64     `json:"user_id" gorm:"primaryKey;autoIncrement:false;index"`
	JoinedAt        time.Time `json:"joined_at" gorm:"not null"`

	User *auth.User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Member) TableName() string {
	return "collaboration_members"
}

func (c *Collaboration) HasMember(userID int64) bool {
	for _, m := range c.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

type CreateInput struct {
	ProjectName           string   `json:"project_name" validate:"required,max=200"`
	Description           string   `json:"description" validate:"max=2000"`
	SkillsRequired        []string `json:"skills_required" validate:"max=50,dive,required,max=100"`
	NumberOfCollaborators int      `json:"number_of_collaborators" validate:"gte=0,lte=1000"`
}

// EditInput is a patch; nil fields are kept.
type EditInput struct {
	ProjectName           *string   `json:"project_name" validate:"omitempty,min=1,max=200"`
	Description           *string   `json:"description" validate:"omitempty,max=2000"`
	SkillsRequired        *[]string `json:"skills_required" validate:"omitempty,max=50,dive,required,max=100"`
	NumberOfCollaborators *int      `json:"number_of_collaborators" validate:"omitempty,gte=0,lte=1000"`
}
