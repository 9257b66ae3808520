package reading

import (
	"fmt"
	"strings"
	"time"

	"readora/internal/shared/id"
)

// Passage is a curated reading text students discuss with the AI assistant.
// Content is stored as markdown and rendered at the interface layer.
type Passage struct {
	pid              uint
	sid              string
	title            string
	content          string
	subject          string
	gradeLevel       string
	lessonType       string
	estimatedMinutes int
	createdBy        string
	createdAt        time.Time
}

const (
	maxTitleLength   = 200
	maxSubjectLength = 100
)

// NewPassage creates a passage authored by the given user.
func NewPassage(title, content, subject, gradeLevel, lessonType string, estimatedMinutes int, createdBy string) (*Passage, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("passage title is required")
	}
	if len(title) > maxTitleLength {
		return nil, fmt.Errorf("passage title too long (max %d characters)", maxTitleLength)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("passage content is required")
	}
	if len(subject) > maxSubjectLength {
		return nil, fmt.Errorf("passage subject too long (max %d characters)", maxSubjectLength)
	}
	if createdBy == "" {
		return nil, fmt.Errorf("passage author is required")
	}
	if estimatedMinutes <= 0 {
		estimatedMinutes = 10
	}

	return &Passage{
		sid:              id.MustGenerateWithPrefix(id.PrefixPassage, id.DefaultLength),
		title:            title,
		content:          content,
		subject:          subject,
		gradeLevel:       gradeLevel,
		lessonType:       lessonType,
		estimatedMinutes: estimatedMinutes,
		createdBy:        createdBy,
		createdAt:        time.Now().UTC(),
	}, nil
}

// ReconstructPassage reconstructs a passage from persistence.
func ReconstructPassage(
	pid uint,
	sid, title, content, subject, gradeLevel, lessonType string,
	estimatedMinutes int,
	createdBy string,
	createdAt time.Time,
) *Passage {
	return &Passage{
		pid:              pid,
		sid:              sid,
		title:            title,
		content:          content,
		subject:          subject,
		gradeLevel:       gradeLevel,
		lessonType:       lessonType,
		estimatedMinutes: estimatedMinutes,
		createdBy:        createdBy,
		createdAt:        createdAt,
	}
}

func (p *Passage) ID() uint { return p.pid }
func (p *Passage) SID() string { return p.sid }
func (p *Passage) Title() string { return p.title }
func (p *Passage) Content() string { return p.content }
func (p *Passage) Subject() string { return p.subject }
func (p *Passage) GradeLevel() string { return p.gradeLevel }
func (p *Passage) LessonType() string { return p.lessonType }
func (p *Passage) EstimatedMinutes() int { return p.estimatedMinutes }
func (p *Passage) CreatedBy() string { return p.createdBy }
func (p *Passage) CreatedAt() time.Time { return p.createdAt }

// SetID sets the passage ID (only for persistence layer use).
func (p *Passage) SetID(pid uint) error {
	if p.pid != 0 {
		return fmt.Errorf("passage ID is already set")
	}
	p.pid = pid
	return nil
}

// PassageFilter narrows passage listings.
type PassageFilter struct {
	GradeLevels []string
	LessonTypes []string
	// Subject matches against subject and title, case-insensitive substring.
	Subject string
	Page    int
	Limit   int
}
