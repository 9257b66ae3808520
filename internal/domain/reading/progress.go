package reading

import (
	"fmt"
	"time"

	"readora/internal/shared/biztime"
)

// Progress tracks a user's reading habits: current streak, cumulative reading
// time and the last day any reading activity happened. Created during
// onboarding when the student picks a grade level.
type Progress struct {
	pid                 uint
	userID              string
	studentName         string
	currentGradeLevel   string
	readingStreak       int
	totalReadingMinutes int
	lastReadDate        *time.Time
	lastActiveDate      time.Time
	createdAt           time.Time
	updatedAt           time.Time
}

// NewProgress creates the onboarding progress record.
func NewProgress(userID, studentName, gradeLevel string, now time.Time) (*Progress, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if gradeLevel == "" {
		return nil, fmt.Errorf("grade level is required")
	}
	if studentName == "" {
		studentName = "Student"
	}

	return &Progress{
		userID:            userID,
		studentName:       studentName,
		currentGradeLevel: gradeLevel,
		lastActiveDate:    now,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

// ReconstructProgress reconstructs a progress record from persistence.
func ReconstructProgress(
	pid uint,
	userID, studentName, gradeLevel string,
	readingStreak, totalReadingMinutes int,
	lastReadDate *time.Time,
	lastActiveDate, createdAt, updatedAt time.Time,
) *Progress {
	return &Progress{
		pid:                 pid,
		userID:              userID,
		studentName:         studentName,
		currentGradeLevel:   gradeLevel,
		readingStreak:       readingStreak,
		totalReadingMinutes: totalReadingMinutes,
		lastReadDate:        lastReadDate,
		lastActiveDate:      lastActiveDate,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}
}

func (p *Progress) ID() uint { return p.pid }
func (p *Progress) UserID() string { return p.userID }
func (p *Progress) StudentName() string { return p.studentName }
func (p *Progress) CurrentGradeLevel() string { return p.currentGradeLevel }
func (p *Progress) ReadingStreak() int { return p.readingStreak }
func (p *Progress) TotalReadingMinutes() int { return p.totalReadingMinutes }
func (p *Progress) LastReadDate() *time.Time { return p.lastReadDate }
func (p *Progress) LastActiveDate() time.Time { return p.lastActiveDate }
func (p *Progress) CreatedAt() time.Time { return p.createdAt }
func (p *Progress) UpdatedAt() time.Time { return p.updatedAt }

// SetID sets the record ID (only for persistence layer use).
func (p *Progress) SetID(pid uint) error {
	if p.pid != 0 {
		return fmt.Errorf("progress ID is already set")
	}
	p.pid = pid
	return nil
}

// NextStreak applies the day-granularity streak rule: reading again the same
// calendar day keeps the streak; reading exactly one calendar day later
// extends it; any larger gap, or no prior reading, starts over at 1.
func NextStreak(currentStreak int, lastRead *time.Time, now time.Time) int {
	if lastRead == nil {
		return 1
	}

	switch biztime.CalendarDaysBetween(*lastRead, now) {
	case 0:
		if currentStreak == 0 {
			return 1
		}
		return currentStreak
	case 1:
		return currentStreak + 1
	default:
		return 1
	}
}

// RecordReading applies one newly completed passage to the progress counters.
func (p *Progress) RecordReading(minutesRead int, now time.Time) {
	p.readingStreak = NextStreak(p.readingStreak, p.lastReadDate, now)
	p.totalReadingMinutes += minutesRead
	readAt := now
	p.lastReadDate = &readAt
	p.lastActiveDate = now
	p.updatedAt = now
}

// ChangeGrade updates the student's grade level.
func (p *Progress) ChangeGrade(gradeLevel string, now time.Time) error {
	if gradeLevel == "" {
		return fmt.Errorf("grade level is required")
	}
	p.currentGradeLevel = gradeLevel
	p.updatedAt = now
	return nil
}

// TouchActive stamps the last-active date.
func (p *Progress) TouchActive(now time.Time) {
	p.lastActiveDate = now
	p.updatedAt = now
}
