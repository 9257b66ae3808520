package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readora/internal/domain/reading"
	apperrors "readora/internal/shared/errors"
	"readora/internal/shared/logger"
	"readora/internal/shared/services/markdown"
)

type fakePassageRepo struct {
	passages []*reading.Passage
}

func (f *fakePassageRepo) Create(_ context.Context, passage *reading.Passage) error {
	f.passages = append(f.passages, passage)
	return nil
}
func (f *fakePassageRepo) GetBySID(_ context.Context, sid string) (*reading.Passage, error) {
	for _, p := range f.passages {
		if p.SID() == sid {
			return p, nil
		}
	}
	return nil, nil
}
func (f *fakePassageRepo) List(_ context.Context, filter reading.PassageFilter) ([]*reading.Passage, int64, error) {
	var matched []*reading.Passage
	for _, p := range f.passages {
		if len(filter.GradeLevels) > 0 && !contains(filter.GradeLevels, p.GradeLevel()) {
			continue
		}
		matched = append(matched, p)
	}
	return matched, int64(len(matched)), nil
}
func (f *fakePassageRepo) ListByAuthor(context.Context, string) ([]*reading.Passage, error) {
	return nil, nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

type fakeCompletionRepo struct {
	completedSIDs map[string][]string
}

func (f *fakeCompletionRepo) CreateIfAbsent(context.Context, *reading.CompletionRecord) (bool, error) {
	return false, nil
}
func (f *fakeCompletionRepo) ListByUser(context.Context, string) ([]*reading.CompletionRecord, error) {
	return nil, nil
}
func (f *fakeCompletionRepo) ListPassageSIDsByUser(_ context.Context, userID string) ([]string, error) {
	return f.completedSIDs[userID], nil
}

type fakeBookmarkRepo struct {
	bookmarks map[string][]string
}

func (f *fakeBookmarkRepo) Add(_ context.Context, userID, passageSID string) error {
	if contains(f.bookmarks[userID], passageSID) {
		return nil
	}
	f.bookmarks[userID] = append(f.bookmarks[userID], passageSID)
	return nil
}
func (f *fakeBookmarkRepo) Remove(_ context.Context, userID, passageSID string) error {
	var kept []string
	for _, sid := range f.bookmarks[userID] {
		if sid != passageSID {
			kept = append(kept, sid)
		}
	}
	f.bookmarks[userID] = kept
	return nil
}
func (f *fakeBookmarkRepo) ListPassageSIDs(_ context.Context, userID string) ([]string, error) {
	return f.bookmarks[userID], nil
}

type fakeProgressRepo struct {
	records map[string]*reading.Progress
}

func (f *fakeProgressRepo) GetByUserID(_ context.Context, userID string) (*reading.Progress, error) {
	return f.records[userID], nil
}
func (f *fakeProgressRepo) Create(_ context.Context, progress *reading.Progress) error {
	f.records[progress.UserID()] = progress
	return nil
}
func (f *fakeProgressRepo) Update(_ context.Context, progress *reading.Progress) error {
	f.records[progress.UserID()] = progress
	return nil
}
func (f *fakeProgressRepo) TouchLastActive(context.Context, string, time.Time) error { return nil }

func seedPassages(t *testing.T, repo *fakePassageRepo, titles ...string) []string {
	t.Helper()
	sids := make([]string, 0, len(titles))
	for _, title := range titles {
		passage, err := reading.NewPassage(title, "Body of "+title, "Stories", "grade-3", "fiction", 10, "user_teacher")
		require.NoError(t, err)
		require.NoError(t, repo.Create(context.Background(), passage))
		sids = append(sids, passage.SID())
	}
	return sids
}

func TestListPassages_UserOverlays(t *testing.T) {
	passageRepo := &fakePassageRepo{}
	sids := seedPassages(t, passageRepo, "Fox", "Crow", "Owl")

	completionRepo := &fakeCompletionRepo{completedSIDs: map[string][]string{
		"user_1": {sids[0]},
	}}
	bookmarkRepo := &fakeBookmarkRepo{bookmarks: map[string][]string{
		"user_1": {sids[1]},
	}}

	uc := NewListPassagesUseCase(passageRepo, completionRepo, bookmarkRepo, logger.NewLogger())

	result, err := uc.Execute(context.Background(), ListPassagesQuery{UserID: "user_1"})
	require.NoError(t, err)
	require.Len(t, result.Items, 3)

	byTitle := make(map[string]PassageListItem)
	for _, item := range result.Items {
		byTitle[item.Title] = item
	}
	assert.True(t, byTitle["Fox"].Completed)
	assert.False(t, byTitle["Fox"].Bookmarked)
	assert.True(t, byTitle["Crow"].Bookmarked)
	assert.False(t, byTitle["Crow"].Completed)
	assert.False(t, byTitle["Owl"].Completed)
	assert.False(t, byTitle["Owl"].Bookmarked)
}

func TestListPassages_AnonymousHasNoOverlays(t *testing.T) {
	passageRepo := &fakePassageRepo{}
	seedPassages(t, passageRepo, "Fox")

	uc := NewListPassagesUseCase(passageRepo,
		&fakeCompletionRepo{completedSIDs: map[string][]string{}},
		&fakeBookmarkRepo{bookmarks: map[string][]string{}},
		logger.NewLogger())

	result, err := uc.Execute(context.Background(), ListPassagesQuery{})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.False(t, result.Items[0].Completed)
	assert.False(t, result.Items[0].Bookmarked)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 20, result.Limit)
}

func TestGetPassage_RendersSanitizedHTML(t *testing.T) {
	passageRepo := &fakePassageRepo{}
	passage, err := reading.NewPassage(
		"Fox", "# The Fox\n\nA *clever* fox.<script>alert(1)</script>",
		"Stories", "grade-3", "fiction", 10, "user_teacher",
	)
	require.NoError(t, err)
	require.NoError(t, passageRepo.Create(context.Background(), passage))

	uc := NewGetPassageUseCase(passageRepo, markdown.NewMarkdownService())

	detail, err := uc.Execute(context.Background(), GetPassageQuery{PassageSID: passage.SID()})
	require.NoError(t, err)

	assert.Contains(t, detail.ContentHTML, "<h1")
	assert.Contains(t, detail.ContentHTML, "<em>clever</em>")
	assert.NotContains(t, detail.ContentHTML, "<script>")
}

func TestOnboardStudent_Idempotent(t *testing.T) {
	progressRepo := &fakeProgressRepo{records: make(map[string]*reading.Progress)}
	uc := NewOnboardStudentUseCase(progressRepo, logger.NewLogger())
	ctx := context.Background()

	first, err := uc.Execute(ctx, OnboardStudentCommand{UserID: "user_1", StudentName: "Ada", GradeLevel: "grade-3"})
	require.NoError(t, err)
	assert.Equal(t, "grade-3", first.CurrentGradeLevel())

	// Retrying setup must not clobber the existing record.
	again, err := uc.Execute(ctx, OnboardStudentCommand{UserID: "user_1", StudentName: "Other", GradeLevel: "grade-5"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", again.StudentName())
	assert.Equal(t, "grade-3", again.CurrentGradeLevel())
}

func TestUpdateGrade(t *testing.T) {
	progressRepo := &fakeProgressRepo{records: make(map[string]*reading.Progress)}
	onboard := NewOnboardStudentUseCase(progressRepo, logger.NewLogger())
	uc := NewUpdateGradeUseCase(progressRepo, logger.NewLogger())
	ctx := context.Background()

	_, err := onboard.Execute(ctx, OnboardStudentCommand{UserID: "user_1", StudentName: "Ada", GradeLevel: "grade-3"})
	require.NoError(t, err)

	require.NoError(t, uc.Execute(ctx, UpdateGradeCommand{UserID: "user_1", GradeLevel: "grade-4"}))
	assert.Equal(t, "grade-4", progressRepo.records["user_1"].CurrentGradeLevel())

	err = uc.Execute(ctx, UpdateGradeCommand{UserID: "user_ghost", GradeLevel: "grade-4"})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestBookmarkPassage_AddIsIdempotent(t *testing.T) {
	passageRepo := &fakePassageRepo{}
	sids := seedPassages(t, passageRepo, "Fox")
	bookmarkRepo := &fakeBookmarkRepo{bookmarks: make(map[string][]string)}

	uc := NewBookmarkPassageUseCase(bookmarkRepo, passageRepo, logger.NewLogger())
	ctx := context.Background()

	cmd := BookmarkPassageCommand{UserID: "user_1", PassageSID: sids[0]}
	require.NoError(t, uc.Add(ctx, cmd))
	require.NoError(t, uc.Add(ctx, cmd))
	assert.Len(t, bookmarkRepo.bookmarks["user_1"], 1)

	require.NoError(t, uc.Remove(ctx, cmd))
	assert.Empty(t, bookmarkRepo.bookmarks["user_1"])

	err := uc.Add(ctx, BookmarkPassageCommand{UserID: "user_1", PassageSID: "ps_ghost"})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}
