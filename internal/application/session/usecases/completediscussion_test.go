package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readora/internal/domain/reading"
	"readora/internal/domain/subscription"
	vo "readora/internal/domain/subscription/valueobjects"
	"readora/internal/shared/biztime"
	"readora/internal/shared/logger"
	"readora/internal/shared/services/markdown"
)

func init() {
	biztime.MustInit("UTC")
}

type fakeSubscriptionRepo struct {
	remaining map[string]int
	status    map[string]vo.SubscriptionStatus
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{
		remaining: make(map[string]int),
		status:    make(map[string]vo.SubscriptionStatus),
	}
}

func (f *fakeSubscriptionRepo) GetByUserID(context.Context, string) (*subscription.Subscription, error) {
	return nil, nil
}
func (f *fakeSubscriptionRepo) UpsertOnProvision(context.Context, *subscription.Subscription) error {
	return nil
}
func (f *fakeSubscriptionRepo) UpdatePlan(context.Context, string, vo.PlanTier, int, string) error {
	return nil
}
func (f *fakeSubscriptionRepo) UpdateStatus(context.Context, string, vo.SubscriptionStatus) error {
	return nil
}
func (f *fakeSubscriptionRepo) ResetIfDue(context.Context, string, time.Time) (bool, error) {
	return false, nil
}
func (f *fakeSubscriptionRepo) ListUserIDsDueForReset(context.Context, time.Time, int) ([]string, error) {
	return nil, nil
}

func (f *fakeSubscriptionRepo) TryDecrementSessions(_ context.Context, userID string) (subscription.DecrementResult, error) {
	remaining, ok := f.remaining[userID]
	if !ok {
		return subscription.DecrementAbsent, nil
	}
	if f.status[userID] != vo.StatusActive || remaining <= 0 {
		return subscription.DecrementInsufficient, nil
	}
	f.remaining[userID] = remaining - 1
	return subscription.DecrementSuccess, nil
}

type fakePassageRepo struct {
	passages map[string]*reading.Passage
}

func (f *fakePassageRepo) Create(context.Context, *reading.Passage) error { return nil }
func (f *fakePassageRepo) GetBySID(_ context.Context, sid string) (*reading.Passage, error) {
	return f.passages[sid], nil
}
func (f *fakePassageRepo) List(context.Context, reading.PassageFilter) ([]*reading.Passage, int64, error) {
	return nil, 0, nil
}
func (f *fakePassageRepo) ListByAuthor(context.Context, string) ([]*reading.Passage, error) {
	return nil, nil
}

type fakeCompletionRepo struct {
	seen map[string]bool
}

func (f *fakeCompletionRepo) CreateIfAbsent(_ context.Context, record *reading.CompletionRecord) (bool, error) {
	key := record.UserID() + "/" + record.PassageID()
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	return true, nil
}
func (f *fakeCompletionRepo) ListByUser(context.Context, string) ([]*reading.CompletionRecord, error) {
	return nil, nil
}
func (f *fakeCompletionRepo) ListPassageSIDsByUser(context.Context, string) ([]string, error) {
	return nil, nil
}

type fakeTranscriptRepo struct {
	records []*reading.TranscriptRecord
}

func (f *fakeTranscriptRepo) Create(_ context.Context, record *reading.TranscriptRecord) error {
	f.records = append(f.records, record)
	return nil
}
func (f *fakeTranscriptRepo) ListByUser(context.Context, string) ([]*reading.TranscriptRecord, error) {
	return nil, nil
}
func (f *fakeTranscriptRepo) ListByPassage(context.Context, string, string) ([]*reading.TranscriptRecord, error) {
	return nil, nil
}
func (f *fakeTranscriptRepo) GetByCompletion(context.Context, string, string) (*reading.TranscriptRecord, error) {
	return nil, nil
}
func (f *fakeTranscriptRepo) DeleteOwned(context.Context, string, string) (bool, error) {
	return false, nil
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

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context, string) {}

type fixture struct {
	uc          *CompleteDiscussionUseCase
	subs        *fakeSubscriptionRepo
	completions *fakeCompletionRepo
	transcripts *fakeTranscriptRepo
	progress    *fakeProgressRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	passage, err := reading.NewPassage("The Clever Fox", "Once upon a time...", "Fables", "grade-3", "fiction", 10, "user_teacher")
	require.NoError(t, err)

	passages := &fakePassageRepo{passages: map[string]*reading.Passage{
		"ps_fox": reading.ReconstructPassage(1, "ps_fox", passage.Title(), passage.Content(),
			passage.Subject(), passage.GradeLevel(), passage.LessonType(),
			passage.EstimatedMinutes(), passage.CreatedBy(), passage.CreatedAt()),
	}}

	f := &fixture{
		subs:        newFakeSubscriptionRepo(),
		completions: &fakeCompletionRepo{seen: make(map[string]bool)},
		transcripts: &fakeTranscriptRepo{},
		progress:    &fakeProgressRepo{records: make(map[string]*reading.Progress)},
	}
	f.uc = NewCompleteDiscussionUseCase(
		f.subs, passages, f.completions, f.transcripts, f.progress,
		markdown.NewMarkdownService(), noopInvalidator{}, 30, logger.NewLogger(),
	)
	return f
}

func discussionCommand(userID string, duration int) CompleteDiscussionCommand {
	return CompleteDiscussionCommand{
		UserID:     userID,
		PassageSID: "ps_fox",
		Messages: []reading.TranscriptMessage{
			{Role: reading.RoleAssistant, Content: "What did the fox do?"},
			{Role: reading.RoleUser, Content: "It tricked the crow."},
		},
		DurationSeconds: duration,
	}
}

func TestCompleteDiscussion_HappyPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.subs.remaining["user_1"] = 12
	f.subs.status["user_1"] = vo.StatusActive
	progress, err := reading.NewProgress("user_1", "Ada", "grade-3", time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, f.progress.Create(ctx, progress))

	result, err := f.uc.Execute(ctx, discussionCommand("user_1", 45))
	require.NoError(t, err)

	assert.False(t, result.Gated)
	assert.True(t, result.NewlyCompleted)
	assert.NotEmpty(t, result.TranscriptSID)
	assert.Equal(t, subscription.DecrementSuccess, result.Decrement)
	assert.Equal(t, 1, result.ReadingStreak)
	assert.Equal(t, 11, f.subs.remaining["user_1"])
	assert.Len(t, f.transcripts.records, 1)
	assert.Equal(t, 10, f.progress.records["user_1"].TotalReadingMinutes())
}

func TestCompleteDiscussion_DurationGate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.subs.remaining["user_1"] = 12
	f.subs.status["user_1"] = vo.StatusActive

	result, err := f.uc.Execute(ctx, discussionCommand("user_1", 20))
	require.NoError(t, err)

	assert.True(t, result.Gated)
	assert.False(t, result.NewlyCompleted)
	assert.Empty(t, result.TranscriptSID)
	// Nothing recorded, nothing consumed.
	assert.Equal(t, 12, f.subs.remaining["user_1"])
	assert.Empty(t, f.transcripts.records)
	assert.Empty(t, f.completions.seen)
}

func TestCompleteDiscussion_RediscussionKeepsTranscriptSkipsCredit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.subs.remaining["user_1"] = 12
	f.subs.status["user_1"] = vo.StatusActive
	progress, err := reading.NewProgress("user_1", "Ada", "grade-3", time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, f.progress.Create(ctx, progress))

	first, err := f.uc.Execute(ctx, discussionCommand("user_1", 45))
	require.NoError(t, err)
	require.True(t, first.NewlyCompleted)

	second, err := f.uc.Execute(ctx, discussionCommand("user_1", 60))
	require.NoError(t, err)

	assert.False(t, second.NewlyCompleted)
	assert.NotEmpty(t, second.TranscriptSID)
	// Both transcripts retained; progress credited once; both discussions
	// consumed a session.
	assert.Len(t, f.transcripts.records, 2)
	assert.Equal(t, 10, f.progress.records["user_1"].TotalReadingMinutes())
	assert.Equal(t, 10, f.subs.remaining["user_1"])
}

func TestCompleteDiscussion_QuotaExhaustedStillRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.subs.remaining["user_1"] = 0
	f.subs.status["user_1"] = vo.StatusActive

	result, err := f.uc.Execute(ctx, discussionCommand("user_1", 45))
	require.NoError(t, err)

	assert.Equal(t, subscription.DecrementInsufficient, result.Decrement)
	// The discussion record survives the failed decrement.
	assert.True(t, result.NewlyCompleted)
	assert.Len(t, f.transcripts.records, 1)
}

func TestCompleteDiscussion_NoSubscriptionStillRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.uc.Execute(ctx, discussionCommand("user_free", 45))
	require.NoError(t, err)

	assert.Equal(t, subscription.DecrementAbsent, result.Decrement)
	assert.True(t, result.NewlyCompleted)
	assert.Len(t, f.transcripts.records, 1)
}

func TestCompleteDiscussion_SanitizesTranscriptContent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.subs.remaining["user_1"] = 12
	f.subs.status["user_1"] = vo.StatusActive

	cmd := discussionCommand("user_1", 45)
	cmd.Messages = []reading.TranscriptMessage{
		{Role: reading.RoleAssistant, Content: "What did the fox do?"},
		{Role: reading.RoleUser, Content: `It <script>alert("x")</script> tricked the <em>crow</em>.`},
	}

	_, err := f.uc.Execute(ctx, cmd)
	require.NoError(t, err)

	require.Len(t, f.transcripts.records, 1)
	stored := f.transcripts.records[0].Messages()
	require.Len(t, stored, 2)
	assert.NotContains(t, stored[1].Content, "<script>")
	assert.NotContains(t, stored[1].Content, "alert")
	// Harmless formatting survives.
	assert.Contains(t, stored[1].Content, "<em>crow</em>")
}

func TestCompleteDiscussion_UnknownPassage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cmd := discussionCommand("user_1", 45)
	cmd.PassageSID = "ps_ghost"

	_, err := f.uc.Execute(ctx, cmd)
	assert.Error(t, err)
}
