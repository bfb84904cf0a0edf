package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProgress struct {
	solved []uint
	err    error
}

func (p *fakeProgress) RecordSolved(_ context.Context, userID uint) error {
	p.solved = append(p.solved, userID)
	return p.err
}

func newTestService(progress ProgressRecorder) *Service {
	return NewService(zap.NewNop(), NewMockRepository(), progress)
}

func twoSum(status string) SubmitInput {
	return SubmitInput{
		ProblemName: "Two Sum",
		ProblemURL:  "https://leetcode.com/problems/two-sum/",
		Difficulty:  "Easy",
		TopicTags:   []string{"Array", "Hash Table"},
		Status:      status,
	}
}

func TestService_Submit_Upserts(t *testing.T) {
	progress := &fakeProgress{}
	svc := newTestService(progress)
	ctx := context.Background()

	first, created, err := svc.Submit(ctx, 1, twoSum(StatusAttempted))
	require.NoError(t, err)
	assert.True(t, created)

	resubmit := twoSum(StatusSolved)
	resubmit.ProblemName = "Renamed"
	second, created, err := svc.Submit(ctx, 1, resubmit)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	stored, err := svc.Get(ctx, first.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusSolved, stored.Status)
	assert.Equal(t, "Two Sum", stored.ProblemName, "resubmission only changes status")

	list, err := svc.List(ctx, 1, 100, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Empty(t, progress.solved, "only new solved activities count")
}

func TestService_Submit_SolvedRecordsProgress(t *testing.T) {
	progress := &fakeProgress{}
	svc := newTestService(progress)

	_, _, err := svc.Submit(context.Background(), 7, twoSum(StatusSolved))
	require.NoError(t, err)
	assert.Equal(t, []uint{7}, progress.solved)
}

func TestService_Submit_ProgressFailureIgnored(t *testing.T) {
	svc := newTestService(&fakeProgress{err: errors.New("db down")})

	_, created, err := svc.Submit(context.Background(), 7, twoSum(StatusSolved))
	require.NoError(t, err)
	assert.True(t, created)
}

func TestService_List_NewestFirstWithPaging(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Hour) }
		in := twoSum(StatusAttempted)
		in.ProblemURL = in.ProblemURL + string(rune('a'+i))
		_, _, err := svc.Submit(ctx, 1, in)
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, 1, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, base.Add(3*time.Hour), page[0].CompletedAt)
	assert.Equal(t, base.Add(2*time.Hour), page[1].CompletedAt)

	empty, err := svc.List(ctx, 1, 10, 50)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestService_Update(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	a, _, err := svc.Submit(ctx, 1, twoSum(StatusAttempted))
	require.NoError(t, err)

	hard := "Hard"
	tags := []string{"Math"}
	updated, err := svc.Update(ctx, a.ID, 1, UpdateInput{Difficulty: &hard, TopicTags: &tags})
	require.NoError(t, err)
	assert.Equal(t, "Hard", updated.Difficulty)
	assert.Equal(t, []string{"Math"}, []string(updated.TopicTags))
	assert.Equal(t, StatusAttempted, updated.Status)

	_, err = svc.Update(ctx, a.ID, 2, UpdateInput{Difficulty: &hard})
	assert.ErrorIs(t, err, ErrActivityNotFound, "other users cannot update it")
}

func TestService_DeleteAndStats(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	statuses := []string{StatusSolved, StatusSolved, StatusAttempted, StatusBookmarked}
	var ids []uint
	for i, status := range statuses {
		in := twoSum(status)
		in.ProblemURL += string(rune('a' + i))
		a, _, err := svc.Submit(ctx, 1, in)
		require.NoError(t, err)
		ids = append(ids, a.ID)
	}

	stats, err := svc.Stats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, &Stats{Total: 4, Solved: 2, Attempted: 1, Bookmarked: 1}, stats)

	require.NoError(t, svc.Delete(ctx, ids[0], 1))
	assert.ErrorIs(t, svc.Delete(ctx, ids[0], 1), ErrActivityNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, ids[1], 2), ErrActivityNotFound)

	stats, err = svc.Stats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.Solved)

	empty, err := svc.Stats(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, &Stats{}, empty)
}
