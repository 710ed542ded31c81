package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voting-platform/internal/domain"
	"voting-platform/internal/repository"
	"voting-platform/internal/repository/mocks"
	"voting-platform/internal/service"
)

func TestVoteService_CastVote_MapsRepositoryErrors(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
		wantErr error
	}{
		{"already voted", repository.ErrAlreadyVoted, service.ErrAlreadyVoted},
		{"candidate not found", repository.ErrCandidateNotFound, service.ErrCandidateNotFound},
		{"user not found", repository.ErrUserNotFound, service.ErrUserNotFound},
		{"store failure", errors.New("disk full"), service.ErrInternalServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			voteRepo := mocks.NewVoteRepository(t)
			candidateRepo := mocks.NewCandidateRepository(t)
			svc := service.NewVoteService(voteRepo, candidateRepo, nil)
			ctx := context.Background()

			voteRepo.On("CastVote", ctx, uint(1), uint(2)).Return(nil, tt.repoErr).Once()

			candidate, err := svc.CastVote(ctx, 1, 2)
			assert.Nil(t, candidate)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestVoteService_CastVote_Success(t *testing.T) {
	voteRepo := mocks.NewVoteRepository(t)
	candidateRepo := mocks.NewCandidateRepository(t)
	svc := service.NewVoteService(voteRepo, candidateRepo, nil)
	ctx := context.Background()

	voteRepo.On("CastVote", ctx, uint(1), uint(2)).
		Return(&domain.Candidate{ID: 2, Name: "Alice", Votes: 1}, nil).Once()

	candidate, err := svc.CastVote(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "Alice", candidate.Name)
	candidateRepo.AssertNotCalled(t, "List")
}

// getResults 对票数 [3,1,2] 的候选人返回 [3,2,1]，总票数为 6
func TestVoteService_GetResults(t *testing.T) {
	voteRepo := mocks.NewVoteRepository(t)
	candidateRepo := mocks.NewCandidateRepository(t)
	svc := service.NewVoteService(voteRepo, candidateRepo, nil)
	ctx := context.Background()

	candidateRepo.On("ListByVotes", ctx).Return([]domain.Candidate{
		{ID: 1, Name: "A", Votes: 3},
		{ID: 3, Name: "C", Votes: 2},
		{ID: 2, Name: "B", Votes: 1},
	}, nil).Once()

	results, err := svc.GetResults(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), results.TotalVotes)
	assert.Equal(t, int64(3), results.Candidates[0].Votes)
	assert.InDelta(t, 50.0, results.Percent(results.Candidates[0]), 0.001)
}

func TestVoteService_GetResults_Store(t *testing.T) {
	st := newStore(t)
	svc := service.NewVoteService(st.votes, st.candidates, nil)
	ctx := context.Background()

	// 按 [3,1,2] 的票数投票
	names := []string{"A", "B", "C"}
	want := []int{3, 1, 2}
	voter := 0
	for i, name := range names {
		c := &domain.Candidate{Name: name}
		require.NoError(t, st.candidates.Create(ctx, c))
		for j := 0; j < want[i]; j++ {
			u := &domain.User{Username: fmt.Sprintf("voter%d", voter), Password: "x"}
			voter++
			require.NoError(t, st.users.Save(ctx, u))
			_, err := svc.CastVote(ctx, u.ID, c.ID)
			require.NoError(t, err)
		}
	}

	results, err := svc.GetResults(ctx)
	require.NoError(t, err)
	require.Len(t, results.Candidates, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{
		results.Candidates[0].Votes, results.Candidates[1].Votes, results.Candidates[2].Votes,
	})
	assert.Equal(t, "C", results.Candidates[1].Name)
	assert.Equal(t, int64(6), results.TotalVotes)

	discrepancies, err := svc.AuditTally(ctx)
	require.NoError(t, err)
	assert.Empty(t, discrepancies)
}

// 场景：候选人 Alice (0 票)，用户 U 投票后 Alice=1、U.has_voted=true；再次投票被拒绝，Alice 仍为 1
func TestVoteService_AliceScenario(t *testing.T) {
	st := newStore(t)
	authService := service.NewAuthService(st.users, nil)
	svc := service.NewVoteService(st.votes, st.candidates, nil)
	ctx := context.Background()

	alice := &domain.Candidate{Name: "Alice"}
	require.NoError(t, st.candidates.Create(ctx, alice))
	_, err := authService.Register(ctx, "U", "pw")
	require.NoError(t, err)
	principal, err := authService.Login(ctx, "U", "pw")
	require.NoError(t, err)

	updated, err := svc.CastVote(ctx, principal.UserID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.Votes)

	user, err := authService.CurrentUser(ctx, principal.UserID)
	require.NoError(t, err)
	assert.True(t, user.HasVoted)

	_, err = svc.CastVote(ctx, principal.UserID, alice.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyVoted)

	reloaded, err := st.candidates.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reloaded.Votes)

	candidateID, voted, err := svc.HasVoted(ctx, principal.UserID)
	require.NoError(t, err)
	assert.True(t, voted)
	assert.Equal(t, alice.ID, candidateID)
}

func TestVoteService_ConcurrentVotesForSameUser(t *testing.T) {
	st := newStore(t)
	svc := service.NewVoteService(st.votes, st.candidates, nil)
	ctx := context.Background()

	u := &domain.User{Username: "dup", Password: "x"}
	require.NoError(t, st.users.Save(ctx, u))
	a := &domain.Candidate{Name: "A"}
	b := &domain.Candidate{Name: "B"}
	require.NoError(t, st.candidates.Create(ctx, a))
	require.NoError(t, st.candidates.Create(ctx, b))

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			target := a.ID
			if i%2 == 1 {
				target = b.ID
			}
			_, errs[i] = svc.CastVote(ctx, u.ID, target)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, service.ErrAlreadyVoted)
		}
	}
	assert.Equal(t, 1, successes)

	results, err := svc.GetResults(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), results.TotalVotes)
}

func TestVoteService_AuditTally_FindsDiscrepancies(t *testing.T) {
	voteRepo := mocks.NewVoteRepository(t)
	candidateRepo := mocks.NewCandidateRepository(t)
	svc := service.NewVoteService(voteRepo, candidateRepo, nil)
	ctx := context.Background()

	voteRepo.On("LedgerStats", ctx).Return(&repository.LedgerStats{
		PerCandidate: map[uint]int64{1: 2, 2: 1},
		VoteRows:     3,
		VotedUsers:   4,
	}, nil).Once()
	candidateRepo.On("List", ctx).Return([]domain.Candidate{
		{ID: 1, Name: "A", Votes: 2},
		{ID: 2, Name: "B", Votes: 5},
		{ID: 3, Name: "C", Votes: 0},
	}, nil).Once()

	discrepancies, err := svc.AuditTally(ctx)
	require.NoError(t, err)
	require.Len(t, discrepancies, 2)
	assert.Equal(t, domain.TallyDiscrepancy{CandidateID: 2, Name: "B", Counter: 5, Ledger: 1}, discrepancies[0])
	assert.Equal(t, uint(0), discrepancies[1].CandidateID)
	assert.Equal(t, int64(4), discrepancies[1].Counter)
}
