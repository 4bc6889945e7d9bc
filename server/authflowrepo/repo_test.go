package authflowrepo_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/connect-onboarding/server/authflowrepo"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepo_TakeOnce(t *testing.T) {
	repo := authflowrepo.NewInMemoryRepo(time.Minute)

	require.Error(t, repo.Upsert("", &authflowrepo.AuthFlowState{}))
	require.Error(t, repo.Upsert("s1", nil))

	require.NoError(t, repo.Upsert("s1", &authflowrepo.AuthFlowState{CodeVerifier: "v", Nonce: "n", ReturnURL: "/tenant"}))
	require.Equal(t, 1, repo.Len())

	got, err := repo.Take("s1")
	require.NoError(t, err)
	require.Equal(t, "v", got.CodeVerifier)
	require.Equal(t, "n", got.Nonce)
	require.Equal(t, "/tenant", got.ReturnURL)
	require.False(t, got.CreatedAt.IsZero())

	_, err = repo.Take("s1")
	require.ErrorIs(t, err, authflowrepo.ErrStateNotFound)
	require.Equal(t, 0, repo.Len())
}

func TestInMemoryRepo_Expiry(t *testing.T) {
	repo := authflowrepo.NewInMemoryRepo(time.Minute)

	old := time.Now().Add(-2 * time.Minute)
	require.NoError(t, repo.Upsert("stale", &authflowrepo.AuthFlowState{Nonce: "n", CreatedAt: old}))

	_, err := repo.Take("stale")
	require.ErrorIs(t, err, authflowrepo.ErrStateExpired)

	require.NoError(t, repo.Upsert("stale2", &authflowrepo.AuthFlowState{CreatedAt: old}))
	require.NoError(t, repo.Upsert("fresh", &authflowrepo.AuthFlowState{}))
	require.Equal(t, 1, repo.Len())
}
