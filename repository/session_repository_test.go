package repository

import (
	"context"
	"testing"
	"time"

	"tabletop/models"
	"tabletop/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedSession creates a host, a game and a recruiting session for tests
func seedSession(t *testing.T, testDB *testutil.TestDatabase, hostName string, slotsTotal int) (*models.Session, *models.User) {
	t.Helper()
	ctx := context.Background()

	userRepo := NewUserRepository(testDB.DB)
	gameRepo := NewGameRepository(testDB.DB)
	sessionRepo := NewSessionRepository(testDB.DB)

	host, err := userRepo.Create(ctx, hostName, 0)
	require.NoError(t, err)

	game := testutil.NewTestGame(hostName + "'s game")
	require.NoError(t, gameRepo.Create(ctx, game))

	session := &models.Session{
		GameID:                   game.ID,
		HostID:                   host.ID,
		Status:                   models.SessionStatusRecruiting,
		SlotsTotal:               slotsTotal,
		SlotsFilled:              1,
		EstimatedDurationMinutes: game.EstimatedPlaytimeMinutes,
	}
	require.NoError(t, sessionRepo.CreateWithHost(ctx, session))

	return session, host
}

func TestSessionRepository_CreateWithHost(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	sessionRepo := NewSessionRepository(testDB.DB)
	ctx := context.Background()

	session, host := seedSession(t, testDB, "host1", 4)

	assert.NotZero(t, session.ID)
	assert.False(t, session.CreatedAt.IsZero())

	// The host is seated by the same call
	participants, err := sessionRepo.GetParticipants(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, participants, 1)
	assert.Equal(t, host.ID, participants[0].UserID)

	detail, err := sessionRepo.GetDetailByID(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, session.ID, detail.Session.ID)
	require.NotNil(t, detail.Game)
	assert.Equal(t, session.GameID, detail.Game.ID)
	assert.True(t, detail.HasParticipant(host.ID))
}

func TestSessionRepository_Participants(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	sessionRepo := NewSessionRepository(testDB.DB)
	ctx := context.Background()

	session, _ := seedSession(t, testDB, "host2", 4)

	joiner, err := userRepo.Create(ctx, "joiner", 0)
	require.NoError(t, err)

	t.Run("add and fetch", func(t *testing.T) {
		participant := &models.SessionParticipant{SessionID: session.ID, UserID: joiner.ID}
		require.NoError(t, sessionRepo.AddParticipant(ctx, participant))
		assert.NotZero(t, participant.ID)
		assert.False(t, participant.JoinedAt.IsZero())

		got, err := sessionRepo.GetParticipant(ctx, session.ID, joiner.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, joiner.ID, got.UserID)
	})

	t.Run("duplicate seat is rejected by the schema", func(t *testing.T) {
		err := sessionRepo.AddParticipant(ctx, &models.SessionParticipant{SessionID: session.ID, UserID: joiner.ID})
		assert.Error(t, err)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, sessionRepo.RemoveParticipant(ctx, session.ID, joiner.ID))

		got, err := sessionRepo.GetParticipant(ctx, session.ID, joiner.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("remove non-member", func(t *testing.T) {
		err := sessionRepo.RemoveParticipant(ctx, session.ID, joiner.ID)
		assert.Error(t, err)
	})
}

func TestSessionRepository_Update(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	sessionRepo := NewSessionRepository(testDB.DB)
	ctx := context.Background()

	session, _ := seedSession(t, testDB, "host3", 4)

	now := time.Now().UTC().Truncate(time.Microsecond)
	session.Status = models.SessionStatusActive
	session.SlotsFilled = 2
	session.StartedAt = &now

	require.NoError(t, sessionRepo.Update(ctx, session))

	got, err := sessionRepo.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusActive, got.Status)
	assert.Equal(t, 2, got.SlotsFilled)
	require.NotNil(t, got.StartedAt)
	assert.WithinDuration(t, now, *got.StartedAt, time.Second)
}

func TestSessionRepository_ActiveOccupancy(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	sessionRepo := NewSessionRepository(testDB.DB)
	ctx := context.Background()

	occupancy, err := sessionRepo.ActiveOccupancy(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, occupancy)

	// Two active sessions and one recruiting; only active seats count
	active1, _ := seedSession(t, testDB, "occ-host1", 6)
	active1.Status = models.SessionStatusActive
	active1.SlotsFilled = 4
	require.NoError(t, sessionRepo.Update(ctx, active1))

	active2, _ := seedSession(t, testDB, "occ-host2", 4)
	active2.Status = models.SessionStatusActive
	active2.SlotsFilled = 3
	require.NoError(t, sessionRepo.Update(ctx, active2))

	recruiting, _ := seedSession(t, testDB, "occ-host3", 4)
	recruiting.SlotsFilled = 2
	require.NoError(t, sessionRepo.Update(ctx, recruiting))

	occupancy, err = sessionRepo.ActiveOccupancy(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, occupancy)

	// Completing a session releases its seats
	active1.Status = models.SessionStatusCompleted
	require.NoError(t, sessionRepo.Update(ctx, active1))

	occupancy, err = sessionRepo.ActiveOccupancy(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, occupancy)
}

func TestSessionRepository_Listing(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	sessionRepo := NewSessionRepository(testDB.DB)
	ctx := context.Background()

	session, host := seedSession(t, testDB, "lister", 4)

	byStatus, err := sessionRepo.GetByStatus(ctx, models.SessionStatusRecruiting)
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, session.ID, byStatus[0].ID)

	byParticipant, err := sessionRepo.GetByParticipant(ctx, host.ID)
	require.NoError(t, err)
	require.Len(t, byParticipant, 1)
	assert.Equal(t, session.ID, byParticipant[0].ID)

	none, err := sessionRepo.GetByStatus(ctx, models.SessionStatusCompleted)
	require.NoError(t, err)
	assert.Empty(t, none)
}
