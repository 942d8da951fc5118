package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bulbousnub/wats-go/internal/model"
)

func newTestSession(host model.MPPlayer) *model.Session {
	return &model.Session{
		Code:      "WXYZ",
		HostID:    host.ID,
		JudgeID:   host.ID,
		Round:     1,
		StartedAt: time.Date(2025, 8, 29, 20, 0, 0, 0, time.UTC),
		Status:    model.SessionStatusLobby,
		Players:   []model.MPPlayer{host},
	}
}

func mpPlayer(name string) model.MPPlayer {
	return model.MPPlayer{ID: uuid.New(), Name: name, IsConnected: true}
}

func TestApplyJoinAppendsNewPlayer(t *testing.T) {
	host := mpPlayer("Host")
	s := newTestSession(host)
	guest := mpPlayer("Guest")

	s = Apply(s, model.JoinEvent(guest))

	require.Len(t, s.Players, 2)
	assert.Equal(t, guest.ID, s.Players[1].ID)
}

func TestApplyJoinIgnoresDuplicate(t *testing.T) {
	host := mpPlayer("Host")
	s := newTestSession(host)

	s = Apply(s, model.JoinEvent(host))

	assert.Len(t, s.Players, 1)
}

func TestApplyLeaveKeepsRowButDisconnects(t *testing.T) {
	host := mpPlayer("Host")
	guest := mpPlayer("Guest")
	s := newTestSession(host)
	s = Apply(s, model.JoinEvent(guest))

	s = Apply(s, model.LeaveEvent(guest.ID))

	require.Len(t, s.Players, 2)
	assert.False(t, s.Players[1].IsConnected)
}

func TestApplySetCategory(t *testing.T) {
	host := mpPlayer("Host")
	s := newTestSession(host)

	s = Apply(s, model.SetCategoryEvent(host.ID, "Shoes"))

	require.NotNil(t, s.Players[0].SelectedCategory)
	assert.Equal(t, "Shoes", *s.Players[0].SelectedCategory)
}

func TestApplyStartPickingClearsEveryPick(t *testing.T) {
	host := mpPlayer("Host")
	guest := mpPlayer("Guest")
	s := newTestSession(host)
	s = Apply(s, model.JoinEvent(guest))
	s = Apply(s, model.SetCategoryEvent(host.ID, "Shoes"))
	s = Apply(s, model.SetCategoryEvent(guest.ID, "Pets"))

	deadline := time.Date(2025, 8, 29, 20, 5, 0, 0, time.UTC)
	s = Apply(s, model.StartPickingEvent(2, deadline))

	assert.Equal(t, 2, s.Round)
	assert.Equal(t, model.SessionStatusPicking, s.Status)
	for _, p := range s.Players {
		assert.Nil(t, p.SelectedCategory)
	}
}

func TestApplyStartJudging(t *testing.T) {
	host := mpPlayer("Host")
	s := newTestSession(host)

	s = Apply(s, model.StartJudgingEvent(2, time.Now().Add(30*time.Second)))

	assert.Equal(t, 2, s.Round)
	assert.Equal(t, model.SessionStatusJudging, s.Status)
}

func TestApplyAwardPointsAccumulates(t *testing.T) {
	host := mpPlayer("Host")
	guest := mpPlayer("Guest")
	s := newTestSession(host)
	s = Apply(s, model.JoinEvent(guest))

	s = Apply(s, model.AwardPointsEvent(map[uuid.UUID]int{guest.ID: 3}))
	s = Apply(s, model.AwardPointsEvent(map[uuid.UUID]int{guest.ID: 1, host.ID: 5}))

	assert.Equal(t, 4, s.GetPlayer(guest.ID).SessionScore)
	assert.Equal(t, 5, s.GetPlayer(host.ID).SessionScore)
}

func TestApplyAwardPointsUnknownPlayerIsNoOp(t *testing.T) {
	host := mpPlayer("Host")
	s := newTestSession(host)

	s = Apply(s, model.AwardPointsEvent(map[uuid.UUID]int{uuid.New(): 3}))

	assert.Zero(t, s.Players[0].SessionScore)
}

func TestApplyEndRoundAndEndGame(t *testing.T) {
	host := mpPlayer("Host")
	s := newTestSession(host)

	s = Apply(s, model.EndRoundEvent(1))
	assert.Equal(t, model.SessionStatusPlaying, s.Status)

	s = Apply(s, model.EndGameEvent())
	assert.Equal(t, model.SessionStatusEnded, s.Status)
}

func TestApplySyncFullReplacesSession(t *testing.T) {
	host := mpPlayer("Host")
	s := newTestSession(host)

	replacement := *newTestSession(mpPlayer("Other"))
	replacement.Code = "QRST"
	replacement.Status = model.SessionStatusJudging

	s = Apply(s, model.SyncFullEvent(replacement))

	assert.Equal(t, "QRST", s.Code)
	assert.Equal(t, model.SessionStatusJudging, s.Status)
}

// Application is total: events in unexpected states still apply
func TestApplyIsTotalInAnyState(t *testing.T) {
	host := mpPlayer("Host")
	s := newTestSession(host)
	s.Status = model.SessionStatusEnded

	s = Apply(s, model.SetCategoryEvent(host.ID, "Pets"))
	require.NotNil(t, s.Players[0].SelectedCategory)

	s = Apply(s, model.StartPickingEvent(5, time.Now()))
	assert.Equal(t, model.SessionStatusPicking, s.Status)
}

// Replicas applying the same ordered stream converge
func TestApplyConvergesAcrossReplicas(t *testing.T) {
	host := mpPlayer("Host")
	a := mpPlayer("A")
	b := mpPlayer("B")

	deadline := time.Date(2025, 8, 29, 20, 5, 0, 0, time.UTC)
	events := []model.Event{
		model.JoinEvent(a),
		model.JoinEvent(b),
		model.StartPickingEvent(1, deadline),
		model.SetCategoryEvent(a.ID, "Shoes"),
		model.SetCategoryEvent(b.ID, "Shoes"),
		model.StartJudgingEvent(1, deadline.Add(time.Minute)),
		model.AwardPointsEvent(map[uuid.UUID]int{a.ID: 3}),
		model.EndRoundEvent(1),
	}

	replicas := make([]*model.Session, 3)
	for i := range replicas {
		replicas[i] = newTestSession(host)
		for _, e := range events {
			replicas[i] = Apply(replicas[i], e)
		}
	}

	assert.Equal(t, replicas[0], replicas[1])
	assert.Equal(t, replicas[0], replicas[2])
	assert.Equal(t, 3, replicas[0].GetPlayer(a.ID).SessionScore)
	assert.Equal(t, model.SessionStatusPlaying, replicas[0].Status)
}

// A late joiner seeded by syncFull matches a replica that saw every event
func TestLateJoinerSyncMatchesFullHistory(t *testing.T) {
	host := mpPlayer("Host")
	a := mpPlayer("A")

	events := []model.Event{
		model.JoinEvent(a),
		model.StartPickingEvent(1, time.Date(2025, 8, 29, 20, 5, 0, 0, time.UTC)),
		model.SetCategoryEvent(a.ID, "Jewelry"),
	}

	full := newTestSession(host)
	for _, e := range events {
		full = Apply(full, e)
	}

	late := Apply(&model.Session{}, model.SyncFullEvent(*full))
	assert.Equal(t, full, late)
}
