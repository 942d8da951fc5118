package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/bulbousnub/wats-go/internal/dependencies/mocks"
	"github.com/bulbousnub/wats-go/internal/model"
	"github.com/bulbousnub/wats-go/internal/testutil"
)

type StoreSuite struct {
	suite.Suite
	dir   string
	path  string
	clock *mocks.MockClock
	store *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.path = filepath.Join(s.dir, DataFileName)
	s.clock = mocks.NewMockClock(time.Date(2025, 8, 29, 20, 0, 0, 0, time.UTC))
	s.store = New(s.path, testutil.NopLogger())
}

// reopen simulates an app restart against the same data file
func (s *StoreSuite) reopen() {
	s.store = New(s.path, testutil.NopLogger())
}

// seedFile writes raw JSON to the data file before the store loads it
func (s *StoreSuite) seedFile(raw string) {
	s.Require().NoError(os.WriteFile(s.path, []byte(raw), 0o644))
	s.reopen()
}

func (s *StoreSuite) primary() model.Player {
	p := s.store.PrimaryPlayer()
	s.Require().NotEqual(uuid.Nil, p.ID)
	return p
}

// Fresh install

func (s *StoreSuite) TestFreshInstallSeedsDefaults() {
	players := s.store.Players()
	s.Len(players, 2)
	s.Equal(model.PrimaryUserName, players[0].Name)
	s.Equal("Shay", players[1].Name)
	s.True(players[0].IsActive)
	s.Zero(players[0].AllTimeScore)

	s.Len(s.store.Categories(), 20)
	s.Empty(s.store.Games())
	s.True(s.store.BonusFastestEnabled())
	s.True(s.store.BonusWildcardEnabled())
	s.Nil(s.store.InProgress())
}

func (s *StoreSuite) TestFreshInstallWritesFile() {
	_, err := os.Stat(s.path)
	s.NoError(err)
}

func (s *StoreSuite) TestCorruptFileKeepsDefaults() {
	s.seedFile(`{"players": [not json`)
	s.Len(s.store.Players(), 2)
	s.Len(s.store.Categories(), 20)
}

// Migration

func (s *StoreSuite) TestLegacyYouIsMergedIntoPrimary() {
	s.seedFile(`{
		"players": [
			{"id":"11111111-1111-1111-1111-111111111111","name":"You","isActive":true,"allTimeScore":7},
			{"id":"22222222-2222-2222-2222-222222222222","name":"TeJay","isActive":true,"allTimeScore":3}
		],
		"categories": [], "games": [],
		"enableBonusFastest": true, "enableBonusWildcard": true
	}`)

	players := s.store.Players()
	s.Require().Len(players, 1)
	s.Equal(model.PrimaryUserName, players[0].Name)
	s.Equal(10, players[0].AllTimeScore)
	s.True(players[0].IsActive)
}

func (s *StoreSuite) TestLegacyYouMergeORsActiveFlags() {
	s.seedFile(`{
		"players": [
			{"id":"11111111-1111-1111-1111-111111111111","name":"You","isActive":true,"allTimeScore":0},
			{"id":"22222222-2222-2222-2222-222222222222","name":"TeJay","isActive":false,"allTimeScore":0}
		]
	}`)

	players := s.store.Players()
	s.Require().Len(players, 1)
	s.True(players[0].IsActive)
}

func (s *StoreSuite) TestLegacyYouIsRenamedWhenNoPrimary() {
	s.seedFile(`{
		"players": [
			{"id":"11111111-1111-1111-1111-111111111111","name":"You","isActive":true,"allTimeScore":4}
		]
	}`)

	players := s.store.Players()
	s.Require().Len(players, 1)
	s.Equal(model.PrimaryUserName, players[0].Name)
	s.Equal(4, players[0].AllTimeScore)
	s.Equal(uuid.MustParse("11111111-1111-1111-1111-111111111111"), players[0].ID)
}

func (s *StoreSuite) TestMissingPrimaryIsCreated() {
	s.seedFile(`{
		"players": [
			{"id":"33333333-3333-3333-3333-333333333333","name":"Alex","isActive":true,"allTimeScore":1}
		]
	}`)

	count := 0
	for _, p := range s.store.Players() {
		if p.IsPrimary() {
			count++
		}
	}
	s.Equal(1, count)
}

func (s *StoreSuite) TestExactlyOnePrimaryAfterEveryLoad() {
	for _, raw := range []string{
		`{}`,
		`{"players": []}`,
		`{"players": [{"id":"22222222-2222-2222-2222-222222222222","name":"tejay","isActive":true,"allTimeScore":0}]}`,
	} {
		s.seedFile(raw)
		count := 0
		for _, p := range s.store.Players() {
			if p.IsPrimary() {
				count++
			}
		}
		s.Equal(1, count, "blob: %s", raw)
	}
}

func (s *StoreSuite) TestMigrationIsPersisted() {
	s.seedFile(`{
		"players": [
			{"id":"11111111-1111-1111-1111-111111111111","name":"You","isActive":true,"allTimeScore":7}
		]
	}`)

	// The normalized form must be the on-disk state now
	data, err := os.ReadFile(s.path)
	s.Require().NoError(err)
	var blob model.PersistBlob
	s.Require().NoError(json.Unmarshal(data, &blob))
	s.Require().Len(blob.Players, 1)
	s.Equal(model.PrimaryUserName, blob.Players[0].Name)
}

// Player operations

func (s *StoreSuite) TestAddPlayerTrimsWhitespace() {
	s.store.AddPlayer("  Alex  ")
	_, ok := s.findByName("Alex")
	s.True(ok)
}

func (s *StoreSuite) TestAddPlayerRejectsEmpty() {
	before := len(s.store.Players())
	s.store.AddPlayer("   ")
	s.Len(s.store.Players(), before)
}

func (s *StoreSuite) TestAddPlayerReactivatesCaseInsensitiveMatch() {
	s.store.AddPlayer("Alex")
	p, _ := s.findByName("Alex")
	s.store.RemovePlayer(p.ID)

	s.store.AddPlayer("ALEX")

	got, ok := s.findByName("Alex")
	s.Require().True(ok)
	s.True(got.IsActive)
	s.Equal(p.ID, got.ID)
}

func (s *StoreSuite) TestAddPlayerNormalizesYouToPrimary() {
	before := len(s.store.Players())
	s.store.AddPlayer("you")
	s.Len(s.store.Players(), before)
	s.True(s.primary().IsActive)
}

func (s *StoreSuite) TestSetActiveOnPrimaryIsNoOp() {
	p := s.primary()
	s.store.SetActive(p.ID, false)
	s.True(s.primary().IsActive)
}

func (s *StoreSuite) TestRemovePlayerOnPrimaryIsNoOp() {
	p := s.primary()
	s.store.RemovePlayer(p.ID)
	s.True(s.primary().IsActive)
}

func (s *StoreSuite) TestRemovePlayerIsSoft() {
	s.store.AddPlayer("Alex")
	p, _ := s.findByName("Alex")
	s.store.RemovePlayer(p.ID)

	got, ok := s.findByName("Alex")
	s.Require().True(ok)
	s.False(got.IsActive)
}

func (s *StoreSuite) TestRenamePlayerKeepsPrimaryGuarded() {
	p := s.primary()
	s.store.RenamePlayer(p.ID, "Somebody")
	s.Equal(model.PrimaryUserName, s.primary().Name)

	s.store.AddPlayer("Alex")
	alex, _ := s.findByName("Alex")
	s.store.RenamePlayer(alex.ID, "tejay")
	_, still := s.findByName("Alex")
	s.True(still)
}

func (s *StoreSuite) TestAddPointsAllowsNegativeTotals() {
	p := s.primary()
	s.store.AddPoints(-5, p.ID)
	s.Equal(-5, s.primary().AllTimeScore)
}

func (s *StoreSuite) TestResetAllTimeZeroesEveryPlayer() {
	s.store.AddPlayer("Alex")
	for _, p := range s.store.Players() {
		s.store.AddPoints(9, p.ID)
	}
	s.store.ResetAllTime()
	for _, p := range s.store.Players() {
		s.Zero(p.AllTimeScore)
	}
}

// Game history

func (s *StoreSuite) TestAddGamePrependsNewestFirst() {
	first := model.GameRecord{ID: uuid.New(), Start: s.clock.Now(), End: s.clock.Now(), Rounds: 1}
	second := model.GameRecord{ID: uuid.New(), Start: s.clock.Now(), End: s.clock.Now(), Rounds: 2}
	s.store.AddGame(first)
	s.store.AddGame(second)

	games := s.store.Games()
	s.Require().Len(games, 2)
	s.Equal(second.ID, games[0].ID)
	s.Equal(first.ID, games[1].ID)
}

func (s *StoreSuite) TestClearRecentGamesKeepsPlayers() {
	s.store.AddGame(model.GameRecord{ID: uuid.New(), Start: s.clock.Now(), End: s.clock.Now()})
	s.store.ClearRecentGames()
	s.Empty(s.store.Games())
	s.Len(s.store.Players(), 2)
}

// In-progress snapshot

func (s *StoreSuite) TestUpdateInProgressPreservesParticipantOrder() {
	a, b := uuid.New(), uuid.New()
	s.store.UpdateInProgress(
		[]uuid.UUID{b, a},
		map[uuid.UUID]int{a: 3, b: 1},
		2,
		s.clock.Now(),
		nil,
	)

	ip := s.store.InProgress()
	s.Require().NotNil(ip)
	s.Equal([]uuid.UUID{b, a}, ip.ParticipantIDs)
	s.Equal([]model.PlayerScore{{ID: b, Score: 1}, {ID: a, Score: 3}}, ip.Scores)
	s.Equal(2, ip.Round)
}

func (s *StoreSuite) TestClearInProgress() {
	s.store.UpdateInProgress([]uuid.UUID{uuid.New()}, nil, 1, s.clock.Now(), nil)
	s.store.ClearInProgress()
	s.Nil(s.store.InProgress())
}

// Persistence round-trip

func (s *StoreSuite) TestStateSurvivesRestart() {
	s.store.AddPlayer("Alex")
	alex, _ := s.findByName("Alex")
	s.store.AddPoints(12, alex.ID)
	s.store.AddCategory("Vacuums")
	s.store.SetBonusWildcard(false)
	s.store.UpdateInProgress([]uuid.UUID{alex.ID}, map[uuid.UUID]int{alex.ID: 5}, 3, s.clock.Now(), nil)
	before := s.store.Blob()

	s.reopen()

	s.Equal(before, s.store.Blob())
}

func (s *StoreSuite) TestBlobRoundTrip() {
	s.store.AddPlayer("Alex")
	s.store.AddGame(model.GameRecord{
		ID: uuid.New(), Start: s.clock.Now(), End: s.clock.Now().Add(time.Hour),
		Rounds:  2,
		Entries: []model.GameEntry{{PlayerName: "Alex", Score: 4}},
		RoundsDetail: []model.RoundSnapshot{{
			ID: uuid.New(), Index: 1,
			Entries: []model.RoundEntry{{ID: uuid.New(), Name: "Alex", Delta: 4}},
		}},
	})
	blob := s.store.Blob()

	data, err := json.Marshal(&blob)
	s.Require().NoError(err)
	var decoded model.PersistBlob
	s.Require().NoError(json.Unmarshal(data, &decoded))
	s.Equal(blob, decoded)
}

// Forward / backward compatibility

func (s *StoreSuite) TestUnknownFieldsAreIgnored() {
	s.seedFile(`{
		"players": [{"id":"22222222-2222-2222-2222-222222222222","name":"TeJay","isActive":true,"allTimeScore":3}],
		"futureFeature": {"nested": [1,2,3]},
		"anotherThing": "yes"
	}`)
	s.Equal(3, s.primary().AllTimeScore)
}

func (s *StoreSuite) TestPlayerMissingActiveFlagDefaultsToActive() {
	s.seedFile(`{
		"players": [
			{"id":"22222222-2222-2222-2222-222222222222","name":"TeJay","isActive":true,"allTimeScore":0},
			{"id":"33333333-3333-3333-3333-333333333333","name":"Alex","allTimeScore":2}
		]
	}`)

	players := s.store.Players()
	s.Require().Len(players, 2)
	s.Equal("Alex", players[1].Name)
	s.True(players[1].IsActive)
	s.Equal(2, players[1].AllTimeScore)
}

func (s *StoreSuite) TestMissingOptionalFieldsTakeDefaults() {
	s.seedFile(`{"players": [{"id":"22222222-2222-2222-2222-222222222222","name":"TeJay","isActive":true,"allTimeScore":0}]}`)
	s.Empty(s.store.Games())
	s.True(s.store.BonusFastestEnabled())
	s.True(s.store.BonusWildcardEnabled())
	s.Nil(s.store.InProgress())
}

func (s *StoreSuite) TestLegacyGameDateFieldMapsToStartAndEnd() {
	s.seedFile(`{
		"players": [{"id":"22222222-2222-2222-2222-222222222222","name":"TeJay","isActive":true,"allTimeScore":0}],
		"games": [{"id":"44444444-4444-4444-4444-444444444444","date":"2024-06-01T19:30:00Z","rounds":3,"entries":[]}]
	}`)

	games := s.store.Games()
	s.Require().Len(games, 1)
	want := time.Date(2024, 6, 1, 19, 30, 0, 0, time.UTC)
	s.Equal(want, games[0].Start)
	s.Equal(want, games[0].End)
	s.Equal(3, games[0].Rounds)
}

func (s *StoreSuite) TestRoundEntryMissingNameDefaults() {
	s.seedFile(`{
		"players": [{"id":"22222222-2222-2222-2222-222222222222","name":"TeJay","isActive":true,"allTimeScore":0}],
		"games": [{"id":"44444444-4444-4444-4444-444444444444","date":"2024-06-01T19:30:00Z","rounds":1,"entries":[],
			"roundsDetail":[{"id":"55555555-5555-5555-5555-555555555555","index":1,
				"entries":[{"id":"22222222-2222-2222-2222-222222222222","delta":3}]}]}]
	}`)

	games := s.store.Games()
	s.Require().Len(games, 1)
	s.Require().Len(games[0].RoundsDetail, 1)
	s.Equal("Player", games[0].RoundsDetail[0].Entries[0].Name)
}

// Backup

func (s *StoreSuite) TestExportReturnsCanonicalFile() {
	s.Equal(s.path, s.store.ExportPath())
}

func (s *StoreSuite) TestImportReplacesStateAndMigrates() {
	backup := filepath.Join(s.dir, "backup.json")
	s.Require().NoError(os.WriteFile(backup, []byte(`{
		"players": [{"id":"11111111-1111-1111-1111-111111111111","name":"You","isActive":true,"allTimeScore":9}],
		"categories": ["Only One"],
		"games": [],
		"enableBonusFastest": false,
		"enableBonusWildcard": true
	}`), 0o644))

	s.Require().NoError(s.store.Import(backup))

	players := s.store.Players()
	s.Require().Len(players, 1)
	s.Equal(model.PrimaryUserName, players[0].Name)
	s.Equal(9, players[0].AllTimeScore)
	s.Equal([]string{"Only One"}, s.store.Categories())
	s.False(s.store.BonusFastestEnabled())
}

func (s *StoreSuite) TestImportDecodeFailureLeavesStateUntouched() {
	s.store.AddPlayer("Alex")
	before := s.store.Blob()

	bad := filepath.Join(s.dir, "bad.json")
	s.Require().NoError(os.WriteFile(bad, []byte(`{"players": "nope"}`), 0o644))

	err := s.store.Import(bad)
	s.ErrorIs(err, model.ErrBackupDecode)
	s.Equal(before, s.store.Blob())
}

// Observers

func (s *StoreSuite) TestMutationsNotifyObservers() {
	ch := s.store.Subscribe()
	s.store.AddPlayer("Alex")
	select {
	case <-ch:
	default:
		s.Fail("expected a change notification")
	}
}

func (s *StoreSuite) findByName(name string) (model.Player, bool) {
	for _, p := range s.store.Players() {
		if p.Name == name {
			return p, true
		}
	}
	return model.Player{}, false
}
