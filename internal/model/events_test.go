package model

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalEvent(t *testing.T, e Event) string {
	t.Helper()
	data, err := json.Marshal(e)
	require.NoError(t, err)
	return string(data)
}

func TestStartJudgingWireShape(t *testing.T) {
	deadline := time.Date(2025, 8, 29, 20, 5, 0, 0, time.UTC)

	got := marshalEvent(t, StartJudgingEvent(3, deadline))

	assert.JSONEq(t,
		`{"type":"startJudging","round":3,"deadline":"2025-08-29T20:05:00Z"}`,
		got)
}

func TestStartPickingWireShape(t *testing.T) {
	deadline := time.Date(2025, 8, 29, 20, 5, 0, 0, time.UTC)

	got := marshalEvent(t, StartPickingEvent(2, deadline))

	assert.JSONEq(t,
		`{"type":"startPicking","round":2,"deadline":"2025-08-29T20:05:00Z"}`,
		got)
}

func TestSetCategoryWireShape(t *testing.T) {
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")

	got := marshalEvent(t, SetCategoryEvent(id, "Shoes"))

	assert.JSONEq(t, fmt.Sprintf(
		`{"type":"setCategory","playerID":%q,"category":"Shoes"}`, id),
		got)
}

func TestEndGameWireShapeOmitsUnusedFields(t *testing.T) {
	got := marshalEvent(t, EndGameEvent())

	assert.JSONEq(t, `{"type":"endGame"}`, got)
}

func TestEventRoundTrip(t *testing.T) {
	id := uuid.New()
	sent := AwardPointsEvent(map[uuid.UUID]int{id: 3})

	var received Event
	require.NoError(t, json.Unmarshal([]byte(marshalEvent(t, sent)), &received))

	assert.Equal(t, EventAwardPoints, received.Type)
	assert.Equal(t, map[uuid.UUID]int{id: 3}, received.Awards)
}
