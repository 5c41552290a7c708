package live

import (
	"encoding/json"
	"testing"

	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryFromParams(t *testing.T) {
	q := queryFromParams("notifications", map[string]string{
		"token": "secret",
		"type":  "event_comment",
		"read":  "false",
		"order": "created_at",
		"asc":   "true",
		"limit": "20",
	})

	assert.Equal(t, "notifications", q.Table)
	assert.Equal(t, map[string]any{"type": "event_comment", "read": false}, q.Filters)
	require.NotNil(t, q.Order)
	assert.Equal(t, "created_at", q.Order.Column)
	assert.False(t, q.Order.Descending())
	assert.Equal(t, 20, q.Limit)
}

func TestQueryFromParamsDefaultsToAscending(t *testing.T) {
	q := queryFromParams("comments", map[string]string{"order": "created_at"})

	require.NotNil(t, q.Order)
	assert.Nil(t, q.Order.Ascending)
	assert.False(t, q.Order.Descending())
	assert.Empty(t, q.Filters)
	assert.Zero(t, q.Limit)

	q = queryFromParams("comments", map[string]string{"order": "created_at", "asc": "false"})
	assert.True(t, q.Order.Descending())
}

func TestRequestOrderDefaultsToAscending(t *testing.T) {
	var req request
	require.NoError(t, json.Unmarshal([]byte(`{"order":{"column":"date"}}`), &req))
	require.NotNil(t, req.Order)
	assert.False(t, req.Order.Descending())

	require.NoError(t, json.Unmarshal([]byte(`{"order":{"column":"date","ascending":false}}`), &req))
	assert.True(t, req.Order.Descending())
}

func TestScopePinsOwnedTablesToCaller(t *testing.T) {
	student := dto.Session{UserID: "u1", Role: entity.Student}
	q := dto.Query{Table: "notifications", Filters: map[string]any{"user_id": "someone-else", "read": false}}

	scoped := scope(owned, student, q)

	assert.Equal(t, "u1", scoped.Filters["user_id"])
	assert.Equal(t, false, scoped.Filters["read"])
	assert.Equal(t, "someone-else", q.Filters["user_id"], "input query is not modified")
}

func TestScopeLeavesAdminsAndPublicTables(t *testing.T) {
	admin := dto.Session{UserID: "a1", Role: entity.Admin}
	q := dto.Query{Table: "reminders", Filters: map[string]any{"user_id": "u2"}}
	assert.Equal(t, "u2", scope(owned, admin, q).Filters["user_id"])

	student := dto.Session{UserID: "u1", Role: entity.Student}
	events := dto.Query{Table: "events"}
	assert.Nil(t, scope(public, student, events).Filters)
}

func TestCanWatchRow(t *testing.T) {
	student := dto.Session{UserID: "u1", Role: entity.Student}
	admin := dto.Session{UserID: "a1", Role: entity.Admin}

	assert.True(t, canWatchRow(public, student, "event-1"))
	assert.True(t, canWatchRow(self, student, "u1"))
	assert.False(t, canWatchRow(self, student, "u2"))
	assert.True(t, canWatchRow(self, admin, "u2"))
	assert.False(t, canWatchRow(owned, student, "reminder-1"))
	assert.True(t, canWatchRow(owned, admin, "reminder-1"))
}
