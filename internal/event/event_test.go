package event

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	before := time.Now().UTC()
	ev := New(TypeCreated, EntityExpense, map[string]string{"id": "abc"})

	assert.Equal(t, "expense.created", ev.Type)
	assert.Equal(t, EntityExpense, ev.Entity)
	assert.False(t, ev.Timestamp.Before(before))
}

func TestExpenseHelpers(t *testing.T) {
	assert.Equal(t, "expense.created", ExpenseCreated(nil).Type)
	assert.Equal(t, "expense.updated", ExpenseUpdated(nil).Type)
	assert.Equal(t, "expense.deleted", ExpenseDeleted(nil).Type)
}

func TestEvent_ToJSON(t *testing.T) {
	ev := ExpenseDeleted(map[string]string{"id": "abc"})

	data, err := ev.ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "expense.deleted", decoded["type"])
	assert.Equal(t, "expense", decoded["entity"])
	assert.Equal(t, "abc", decoded["payload"].(map[string]any)["id"])
	assert.Contains(t, decoded, "timestamp")
}

type recorder struct {
	owners []uuid.UUID
	events []Event
}

func (r *recorder) Publish(ownerID uuid.UUID, ev Event) {
	r.owners = append(r.owners, ownerID)
	r.events = append(r.events, ev)
}

func TestMulti_FansOut(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	owner := uuid.New()

	Multi{a, NoOp{}, b}.Publish(owner, ExpenseCreated(nil))

	require.Len(t, a.events, 1)
	require.Len(t, b.events, 1)
	assert.Equal(t, owner, a.owners[0])
	assert.Equal(t, "expense.created", b.events[0].Type)
}
