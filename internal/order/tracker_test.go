package order

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barista-bot/internal/session"
	"barista-bot/internal/storage"
)

type sentText struct {
	chatID int64
	text   string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentText
}

func (f *fakeNotifier) SendText(chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentText{chatID: chatID, text: text})
	return nil
}

type memRecorder struct {
	mu     sync.Mutex
	events []storage.Event
}

func (r *memRecorder) AppendEvent(ev storage.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *memRecorder) LoadEvents() ([]storage.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]storage.Event{}, r.events...), nil
}

func confirmedSession(customer string, chatID int64) session.Session {
	return session.Session{
		Customer: customer, ChatID: chatID,
		Drink: "Эспрессо", Milk: session.None,
		Syrup1: session.None, Syrup2: session.None,
		Volume: "250", Temperature: "горячий",
	}
}

func TestConfirmAssignsUniqueIDsConcurrently(t *testing.T) {
	tr := NewTracker(&fakeNotifier{}, nil)

	const n = 50
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := tr.Confirm(confirmedSession(fmt.Sprintf("user_%d", i), int64(i)))
			ids <- rec.ID
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate order id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
	assert.Len(t, tr.ListOpen(), n)
}

func TestAcknowledgeThenReadyNotifiesInOrderAndRemoves(t *testing.T) {
	fn := &fakeNotifier{}
	tr := NewTracker(fn, nil)
	rec := tr.Confirm(confirmedSession("walker", 100))

	require.NoError(t, tr.Acknowledge("walker", rec.ID))
	require.NoError(t, tr.MarkReady("walker", rec.ID))

	require.Len(t, fn.sent, 2)
	assert.Equal(t, int64(100), fn.sent[0].chatID)
	assert.Contains(t, fn.sent[0].text, "принят в работу")
	assert.Equal(t, int64(100), fn.sent[1].chatID)
	assert.Contains(t, fn.sent[1].text, "готов")

	assert.Empty(t, tr.ListOpen())
}

func TestMarkReadyIsAtMostOnce(t *testing.T) {
	fn := &fakeNotifier{}
	tr := NewTracker(fn, nil)
	rec := tr.Confirm(confirmedSession("walker", 100))

	require.NoError(t, tr.MarkReady("walker", rec.ID))
	assert.ErrorIs(t, tr.MarkReady("walker", rec.ID), ErrNotFound)
	assert.Len(t, fn.sent, 1, "customer must get exactly one ready notification")
}

func TestAcknowledgeIsAtMostOnce(t *testing.T) {
	fn := &fakeNotifier{}
	tr := NewTracker(fn, nil)
	rec := tr.Confirm(confirmedSession("walker", 100))

	require.NoError(t, tr.Acknowledge("walker", rec.ID))
	assert.ErrorIs(t, tr.Acknowledge("walker", rec.ID), ErrNotFound)
	assert.Len(t, fn.sent, 1)

	// the order itself is still open
	require.Len(t, tr.ListOpen(), 1)
	assert.Equal(t, StatusAcknowledged, tr.ListOpen()[0].Status)
}

func TestLookupsForUnknownPairsSignalNotFound(t *testing.T) {
	tr := NewTracker(&fakeNotifier{}, nil)
	rec := tr.Confirm(confirmedSession("walker", 100))

	assert.ErrorIs(t, tr.Acknowledge("stranger", rec.ID), ErrNotFound)
	assert.ErrorIs(t, tr.MarkReady("walker", rec.ID+1), ErrNotFound)
	assert.Len(t, tr.ListOpen(), 1)
}

func TestListOpenKeepsCustomerAndInsertionOrder(t *testing.T) {
	tr := NewTracker(&fakeNotifier{}, nil)
	a1 := tr.Confirm(confirmedSession("alice", 1))
	b1 := tr.Confirm(confirmedSession("bob", 2))
	a2 := tr.Confirm(confirmedSession("alice", 1))

	recs := tr.ListOpen()
	require.Len(t, recs, 3)
	assert.Equal(t, []int64{a1.ID, a2.ID, b1.ID}, []int64{recs[0].ID, recs[1].ID, recs[2].ID})
	assert.Equal(t, "alice", recs[0].Customer)
	assert.Equal(t, "bob", recs[2].Customer)
}

func TestEmptyCustomerEntriesArePruned(t *testing.T) {
	tr := NewTracker(&fakeNotifier{}, nil)
	a1 := tr.Confirm(confirmedSession("alice", 1))
	tr.Confirm(confirmedSession("bob", 2))

	require.NoError(t, tr.MarkReady("alice", a1.ID))

	recs := tr.ListOpen()
	require.Len(t, recs, 1)
	assert.Equal(t, "bob", recs[0].Customer)

	// alice re-enters at the back of the queue
	tr.Confirm(confirmedSession("alice", 1))
	recs = tr.ListOpen()
	require.Len(t, recs, 2)
	assert.Equal(t, "bob", recs[0].Customer)
	assert.Equal(t, "alice", recs[1].Customer)
}

func TestLifecycleEventsAreRecorded(t *testing.T) {
	mr := &memRecorder{}
	tr := NewTracker(&fakeNotifier{}, mr)
	rec := tr.Confirm(confirmedSession("walker", 100))

	require.NoError(t, tr.Acknowledge("walker", rec.ID))
	require.NoError(t, tr.MarkReady("walker", rec.ID))

	events, err := mr.LoadEvents()
	require.NoError(t, err)
	require.Len(t, events, 3)
	var actions []string
	for _, ev := range events {
		assert.Equal(t, rec.ID, ev.OrderID)
		assert.Equal(t, "walker", ev.Customer)
		actions = append(actions, ev.Action)
	}
	assert.Equal(t, "confirmed accepted ready", strings.Join(actions, " "))
	assert.Contains(t, events[0].Description, "Эспрессо")
}
