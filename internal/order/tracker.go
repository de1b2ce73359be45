// Package order tracks confirmed orders from confirmation until the
// customer is told the drink is ready.
package order

import (
	"errors"
	"log"
	"sync"
	"time"

	"barista-bot/internal/session"
	"barista-bot/internal/storage"
)

// ErrNotFound is returned when an order id is absent for the customer:
// the order was already handled, or the token targets a stale entry.
var ErrNotFound = errors.New("order not found")

type Status int

const (
	StatusPending Status = iota
	StatusAcknowledged
)

// Record is one confirmed order. ChatID is where the customer gets
// preparation and readiness notifications.
type Record struct {
	ID          int64
	Customer    string
	ChatID      int64
	Description string
	Status      Status
	CreatedAt   time.Time
}

// Notifier delivers a plain text message to a chat.
type Notifier interface {
	SendText(chatID int64, text string) error
}

// Tracker is the process-wide registry of open orders. All mutations go
// through one mutex; notifications are sent after the mutation, outside
// the lock, so a delivery failure never rolls the transition back.
type Tracker struct {
	mu       sync.Mutex
	notifier Notifier
	recorder storage.Recorder
	orders   map[string][]*Record
	queue    []string
	lastID   int64
}

func NewTracker(notifier Notifier, recorder storage.Recorder) *Tracker {
	return &Tracker{
		notifier: notifier,
		recorder: recorder,
		orders:   make(map[string][]*Record),
	}
}

// Confirm registers a completed session as a pending order and returns the
// new record. Order ids are creation timestamps, bumped when two
// confirmations land in the same second, so ids stay unique and monotonic.
func (t *Tracker) Confirm(s session.Session) Record {
	t.mu.Lock()
	id := time.Now().Unix()
	if id <= t.lastID {
		id = t.lastID + 1
	}
	t.lastID = id
	rec := &Record{
		ID:          id,
		Customer:    s.Customer,
		ChatID:      s.ChatID,
		Description: s.Summary(),
		Status:      StatusPending,
		CreatedAt:   time.Now(),
	}
	if _, ok := t.orders[s.Customer]; !ok {
		t.queue = append(t.queue, s.Customer)
	}
	t.orders[s.Customer] = append(t.orders[s.Customer], rec)
	out := *rec
	t.mu.Unlock()

	t.record(out, "confirmed")
	return out
}

// ListOpen returns all open orders: customers in first-seen order, each
// customer's orders in insertion order.
func (t *Tracker) ListOpen() []Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Record
	for _, customer := range t.queue {
		for _, rec := range t.orders[customer] {
			out = append(out, *rec)
		}
	}
	return out
}

// Acknowledge moves a pending order to acknowledged and tells the customer
// preparation has started. A repeated acknowledge observes ErrNotFound, so
// the customer is never notified twice.
func (t *Tracker) Acknowledge(customer string, orderID int64) error {
	t.mu.Lock()
	rec := t.find(customer, orderID)
	if rec == nil || rec.Status != StatusPending {
		t.mu.Unlock()
		return ErrNotFound
	}
	rec.Status = StatusAcknowledged
	out := *rec
	t.mu.Unlock()

	t.record(out, "accepted")
	if err := t.notifier.SendText(out.ChatID, "Ваш заказ принят в работу! ☕"); err != nil {
		log.Printf("failed to notify %s about accepted order %d: %v", out.Customer, out.ID, err)
	}
	return nil
}

// MarkReady removes the order and tells the customer it is ready. The
// second of two concurrent calls observes ErrNotFound.
func (t *Tracker) MarkReady(customer string, orderID int64) error {
	t.mu.Lock()
	rec := t.find(customer, orderID)
	if rec == nil {
		t.mu.Unlock()
		return ErrNotFound
	}
	t.remove(customer, orderID)
	out := *rec
	t.mu.Unlock()

	t.record(out, "ready")
	if err := t.notifier.SendText(out.ChatID, "Ваш заказ готов! Можно забирать."); err != nil {
		log.Printf("failed to notify %s about ready order %d: %v", out.Customer, out.ID, err)
	}
	return nil
}

// find and remove expect t.mu held.
func (t *Tracker) find(customer string, orderID int64) *Record {
	for _, rec := range t.orders[customer] {
		if rec.ID == orderID {
			return rec
		}
	}
	return nil
}

// remove drops one record and prunes the customer entry when it was the
// last one, so "no active orders" checks stay accurate.
func (t *Tracker) remove(customer string, orderID int64) {
	recs := t.orders[customer]
	out := recs[:0]
	for _, rec := range recs {
		if rec.ID != orderID {
			out = append(out, rec)
		}
	}
	if len(out) == 0 {
		delete(t.orders, customer)
		for i, c := range t.queue {
			if c == customer {
				t.queue = append(t.queue[:i], t.queue[i+1:]...)
				break
			}
		}
		return
	}
	t.orders[customer] = out
}

func (t *Tracker) record(rec Record, action string) {
	if t.recorder == nil {
		return
	}
	_ = t.recorder.AppendEvent(storage.Event{
		Timestamp:   time.Now().UTC(),
		OrderID:     rec.ID,
		Customer:    rec.Customer,
		Action:      action,
		Description: rec.Description,
	})
}
