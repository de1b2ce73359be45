package session

import (
	"fmt"
	"sync"

	"barista-bot/internal/menu"
)

// Step is the customer's current position in the order dialogue.
type Step int

const (
	StepSelectDrinkType Step = iota
	StepSelectDrink
	StepSelectMilk
	StepApproveSyrupCount
	StepSelectSyrup1
	StepSelectSyrup2
	StepSelectVolume
	StepSelectTemperature
	StepConfirmOrder
)

// None marks a selection the chosen drink or flow made inapplicable
// (milk for black coffee, unused syrup slots).
const None = "нет"

// Session holds one customer's in-progress order. It is mutated only by
// the flow machine; Drink attributes are snapshotted at drink selection so
// the volume prompt is stable across catalog refreshes.
type Session struct {
	Customer    string
	ChatID      int64
	Step        Step
	Category    string
	Drink       string
	DrinkAttrs  menu.DrinkAttributes
	Milk        string
	Syrup1      string
	Syrup2      string
	Volume      string
	Temperature string
}

// Reset discards all selections and returns to the initial step.
func (s *Session) Reset() {
	s.Step = StepSelectDrinkType
	s.Category = ""
	s.Drink = ""
	s.DrinkAttrs = menu.DrinkAttributes{}
	s.Milk = ""
	s.Syrup1 = ""
	s.Syrup2 = ""
	s.Volume = ""
	s.Temperature = ""
}

// Summary renders the selected attributes for the customer and the barista.
func (s *Session) Summary() string {
	return fmt.Sprintf("Заказ: %s, молоко: %s, сиропы: %s/%s, %sмл, %s",
		s.Drink, s.Milk, s.Syrup1, s.Syrup2, s.Volume, s.Temperature)
}

// Manager keeps one session per customer.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[int64]*Session)}
}

// Get returns the customer's session, creating an empty one on first use.
func (m *Manager) Get(userID int64, customer string, chatID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		s = &Session{Customer: customer, ChatID: chatID, Step: StepSelectDrinkType}
		m.sessions[userID] = s
	}
	return s
}

func (m *Manager) Reset(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		s.Reset()
	}
}
