package amqp

import (
	"encoding/json"
	"time"

	"expensetracker/internal/core"
)

// BudgetAlertMessage is published when spending in a budget window goes over
// its limit.
type BudgetAlertMessage struct {
	Category    core.Category `json:"category"`
	Period      core.Period   `json:"period"`
	WindowStart core.Date     `json:"window_start"`
	WindowEnd   core.Date     `json:"window_end"`
	Limit       core.Money    `json:"limit"`
	Spent       core.Money    `json:"spent"`
	ExpenseID   string        `json:"expense_id"`
	Timestamp   time.Time     `json:"timestamp"`
}

// NewBudgetAlertMessage converts a store alert into its wire form. A zero
// RaisedAt is replaced by the current time.
func NewBudgetAlertMessage(a core.BudgetAlert) *BudgetAlertMessage {
	ts := a.RaisedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return &BudgetAlertMessage{
		Category:    a.Category,
		Period:      a.Period,
		WindowStart: a.Window.StartDate,
		WindowEnd:   a.Window.EndDate,
		Limit:       a.Limit,
		Spent:       a.Spent,
		ExpenseID:   a.ExpenseID,
		Timestamp:   ts,
	}
}

// Over returns how much the budget was exceeded by.
func (m *BudgetAlertMessage) Over() core.Money {
	return m.Spent.Sub(m.Limit)
}

// ToJSON converts the message to JSON bytes
func (m *BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BudgetAlertMessageFromJSON decodes a message published by ToJSON.
func BudgetAlertMessageFromJSON(data []byte) (*BudgetAlertMessage, error) {
	var msg BudgetAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
