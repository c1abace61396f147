package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Campaign represents a fundraiser as served by the backend
type Campaign struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description,omitempty"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentAmount float64 `json:"currentAmount"`
}

// UnmarshalJSON accepts numeric or string ids under either "id" or "_id".
func (c *Campaign) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID            json.RawMessage `json:"id"`
		MongoID       json.RawMessage `json:"_id"`
		Title         string          `json:"title"`
		Description   string          `json:"description"`
		TargetAmount  float64         `json:"targetAmount"`
		CurrentAmount float64         `json:"currentAmount"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id := raw.ID
	if len(id) == 0 || bytes.Equal(id, []byte("null")) {
		id = raw.MongoID
	}
	parsed, err := parseID(id)
	if err != nil {
		return err
	}

	*c = Campaign{
		ID:            parsed,
		Title:         raw.Title,
		Description:   raw.Description,
		TargetAmount:  raw.TargetAmount,
		CurrentAmount: raw.CurrentAmount,
	}
	return nil
}

func parseID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("campaign id: unsupported value %s", raw)
}

// PercentFunded returns current as a percentage of target, clamped to [0, 100].
// A zero or negative target yields 0.
func PercentFunded(current, target float64) float64 {
	if target <= 0 || math.IsNaN(current) || math.IsNaN(target) {
		return 0
	}
	p := current / target * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// PercentFunded reports how much of the goal the campaign has raised.
func (c Campaign) PercentFunded() float64 {
	return PercentFunded(c.CurrentAmount, c.TargetAmount)
}

// CreateCampaignRequest is the body of a campaign creation call
type CreateCampaignRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	TargetAmount float64 `json:"targetAmount"`
}

// ParseAmount parses user input into a strictly positive, finite amount.
func ParseAmount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}
