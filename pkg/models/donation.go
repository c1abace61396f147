package models

import "time"

// Donation is a single contribution towards one campaign. The client discards it
// once the write request resolves.
type Donation struct {
	DonorName string  `json:"donorName"`
	Amount    float64 `json:"amount"`
}

// DonationRecord is a donation as persisted by the development backend.
type DonationRecord struct {
	ID         string    `json:"id"`
	CampaignID string    `json:"campaign_id"`
	DonorName  string    `json:"donor_name"`
	Amount     float64   `json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
}
