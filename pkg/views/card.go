package views

import (
	"strconv"

	"fundspark/pkg/format"
	"fundspark/pkg/models"
)

// CardImages are cycled through when a campaign has no image of its own.
var CardImages = []string{
	"/static/img/medical.png",
	"/static/img/emergency.png",
	"/static/img/education.png",
	"/static/img/animal.png",
	"/static/img/business.png",
	"/static/img/your-cause.png",
}

// ImageFor picks the card image for the i-th campaign in a list.
func ImageFor(i int) string {
	if i < 0 {
		i = -i
	}
	return CardImages[i%len(CardImages)]
}

// Card is everything needed to draw one campaign. It is derived purely from
// the campaign and an image reference.
type Card struct {
	Campaign    models.Campaign
	Image       string
	Title       string
	Description string
	Percent     float64
	Raised      string
	Goal        string
}

// NewCard builds the card for c.
func NewCard(c models.Campaign, image string) Card {
	return Card{
		Campaign:    c,
		Image:       image,
		Title:       c.Title,
		Description: c.Description,
		Percent:     c.PercentFunded(),
		Raised:      format.INR(c.CurrentAmount),
		Goal:        format.INR(c.TargetAmount),
	}
}

// Cards builds one card per campaign, in order.
func Cards(campaigns []models.Campaign) []Card {
	out := make([]Card, 0, len(campaigns))
	for i, c := range campaigns {
		out = append(out, NewCard(c, ImageFor(i)))
	}
	return out
}

// Summary reads like "₹4,000 raised of ₹10,000".
func (c Card) Summary() string {
	return c.Raised + " raised of " + c.Goal
}

// PercentLabel is the rounded percent without the sign, e.g. "40".
func (c Card) PercentLabel() string {
	return strconv.FormatFloat(c.Percent, 'f', 0, 64)
}

// ProgressWidth is the CSS width of the progress bar fill.
func (c Card) ProgressWidth() string {
	return strconv.FormatFloat(c.Percent, 'f', -1, 64) + "%"
}

// Activate invokes the card action with its campaign.
func (c Card) Activate(fn func(models.Campaign)) {
	if fn != nil {
		fn(c.Campaign)
	}
}
