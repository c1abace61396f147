package templates

import (
	"net/url"

	"github.com/a-h/templ"

	"fundspark/pkg/views"
)

// DonateData is the donate page state.
type DonateData struct {
	ViewID string
	View   *views.DonateView
	// ModalAlert is a blocking message shown inside the donation dialog.
	ModalAlert string
}

// DonateViewPath is the page of a cached donate view.
func DonateViewPath(viewID string) string {
	return "/donate/" + url.PathEscape(viewID)
}

// DonateCampaignPath opens or submits the donation dialog for one campaign.
func DonateCampaignPath(viewID, campaignID string) string {
	return DonateViewPath(viewID) + "/campaigns/" + url.PathEscape(campaignID)
}

// Donate renders the campaign list and, when open, the donation dialog.
func Donate(d DonateData) templ.Component {
	return component(func(h *html) {
		h.raw(`<div class="page-layout"><div class="page-hero"><h1>Donate to a Cause</h1>`,
			`<p>Explore verified fundraisers and make a real impact today.</p></div>`)

		switch d.View.Status {
		case views.StatusLoading:
			h.raw(`<p class="loading">Loading campaigns…</p>`)
		case views.StatusError:
			h.raw(`<p class="error-text" role="alert">`)
			h.text(d.View.Error)
			h.raw(`</p>`)
		case views.StatusLoaded:
			if len(d.View.Campaigns) == 0 {
				h.raw(`<p class="empty">No campaigns yet.</p>`)
			}
			h.raw(`<div class="campaign-grid">`)
			for _, card := range d.View.Cards() {
				h.render(CampaignCard(card, DonateCampaignPath(d.ViewID, card.Campaign.ID)))
			}
			h.raw(`</div>`)
		}
		h.raw(`</div>`)

		if d.View.Modal != nil {
			h.render(DonationModal(d))
		}
	})
}

// CampaignCard renders one campaign with its progress bar. actionHref is the
// target of the card's donate control.
func CampaignCard(card views.Card, actionHref string) templ.Component {
	return component(func(h *html) {
		h.raw(`<article class="campaign-card">`)
		if card.Image != "" {
			h.raw(`<img class="campaign-img"`)
			h.attr("src", card.Image)
			h.attr("alt", card.Title)
			h.raw(`>`)
		}
		h.raw(`<h3>`)
		h.text(card.Title)
		h.raw(`</h3>`)
		if card.Description != "" {
			h.raw(`<p class="campaign-desc">`)
			h.text(card.Description)
			h.raw(`</p>`)
		}
		h.raw(`<div class="progress-bar" role="progressbar" aria-valuemin="0" aria-valuemax="100"`)
		h.attr("aria-valuenow", card.PercentLabel())
		h.raw(`><div class="progress-fill"`)
		h.attr("style", "width: "+card.ProgressWidth())
		h.raw(`></div></div><p class="campaign-amounts">`)
		h.text(card.Summary())
		h.raw(`</p><a class="cta donate-btn"`)
		h.attr("href", actionHref)
		h.raw(`>Donate</a></article>`)
	})
}

// DonationModal renders the open donation dialog.
func DonationModal(d DonateData) templ.Component {
	return component(func(h *html) {
		m := d.View.Modal
		modalOpen(h, DonateViewPath(d.ViewID)+"/close", "Donate to "+m.Title)
		if d.ModalAlert != "" {
			h.raw(`<div class="alert-box" role="alertdialog" aria-modal="true"><p class="alert-text">`)
			h.text(d.ModalAlert)
			h.raw(`</p><button type="button" class="modern-btn" onclick="this.parentElement.remove();">OK</button></div>`)
		}
		h.raw(`<form method="post"`)
		h.attr("action", DonateCampaignPath(d.ViewID, m.CampaignID))
		h.raw(`><input type="text" name="donorName" placeholder="Your name" class="modern-input"`)
		h.attr("value", m.DonorName)
		h.raw(`><input type="number" name="amount" placeholder="Amount (₹)" min="1" step="any" class="modern-input"`)
		h.attr("value", m.Amount)
		h.raw(`><button type="submit" class="modern-btn">Donate</button></form>`)
		modalClose(h)
	})
}
