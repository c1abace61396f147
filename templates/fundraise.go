package templates

import (
	"github.com/a-h/templ"

	"fundspark/pkg/views"
)

// FundraiseData is the fundraise page state.
type FundraiseData struct {
	Form views.FundraiseForm
}

// Fundraise renders the campaign creation form.
func Fundraise(d FundraiseData) templ.Component {
	return component(func(h *html) {
		h.raw(`<div class="page-layout"><div class="page-hero"><h1>Start a Fundraiser</h1>`,
			`<p>Begin your journey to raise funds for a cause you care about.</p></div>`)
		if d.Form.CreatedID != "" {
			h.raw(`<p class="success-text" role="status">Fundraiser created! ID: <code>`)
			h.text(d.Form.CreatedID)
			h.raw(`</code></p>`)
		}
		h.raw(`<form class="fundraise-form" method="post" action="/fundraise"`,
			` onsubmit="var b=this.querySelector('button[type=submit]');b.disabled=true;b.textContent='Submitting…';">`,
			`<input type="text" name="title" placeholder="Campaign title" class="modern-input"`)
		h.attr("value", d.Form.Title)
		h.raw(`><textarea name="description" placeholder="Tell your story" class="modern-input">`)
		h.text(d.Form.Description)
		h.raw(`</textarea><input type="number" name="targetAmount" placeholder="Target amount (₹)" step="any" class="modern-input"`)
		h.attr("value", d.Form.TargetAmount)
		h.raw(`><button type="submit" class="modern-btn"`)
		if d.Form.Submitting {
			h.raw(` disabled>Submitting…`)
		} else {
			h.raw(`>Create Fundraiser`)
		}
		h.raw(`</button></form></div>`)
	})
}
