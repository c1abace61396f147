package templates

import (
	"net/url"

	"github.com/a-h/templ"

	"fundspark/pkg/views"
)

// Page carries the shell state every page renders around its body.
type Page struct {
	Title    string
	Active   string
	UserName string
	Modal    views.Modal
	// Path is the current local path; auth forms return to it.
	Path string
	// Alert is a blocking message shown over the page.
	Alert string
	// Notice is a non-blocking message shown above the body.
	Notice string
}

func (p Page) modalHref(m views.Modal) string {
	path := p.Path
	if path == "" {
		path = "/"
	}
	u, err := url.Parse(path)
	if err != nil {
		return "/?modal=" + m.String()
	}
	q := u.Query()
	q.Set("modal", m.String())
	u.RawQuery = q.Encode()
	return u.String()
}

func (p Page) closeHref() string {
	u, err := url.Parse(p.Path)
	if err != nil || p.Path == "" {
		return "/"
	}
	q := u.Query()
	q.Del("modal")
	u.RawQuery = q.Encode()
	return u.String()
}

// Layout renders the document, navigation shell, auth dialogs and body.
func Layout(p Page, body templ.Component) templ.Component {
	return component(func(h *html) {
		title := "Fundspark"
		if p.Title != "" {
			title = p.Title + " · Fundspark"
		}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`)
		h.text(title)
		h.raw(`</title><link rel="stylesheet" href="/static/app.css"></head><body>`)
		h.render(Nav(p))
		if p.Notice != "" {
			h.raw(`<div class="notice" role="status">`)
			h.text(p.Notice)
			h.raw(`</div>`)
		}
		h.render(body)
		switch p.Modal {
		case views.ModalSignIn:
			h.render(SignInModal(p))
		case views.ModalSignUp:
			h.render(SignUpModal(p))
		case views.ModalSignOut:
			h.render(SignOutModal(p))
		}
		if p.Alert != "" {
			h.render(AlertDialog(p.Alert, p.closeHref()))
		}
		h.raw(`</body></html>`)
	})
}

func navClass(p Page, name string) string {
	if p.Active == name {
		return "nav-item active-link"
	}
	return "nav-item"
}

// Nav renders the navigation bar.
func Nav(p Page) templ.Component {
	return component(func(h *html) {
		h.raw(`<nav class="navbar"><div class="nav-left"><span class="nav-item">Search</span>`)
		h.raw(`<a href="/donate"`)
		h.attr("class", navClass(p, "donate"))
		h.raw(`>Donate</a><a href="/fundraise"`)
		h.attr("class", navClass(p, "fundraise"))
		h.raw(`>Fundraise</a></div>`)
		h.raw(`<div class="nav-center"><a href="/" class="logo">Fundspark</a></div>`)
		h.raw(`<div class="nav-right"><span class="nav-item">About</span>`)
		if p.UserName != "" {
			h.raw(`<span class="nav-item user-name">`)
			h.text(p.UserName)
			h.raw(`</span><a class="nav-item sign-btn"`)
			h.attr("href", p.modalHref(views.ModalSignOut))
			h.raw(`>Log out</a>`)
		} else {
			h.raw(`<a class="nav-item sign-btn"`)
			h.attr("href", p.modalHref(views.ModalSignIn))
			h.raw(`>Sign in</a><a class="start-fund outline"`)
			h.attr("href", p.modalHref(views.ModalSignUp))
			h.raw(`>Start a Fundspark</a>`)
		}
		h.raw(`</div></nav>`)
	})
}

func modalOpen(h *html, closeHref, heading string) {
	h.raw(`<div class="modal-overlay"><div class="glass-modal" role="dialog" aria-modal="true">`)
	h.raw(`<a class="modal-close" aria-label="Close"`)
	h.attr("href", closeHref)
	h.raw(`>×</a><h2>`)
	h.text(heading)
	h.raw(`</h2>`)
}

func modalClose(h *html) {
	h.raw(`</div></div>`)
}

func nextField(h *html, p Page) {
	h.raw(`<input type="hidden" name="next"`)
	h.attr("value", p.closeHref())
	h.raw(`>`)
}

// SignInModal renders the sign-in dialog.
func SignInModal(p Page) templ.Component {
	return component(func(h *html) {
		modalOpen(h, p.closeHref(), "Welcome Back")
		h.raw(`<form method="post" action="/auth/signin">`)
		nextField(h, p)
		h.raw(`<input type="email" name="email" placeholder="Email address" class="modern-input" required>`,
			`<input type="password" name="password" placeholder="Password" class="modern-input" required>`,
			`<button type="submit" class="modern-btn">Sign in</button></form>`,
			`<p>Don’t have an account? <a class="link-text"`)
		h.attr("href", p.modalHref(views.ModalSignUp))
		h.raw(`>Sign up</a></p>`)
		modalClose(h)
	})
}

// SignUpModal renders the sign-up dialog.
func SignUpModal(p Page) templ.Component {
	return component(func(h *html) {
		modalOpen(h, p.closeHref(), "Create Account")
		h.raw(`<form method="post" action="/auth/signup">`)
		nextField(h, p)
		h.raw(`<input type="text" name="fullName" placeholder="Full name" class="modern-input" required>`,
			`<input type="email" name="email" placeholder="Email address" class="modern-input" required>`,
			`<input type="password" name="password" placeholder="Password" class="modern-input" required>`,
			`<button type="submit" class="modern-btn">Sign up</button></form>`,
			`<p>Already have an account? <a class="link-text"`)
		h.attr("href", p.modalHref(views.ModalSignIn))
		h.raw(`>Sign in</a></p>`)
		modalClose(h)
	})
}

// SignOutModal asks the user to confirm signing out.
func SignOutModal(p Page) templ.Component {
	return component(func(h *html) {
		modalOpen(h, p.closeHref(), "Log out")
		h.raw(`<p>Are you sure you want to log out?</p><form method="post" action="/auth/signout">`)
		nextField(h, p)
		h.raw(`<input type="hidden" name="confirm" value="yes">`,
			`<button type="submit" class="modern-btn">Log out</button> <a class="link-text"`)
		h.attr("href", p.closeHref())
		h.raw(`>Cancel</a></form>`)
		modalClose(h)
	})
}

// AlertDialog renders a blocking message that must be dismissed.
func AlertDialog(message, dismissHref string) templ.Component {
	return component(func(h *html) {
		h.raw(`<div class="modal-overlay alert-overlay"><div class="glass-modal" role="alertdialog" aria-modal="true"><p class="alert-text">`)
		h.text(message)
		h.raw(`</p><a class="modern-btn" onclick="this.closest('.alert-overlay').remove();return false;"`)
		h.attr("href", dismissHref)
		h.raw(`>OK</a></div></div>`)
	})
}
