package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"fundspark/pkg/auth"
	"fundspark/pkg/backend"
	"fundspark/pkg/config"
	"fundspark/pkg/format"
	"fundspark/pkg/models"
	"fundspark/pkg/views"
	"fundspark/templates"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Backend is every call the web front end makes to the campaign API.
type Backend interface {
	views.CampaignLister
	views.DonationRecorder
	views.CampaignCreator
	views.Authenticator
	views.Registrar
}

// Handlers contains all HTTP handlers
type Handlers struct {
	backend Backend
	log     zerolog.Logger
	markers []views.Marker
	counter views.Counter
	views   *viewCache
}

// New creates a new Handlers instance
func New(cfg *config.Config, b Backend, logger zerolog.Logger) *Handlers {
	return &Handlers{
		backend: b,
		log:     logger,
		markers: views.DefaultMarkers(),
		counter: views.Counter{
			Target:   cfg.Home.CounterTarget,
			Steps:    cfg.Home.CounterSteps,
			Interval: cfg.CounterInterval(),
		},
		views: newViewCache(DefaultMaxViews, DefaultViewTTL),
	}
}

// Register mounts every page and action route on r.
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Home)
	r.GET("/healthz", h.Health)
	r.GET("/api/counter", h.Counter)

	donate := r.Group("/donate")
	{
		donate.GET("", h.DonateActivate)
		donate.GET("/:view", h.DonateShow)
		donate.GET("/:view/close", h.DonateClose)
		donate.GET("/:view/campaigns/:id", h.DonateOpen)
		donate.POST("/:view/campaigns/:id", h.DonateSubmit)
	}

	r.GET("/fundraise", h.FundraiseShow)
	r.POST("/fundraise", h.FundraiseSubmit)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signin", h.SignIn)
		authGroup.POST("/signup", h.SignUp)
		authGroup.POST("/signout", h.SignOut)
	}
}

// page builds the shell state of the current request: the identity, the
// dialog asked for in ?modal= and any pending flash message.
func (h *Handlers) page(c *gin.Context, title, active string) templates.Page {
	shell := views.NewShell(auth.FromContext(c))
	shell.Open(views.ParseModal(c.Query("modal")))
	alert, notice := takeFlash(c)
	return templates.Page{
		Title:    title,
		Active:   active,
		UserName: shell.DisplayName(),
		Modal:    shell.Modal(),
		Path:     c.Request.URL.RequestURI(),
		Alert:    alert,
		Notice:   notice,
	}
}

// ============== Home ==============

// Home renders the landing page.
func (h *Handlers) Home(c *gin.Context) {
	p := h.page(c, "", "home")
	render(c, http.StatusOK, templates.Layout(p, templates.Home(p, h.markers, h.counter)))
}

// Counter streams the community counter animation as server-sent events. The
// stream stops when the client goes away.
func (h *Handlers) Counter(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	err := h.counter.Run(c.Request.Context(), func(v int64) {
		c.SSEvent("counter", format.Number(float64(v)))
		c.Writer.Flush()
	})
	if err != nil {
		return
	}
	c.SSEvent("done", format.Number(float64(h.counter.Target)))
	c.Writer.Flush()
}

// Health is the liveness probe.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ============== Donate ==============

// DonateActivate starts a new donate view: one list request, cached for the
// rest of this page load.
func (h *Handlers) DonateActivate(c *gin.Context) {
	v := views.NewDonateView()
	v.Load(c.Request.Context(), h.backend)
	if v.Status == views.StatusError {
		h.log.Warn().Str("view", "donate").Msg("campaign list unavailable")
	}
	id := h.views.put(v)
	h.renderDonate(c, http.StatusOK, id, v, "")
}

// DonateShow re-renders a cached donate view.
func (h *Handlers) DonateShow(c *gin.Context) {
	e, ok := h.entry(c)
	if !ok {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	h.renderDonate(c, http.StatusOK, c.Param("view"), e.view, "")
}

// DonateOpen opens the donation dialog for one campaign.
func (h *Handlers) DonateOpen(c *gin.Context) {
	e, ok := h.entry(c)
	if !ok {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	viewID := c.Param("view")
	if err := e.view.Open(c.Param("id")); err != nil {
		c.Redirect(http.StatusSeeOther, templates.DonateViewPath(viewID))
		return
	}
	h.renderDonate(c, http.StatusOK, viewID, e.view, "")
}

// DonateClose closes the donation dialog.
func (h *Handlers) DonateClose(c *gin.Context) {
	e, ok := h.entry(c)
	if !ok {
		return
	}
	e.mu.Lock()
	e.view.Close()
	e.mu.Unlock()
	c.Redirect(http.StatusSeeOther, templates.DonateViewPath(c.Param("view")))
}

// DonateSubmit records a donation for the campaign in the open dialog.
func (h *Handlers) DonateSubmit(c *gin.Context) {
	e, ok := h.entry(c)
	if !ok {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	viewID := c.Param("view")
	campaignID := c.Param("id")
	v := e.view
	if v.Modal == nil || v.Modal.CampaignID != campaignID {
		if err := v.Open(campaignID); err != nil {
			c.Redirect(http.StatusSeeOther, templates.DonateViewPath(viewID))
			return
		}
	}

	msg, err := v.Submit(c.Request.Context(), h.backend, c.PostForm("donorName"), c.PostForm("amount"))
	switch {
	case views.IsValidation(err):
		h.renderDonate(c, http.StatusUnprocessableEntity, viewID, v, views.UserMessage(err))
		return
	case err != nil:
		h.log.Error().Err(err).Str("campaign", campaignID).Msg("record donation")
		h.renderDonate(c, http.StatusBadGateway, viewID, v, views.UserMessage(err))
		return
	}

	if msg == "" {
		msg = "Thank you for your donation!"
	}
	setFlash(c, flashNotice, msg)
	c.Redirect(http.StatusSeeOther, templates.DonateViewPath(viewID))
}

// entry resolves :view; a missing or expired view starts over at /donate.
func (h *Handlers) entry(c *gin.Context) (*viewEntry, bool) {
	e, ok := h.views.get(c.Param("view"))
	if !ok {
		c.Redirect(http.StatusSeeOther, "/donate")
		return nil, false
	}
	return e, true
}

func (h *Handlers) renderDonate(c *gin.Context, status int, viewID string, v *views.DonateView, modalAlert string) {
	p := h.page(c, "Donate", "donate")
	body := templates.Donate(templates.DonateData{ViewID: viewID, View: v, ModalAlert: modalAlert})
	render(c, status, templates.Layout(p, body))
}

// ============== Fundraise ==============

// FundraiseShow renders an empty creation form. ?created= carries the id of
// the campaign created by the previous submit.
func (h *Handlers) FundraiseShow(c *gin.Context) {
	form := views.FundraiseForm{CreatedID: c.Query("created")}
	h.renderFundraise(c, http.StatusOK, form, "")
}

// FundraiseSubmit validates the form and creates the campaign.
func (h *Handlers) FundraiseSubmit(c *gin.Context) {
	form := views.FundraiseForm{
		Title:        c.PostForm("title"),
		Description:  c.PostForm("description"),
		TargetAmount: c.PostForm("targetAmount"),
	}

	created, err := form.Submit(c.Request.Context(), h.backend)
	switch {
	case views.IsValidation(err):
		h.renderFundraise(c, http.StatusUnprocessableEntity, form, views.UserMessage(err))
		return
	case err != nil:
		h.log.Error().Err(err).Msg("create campaign")
		h.renderFundraise(c, http.StatusBadGateway, form, views.UserMessage(err))
		return
	}

	target := "/fundraise"
	if created != nil && created.ID != "" {
		target += "?created=" + url.QueryEscape(created.ID)
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (h *Handlers) renderFundraise(c *gin.Context, status int, form views.FundraiseForm, alert string) {
	p := h.page(c, "Fundraise", "fundraise")
	if alert != "" {
		p.Alert = alert
	}
	render(c, status, templates.Layout(p, templates.Fundraise(templates.FundraiseData{Form: form})))
}

// ============== Auth ==============

// SignIn passes the credentials to the backend and, on success, stores the
// display name in the identity cookie.
func (h *Handlers) SignIn(c *gin.Context) {
	req := models.SignInRequest{Email: c.PostForm("email"), Password: c.PostForm("password")}
	next := safeNext(c.PostForm("next"))
	shell := views.NewShell(auth.FromContext(c))

	res, err := shell.SignIn(c.Request.Context(), h.backend, req.Email, req.Password)
	if err != nil {
		h.authFailed(c, "sign in", err, next, views.ModalSignIn)
		return
	}
	if !res.OK() {
		msg := res.Message
		if msg == "" {
			msg = views.GenericErrorMessage
		}
		setFlash(c, flashAlert, msg)
		c.Redirect(http.StatusSeeOther, withModal(next, views.ModalSignIn))
		return
	}
	setFlash(c, flashNotice, res.Message)
	c.Redirect(http.StatusSeeOther, next)
}

// SignUp registers an account; success leads to the sign-in dialog.
func (h *Handlers) SignUp(c *gin.Context) {
	req := models.SignUpRequest{
		FullName: c.PostForm("fullName"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}
	next := safeNext(c.PostForm("next"))
	shell := views.NewShell(auth.FromContext(c))

	msg, err := shell.SignUp(c.Request.Context(), h.backend, req.FullName, req.Email, req.Password)
	if err != nil {
		h.authFailed(c, "sign up", err, next, views.ModalSignUp)
		return
	}
	if msg != "" {
		setFlash(c, flashNotice, msg)
	}
	c.Redirect(http.StatusSeeOther, withModal(next, shell.Modal()))
}

// SignOut clears the identity cookie once the user has confirmed.
func (h *Handlers) SignOut(c *gin.Context) {
	next := safeNext(c.PostForm("next"))
	shell := views.NewShell(auth.FromContext(c))
	if err := shell.SignOut(strings.EqualFold(c.PostForm("confirm"), "yes")); err != nil {
		if !errors.Is(err, auth.ErrConfirmationRequired) {
			h.log.Error().Err(err).Msg("sign out")
		}
	}
	c.Redirect(http.StatusSeeOther, next)
}

func (h *Handlers) authFailed(c *gin.Context, op string, err error, next string, reopen views.Modal) {
	if errors.Is(err, context.Canceled) {
		return
	}
	if errors.Is(err, backend.ErrRequestFailed) {
		h.log.Warn().Err(err).Str("op", op).Msg("auth request failed")
	} else {
		h.log.Error().Err(err).Str("op", op).Msg("auth failed")
	}
	setFlash(c, flashAlert, views.UserMessage(err))
	c.Redirect(http.StatusSeeOther, withModal(next, reopen))
}

// render renders a templ component
func render(c *gin.Context, status int, template templ.Component) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := template.Render(c.Request.Context(), c.Writer); err != nil {
		c.String(http.StatusInternalServerError, "Template rendering error")
	}
}
