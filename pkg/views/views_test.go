package views

import (
	"context"
	"errors"
	"testing"
	"time"

	"fundspark/pkg/auth"
	"fundspark/pkg/backend"
	"fundspark/pkg/models"
)

type fakeBackend struct {
	campaigns []models.Campaign
	listErr   error

	donateErr   error
	donations   []models.Donation
	donationIDs []string

	createErr   error
	created     []models.CreateCampaignRequest
	duringCall  func()
	signInReply backend.SignInResult
	signInErr   error
	signIns     int
	signUpErr   error
	signUps     []models.SignUpRequest
}

func (f *fakeBackend) ListCampaigns(context.Context) ([]models.Campaign, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Campaign, len(f.campaigns))
	copy(out, f.campaigns)
	return out, nil
}

func (f *fakeBackend) RecordDonation(_ context.Context, id string, d models.Donation) (string, error) {
	f.donationIDs = append(f.donationIDs, id)
	f.donations = append(f.donations, d)
	if f.donateErr != nil {
		return "", f.donateErr
	}
	return "Donation recorded successfully!", nil
}

func (f *fakeBackend) CreateCampaign(_ context.Context, req models.CreateCampaignRequest) (*models.Campaign, error) {
	f.created = append(f.created, req)
	if f.duringCall != nil {
		f.duringCall()
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Campaign{ID: "new-1", Title: req.Title, TargetAmount: req.TargetAmount}, nil
}

func (f *fakeBackend) SignIn(context.Context, models.SignInRequest) (backend.SignInResult, error) {
	f.signIns++
	return f.signInReply, f.signInErr
}

func (f *fakeBackend) SignUp(_ context.Context, req models.SignUpRequest) (string, error) {
	f.signUps = append(f.signUps, req)
	if f.signUpErr != nil {
		return "", f.signUpErr
	}
	return "User registered successfully!", nil
}

var errBackend = &backend.Error{Op: "test", Status: 500}

func twoCampaigns() []models.Campaign {
	return []models.Campaign{
		{ID: "1", Title: "Flood Relief", TargetAmount: 10000, CurrentAmount: 4000},
		{ID: "2", Title: "School Roof", TargetAmount: 5000, CurrentAmount: 100},
	}
}

func TestMarkerOffsetIsScrollTimesSpeed(t *testing.T) {
	for _, m := range DefaultMarkers() {
		for _, s := range []float64{0, 1, 37, 250.5, 1200} {
			if got, want := m.Offset(s), s*m.Speed; got != want {
				t.Fatalf("%s: Offset(%v) = %v, want %v", m.Name, s, got, want)
			}
		}
	}
	m := Marker{Speed: 0.2}
	if got := m.Transform(100); got != "translateY(20px)" {
		t.Fatalf("Transform = %q", got)
	}
}

func TestCounterValueNeverOvershoots(t *testing.T) {
	counters := []Counter{
		DefaultCounter(),
		{Target: 7, Steps: 3},
		{Target: 10, Steps: 150},
		{Target: 1000, Steps: 1},
	}
	for _, c := range counters {
		prev := int64(-1)
		for step := 0; step <= c.Steps+5; step++ {
			v := c.Value(step)
			if v < prev {
				t.Fatalf("%+v: value decreased at step %d: %d < %d", c, step, v, prev)
			}
			if v > c.Target {
				t.Fatalf("%+v: value %d exceeds target at step %d", c, v, step)
			}
			prev = v
		}
		if c.Value(c.Steps) != c.Target {
			t.Fatalf("%+v: final value %d, want %d", c, c.Value(c.Steps), c.Target)
		}
	}
}

func TestCounterRunTerminatesAtTarget(t *testing.T) {
	c := Counter{Target: 2340000, Steps: 150, Interval: time.Microsecond}
	var values []int64
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.Run(ctx, func(v int64) { values = append(values, v) }); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(values) != c.Steps {
		t.Fatalf("emitted %d values, want %d", len(values), c.Steps)
	}
	if values[0] != 15600 {
		t.Fatalf("first value = %d, want 15600", values[0])
	}
	if values[len(values)-1] != c.Target {
		t.Fatalf("last value = %d, want %d", values[len(values)-1], c.Target)
	}
	for i := 1; i < len(values); i++ {
		if values[i] < values[i-1] || values[i] > c.Target {
			t.Fatalf("bad sequence at %d: %d after %d", i, values[i], values[i-1])
		}
	}
}

func TestCounterRunStopsOnCancel(t *testing.T) {
	c := Counter{Target: 100, Steps: 100, Interval: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	emitted := 0
	if err := c.Run(ctx, func(int64) { emitted++ }); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
	if emitted != 0 {
		t.Fatalf("emitted %d values after cancel", emitted)
	}
}

func TestCardScenario(t *testing.T) {
	card := NewCard(models.Campaign{ID: "1", Title: "Flood Relief", TargetAmount: 10000, CurrentAmount: 4000}, "/static/img/medical.png")
	if card.Percent != 40 {
		t.Fatalf("Percent = %v, want 40", card.Percent)
	}
	if card.ProgressWidth() != "40%" || card.PercentLabel() != "40" {
		t.Fatalf("width = %q label = %q", card.ProgressWidth(), card.PercentLabel())
	}
	if got := card.Summary(); got != "₹4,000 raised of ₹10,000" {
		t.Fatalf("Summary = %q", got)
	}

	var got models.Campaign
	card.Activate(func(c models.Campaign) { got = c })
	if got.ID != "1" {
		t.Fatalf("Activate passed %+v", got)
	}
}

func TestCardPercentClamped(t *testing.T) {
	tests := []struct {
		current, target, want float64
	}{
		{current: 500, target: 0, want: 0},
		{current: 20000, target: 10000, want: 100},
		{current: 0, target: 10000, want: 0},
	}
	for _, tt := range tests {
		card := NewCard(models.Campaign{TargetAmount: tt.target, CurrentAmount: tt.current}, "")
		if card.Percent != tt.want {
			t.Fatalf("Percent(%v/%v) = %v, want %v", tt.current, tt.target, card.Percent, tt.want)
		}
	}
}

func TestDonateViewLoad(t *testing.T) {
	v := NewDonateView()
	if v.Status != StatusLoading {
		t.Fatalf("initial status = %v", v.Status)
	}
	v.Load(context.Background(), &fakeBackend{campaigns: twoCampaigns()})
	if v.Status != StatusLoaded || len(v.Campaigns) != 2 {
		t.Fatalf("after load: %v with %d campaigns", v.Status, len(v.Campaigns))
	}

	failed := NewDonateView()
	failed.Load(context.Background(), &fakeBackend{listErr: errBackend})
	if failed.Status != StatusError || failed.Error != LoadErrorMessage {
		t.Fatalf("after failed load: %v %q", failed.Status, failed.Error)
	}
}

func TestDonateViewIgnoresLateResults(t *testing.T) {
	v := NewDonateView()
	v.Deactivate()
	v.Load(context.Background(), &fakeBackend{campaigns: twoCampaigns()})
	if v.Status != StatusLoading || v.Campaigns != nil {
		t.Fatalf("deactivated view changed: %v %v", v.Status, v.Campaigns)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := NewDonateView()
	w.ApplyLoad(ctx, twoCampaigns(), nil)
	if w.Status != StatusLoading {
		t.Fatalf("canceled load applied: %v", w.Status)
	}
}

func TestDonateViewOpenSeedsEmptyFields(t *testing.T) {
	v := NewDonateView()
	v.Load(context.Background(), &fakeBackend{campaigns: twoCampaigns()})
	if err := v.Open("2"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if v.Modal == nil || v.Modal.CampaignID != "2" || v.Modal.Title != "School Roof" {
		t.Fatalf("modal = %+v", v.Modal)
	}
	if v.Modal.DonorName != "" || v.Modal.Amount != "" {
		t.Fatalf("modal fields not empty: %+v", v.Modal)
	}
	if err := v.Open("missing"); !errors.Is(err, ErrUnknownCampaign) {
		t.Fatalf("Open(missing) = %v", err)
	}
}

func TestDonateViewInvalidInputNeverCallsBackend(t *testing.T) {
	inputs := []struct{ name, amount string }{
		{name: "", amount: "100"},
		{name: "   ", amount: "100"},
		{name: "Asha", amount: ""},
		{name: "Asha", amount: "0"},
		{name: "Asha", amount: "-5"},
		{name: "Asha", amount: "ten"},
	}
	for _, in := range inputs {
		fb := &fakeBackend{campaigns: twoCampaigns()}
		v := NewDonateView()
		v.Load(context.Background(), fb)
		_ = v.Open("1")

		_, err := v.Submit(context.Background(), fb, in.name, in.amount)
		if !IsValidation(err) {
			t.Fatalf("Submit(%q, %q) = %v, want validation error", in.name, in.amount, err)
		}
		if len(fb.donations) != 0 {
			t.Fatalf("Submit(%q, %q) issued a request", in.name, in.amount)
		}
		if v.Modal == nil {
			t.Fatalf("modal closed after validation error")
		}
		if v.Campaigns[0].CurrentAmount != 4000 {
			t.Fatalf("amount changed after validation error")
		}
	}
}

func TestDonateViewSuccessUpdatesOnlyTarget(t *testing.T) {
	fb := &fakeBackend{campaigns: twoCampaigns()}
	v := NewDonateView()
	v.Load(context.Background(), fb)
	_ = v.Open("1")

	msg, err := v.Submit(context.Background(), fb, "Asha", "250")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if msg != "Donation recorded successfully!" {
		t.Fatalf("msg = %q", msg)
	}
	if v.Modal != nil {
		t.Fatalf("modal still open after success")
	}
	if v.Campaigns[0].CurrentAmount != 4250 {
		t.Fatalf("campaign 1 amount = %v, want 4250", v.Campaigns[0].CurrentAmount)
	}
	if v.Campaigns[1].CurrentAmount != 100 {
		t.Fatalf("campaign 2 amount = %v, want unchanged 100", v.Campaigns[1].CurrentAmount)
	}
	if len(fb.donations) != 1 || fb.donationIDs[0] != "1" || fb.donations[0] != (models.Donation{DonorName: "Asha", Amount: 250}) {
		t.Fatalf("donation request = %v %v", fb.donationIDs, fb.donations)
	}
}

func TestDonateViewFailureKeepsState(t *testing.T) {
	fb := &fakeBackend{campaigns: twoCampaigns(), donateErr: errBackend}
	v := NewDonateView()
	v.Load(context.Background(), fb)
	_ = v.Open("1")

	_, err := v.Submit(context.Background(), fb, "Asha", "250")
	if !errors.Is(err, backend.ErrRequestFailed) {
		t.Fatalf("Submit = %v, want backend failure", err)
	}
	if UserMessage(err) != GenericErrorMessage {
		t.Fatalf("UserMessage = %q", UserMessage(err))
	}
	if v.Modal == nil || v.Modal.DonorName != "Asha" || v.Modal.Amount != "250" {
		t.Fatalf("modal = %+v, want open with entered values", v.Modal)
	}
	for i, want := range []float64{4000, 100} {
		if v.Campaigns[i].CurrentAmount != want {
			t.Fatalf("campaign %d amount = %v, want %v", i, v.Campaigns[i].CurrentAmount, want)
		}
	}
}

func TestFundraiseFormValidation(t *testing.T) {
	tests := []struct {
		name string
		form FundraiseForm
	}{
		{name: "negative target", form: FundraiseForm{Title: "Roof", Description: "Fix", TargetAmount: "-5"}},
		{name: "zero target", form: FundraiseForm{Title: "Roof", Description: "Fix", TargetAmount: "0"}},
		{name: "text target", form: FundraiseForm{Title: "Roof", Description: "Fix", TargetAmount: "lots"}},
		{name: "missing title", form: FundraiseForm{Description: "Fix", TargetAmount: "10"}},
		{name: "missing description", form: FundraiseForm{Title: "Roof", TargetAmount: "10"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := &fakeBackend{}
			form := tt.form
			_, err := form.Submit(context.Background(), fb)
			if !IsValidation(err) {
				t.Fatalf("Submit = %v, want validation error", err)
			}
			if len(fb.created) != 0 {
				t.Fatalf("request issued for invalid form")
			}
			if form.Submitting {
				t.Fatalf("submitting flag left set")
			}
		})
	}
}

func TestFundraiseFormSuccessClearsFields(t *testing.T) {
	form := &FundraiseForm{Title: " School Roof ", Description: "Fix it", TargetAmount: "5000"}
	var submittingDuringCall bool
	fb := &fakeBackend{}
	fb.duringCall = func() { submittingDuringCall = form.Submitting }

	created, err := form.Submit(context.Background(), fb)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !submittingDuringCall {
		t.Fatalf("Submitting was not set during the request")
	}
	if form.Submitting {
		t.Fatalf("Submitting not cleared")
	}
	if created.ID != "new-1" || form.CreatedID != "new-1" {
		t.Fatalf("created = %+v, CreatedID = %q", created, form.CreatedID)
	}
	if form.Title != "" || form.Description != "" || form.TargetAmount != "" {
		t.Fatalf("fields not cleared: %+v", form)
	}
	if fb.created[0] != (models.CreateCampaignRequest{Title: "School Roof", Description: "Fix it", TargetAmount: 5000}) {
		t.Fatalf("request = %+v", fb.created[0])
	}
}

func TestFundraiseFormFailureKeepsFields(t *testing.T) {
	form := &FundraiseForm{Title: "School Roof", Description: "Fix it", TargetAmount: "5000"}
	_, err := form.Submit(context.Background(), &fakeBackend{createErr: errBackend})
	if err == nil || IsValidation(err) {
		t.Fatalf("Submit = %v, want backend error", err)
	}
	if form.Submitting {
		t.Fatalf("Submitting not cleared")
	}
	if form.Title != "School Roof" || form.Description != "Fix it" || form.TargetAmount != "5000" {
		t.Fatalf("fields changed: %+v", form)
	}
}

func newShell(t *testing.T) (*Shell, *auth.MemoryStore) {
	t.Helper()
	store := &auth.MemoryStore{}
	id, err := auth.NewIdentity(store)
	if err != nil {
		t.Fatalf("NewIdentity: %v", err)
	}
	return NewShell(id), store
}

func TestShellModalsAreMutuallyExclusive(t *testing.T) {
	s, _ := newShell(t)
	s.OpenSignIn()
	s.OpenSignUp()
	if s.Modal() != ModalSignUp {
		t.Fatalf("modal = %v, want signup", s.Modal())
	}
	s.OpenSignIn()
	if s.Modal() != ModalSignIn {
		t.Fatalf("modal = %v, want signin", s.Modal())
	}
	s.OpenSignOut()
	if s.Modal() != ModalSignIn {
		t.Fatalf("sign-out confirmation opened while signed out")
	}
	s.Close()
	if s.Modal() != ModalNone {
		t.Fatalf("modal = %v after Close", s.Modal())
	}
	for _, m := range []Modal{ModalSignIn, ModalSignUp} {
		if ParseModal(m.String()) != m {
			t.Fatalf("ParseModal(%q) != %v", m.String(), m)
		}
	}
}

func TestShellSignInSuccess(t *testing.T) {
	s, store := newShell(t)
	s.OpenSignIn()
	fb := &fakeBackend{signInReply: backend.SignInResult{Kind: backend.SignInSucceeded, Message: "Login successful!"}}

	res, err := s.SignIn(context.Background(), fb, "jane@x.com", "pw")
	if err != nil || !res.OK() {
		t.Fatalf("SignIn = %+v, %v", res, err)
	}
	if s.DisplayName() != "jane" {
		t.Fatalf("DisplayName = %q, want jane", s.DisplayName())
	}
	if s.Modal() != ModalNone {
		t.Fatalf("modal = %v, want closed", s.Modal())
	}
	reloaded, _ := auth.NewIdentity(store)
	if reloaded.DisplayName() != "jane" {
		t.Fatalf("identity not persisted: %q", reloaded.DisplayName())
	}
}

func TestShellSignInRejected(t *testing.T) {
	s, store := newShell(t)
	s.OpenSignIn()
	fb := &fakeBackend{signInReply: backend.SignInResult{Kind: backend.SignInRejected, Message: "Invalid credentials"}}

	res, err := s.SignIn(context.Background(), fb, "jane@x.com", "bad")
	if err != nil {
		t.Fatalf("SignIn error: %v", err)
	}
	if res.OK() || res.Message != "Invalid credentials" {
		t.Fatalf("result = %+v", res)
	}
	if s.DisplayName() != "" || s.Modal() != ModalSignIn {
		t.Fatalf("state changed: name %q modal %v", s.DisplayName(), s.Modal())
	}
	if stored, _ := store.Load(); stored != "" {
		t.Fatalf("stored = %q", stored)
	}
}

func TestShellSignInTransportFailure(t *testing.T) {
	s, _ := newShell(t)
	s.OpenSignIn()
	_, err := s.SignIn(context.Background(), &fakeBackend{signInErr: errBackend}, "jane@x.com", "pw")
	if !errors.Is(err, backend.ErrRequestFailed) {
		t.Fatalf("err = %v", err)
	}
	if s.Modal() != ModalSignIn || s.DisplayName() != "" {
		t.Fatalf("state changed after failure")
	}
}

func TestShellSignUpOpensSignIn(t *testing.T) {
	s, _ := newShell(t)
	s.OpenSignUp()
	fb := &fakeBackend{}
	msg, err := s.SignUp(context.Background(), fb, "Jane Doe", "jane@x.com", "pw")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if msg != "User registered successfully!" || s.Modal() != ModalSignIn {
		t.Fatalf("msg = %q modal = %v", msg, s.Modal())
	}
	if fb.signUps[0] != (models.SignUpRequest{FullName: "Jane Doe", Email: "jane@x.com", Password: "pw"}) {
		t.Fatalf("request = %+v", fb.signUps[0])
	}

	failing, _ := newShell(t)
	failing.OpenSignUp()
	if _, err := failing.SignUp(context.Background(), &fakeBackend{signUpErr: errBackend}, "J", "j@x.com", "pw"); err == nil {
		t.Fatalf("expected error")
	}
	if failing.Modal() != ModalSignUp {
		t.Fatalf("modal = %v, want signup kept open", failing.Modal())
	}
}

func TestShellSignOutNeedsConfirmation(t *testing.T) {
	s, _ := newShell(t)
	if _, err := s.Identity.SignIn("jane@x.com"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	s.OpenSignOut()
	if s.Modal() != ModalSignOut {
		t.Fatalf("modal = %v, want signout", s.Modal())
	}
	if err := s.SignOut(false); !errors.Is(err, auth.ErrConfirmationRequired) {
		t.Fatalf("SignOut(false) = %v", err)
	}
	if s.DisplayName() != "jane" {
		t.Fatalf("name cleared without confirmation")
	}
	if err := s.SignOut(true); err != nil {
		t.Fatalf("SignOut(true) = %v", err)
	}
	if s.DisplayName() != "" || s.Modal() != ModalNone {
		t.Fatalf("after sign out: %q %v", s.DisplayName(), s.Modal())
	}
}
