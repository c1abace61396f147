package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"fundspark/pkg/auth"
	"fundspark/pkg/backend"
	"fundspark/pkg/config"
	"fundspark/pkg/logging"
	"fundspark/pkg/models"
	"fundspark/pkg/views"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeBackend struct {
	mu        sync.Mutex
	campaigns []models.Campaign
	listErr   error
	lists     int

	donations []models.Donation
	donateErr error

	creates   []models.CreateCampaignRequest
	createErr error

	signIn    backend.SignInResult
	signInErr error
	signUpErr error
}

func (f *fakeBackend) ListCampaigns(context.Context) ([]models.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Campaign, len(f.campaigns))
	copy(out, f.campaigns)
	return out, nil
}

func (f *fakeBackend) RecordDonation(_ context.Context, _ string, d models.Donation) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.donations = append(f.donations, d)
	if f.donateErr != nil {
		return "", f.donateErr
	}
	return "Donation recorded successfully!", nil
}

func (f *fakeBackend) CreateCampaign(_ context.Context, req models.CreateCampaignRequest) (*models.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, req)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Campaign{ID: "new-1", Title: req.Title, TargetAmount: req.TargetAmount}, nil
}

func (f *fakeBackend) SignIn(context.Context, models.SignInRequest) (backend.SignInResult, error) {
	return f.signIn, f.signInErr
}

func (f *fakeBackend) SignUp(context.Context, models.SignUpRequest) (string, error) {
	if f.signUpErr != nil {
		return "", f.signUpErr
	}
	return "User registered successfully!", nil
}

var errBackend = &backend.Error{Op: "test", Status: http.StatusInternalServerError, Message: "boom"}

func newTestRouter(t *testing.T, fb *fakeBackend) *gin.Engine {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Home.CounterSteps = 3
	cfg.Home.CounterIntervalMS = 1

	signer := auth.NewSigner("test-secret", time.Hour)
	r := gin.New()
	r.Use(auth.Middleware(cfg.Session.CookieName, signer))
	New(cfg, fb, logging.Discard()).Register(r)
	return r
}

func do(r http.Handler, method, target string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

var viewIDPattern = regexp.MustCompile(`/donate/([0-9a-f-]{36})/campaigns/`)

func activateDonate(t *testing.T, r http.Handler) string {
	t.Helper()
	rr := do(r, http.MethodGet, "/donate", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /donate = %d", rr.Code)
	}
	m := viewIDPattern.FindStringSubmatch(rr.Body.String())
	if m == nil {
		t.Fatalf("no view id in body: %s", rr.Body.String())
	}
	return m[1]
}

func sampleCampaigns() []models.Campaign {
	return []models.Campaign{
		{ID: "a", Title: "Clean Water", TargetAmount: 10000, CurrentAmount: 4000},
		{ID: "b", Title: "School Books", TargetAmount: 5000, CurrentAmount: 0},
	}
}

func TestHomeRendersMarkersAndCounter(t *testing.T) {
	r := newTestRouter(t, &fakeBackend{})
	rr := do(r, http.MethodGet, "/", nil, nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{`id="counter-value"`, `data-speed="0.35"`, "Medical", "Sign in"} {
		if !strings.Contains(body, want) {
			t.Fatalf("home page missing %q", want)
		}
	}
}

func TestCounterStreamsUntilDone(t *testing.T) {
	r := newTestRouter(t, &fakeBackend{})
	rr := do(r, http.MethodGet, "/api/counter", nil, nil)

	body := rr.Body.String()
	if got := strings.Count(body, "event:counter"); got != 3 {
		t.Fatalf("counter events = %d, body %q", got, body)
	}
	if !strings.Contains(body, "event:done") {
		t.Fatalf("missing final event: %q", body)
	}
}

func TestHealth(t *testing.T) {
	rr := do(newTestRouter(t, &fakeBackend{}), http.MethodGet, "/healthz", nil, nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"ok"`) {
		t.Fatalf("healthz = %d %s", rr.Code, rr.Body.String())
	}
}

func TestDonateActivationListsOnce(t *testing.T) {
	fb := &fakeBackend{campaigns: sampleCampaigns()}
	r := newTestRouter(t, fb)

	rr := do(r, http.MethodGet, "/donate", nil, nil)
	body := rr.Body.String()
	if !strings.Contains(body, "₹4,000 raised of ₹10,000") {
		t.Fatalf("missing card summary: %s", body)
	}
	if !strings.Contains(body, "width: 40%") {
		t.Fatal("missing progress width")
	}
	if fb.lists != 1 {
		t.Fatalf("list requests = %d, want 1", fb.lists)
	}
}

func TestDonateLoadFailureIsInline(t *testing.T) {
	r := newTestRouter(t, &fakeBackend{listErr: errBackend})
	rr := do(r, http.MethodGet, "/donate", nil, nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), views.LoadErrorMessage) {
		t.Fatal("missing load error message")
	}
}

func TestDonateUnknownViewStartsOver(t *testing.T) {
	r := newTestRouter(t, &fakeBackend{})
	rr := do(r, http.MethodGet, "/donate/nope", nil, nil)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/donate" {
		t.Fatalf("got %d %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestDonateOpenAndClose(t *testing.T) {
	r := newTestRouter(t, &fakeBackend{campaigns: sampleCampaigns()})
	id := activateDonate(t, r)

	rr := do(r, http.MethodGet, "/donate/"+id+"/campaigns/b", nil, nil)
	if !strings.Contains(rr.Body.String(), "Donate to School Books") {
		t.Fatalf("dialog not open: %s", rr.Body.String())
	}

	rr = do(r, http.MethodGet, "/donate/"+id+"/close", nil, nil)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("close status = %d", rr.Code)
	}
	rr = do(r, http.MethodGet, "/donate/"+id, nil, nil)
	if strings.Contains(rr.Body.String(), "Donate to School Books") {
		t.Fatal("dialog still open after close")
	}
}

func TestDonateValidationNeverCallsBackend(t *testing.T) {
	fb := &fakeBackend{campaigns: sampleCampaigns()}
	r := newTestRouter(t, fb)
	id := activateDonate(t, r)

	for _, form := range []url.Values{
		{"donorName": {""}, "amount": {"10"}},
		{"donorName": {"Asha"}, "amount": {"0"}},
		{"donorName": {"Asha"}, "amount": {"ten"}},
	} {
		rr := do(r, http.MethodPost, "/donate/"+id+"/campaigns/a", form, nil)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%v: status = %d", form, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "Please enter your name and a valid donation amount.") {
			t.Fatalf("%v: missing alert", form)
		}
	}
	if len(fb.donations) != 0 {
		t.Fatalf("backend called %d times", len(fb.donations))
	}
}

func TestDonateSuccessUpdatesCachedAmount(t *testing.T) {
	fb := &fakeBackend{campaigns: sampleCampaigns()}
	r := newTestRouter(t, fb)
	id := activateDonate(t, r)

	rr := do(r, http.MethodPost, "/donate/"+id+"/campaigns/a", url.Values{"donorName": {"Asha"}, "amount": {"500"}}, nil)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rr.Code)
	}

	rr = do(r, http.MethodGet, "/donate/"+id, nil, rr.Result().Cookies())
	body := rr.Body.String()
	if !strings.Contains(body, "₹4,500 raised of ₹10,000") {
		t.Fatalf("amount not updated: %s", body)
	}
	if !strings.Contains(body, "₹0 raised of ₹5,000") {
		t.Fatal("other campaign changed")
	}
	if !strings.Contains(body, "Donation recorded successfully!") {
		t.Fatal("missing confirmation notice")
	}
	if fb.lists != 1 {
		t.Fatalf("list requests = %d, want 1", fb.lists)
	}
}

func TestDonateFailureKeepsDialog(t *testing.T) {
	fb := &fakeBackend{campaigns: sampleCampaigns(), donateErr: errBackend}
	r := newTestRouter(t, fb)
	id := activateDonate(t, r)

	rr := do(r, http.MethodPost, "/donate/"+id+"/campaigns/a", url.Values{"donorName": {"Asha"}, "amount": {"500"}}, nil)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, views.GenericErrorMessage) {
		t.Fatal("missing generic error")
	}
	if !strings.Contains(body, `value="Asha"`) {
		t.Fatal("entered name lost")
	}
	if !strings.Contains(body, "₹4,000 raised of ₹10,000") {
		t.Fatal("amount changed on failure")
	}
}

func TestFundraiseValidation(t *testing.T) {
	fb := &fakeBackend{}
	r := newTestRouter(t, fb)

	rr := do(r, http.MethodPost, "/fundraise", url.Values{
		"title": {"Books"}, "description": {"For the library"}, "targetAmount": {"-5"},
	}, nil)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Target amount must be a positive number.") {
		t.Fatal("missing validation alert")
	}
	if !strings.Contains(body, `value="Books"`) {
		t.Fatal("field values lost")
	}
	if len(fb.creates) != 0 {
		t.Fatal("create request issued")
	}
}

func TestFundraiseSuccessRedirectsWithID(t *testing.T) {
	fb := &fakeBackend{}
	r := newTestRouter(t, fb)

	rr := do(r, http.MethodPost, "/fundraise", url.Values{
		"title": {"Books"}, "description": {"For the library"}, "targetAmount": {"2500"},
	}, nil)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rr.Code)
	}
	loc := rr.Header().Get("Location")
	if loc != "/fundraise?created=new-1" {
		t.Fatalf("location = %q", loc)
	}
	if len(fb.creates) != 1 || fb.creates[0].TargetAmount != 2500 {
		t.Fatalf("creates = %+v", fb.creates)
	}

	rr = do(r, http.MethodGet, loc, nil, nil)
	body := rr.Body.String()
	if !strings.Contains(body, "new-1") || strings.Contains(body, `value="Books"`) {
		t.Fatalf("unexpected form after create: %s", body)
	}
}

func TestFundraiseBackendFailure(t *testing.T) {
	r := newTestRouter(t, &fakeBackend{createErr: errBackend})
	rr := do(r, http.MethodPost, "/fundraise", url.Values{
		"title": {"Books"}, "description": {"For the library"}, "targetAmount": {"2500"},
	}, nil)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), views.GenericErrorMessage) {
		t.Fatal("missing generic error")
	}
}

func identityCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == "userName" {
			return c
		}
	}
	return nil
}

func TestSignInSuccessSetsIdentity(t *testing.T) {
	fb := &fakeBackend{signIn: backend.SignInResult{Kind: backend.SignInSucceeded, Message: backend.SuccessfulLogin}}
	r := newTestRouter(t, fb)

	rr := do(r, http.MethodPost, "/auth/signin", url.Values{
		"email": {"jane@x.com"}, "password": {"pw"}, "next": {"/donate?modal=signin"},
	}, nil)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/donate" {
		t.Fatalf("location = %q", loc)
	}
	cookie := identityCookie(rr)
	if cookie == nil || cookie.Value == "" || !cookie.HttpOnly {
		t.Fatalf("identity cookie = %+v", cookie)
	}

	rr = do(r, http.MethodGet, "/", nil, []*http.Cookie{cookie})
	body := rr.Body.String()
	if !strings.Contains(body, `<span class="nav-item user-name">jane</span>`) {
		t.Fatalf("display name not shown: %s", body)
	}
	if !strings.Contains(body, "Log out") {
		t.Fatal("missing log out control")
	}
}

func TestSignInRejectedKeepsSignedOut(t *testing.T) {
	fb := &fakeBackend{signIn: backend.SignInResult{Kind: backend.SignInRejected, Message: "Invalid credentials"}}
	r := newTestRouter(t, fb)

	rr := do(r, http.MethodPost, "/auth/signin", url.Values{
		"email": {"jane@x.com"}, "password": {"bad"}, "next": {"/"},
	}, nil)
	if c := identityCookie(rr); c != nil && c.MaxAge >= 0 {
		t.Fatalf("identity cookie set on rejection: %+v", c)
	}
	loc := rr.Header().Get("Location")
	if loc != "/?modal=signin" {
		t.Fatalf("location = %q", loc)
	}

	rr = do(r, http.MethodGet, loc, nil, rr.Result().Cookies())
	body := rr.Body.String()
	if !strings.Contains(body, "Invalid credentials") || !strings.Contains(body, "Welcome Back") {
		t.Fatalf("expected alert over sign-in dialog: %s", body)
	}
}

func TestSignInTransportFailure(t *testing.T) {
	r := newTestRouter(t, &fakeBackend{signInErr: errBackend})
	rr := do(r, http.MethodPost, "/auth/signin", url.Values{"email": {"jane@x.com"}, "password": {"pw"}}, nil)

	rr = do(r, http.MethodGet, rr.Header().Get("Location"), nil, rr.Result().Cookies())
	if !strings.Contains(rr.Body.String(), views.GenericErrorMessage) {
		t.Fatal("missing generic error")
	}
}

func TestSignUpOpensSignIn(t *testing.T) {
	r := newTestRouter(t, &fakeBackend{})
	rr := do(r, http.MethodPost, "/auth/signup", url.Values{
		"fullName": {"Jane Doe"}, "email": {"jane@x.com"}, "password": {"pw"}, "next": {"/fundraise"},
	}, nil)
	if loc := rr.Header().Get("Location"); loc != "/fundraise?modal=signin" {
		t.Fatalf("location = %q", loc)
	}
	if identityCookie(rr) != nil {
		t.Fatal("sign up must not sign in")
	}
}

func TestSignOutRequiresConfirmation(t *testing.T) {
	fb := &fakeBackend{signIn: backend.SignInResult{Kind: backend.SignInSucceeded, Message: backend.SuccessfulLogin}}
	r := newTestRouter(t, fb)
	rr := do(r, http.MethodPost, "/auth/signin", url.Values{"email": {"jane@x.com"}, "password": {"pw"}}, nil)
	cookie := identityCookie(rr)

	rr = do(r, http.MethodPost, "/auth/signout", url.Values{"next": {"/"}}, []*http.Cookie{cookie})
	if identityCookie(rr) != nil {
		t.Fatal("unconfirmed sign out touched the identity cookie")
	}

	rr = do(r, http.MethodPost, "/auth/signout", url.Values{"confirm": {"yes"}, "next": {"/"}}, []*http.Cookie{cookie})
	cleared := identityCookie(rr)
	if cleared == nil || cleared.MaxAge >= 0 {
		t.Fatalf("identity cookie not cleared: %+v", cleared)
	}
}

func TestSignOutDialogOnlyWhenSignedIn(t *testing.T) {
	r := newTestRouter(t, &fakeBackend{})
	rr := do(r, http.MethodGet, "/?modal=signout", nil, nil)
	if strings.Contains(rr.Body.String(), "Are you sure you want to log out?") {
		t.Fatal("sign-out dialog shown to a signed-out user")
	}
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/donate", "/donate"},
		{"/donate?modal=signin", "/donate"},
		{"/fundraise?created=1&modal=signup", "/fundraise?created=1"},
		{"https://evil.example/", "/"},
		{"//evil.example/", "/"},
		{`/\evil.example`, "/"},
		{"donate", "/"},
	}
	for _, tt := range tests {
		if got := safeNext(tt.in); got != tt.want {
			t.Fatalf("safeNext(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestViewCacheExpires(t *testing.T) {
	vc := newViewCache(4, 20*time.Millisecond)
	v := views.NewDonateView()
	id := vc.put(v)
	if _, ok := vc.get(id); !ok {
		t.Fatal("fresh entry missing")
	}

	time.Sleep(60 * time.Millisecond)
	if _, ok := vc.get(id); ok {
		t.Fatal("expired entry returned")
	}
	deadline := time.Now().Add(2 * time.Second)
	for vc.len() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if vc.len() != 0 {
		t.Fatalf("cache size = %d", vc.len())
	}
	if v.Active() {
		t.Fatal("expired view still active")
	}
}

func TestViewCacheGetExtendsLifetime(t *testing.T) {
	vc := newViewCache(4, 400*time.Millisecond)
	id := vc.put(views.NewDonateView())

	time.Sleep(250 * time.Millisecond)
	if _, ok := vc.get(id); !ok {
		t.Fatal("entry missing before ttl")
	}
	time.Sleep(250 * time.Millisecond)
	if _, ok := vc.get(id); !ok {
		t.Fatal("entry expired although it was used")
	}
}

func TestViewCacheEvictsOldest(t *testing.T) {
	vc := newViewCache(3, time.Minute)
	first := views.NewDonateView()
	firstID := vc.put(first)
	for i := 0; i < 10; i++ {
		vc.put(views.NewDonateView())
	}

	if vc.len() != 3 {
		t.Fatalf("cache size = %d, want 3", vc.len())
	}
	if _, ok := vc.get(firstID); ok {
		t.Fatal("oldest view still cached")
	}
	if first.Active() {
		t.Fatal("evicted view still active")
	}
}

func TestDonateViewsStayCapped(t *testing.T) {
	fb := &fakeBackend{campaigns: sampleCampaigns()}
	cfg := config.DefaultConfig()
	h := New(cfg, fb, logging.Discard())
	h.views = newViewCache(5, time.Minute)
	r := gin.New()
	r.Use(auth.Middleware(cfg.Session.CookieName, auth.NewSigner("test-secret", time.Hour)))
	h.Register(r)

	firstID := activateDonate(t, r)
	for i := 0; i < 50; i++ {
		do(r, http.MethodGet, "/donate", nil, nil)
	}
	if h.views.len() != 5 {
		t.Fatalf("cached views = %d, want 5", h.views.len())
	}

	rr := do(r, http.MethodGet, "/donate/"+firstID, nil, nil)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/donate" {
		t.Fatalf("evicted view: got %d %q", rr.Code, rr.Header().Get("Location"))
	}
}
