package lifecycle

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"sitewatch/internal/api"
	"sitewatch/internal/domain"
)

// --- fakes ---

type fakeMonitorAPI struct {
	createCalls int
	editCalls   int
	deleteCalls int
	listCalls   int

	createErr error
	deleteErr error

	serverList []domain.Monitor
}

func (f *fakeMonitorAPI) CreateMonitor(_ context.Context, userID int64, name, url string, interval int) error {
	f.createCalls++
	return f.createErr
}

func (f *fakeMonitorAPI) EditMonitor(_ context.Context, id domain.MonitorID, name, url string, interval int) error {
	f.editCalls++
	return nil
}

func (f *fakeMonitorAPI) DeleteMonitor(_ context.Context, userID int64, id domain.MonitorID) error {
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.serverList[:0:0]
	for _, m := range f.serverList {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	f.serverList = kept
	return nil
}

func (f *fakeMonitorAPI) Monitors(_ context.Context) ([]domain.Monitor, error) {
	f.listCalls++
	return append([]domain.Monitor(nil), f.serverList...), nil
}

func (f *fakeMonitorAPI) UserMonitors(_ context.Context, userID int64) ([]domain.Monitor, error) {
	f.listCalls++
	return append([]domain.Monitor(nil), f.serverList...), nil
}

type fakeVerifier struct {
	calls int
	ok    bool
}

func (f *fakeVerifier) Login(_ context.Context, email, password string) (*api.AuthResponse, error) {
	f.calls++
	if !f.ok {
		return &api.AuthResponse{Success: false}, nil
	}
	return &api.AuthResponse{Success: true, User: &domain.User{ID: 1, Email: email}}, nil
}

func testUser() *domain.User {
	return &domain.User{ID: 1, Name: "Pat", Email: "pat@x.com"}
}

func newCoordinator(m *fakeMonitorAPI, v *fakeVerifier) *Coordinator {
	return NewCoordinator(m, v, zap.NewNop())
}

// --- create wizard ---

func TestCreateWizard_StepValidation(t *testing.T) {
	c := newCoordinator(&fakeMonitorAPI{}, &fakeVerifier{ok: true})
	w := c.NewCreate(testUser())

	// empty details block step 0
	if err := w.Next(); err == nil {
		t.Fatal("empty site name must not pass step 0")
	}
	w.SiteName = "My Site"
	if err := w.Next(); err == nil {
		t.Fatal("empty URL must not pass step 0")
	}
	w.SiteURL = "not a url"
	if err := w.Next(); err == nil {
		t.Fatal("invalid URL must not pass step 0")
	}
	w.SiteURL = "https://example.com"
	if err := w.Next(); err != nil {
		t.Fatalf("valid details rejected: %v", err)
	}
	if w.Step() != StepSchedule {
		t.Fatalf("expected schedule step, got %d", w.Step())
	}

	// back navigation does not validate
	w.Back()
	if w.Step() != StepDetails {
		t.Fatal("back should return to details")
	}
	if err := w.Next(); err != nil {
		t.Fatalf("re-advance: %v", err)
	}

	w.Interval = 0
	if err := w.Next(); err == nil {
		t.Fatal("missing interval must not pass step 1")
	}
	w.Interval = 600
	if err := w.Next(); err != nil {
		t.Fatalf("schedule rejected: %v", err)
	}
	if w.Step() != StepReview {
		t.Fatalf("expected review step, got %d", w.Step())
	}
}

func TestCreateWizard_SubmitRejectsLowIntervalBeforeNetwork(t *testing.T) {
	apiFake := &fakeMonitorAPI{}
	c := newCoordinator(apiFake, &fakeVerifier{ok: true})
	w := c.NewCreate(testUser())
	w.SiteName = "My Site"
	w.SiteURL = "https://example.com"
	w.Interval = 60

	err := w.Submit(context.Background())
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if apiFake.createCalls != 0 {
		t.Fatal("interval below floor must never reach the network")
	}
}

func TestCreateWizard_SubmitRequiresResolvableUser(t *testing.T) {
	apiFake := &fakeMonitorAPI{}
	c := newCoordinator(apiFake, &fakeVerifier{ok: true})

	for _, u := range []*domain.User{nil, {ID: 0, Email: "x@x.com"}} {
		w := c.NewCreate(u)
		w.SiteName = "Site"
		w.SiteURL = "https://example.com"
		w.Interval = 300
		if err := w.Submit(context.Background()); err == nil {
			t.Fatalf("user %+v must be rejected", u)
		}
	}
	if apiFake.createCalls != 0 {
		t.Fatal("unresolvable user must not reach the network")
	}
}

func TestCreateWizard_SubmitRequiresExplicitScheme(t *testing.T) {
	apiFake := &fakeMonitorAPI{}
	c := newCoordinator(apiFake, &fakeVerifier{ok: true})
	w := c.NewCreate(testUser())
	w.SiteName = "Site"
	w.SiteURL = "example.com"
	w.Interval = 300

	if err := w.Submit(context.Background()); err == nil {
		t.Fatal("schemeless URL must be rejected")
	}
	if apiFake.createCalls != 0 {
		t.Fatal("no network call expected")
	}

	w.SiteURL = "https://example.com"
	if err := w.Submit(context.Background()); err != nil {
		t.Fatalf("valid submit failed: %v", err)
	}
	if !w.Done() || apiFake.createCalls != 1 {
		t.Fatalf("expected done after one create call, calls=%d", apiFake.createCalls)
	}
}

// --- edit ---

func TestEdit_IntervalFloorAndLeadingZeros(t *testing.T) {
	apiFake := &fakeMonitorAPI{}
	c := newCoordinator(apiFake, &fakeVerifier{ok: true})
	f := c.NewEdit(domain.Monitor{ID: 4, SiteName: "Site", SiteURL: "https://example.com", Interval: 600})

	f.SetIntervalText("0099")
	if f.Interval != 99 {
		t.Fatalf("leading zeros not stripped: %d", f.Interval)
	}
	if f.Warning == "" {
		t.Fatal("typing below the floor should warn")
	}
	if err := f.Submit(context.Background()); err == nil {
		t.Fatal("interval below floor must not submit")
	}
	if apiFake.editCalls != 0 {
		t.Fatal("rejected edit must not reach the network")
	}

	f.SetIntervalText("300")
	if f.Warning != "" {
		t.Fatalf("warning should clear at the floor: %q", f.Warning)
	}
	if err := f.Submit(context.Background()); err != nil {
		t.Fatalf("valid edit failed: %v", err)
	}
	if apiFake.editCalls != 1 {
		t.Fatalf("expected one edit call, got %d", apiFake.editCalls)
	}
}

// --- delete ---

func TestDelete_EmailMismatchNeverVerifies(t *testing.T) {
	verifier := &fakeVerifier{ok: true}
	c := newCoordinator(&fakeMonitorAPI{}, verifier)
	flow := c.NewDelete(testUser(), domain.Monitor{ID: 4})

	if err := flow.Verify(context.Background(), "other@x.com", "secret"); err == nil {
		t.Fatal("mismatched email must fail verification")
	}
	if verifier.calls != 0 {
		t.Fatal("mismatched email must not trigger a credential check")
	}
	if flow.Step() != StepVerify {
		t.Fatal("flow must stay on the verification step")
	}
}

func TestDelete_FailedCredentialsStayOnStepOne(t *testing.T) {
	verifier := &fakeVerifier{ok: false}
	apiFake := &fakeMonitorAPI{serverList: []domain.Monitor{{ID: 4}}}
	c := newCoordinator(apiFake, verifier)
	flow := c.NewDelete(testUser(), domain.Monitor{ID: 4})

	if err := flow.Verify(context.Background(), "pat@x.com", "wrong"); err == nil {
		t.Fatal("failed verification must error")
	}
	if flow.Step() != StepVerify {
		t.Fatal("flow must stay on the verification step")
	}
	// confirmation is unreachable without verification
	if _, err := flow.Confirm(context.Background()); err == nil {
		t.Fatal("confirm before verify must fail")
	}
	if apiFake.deleteCalls != 0 {
		t.Fatal("nothing may be deleted without verification")
	}
}

func TestDelete_ConfirmRefetchesListFromServer(t *testing.T) {
	verifier := &fakeVerifier{ok: true}
	apiFake := &fakeMonitorAPI{serverList: []domain.Monitor{{ID: 4}, {ID: 5}}}
	c := newCoordinator(apiFake, verifier)
	flow := c.NewDelete(testUser(), domain.Monitor{ID: 4})

	if err := flow.Verify(context.Background(), "pat@x.com", "secret"); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if flow.Step() != StepConfirm {
		t.Fatal("verification should advance to confirmation")
	}

	monitors, err := flow.Confirm(context.Background())
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if apiFake.deleteCalls != 1 || apiFake.listCalls != 1 {
		t.Fatalf("want delete then refetch, got delete=%d list=%d", apiFake.deleteCalls, apiFake.listCalls)
	}
	if len(monitors) != 1 || monitors[0].ID != 5 {
		t.Fatalf("list must be server truth after delete: %+v", monitors)
	}
}

func TestDelete_FailureLeavesListAlone(t *testing.T) {
	verifier := &fakeVerifier{ok: true}
	apiFake := &fakeMonitorAPI{
		serverList: []domain.Monitor{{ID: 4}},
		deleteErr:  errors.New("engine down"),
	}
	c := newCoordinator(apiFake, verifier)
	flow := c.NewDelete(testUser(), domain.Monitor{ID: 4})

	if err := flow.Verify(context.Background(), "pat@x.com", "secret"); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if _, err := flow.Confirm(context.Background()); err == nil {
		t.Fatal("expected delete failure")
	}
	if apiFake.listCalls != 0 {
		t.Fatal("no refetch after a failed delete")
	}
	if flow.Step() != StepConfirm {
		t.Fatal("flow stays open after a failed delete")
	}
}
