package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mindscape-city/mindscape/internal/app/minigame"
	"github.com/mindscape-city/mindscape/internal/app/reward"
	"github.com/mindscape-city/mindscape/internal/app/rotation"
	"github.com/mindscape-city/mindscape/internal/app/session"
	"github.com/mindscape-city/mindscape/internal/domain"
	"github.com/mindscape-city/mindscape/internal/infra/catalog"
	"github.com/mindscape-city/mindscape/internal/infra/outbox"
	"github.com/mindscape-city/mindscape/internal/infra/sqlite"
	"github.com/mindscape-city/mindscape/internal/notify"
	"github.com/mindscape-city/mindscape/internal/scene"
)

func newTestServer(t *testing.T) (*Server, *sqlite.DB) {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	rng := rand.New(rand.NewSource(1))
	clock := minigame.SystemClock()

	queue := outbox.New(db, log)
	sessions := session.New(db, queue, reward.NewStreakTracker(), clock, rng, log)
	rewards := reward.NewService(db, log)
	rotations := rotation.NewEngine(rng, catalog.Templates)
	sceneBuilder := scene.NewBuilder(db, clock, log)

	notifier := notify.NewInAppNotifier(db, time.Now)
	scheduler := notify.NewScheduler(db, notifier, rewards, rng, time.Now, log)
	clicks := notify.NewClickRouter(scheduler, clock, log)

	return NewServer(db, rotations, sessions, rewards, sceneBuilder, clicks, time.Now), db
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// ─── Health & Rotation ──────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv.Handler(), "GET", "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestGetRotation_FreshProfile(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv.Handler(), "GET", "/api/rotation", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Season     domain.Season          `json:"season"`
		Progress   domain.ProgressSnapshot `json:"progress"`
		Activities []domain.DailyActivity `json:"activities"`
	}
	decodeBody(t, rec, &resp)
	if resp.Progress.Level != 1 {
		t.Errorf("level = %d, want 1", resp.Progress.Level)
	}
	if len(resp.Activities) != 2 {
		t.Errorf("len(activities) = %d, want the 2 level-1 templates", len(resp.Activities))
	}
	for _, a := range resp.Activities {
		if a.UnlockLevel > 1 {
			t.Errorf("%s unlocks at level %d, should be locked", a.Type, a.UnlockLevel)
		}
	}
}

func TestRotationRefresh_BeforeRotate(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv.Handler(), "POST", "/api/rotation/refresh", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 before any rotation", rec.Code)
	}
}

func TestNextUnlock(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv.Handler(), "GET", "/api/rotation/next-unlock", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		NextUnlock *domain.UnlockPreview `json:"next_unlock"`
	}
	decodeBody(t, rec, &resp)
	if resp.NextUnlock == nil || resp.NextUnlock.UnlockLevel != 2 {
		t.Errorf("next unlock = %+v, want the level-2 template", resp.NextUnlock)
	}
}

// ─── Session ────────────────────────────────────────────────────────────────

func TestSessionLifecycle_StartAndCancel(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	// No session yet.
	if rec := doRequest(t, h, "GET", "/api/session", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("GET session status = %d, want 404", rec.Code)
	}

	// Populate the rotation and pick an activity.
	rec := doRequest(t, h, "GET", "/api/rotation", "")
	var rotResp struct {
		Activities []domain.DailyActivity `json:"activities"`
	}
	decodeBody(t, rec, &rotResp)
	if len(rotResp.Activities) == 0 {
		t.Fatal("empty rotation")
	}
	id := rotResp.Activities[0].ID

	rec = doRequest(t, h, "POST", "/api/session/start", `{"activity_id":"`+id+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start status = %d: %s", rec.Code, rec.Body.String())
	}

	// A second start is refused while the first is live.
	rec = doRequest(t, h, "POST", "/api/session/start", `{"activity_id":"`+id+`"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("second start status = %d, want 409", rec.Code)
	}

	if rec := doRequest(t, h, "POST", "/api/session/cancel", ""); rec.Code != http.StatusOK {
		t.Errorf("cancel status = %d, want 200", rec.Code)
	}
	if rec := doRequest(t, h, "GET", "/api/session", ""); rec.Code != http.StatusNotFound {
		t.Errorf("GET after cancel = %d, want 404", rec.Code)
	}
}

func TestSessionStart_UnknownActivity(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv.Handler(), "POST", "/api/session/start", `{"activity_id":"nope"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSessionStart_DailyLimit(t *testing.T) {
	srv, db := newTestServer(t)
	h := srv.Handler()

	now := time.Now()
	for i := 0; i < session.MaxDailyActivities; i++ {
		db.InsertCompletion(domain.ActivityCompletion{
			ID:          string(rune('a' + i)),
			ActivityID:  "daily_x",
			CompletedAt: now,
		})
	}

	rec := doRequest(t, h, "GET", "/api/rotation", "")
	var rotResp struct {
		Activities []domain.DailyActivity `json:"activities"`
	}
	decodeBody(t, rec, &rotResp)

	rec = doRequest(t, h, "POST", "/api/session/start", `{"activity_id":"`+rotResp.Activities[0].ID+`"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Message string `json:"message"`
	}
	decodeBody(t, rec, &resp)
	if resp.Message != session.LimitMessage {
		t.Errorf("message = %q, want the daily limit message", resp.Message)
	}
}

// ─── Schedules ──────────────────────────────────────────────────────────────

func TestScheduleCRUD(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := doRequest(t, h, "POST", "/api/schedules/", `{"break_time":"14:30","label":"Afternoon"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var created domain.BreakSchedule
	decodeBody(t, rec, &created)
	if created.ID == "" || created.BreakTime != "14:30" || !created.IsActive {
		t.Errorf("created = %+v", created)
	}

	rec = doRequest(t, h, "PUT", "/api/schedules/"+created.ID, `{"break_time":"15:00","is_active":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", rec.Code, rec.Body.String())
	}
	var updated domain.BreakSchedule
	decodeBody(t, rec, &updated)
	if updated.BreakTime != "15:00" || updated.IsActive {
		t.Errorf("updated = %+v", updated)
	}

	rec = doRequest(t, h, "GET", "/api/schedules/", "")
	var list struct {
		Schedules []domain.BreakSchedule `json:"schedules"`
	}
	decodeBody(t, rec, &list)
	if len(list.Schedules) != 1 {
		t.Errorf("len(schedules) = %d, want 1", len(list.Schedules))
	}

	if rec := doRequest(t, h, "DELETE", "/api/schedules/"+created.ID, ""); rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rec.Code)
	}
	if rec := doRequest(t, h, "DELETE", "/api/schedules/"+created.ID, ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestUpdateSchedule_PartialUpdateKeepsDNDWindow(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := doRequest(t, h, "POST", "/api/schedules/",
		`{"break_time":"14:30","do_not_disturb_start":"22:00","do_not_disturb_end":"06:00"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var created domain.BreakSchedule
	decodeBody(t, rec, &created)

	rec = doRequest(t, h, "PUT", "/api/schedules/"+created.ID, `{"label":"Evening wind-down"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", rec.Code, rec.Body.String())
	}
	var updated domain.BreakSchedule
	decodeBody(t, rec, &updated)
	if updated.DNDStart != "22:00" || updated.DNDEnd != "06:00" {
		t.Errorf("DND window after label-only update = %q-%q, want 22:00-06:00", updated.DNDStart, updated.DNDEnd)
	}
	if updated.Label != "Evening wind-down" {
		t.Errorf("Label = %q", updated.Label)
	}

	// An explicit empty string clears the window.
	rec = doRequest(t, h, "PUT", "/api/schedules/"+created.ID,
		`{"do_not_disturb_start":"","do_not_disturb_end":""}`)
	updated = domain.BreakSchedule{}
	decodeBody(t, rec, &updated)
	if updated.DNDStart != "" || updated.DNDEnd != "" {
		t.Errorf("DND window after clearing = %q-%q, want empty", updated.DNDStart, updated.DNDEnd)
	}
}

func TestCreateSchedule_RejectsBadTime(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, bad := range []string{"25:00", "14:60", "9:00", "noon"} {
		rec := doRequest(t, srv.Handler(), "POST", "/api/schedules/", `{"break_time":"`+bad+`"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("break_time %q: status = %d, want 400", bad, rec.Code)
		}
	}
}

// ─── Stats & Rewards ────────────────────────────────────────────────────────

func TestStats_FreshProfile(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv.Handler(), "GET", "/api/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Stats    domain.Stats            `json:"stats"`
		Progress domain.ProgressSnapshot `json:"progress"`
		Claimed  bool                    `json:"daily_reward_claimed"`
	}
	decodeBody(t, rec, &resp)
	if resp.Stats.TotalBreaks != 0 || resp.Progress.Level != 1 || resp.Claimed {
		t.Errorf("resp = %+v", resp)
	}
}

func TestClaimReward_OncePerDay(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := doRequest(t, h, "POST", "/api/rewards/claim", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("claim status = %d: %s", rec.Code, rec.Body.String())
	}
	var claimed domain.DailyReward
	decodeBody(t, rec, &claimed)
	if claimed.Item == "" || claimed.Rarity == "" {
		t.Errorf("claimed = %+v", claimed)
	}

	if rec := doRequest(t, h, "POST", "/api/rewards/claim", ""); rec.Code != http.StatusConflict {
		t.Errorf("second claim status = %d, want 409", rec.Code)
	}
}

// ─── City ───────────────────────────────────────────────────────────────────

func TestCity_ViewAndPlace(t *testing.T) {
	srv, db := newTestServer(t)
	h := srv.Handler()

	db.InsertCityItem(domain.CityItem{
		ID: "i1", ItemName: "Paper Crane", ItemType: "decoration",
		Rarity: domain.Common, CreatedAt: time.Now(),
	})

	rec := doRequest(t, h, "GET", "/api/city", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("city status = %d: %s", rec.Code, rec.Body.String())
	}
	var view scene.View
	decodeBody(t, rec, &view)
	if len(view.Inventory) != 1 || len(view.Placed) != 0 || len(view.NPCs) != 3 {
		t.Errorf("view = %+v", view)
	}

	rec = doRequest(t, h, "POST", "/api/city/place", `{"id":"i1","x":2,"y":0,"z":-3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("place status = %d: %s", rec.Code, rec.Body.String())
	}
	var placed domain.CityItem
	decodeBody(t, rec, &placed)
	if !placed.IsPlaced || placed.PositionX != 2 {
		t.Errorf("placed = %+v", placed)
	}
}

func TestCityClick_Resident(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv.Handler(), "GET", "/api/city/click/npc_ivy", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		NPC *domain.NPC `json:"npc"`
	}
	decodeBody(t, rec, &resp)
	if resp.NPC == nil || resp.NPC.Name != "Ivy" {
		t.Errorf("npc = %+v, want Ivy", resp.NPC)
	}
}

func TestCityPlace_Missing(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv.Handler(), "POST", "/api/city/place", `{"id":"nope"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// ─── Notifications ──────────────────────────────────────────────────────────

func TestNotifications_ListAndMarkShown(t *testing.T) {
	srv, db := newTestServer(t)
	h := srv.Handler()

	id, err := db.InsertNotification(domain.Notification{
		Title: "Mindful Break", Body: "Time for a break.", Tag: "break:s1", CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("InsertNotification() error: %v", err)
	}

	rec := doRequest(t, h, "GET", "/api/notifications", "")
	var list struct {
		Notifications []domain.Notification `json:"notifications"`
	}
	decodeBody(t, rec, &list)
	if len(list.Notifications) != 1 {
		t.Fatalf("len = %d, want 1", len(list.Notifications))
	}

	rec = doRequest(t, h, "POST", "/api/notifications/"+strconv.FormatInt(id, 10)+"/shown", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("shown status = %d", rec.Code)
	}

	rec = doRequest(t, h, "GET", "/api/notifications", "")
	decodeBody(t, rec, &list)
	if len(list.Notifications) != 0 {
		t.Errorf("len after shown = %d, want 0", len(list.Notifications))
	}
}

func TestNotificationClick_ClaimRoutesToStats(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv.Handler(), "POST", "/api/notifications/click", `{"action":"claim","tag":"daily-reward"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Route string `json:"route"`
	}
	decodeBody(t, rec, &resp)
	if resp.Route != notify.RouteStats {
		t.Errorf("route = %q, want %q", resp.Route, notify.RouteStats)
	}
}

// ─── Settings ───────────────────────────────────────────────────────────────

func TestSettings_RoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := doRequest(t, h, "GET", "/api/settings", "")
	var settings domain.UserSettings
	decodeBody(t, rec, &settings)
	if settings != domain.DefaultUserSettings() {
		t.Errorf("fresh settings = %+v, want defaults", settings)
	}

	rec = doRequest(t, h, "PUT", "/api/settings", `{"notifications_enabled":false,"music_enabled":true,"volume":40}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, h, "GET", "/api/settings", "")
	decodeBody(t, rec, &settings)
	if settings.NotificationsEnabled || settings.Volume != 40 {
		t.Errorf("settings = %+v", settings)
	}
}

func TestSaveSettings_RejectsBadVolume(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv.Handler(), "PUT", "/api/settings", `{"volume":150}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
