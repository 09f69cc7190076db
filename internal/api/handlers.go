package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mindscape-city/mindscape/internal/app/minigame"
	"github.com/mindscape-city/mindscape/internal/app/rotation"
	"github.com/mindscape-city/mindscape/internal/app/session"
	"github.com/mindscape-city/mindscape/internal/domain"
)

// writeDomainError maps sentinel errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrDailyLimitReached):
		writeJSON(w, http.StatusTooManyRequests, map[string]interface{}{
			"error":   err.Error(),
			"message": session.LimitMessage,
		})
	case errors.Is(err, domain.ErrSessionActive),
		errors.Is(err, domain.ErrReleaseInFlight),
		errors.Is(err, domain.ErrRewardClaimed),
		errors.Is(err, domain.ErrSessionFinished):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNoActiveSession),
		errors.Is(err, domain.ErrUnknownActivity),
		errors.Is(err, domain.ErrScheduleNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrRewardNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrEmptyIntention),
		errors.Is(err, domain.ErrIntentionTooLong),
		errors.Is(err, domain.ErrActivityLocked),
		errors.Is(err, domain.ErrRotationNotReady):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// ─── Rotation ───────────────────────────────────────────────────────────────

func (s *Server) handleRotation(w http.ResponseWriter, r *http.Request) {
	snap, err := s.sessions.Snapshot()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	activities := s.rotations.Current()
	season := s.rotations.Season()
	if len(activities) == 0 {
		season = rotation.SeasonFor(s.now())
		activities = s.rotations.Rotate(snap.Level, season)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"season":     season,
		"progress":   snap,
		"activities": activities,
	})
}

func (s *Server) handleRotationRefresh(w http.ResponseWriter, r *http.Request) {
	activities, err := s.rotations.Refresh()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"season":     s.rotations.Season(),
		"activities": activities,
	})
}

func (s *Server) handleNextUnlock(w http.ResponseWriter, r *http.Request) {
	snap, err := s.sessions.Snapshot()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"next_unlock": s.rotations.NextUnlock(snap.Level),
	})
}

// ─── Session ────────────────────────────────────────────────────────────────

type startSessionRequest struct {
	ActivityID string `json:"activity_id"`
}

func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var activity *domain.DailyActivity
	for _, a := range s.rotations.Current() {
		if a.ID == req.ActivityID {
			activity = &a
			break
		}
	}
	if activity == nil {
		writeDomainError(w, domain.ErrUnknownActivity)
		return
	}

	sess, err := s.sessions.Start(*activity, s.rotations.Season())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionState(sess))
}

func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Active()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionState(sess))
}

func (s *Server) handleSessionCancel(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Cancel(); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

type cloudCatchRequest struct {
	CloudID int `json:"cloud_id"`
}

func (s *Server) handleCloudCatch(w http.ResponseWriter, r *http.Request) {
	var req cloudCatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := s.sessions.Active()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	cloud := sess.CloudCatcher()
	if cloud == nil {
		writeError(w, http.StatusBadRequest, "active session is not a cloud catcher")
		return
	}
	caught := cloud.Catch(req.CloudID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"caught":    caught,
		"score":     cloud.Score(),
		"time_left": cloud.TimeLeft(),
	})
}

type lanternReleaseRequest struct {
	Intention string `json:"intention"`
}

func (s *Server) handleLanternRelease(w http.ResponseWriter, r *http.Request) {
	var req lanternReleaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := s.sessions.Active()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	lantern := sess.LanternRelease()
	if lantern == nil {
		writeError(w, http.StatusBadRequest, "active session is not a lantern release")
		return
	}
	if err := lantern.Release(req.Intention); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"phase": lantern.Phase()})
}

func (s *Server) handleSessionComplete(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Active()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := sess.CompleteManually(); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

// sessionState serializes the live mini-activity state for the UI.
func sessionState(sess *minigame.Session) map[string]interface{} {
	state := map[string]interface{}{
		"activity": sess.Activity(),
		"done":     sess.Done(),
	}
	if cloud := sess.CloudCatcher(); cloud != nil {
		state["cloud_catcher"] = map[string]interface{}{
			"clouds":    cloud.Clouds(),
			"score":     cloud.Score(),
			"time_left": cloud.TimeLeft(),
		}
	}
	if lantern := sess.LanternRelease(); lantern != nil {
		state["lantern"] = map[string]interface{}{
			"released": lantern.Released(),
			"phase":    lantern.Phase(),
		}
	}
	if garden := sess.GardenBloom(); garden != nil {
		state["garden"] = map[string]interface{}{
			"phase":  garden.Phase(),
			"cycles": garden.Cycles(),
			"growth": garden.Growth(),
		}
	}
	return state
}

// ─── Schedules ──────────────────────────────────────────────────────────────

type scheduleRequest struct {
	BreakTime string  `json:"break_time"`
	IsActive  *bool   `json:"is_active,omitempty"`
	DNDStart  *string `json:"do_not_disturb_start,omitempty"`
	DNDEnd    *string `json:"do_not_disturb_end,omitempty"`
	Label     string  `json:"label,omitempty"`
}

func (s *Server) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := s.store.ListSchedules(false)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"schedules": schedules})
}

func (s *Server) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validBreakTime(req.BreakTime) {
		writeError(w, http.StatusBadRequest, "break_time must be HH:MM")
		return
	}

	sched := domain.BreakSchedule{
		ID:        uuid.NewString(),
		BreakTime: req.BreakTime,
		IsActive:  true,
		Label:     req.Label,
		CreatedAt: s.now(),
	}
	if req.DNDStart != nil {
		sched.DNDStart = *req.DNDStart
	}
	if req.DNDEnd != nil {
		sched.DNDEnd = *req.DNDEnd
	}
	if req.IsActive != nil {
		sched.IsActive = *req.IsActive
	}
	if err := s.store.InsertSchedule(sched); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sched)
}

func (s *Server) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := s.store.GetSchedule(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.BreakTime != "" {
		if !validBreakTime(req.BreakTime) {
			writeError(w, http.StatusBadRequest, "break_time must be HH:MM")
			return
		}
		existing.BreakTime = req.BreakTime
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}
	// Absent DND fields keep the stored window; an explicit "" clears it.
	if req.DNDStart != nil {
		existing.DNDStart = *req.DNDStart
	}
	if req.DNDEnd != nil {
		existing.DNDEnd = *req.DNDEnd
	}
	if req.Label != "" {
		existing.Label = req.Label
	}

	if err := s.store.UpdateSchedule(existing); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, existing)
}

func (s *Server) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteSchedule(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Stats & Rewards ────────────────────────────────────────────────────────

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetStats()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	snap, err := s.sessions.Snapshot()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	claimed, err := s.rewards.ClaimedToday(s.now())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats":                stats,
		"progress":             snap,
		"daily_reward_claimed": claimed,
	})
}

func (s *Server) handleClaimReward(w http.ResponseWriter, r *http.Request) {
	claimed, err := s.rewards.Claim(s.now())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, claimed)
}

// ─── City ───────────────────────────────────────────────────────────────────

func (s *Server) handleCity(w http.ResponseWriter, r *http.Request) {
	view, err := s.scene.Build()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type placeItemRequest struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
}

func (s *Server) handleCityPlace(w http.ResponseWriter, r *http.Request) {
	var req placeItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	item, err := s.scene.PlaceItem(req.ID, req.X, req.Y, req.Z)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleCityClick(w http.ResponseWriter, r *http.Request) {
	item, npc, err := s.scene.ResolveClick(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := map[string]interface{}{}
	if item != nil {
		resp["item"] = item
	}
	if npc != nil {
		resp["npc"] = npc
	}
	writeJSON(w, http.StatusOK, resp)
}

// ─── Notifications ──────────────────────────────────────────────────────────

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	notifs, err := s.store.ListUnshownNotifications()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notifications": notifs})
}

func (s *Server) handleNotificationShown(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	if err := s.store.MarkNotificationShown(id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNotificationClick(w http.ResponseWriter, r *http.Request) {
	var click domain.NotificationClick
	if err := json.NewDecoder(r.Body).Decode(&click); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	route, err := s.clicks.Handle(click)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"route": route})
}

// ─── Settings ───────────────────────────────────────────────────────────────

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetUserSettings()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.UserSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if settings.Volume < 0 || settings.Volume > 100 {
		writeError(w, http.StatusBadRequest, "volume must be between 0 and 100")
		return
	}
	if err := s.store.SaveUserSettings(settings); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// validBreakTime checks "HH:MM".
func validBreakTime(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil || h < 0 || h > 23 {
		return false
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil || m < 0 || m > 59 {
		return false
	}
	return true
}
