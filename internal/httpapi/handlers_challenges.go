package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"weekly-challenges/internal/service"
)

const challengeNotFound = "Challenge not found"

func (s *server) handleCreateChallenge(w http.ResponseWriter, r *http.Request) {
	var req createChallengeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	user := currentUser(r)
	challenge, err := s.Challenges.CreateChallenge(r.Context(), user, *req.Title, req.WeekStartDate.Time)
	if err != nil {
		s.fail(w, r, err, challengeNotFound)
		return
	}
	logFor(r, s.Log).WithField("challenge_id", challenge.ID).Info("challenge created")
	writeJSON(w, http.StatusOK, newChallengeResponse(challenge))
}

func (s *server) handleCurrentChallenge(w http.ResponseWriter, r *http.Request) {
	challenge, err := s.Challenges.GetActiveChallenge(r.Context(), currentUser(r))
	if err != nil {
		s.fail(w, r, err, "No active challenge found")
		return
	}
	writeJSON(w, http.StatusOK, newChallengeResponse(challenge))
}

func (s *server) handleListChallenges(w http.ResponseWriter, r *http.Request) {
	skip, ok := queryInt(w, r, "skip", service.DefaultSkip)
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit", service.DefaultLimit)
	if !ok {
		return
	}
	challenges, err := s.Challenges.ListChallenges(r.Context(), currentUser(r), skip, limit)
	if err != nil {
		s.fail(w, r, err, challengeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, newChallengeList(challenges))
}

func (s *server) handleGetDays(w http.ResponseWriter, r *http.Request) {
	challengeID, ok := pathID(w, r)
	if !ok {
		return
	}
	entries, err := s.Days.GetDays(r.Context(), currentUser(r), challengeID)
	if err != nil {
		s.fail(w, r, err, challengeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, newDailyEntryList(entries))
}

func (s *server) handleUpdateDay(w http.ResponseWriter, r *http.Request) {
	challengeID, ok := pathID(w, r)
	if !ok {
		return
	}
	dayIndex, err := strconv.Atoi(mux.Vars(r)["day_index"])
	if err != nil {
		unprocessable(w, "day_index must be an integer")
		return
	}
	var req updateDayRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	entry, err := s.Days.UpdateDay(r.Context(), currentUser(r), challengeID, dayIndex, service.DayUpdate{
		Completed:  req.Completed,
		Difficulty: req.Difficulty,
		Note:       req.Note,
	})
	if err != nil {
		s.fail(w, r, err, challengeNotFound)
		return
	}
	logFor(r, s.Log).WithFields(map[string]interface{}{
		"challenge_id": challengeID,
		"day_index":    dayIndex,
		"completed":    entry.Completed,
	}).Info("day updated")
	writeJSON(w, http.StatusOK, newDailyEntryResponse(entry))
}

func (s *server) handleSummary(w http.ResponseWriter, r *http.Request) {
	challengeID, ok := pathID(w, r)
	if !ok {
		return
	}
	summary, err := s.Progress.Summarize(r.Context(), currentUser(r), challengeID, s.Now())
	if err != nil {
		s.fail(w, r, err, challengeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, newSummaryResponse(summary))
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		unprocessable(w, "challenge id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

func queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		unprocessable(w, name+" must be an integer")
		return 0, false
	}
	return v, true
}
