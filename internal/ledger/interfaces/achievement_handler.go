package interfaces

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/vantro/chainledger/internal/auth"
	"github.com/vantro/chainledger/internal/ledger/domain"
)

type AchievementServiceInterface interface {
	CreateAchievement(caller, name, description string, tokenReward decimal.Decimal, badgeID int) (*domain.Achievement, error)
	ListAchievements() ([]domain.Achievement, error)
	AwardAchievement(caller, user string, achievementID int) error
	ClaimRewards(caller string, achievementID int) error
	GetUserAchievements(user string) ([]domain.UserAchievement, error)
	GetNextAchievementMilestones(user string) ([]domain.Achievement, error)
}

type AchievementHandler struct {
	service      AchievementServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewAchievementHandler(
	service AchievementServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *AchievementHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &AchievementHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *AchievementHandler) GetCatalog(w http.ResponseWriter, _ *http.Request) {
	achievements, err := h.service.ListAchievements()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve achievements")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "success",
		"achievements": achievements,
	})
}

type createAchievementRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TokenReward string `json:"token_reward"`
	BadgeID     int    `json:"badge_id"`
}

func (h *AchievementHandler) CreateAchievement(w http.ResponseWriter, r *http.Request) {
	var req createAchievementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	reward, err := decimal.NewFromString(req.TokenReward)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid token reward")
		return
	}

	achievement, err := h.service.CreateAchievement(auth.CallerFromContext(r.Context()), req.Name, req.Description, reward, req.BadgeID)
	if err != nil {
		respondServiceError(h.respondError, w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":      "success",
		"message":     "Achievement created successfully.",
		"achievement": achievement,
	})
}

type awardAchievementRequest struct {
	User          string `json:"user"`
	AchievementID int    `json:"achievement_id"`
}

func (h *AchievementHandler) AwardAchievement(w http.ResponseWriter, r *http.Request) {
	var req awardAchievementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.AwardAchievement(auth.CallerFromContext(r.Context()), req.User, req.AchievementID); err != nil {
		respondServiceError(h.respondError, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Achievement awarded.",
	})
}

func (h *AchievementHandler) ClaimRewards(w http.ResponseWriter, r *http.Request) {
	achievementID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid achievement id")
		return
	}

	if err := h.service.ClaimRewards(auth.CallerFromContext(r.Context()), achievementID); err != nil {
		respondServiceError(h.respondError, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Rewards claimed successfully.",
	})
}

func (h *AchievementHandler) GetUserAchievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := h.service.GetUserAchievements(auth.CallerFromContext(r.Context()))
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve achievements")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "success",
		"achievements": achievements,
	})
}

func (h *AchievementHandler) GetNextMilestones(w http.ResponseWriter, r *http.Request) {
	milestones, err := h.service.GetNextAchievementMilestones(auth.CallerFromContext(r.Context()))
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve milestones")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "success",
		"milestones": milestones,
	})
}
