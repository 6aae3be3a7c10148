package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	database "github.com/vantro/chainledger/db"
	"github.com/vantro/chainledger/internal/access"
	"github.com/vantro/chainledger/internal/auth"
	"github.com/vantro/chainledger/internal/badge"
	"github.com/vantro/chainledger/internal/events"
	"github.com/vantro/chainledger/internal/ledger/application"
	"github.com/vantro/chainledger/internal/ledger/infrastructure"
	"github.com/vantro/chainledger/internal/ledger/interfaces"
	"github.com/vantro/chainledger/internal/token"
)

type Response struct {
	Message string `json:"message"`
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("Started %s %s", r.Method, r.URL.Path)

		next.ServeHTTP(w, r)

		log.Printf("Completed %s in %v", r.URL.Path, time.Since(start))
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

type Server struct {
	router             *http.ServeMux
	dbService          *database.DBService
	accessService      *access.Service
	tokenService       *token.Service
	badgeService       *badge.Service
	jwtManager         auth.JWTManagerInterface
	expenseHandler     *interfaces.ExpenseHandler
	budgetHandler      *interfaces.BudgetHandler
	delegationHandler  *interfaces.DelegationHandler
	achievementHandler *interfaces.AchievementHandler
}

func NewServer(
	dbService *database.DBService,
	accessService *access.Service,
	tokenService *token.Service,
	badgeService *badge.Service,
	jwtManager auth.JWTManagerInterface,
	expenseHandler *interfaces.ExpenseHandler,
	budgetHandler *interfaces.BudgetHandler,
	delegationHandler *interfaces.DelegationHandler,
	achievementHandler *interfaces.AchievementHandler,
) *Server {
	return &Server{
		router:             http.NewServeMux(),
		dbService:          dbService,
		accessService:      accessService,
		tokenService:       tokenService,
		badgeService:       badgeService,
		jwtManager:         jwtManager,
		expenseHandler:     expenseHandler,
		budgetHandler:      budgetHandler,
		delegationHandler:  delegationHandler,
		achievementHandler: achievementHandler,
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

func checkConfiguration() error {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, continuing with system environment variables")
	}

	if os.Getenv("DB_CONNECTION_STRING") == "" {
		return errors.New("no DB_CONNECTION_STRING Provided")
	}
	if os.Getenv("JWT_SECRET") == "" {
		return errors.New("no JWT_SECRET Provided")
	}
	if os.Getenv("OWNER_ACCOUNT") == "" {
		return errors.New("no OWNER_ACCOUNT Provided")
	}
	return nil
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ready",
		"database": s.dbService.Health(),
	})
}

func (s *Server) handleTokenBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := s.tokenService.BalanceOf(auth.CallerFromContext(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve balance")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"balance": balance,
	})
}

func (s *Server) handleListBadges(w http.ResponseWriter, _ *http.Request) {
	badges, err := s.badgeService.ListBadges()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve badges")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"badges": badges,
	})
}

type createBadgeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URI         string `json:"uri"`
	Rarity      string `json:"rarity"`
}

func (s *Server) handleCreateBadge(w http.ResponseWriter, r *http.Request) {
	var req createBadgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := s.badgeService.CreateBadge(auth.CallerFromContext(r.Context()), req.Name, req.Description, req.URI, req.Rarity)
	if err != nil {
		respondError(w, http.StatusForbidden, "Could not create badge")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status": "success",
		"badge":  created,
	})
}

type grantRecorderKeyRequest struct {
	KeyID  string `json:"key_id"`
	APIKey string `json:"api_key"`
}

func (s *Server) handleGrantRecorderKey(w http.ResponseWriter, r *http.Request) {
	var req grantRecorderKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.accessService.GrantExpenseRecorderRole(auth.CallerFromContext(r.Context()), req.KeyID, req.APIKey); err != nil {
		respondError(w, http.StatusForbidden, "Could not grant recorder role")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Recorder role granted.",
	})
}

func (s *Server) RegisterRoutes() {
	jwtMiddleware := auth.AccessTokenMiddleware(s.jwtManager)
	recorderMiddleware := s.accessService.RecorderKeyMiddleware()

	// Public routes
	publicRoutes := http.NewServeMux()
	publicRoutes.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))
	publicRoutes.Handle("GET /api/achievements", http.HandlerFunc(s.achievementHandler.GetCatalog))
	publicRoutes.Handle("GET /api/badges", http.HandlerFunc(s.handleListBadges))

	// Protected routes (using JWT Access Token Middleware)
	protectedRoutes := http.NewServeMux()

	// CATEGORIES API
	protectedRoutes.Handle("GET /api/protected/categories",
		jwtMiddleware(http.HandlerFunc(s.expenseHandler.GetCategories)))
	protectedRoutes.Handle("POST /api/protected/categories",
		jwtMiddleware(http.HandlerFunc(s.expenseHandler.AddCategory)))

	// EXPENSES API
	protectedRoutes.Handle("POST /api/protected/expenses",
		jwtMiddleware(http.HandlerFunc(s.expenseHandler.RecordExpense)))
	protectedRoutes.Handle("GET /api/protected/expenses",
		jwtMiddleware(http.HandlerFunc(s.expenseHandler.GetUserExpenses)))
	protectedRoutes.Handle("GET /api/protected/expenses/{id}",
		jwtMiddleware(http.HandlerFunc(s.expenseHandler.GetExpense)))

	// BUDGETS API
	protectedRoutes.Handle("POST /api/protected/budgets",
		jwtMiddleware(http.HandlerFunc(s.budgetHandler.CreateBudget)))
	protectedRoutes.Handle("GET /api/protected/budgets/{category}",
		jwtMiddleware(http.HandlerFunc(s.budgetHandler.GetBudget)))
	protectedRoutes.Handle("GET /api/protected/budgets/{category}/remaining",
		jwtMiddleware(http.HandlerFunc(s.budgetHandler.GetRemainingBudget)))

	// DELEGATIONS API
	protectedRoutes.Handle("POST /api/protected/delegations",
		jwtMiddleware(http.HandlerFunc(s.delegationHandler.CreateDelegation)))
	protectedRoutes.Handle("GET /api/protected/delegations",
		jwtMiddleware(http.HandlerFunc(s.delegationHandler.GetAdminDelegates)))
	protectedRoutes.Handle("GET /api/protected/delegations/{delegate}",
		jwtMiddleware(http.HandlerFunc(s.delegationHandler.GetDelegationStatus)))
	protectedRoutes.Handle("PUT /api/protected/delegations/{delegate}",
		jwtMiddleware(http.HandlerFunc(s.delegationHandler.UpdateDelegation)))
	protectedRoutes.Handle("DELETE /api/protected/delegations/{delegate}",
		jwtMiddleware(http.HandlerFunc(s.delegationHandler.RevokeDelegation)))
	protectedRoutes.Handle("GET /api/protected/delegators",
		jwtMiddleware(http.HandlerFunc(s.delegationHandler.GetDelegateAdmins)))

	// ACHIEVEMENTS API
	protectedRoutes.Handle("POST /api/protected/achievements",
		jwtMiddleware(http.HandlerFunc(s.achievementHandler.CreateAchievement)))
	protectedRoutes.Handle("POST /api/protected/achievements/award",
		jwtMiddleware(http.HandlerFunc(s.achievementHandler.AwardAchievement)))
	protectedRoutes.Handle("POST /api/protected/achievements/{id}/claim",
		jwtMiddleware(http.HandlerFunc(s.achievementHandler.ClaimRewards)))
	protectedRoutes.Handle("GET /api/protected/achievements/mine",
		jwtMiddleware(http.HandlerFunc(s.achievementHandler.GetUserAchievements)))
	protectedRoutes.Handle("GET /api/protected/achievements/milestones",
		jwtMiddleware(http.HandlerFunc(s.achievementHandler.GetNextMilestones)))

	// TOKEN / BADGE / ACCESS API
	protectedRoutes.Handle("GET /api/protected/balance",
		jwtMiddleware(http.HandlerFunc(s.handleTokenBalance)))
	protectedRoutes.Handle("POST /api/protected/badges",
		jwtMiddleware(http.HandlerFunc(s.handleCreateBadge)))
	protectedRoutes.Handle("POST /api/protected/recorder-keys",
		jwtMiddleware(http.HandlerFunc(s.handleGrantRecorderKey)))

	// Recorder routes (API-key authenticated services, not end users)
	recorderRoutes := http.NewServeMux()
	recorderRoutes.Handle("POST /api/recorder/expenses/track",
		recorderMiddleware(http.HandlerFunc(s.budgetHandler.TrackExpense)))
	recorderRoutes.Handle("POST /api/recorder/delegations/spend",
		recorderMiddleware(http.HandlerFunc(s.delegationHandler.RecordDelegatedSpend)))

	// Main router
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/api/", publicRoutes)
	mainRouter.Handle("/api/protected/", protectedRoutes)
	mainRouter.Handle("/api/recorder/", recorderRoutes)
	mainRouter.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = mainRouter
}

func main() {
	if err := checkConfiguration(); err != nil {
		log.Fatalf("Missing configuration, update to start server")
	}

	dbService, err := database.NewDBService()
	if err != nil {
		log.Fatalf("Could not initialize database: %v", err)
	}
	defer dbService.Close()

	jwtManager, err := auth.NewJWTManager()
	if err != nil {
		log.Fatalf("Could not initialize JWT manager: %v", err)
	}

	dispatcher := events.NewDispatcher(128)
	defer dispatcher.Close()
	dispatcher.Subscribe(func(envelope events.Envelope) {
		log.Printf("event %s %T %+v", envelope.ID, envelope.Payload, envelope.Payload)
	})

	accessRepo := access.NewPostgresRecorderKeyRepository(dbService.DB)
	accessService := access.NewService(os.Getenv("OWNER_ACCOUNT"), accessRepo)

	tokenRepo := token.NewPostgresRepository(dbService.DB)
	tokenService := token.NewService(tokenRepo)

	badgeRepo := badge.NewPostgresRepository(dbService.DB)
	badgeService := badge.NewService(badgeRepo, accessService)

	expenseRepo := infrastructure.NewExpenseRepository(dbService.DB)
	expenseService := application.NewExpenseService(expenseRepo, accessService, dispatcher)

	budgetRepo := infrastructure.NewBudgetRepository(dbService.DB)
	budgetService := application.NewBudgetService(budgetRepo, dispatcher)

	delegationRepo := infrastructure.NewDelegationRepository(dbService.DB)
	delegationService := application.NewDelegationService(delegationRepo, accessService, dispatcher)

	achievementRepo := infrastructure.NewAchievementRepository(dbService.DB)
	achievementService := application.NewAchievementService(achievementRepo, tokenService, badgeService, accessService, dispatcher)

	expenseHandler := interfaces.NewExpenseHandler(expenseService, budgetService, respondJSON, respondError)
	budgetHandler := interfaces.NewBudgetHandler(budgetService, respondJSON, respondError)
	delegationHandler := interfaces.NewDelegationHandler(delegationService, respondJSON, respondError)
	achievementHandler := interfaces.NewAchievementHandler(achievementService, respondJSON, respondError)

	server := NewServer(dbService, accessService, tokenService, badgeService, jwtManager,
		expenseHandler, budgetHandler, delegationHandler, achievementHandler)
	server.RegisterRoutes()

	if err := StartBudgetDigestScheduler(budgetService); err != nil {
		log.Fatalf("Scheduler didn't start, stoping the app ...")
	}

	loggingMiddleware := loggingMiddleware(http.HandlerFunc(server.router.ServeHTTP))
	log.Println("Starting perf on port 6060...")
	go func() {
		log.Println(http.ListenAndServe("localhost:6060", nil))
	}()
	log.Println("Server starting on port 8080...")
	if err := http.ListenAndServe(":8080", loggingMiddleware); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// StartBudgetDigestScheduler logs a daily digest of budgets running hot so
// operators can spot accounts close to their caps.
func StartBudgetDigestScheduler(budgetService *application.BudgetService) error {
	c := cron.New()
	// Schedule the job to run every morning --> 0 6 * * *
	_, err := c.AddFunc("0 6 * * *", func() {
		budgets, err := budgetService.HighUtilization(75)
		if err != nil {
			log.Printf("Error building budget digest: %v", err)
			return
		}
		for _, b := range budgets {
			log.Printf("budget digest: user=%s category=%s spent=%s of %s (%d%%)",
				b.User, b.Category, b.Spent.String(), b.Amount.String(), b.SpentPercentage())
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	return nil
}
