// Package mockapi is a self-contained stand-in for the trading-bot backend:
// the full REST contract the panel consumes, backed by in-memory state and
// a random-walk trade simulation. It exists so the panel can run (and be
// tested) without the real service.
package mockapi

import (
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"pocket-panel/internal/api"
	"pocket-panel/internal/domain"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultHistoryLimit = 50
	minPasswordLen      = 8
	simulationCandles   = 100
)

// defaultStrategy seeds every new user, matching the backend contract.
func defaultStrategy() domain.Strategy {
	now := time.Now().UTC()
	return domain.Strategy{
		ID:          uuid.NewString(),
		Name:        "RSI Strategy",
		RSIUpper:    60,
		RSILower:    40,
		TradeAmount: 10,
		ExpiryTime:  60,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

type Server struct {
	store    *memoryStore
	secret   []byte
	tokenTTL time.Duration
	logger   *log.Logger
}

func NewServer(secret string, tokenTTL time.Duration, logger *log.Logger) *Server {
	return &Server{
		store:    newMemoryStore(),
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// Router builds the gin engine with the backend's routes and wide-open CORS.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	apiGroup := r.Group("/api")
	apiGroup.POST("/login", s.handleLogin)
	apiGroup.POST("/register", s.handleRegister)
	apiGroup.POST("/webhook/tradingview/:user_id", s.handleWebhook)

	auth := apiGroup.Group("", s.requireAuth)
	auth.GET("/users/me", s.handleMe)
	auth.GET("/users/me/accounts", s.handleListAccounts)
	auth.POST("/users/me/accounts", s.handleCreateAccount)
	auth.DELETE("/users/me/accounts/:id", s.handleDeleteAccount)
	auth.POST("/users/me/accounts/:id/test", s.handleTestAccount)
	auth.GET("/users/me/strategies", s.handleListStrategies)
	auth.POST("/users/me/strategies", s.handleCreateStrategy)
	auth.PUT("/users/me/strategies/:id", s.handleUpdateStrategy)
	auth.GET("/trading/history", s.handleHistory)
	auth.POST("/simulate/trading", s.handleSimulate)

	return r
}

type tokenClaims struct {
	jwt.RegisteredClaims
}

func (s *Server) issueToken(username string) (string, error) {
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) requireAuth(c *gin.Context) {
	const prefix = "Bearer "
	header := c.GetHeader("Authorization")
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		s.unauthorized(c)
		return
	}

	token, err := jwt.ParseWithClaims(header[len(prefix):], &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		s.unauthorized(c)
		return
	}

	claims := token.Claims.(*tokenClaims)
	u := s.store.userByUsername(claims.Subject)
	if u == nil {
		s.unauthorized(c)
		return
	}
	c.Set("user", u)
	c.Next()
}

func (s *Server) unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
}

func currentUser(c *gin.Context) *user {
	return c.MustGet("user").(*user)
}

func (s *Server) handleLogin(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	u := s.store.userByUsername(username)
	if u == nil || bcrypt.CompareHashAndPassword(u.HashedPassword, []byte(password)) != nil {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect username or password"})
		return
	}

	token, err := s.issueToken(u.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not issue token"})
		return
	}
	c.JSON(http.StatusOK, api.LoginResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) handleRegister(c *gin.Context) {
	var req api.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	if req.Username == "" || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "username and email are required"})
		return
	}
	if len(req.Password) < minPasswordLen {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Password must be at least 8 characters long"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not hash password"})
		return
	}

	u := &user{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashed,
		CreatedAt:      time.Now().UTC(),
	}
	usernameTaken, emailTaken := s.store.createUser(u)
	if usernameTaken {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Username already registered"})
		return
	}
	if emailTaken {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already registered"})
		return
	}

	s.store.addStrategy(u.ID, defaultStrategy())
	s.logger.Info("registered user", "username", u.Username)
	c.JSON(http.StatusOK, u.profile())
}

func (s *Server) handleMe(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c).profile())
}

func (s *Server) handleListAccounts(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.accountsFor(currentUser(c).ID))
}

func (s *Server) handleCreateAccount(c *gin.Context) {
	var in domain.AccountInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	if err := in.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	account := domain.Account{
		ID:          uuid.NewString(),
		AccountName: in.AccountName,
		Username:    in.Username,
		Password:    in.Password,
		IsDemo:      in.IsDemo,
		CreatedAt:   time.Now().UTC(),
	}
	s.store.addAccount(currentUser(c).ID, account)
	c.JSON(http.StatusOK, account)
}

func (s *Server) handleDeleteAccount(c *gin.Context) {
	if !s.store.deleteAccount(currentUser(c).ID, c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Account not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

func (s *Server) handleTestAccount(c *gin.Context) {
	if s.store.accountByID(currentUser(c).ID, c.Param("id")) == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Account not found"})
		return
	}
	// Simulated check, roughly 70% success like the real backend's stub.
	if rand.Float64() > 0.3 {
		c.JSON(http.StatusOK, api.StatusMessage{
			Status:  "success",
			Message: "Connection successful! Your broker account is valid.",
		})
		return
	}
	c.JSON(http.StatusUnauthorized, gin.H{"detail": "Connection failed. Please check your credentials."})
}

func (s *Server) handleListStrategies(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.strategiesFor(currentUser(c).ID))
}

func (s *Server) handleCreateStrategy(c *gin.Context) {
	var in domain.StrategyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	if err := in.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	now := time.Now().UTC()
	st := domain.Strategy{
		ID:          uuid.NewString(),
		Name:        in.Name,
		RSIUpper:    in.RSIUpper,
		RSILower:    in.RSILower,
		TradeAmount: in.TradeAmount,
		ExpiryTime:  in.ExpiryTime,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.store.addStrategy(currentUser(c).ID, st)
	c.JSON(http.StatusOK, st)
}

func (s *Server) handleUpdateStrategy(c *gin.Context) {
	var in domain.StrategyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	if err := in.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	st := domain.Strategy{
		ID:          c.Param("id"),
		Name:        in.Name,
		RSIUpper:    in.RSIUpper,
		RSILower:    in.RSILower,
		TradeAmount: in.TradeAmount,
		ExpiryTime:  in.ExpiryTime,
		UpdatedAt:   time.Now().UTC(),
	}
	if !s.store.updateStrategy(currentUser(c).ID, st) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Strategy not found"})
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) handleHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	c.JSON(http.StatusOK, s.store.tradesFor(currentUser(c).ID, limit))
}

func (s *Server) handleSimulate(c *gin.Context) {
	var req api.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	u := currentUser(c)

	if s.store.accountByID(u.ID, req.AccountID) == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Account not found"})
		return
	}
	strategy := s.store.strategyByID(u.ID, req.StrategyID)
	if strategy == nil {
		fallback := defaultStrategy()
		strategy = &fallback
	}
	asset := req.Asset
	if asset == "" {
		asset = "EUR/USD"
	}

	prices := randomWalk(simulationCandles)
	signal := tradingSignal(prices, strategy.RSIUpper, strategy.RSILower)
	if req.ChargingMode && signal == "" {
		// Charging mode always trades.
		signal = domain.SignalCall
		if rand.Float64() > 0.5 {
			signal = domain.SignalPut
		}
	}
	if signal == "" {
		c.JSON(http.StatusOK, api.TradeResult{Message: "No trading signal detected"})
		return
	}

	amount := strategy.TradeAmount
	if req.ChargingMode {
		wins := s.store.recentWins(u.ID, req.AccountID, time.Now().Add(-time.Hour))
		amount *= 1 + float64(wins)*0.1
	}

	result := domain.ResultLoss
	if rand.Float64() > 0.5 {
		result = domain.ResultWin
	}
	trade := domain.TradeRecord{
		ID:         uuid.NewString(),
		AccountID:  req.AccountID,
		StrategyID: req.StrategyID,
		SignalType: signal,
		Asset:      asset,
		Amount:     amount,
		ExpiryTime: strategy.ExpiryTime,
		Executed:   true,
		Result:     result,
		CreatedAt:  time.Now().UTC(),
	}
	s.store.addTrade(u.ID, trade)

	c.JSON(http.StatusOK, api.TradeResult{
		Message:      fmt.Sprintf("Trade executed: %s on %s", signal, asset),
		Trade:        &trade,
		Result:       result,
		ChargingMode: req.ChargingMode,
	})
}

type webhookPayload struct {
	Strategy string `json:"strategy"`
	Signal   string `json:"signal"`
	Asset    string `json:"asset"`
	Expiry   int    `json:"expiry"`
}

func (s *Server) handleWebhook(c *gin.Context) {
	var payload webhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if payload.Signal == "" || payload.Asset == "" || payload.Expiry == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field"})
		return
	}

	u := s.store.userByID(c.Param("user_id"))
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	accounts := s.store.accountsFor(u.ID)
	if len(accounts) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No trading account found for this user"})
		return
	}

	name := payload.Strategy
	if name == "" {
		name = "RSI Strategy"
	}
	strategy := s.store.strategyByName(u.ID, name)
	if strategy == nil {
		created := defaultStrategy()
		created.Name = name
		s.store.addStrategy(u.ID, created)
		strategy = &created
	}

	result := domain.ResultLoss
	if rand.Float64() > 0.5 {
		result = domain.ResultWin
	}
	trade := domain.TradeRecord{
		ID:         uuid.NewString(),
		AccountID:  accounts[0].ID,
		StrategyID: strategy.ID,
		SignalType: domain.SignalType(payload.Signal),
		Asset:      payload.Asset,
		Amount:     strategy.TradeAmount,
		ExpiryTime: payload.Expiry,
		Executed:   true,
		Result:     result,
		CreatedAt:  time.Now().UTC(),
	}
	s.store.addTrade(u.ID, trade)

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"message":  fmt.Sprintf("Signal received: %s on %s", payload.Signal, payload.Asset),
		"trade_id": trade.ID,
		"result":   result,
	})
}
