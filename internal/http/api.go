package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"flywise/internal/service"
	"flywise/internal/session"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users        service.UserService
	accounts     service.AccountService
	transactions service.TransactionService
	statements   service.StatementService
	sessions     session.Codec
	cookieSecure bool
	origins      map[string]struct{}
	logger       *logrus.Logger
}

type Config struct {
	Users          service.UserService
	Accounts       service.AccountService
	Transactions   service.TransactionService
	Statements     service.StatementService
	Sessions       session.Codec
	CookieSecure   bool
	AllowedOrigins []string
	Logger         *logrus.Logger
}

func NewHandler(cfg Config) *Handler {
	if cfg.Sessions == nil {
		cfg.Sessions = session.PlainCodec{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Statements == nil {
		cfg.Statements = service.NewStatementService(nil, service.StatementConfig{})
	}
	origins := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		origins[strings.TrimRight(o, "/")] = struct{}{}
	}
	return &Handler{
		users:        cfg.Users,
		accounts:     cfg.Accounts,
		transactions: cfg.Transactions,
		statements:   cfg.Statements,
		sessions:     cfg.Sessions,
		cookieSecure: cfg.CookieSecure,
		origins:      origins,
		logger:       cfg.Logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(h.requestLogger(), h.corsMiddleware())

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			respond(c, http.StatusOK, true, "ok", nil)
		})

		user := api.Group("/user")
		user.POST("/signup", h.signup)
		user.POST("/login", h.login)
		user.POST("/logout", h.logout)

		accounts := api.Group("/accounts", h.requireUser())
		accounts.POST("/add", h.addAccountNumber)
		accounts.DELETE("/delete", h.deleteAccountNumber)
		accounts.GET("/all", h.listAccountNumbers)

		transactions := api.Group("/transactions", h.requireUser())
		transactions.GET("/all", h.getTransactions)
		transactions.POST("/add-cash", h.addCashTransaction)
		transactions.POST("/upload", h.importTransactions)

		statements := api.Group("/statements", h.requireUser())
		statements.POST("", h.uploadStatement)
		statements.GET("", h.listStatements)
		statements.DELETE("/:id", h.deleteStatement)
	}
}

func (h *Handler) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if _, ok := h.origins[strings.TrimRight(origin, "/")]; ok && origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
			c.Writer.Header().Add("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
