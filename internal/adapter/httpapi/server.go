// Package httpapi exposes the final ledger snapshot over HTTP.
package httpapi

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/simaogato/tx-engine/internal/domain"
	"github.com/simaogato/tx-engine/internal/usecase/ledger"
)

// Server serves read-only account state after a replay has completed. The
// ledger is final by then, so handlers read it without synchronization.
type Server struct {
	app    *fiber.App
	ledger *ledger.Ledger
	logger *zap.Logger
}

// accountResponse mirrors the CSV output fields.
type accountResponse struct {
	Client    domain.ClientID `json:"client"`
	Available string          `json:"available"`
	Held      string          `json:"held"`
	Total     string          `json:"total"`
	Locked    bool            `json:"locked"`
}

func toResponse(account domain.Account) accountResponse {
	return accountResponse{
		Client:    account.Client,
		Available: account.Available.String(),
		Held:      account.Held.String(),
		Total:     account.Total().String(),
		Locked:    account.Locked,
	}
}

// NewServer builds the fiber app and registers the routes.
func NewServer(l *ledger.Ledger, logger *zap.Logger) *Server {
	s := &Server{
		app:    fiber.New(fiber.Config{DisableStartupMessage: true}),
		ledger: l,
		logger: logger,
	}

	s.app.Get("/health", s.handleHealth)
	s.app.Get("/accounts", s.handleListAccounts)
	s.app.Get("/accounts/:client", s.handleGetAccount)

	return s
}

// Listen blocks serving HTTP on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("serving account snapshots", zap.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server, letting in-flight requests finish.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleListAccounts(c *fiber.Ctx) error {
	accounts := s.ledger.Snapshot()
	response := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		response = append(response, toResponse(account))
	}
	return c.JSON(response)
}

func (s *Server) handleGetAccount(c *fiber.Ctx) error {
	client, err := strconv.ParseUint(c.Params("client"), 10, 16)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "client id must be an unsigned 16-bit integer",
		})
	}

	account, ok := s.ledger.Account(domain.ClientID(client))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "client not found",
		})
	}
	return c.JSON(toResponse(account))
}
