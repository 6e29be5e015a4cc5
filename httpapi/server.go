// Package httpapi exposes the command surface and two convenience queries
// over HTTP. It is a thin shell: requests are parsed, handed to command
// handlers or read models, and their outcome mapped to a status code.
package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/shell"
	"github.com/AlexanderZavoykin/event-sourcing-bank/eventlog"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/deposit"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/initiatetransfer"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/openaccount"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/openbankaccount"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/transferinternal"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/withdraw"
	"github.com/AlexanderZavoykin/event-sourcing-bank/projection/bankaccountlookup"
	"github.com/AlexanderZavoykin/event-sourcing-bank/projection/transferreadmodel"
)

// EventLogReader is the read side needed for the account balances query.
type EventLogReader interface {
	Load(ctx context.Context, streamType eventlog.StreamTypeString, streamID eventlog.StreamIDString) (
		eventlog.StoredEvents,
		eventlog.VersionUint,
		error,
	)
}

// Server holds the handlers and read models the routes dispatch to.
type Server struct {
	openAccount      openaccount.CommandHandler
	openBankAccount  openbankaccount.CommandHandler
	deposit          deposit.CommandHandler
	withdraw         withdraw.CommandHandler
	transferInternal transferinternal.CommandHandler
	initiateTransfer initiatetransfer.CommandHandler
	accountLog       EventLogReader
	transfers        transferreadmodel.Store
	bankAccounts     bankaccountlookup.Cache
}

// NewServer creates a Server with all its dependencies.
func NewServer(
	openAccount openaccount.CommandHandler,
	openBankAccount openbankaccount.CommandHandler,
	depositHandler deposit.CommandHandler,
	withdrawHandler withdraw.CommandHandler,
	transferInternal transferinternal.CommandHandler,
	initiateTransfer initiatetransfer.CommandHandler,
	accountLog EventLogReader,
	transfers transferreadmodel.Store,
	bankAccounts bankaccountlookup.Cache,
) *Server {

	return &Server{
		openAccount:      openAccount,
		openBankAccount:  openBankAccount,
		deposit:          depositHandler,
		withdraw:         withdrawHandler,
		transferInternal: transferInternal,
		initiateTransfer: initiateTransfer,
		accountLog:       accountLog,
		transfers:        transfers,
		bankAccounts:     bankAccounts,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/accounts/:holderID", s.handleOpenAccount)
	router.GET("/accounts/:accountID", s.handleGetAccount)
	router.POST("/accounts/:accountID/bankAccount", s.handleOpenBankAccount)
	router.POST("/accounts/:accountID/bankAccount/transfer", s.handleTransferInternal)
	router.POST("/accounts/:accountID/bankAccount/:bankAccountID", s.handleAccountTransaction)
	router.POST("/transfers", s.handleInitiateTransfer)
	router.GET("/transfers/:transferID", s.handleGetTransfer)

	return router
}

func (s *Server) handleOpenAccount(c *gin.Context) {
	holderID, err := uuid.Parse(c.Param("holderID"))
	if err != nil {
		respondError(c, core.ErrInvalidArgument)
		return
	}

	accountID := uuid.New()
	command := openaccount.BuildCommand(accountID, holderID, time.Now())

	if _, err := s.openAccount.Handle(c.Request.Context(), command); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accountId": accountID.String()})
}

func (s *Server) handleOpenBankAccount(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("accountID"))
	if err != nil {
		respondError(c, core.ErrInvalidArgument)
		return
	}

	bankAccountID := uuid.New()
	command := openbankaccount.BuildCommand(accountID, bankAccountID, time.Now())

	if _, err := s.openBankAccount.Handle(c.Request.Context(), command); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bankAccountId": bankAccountID.String()})
}

func (s *Server) handleAccountTransaction(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("accountID"))
	if err != nil {
		respondError(c, core.ErrInvalidArgument)
		return
	}

	bankAccountID, err := uuid.Parse(c.Param("bankAccountID"))
	if err != nil {
		respondError(c, core.ErrInvalidArgument)
		return
	}

	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		respondError(c, core.ErrInvalidArgument)
		return
	}

	switch strings.ToUpper(c.Query("type")) {
	case "DEPOSIT":
		command := deposit.BuildCommand(accountID, bankAccountID, amount, time.Now())
		if _, err := s.deposit.Handle(c.Request.Context(), command); err != nil {
			respondError(c, err)
			return
		}

	case "WITHDRAW":
		command := withdraw.BuildCommand(accountID, bankAccountID, amount, time.Now())
		if _, err := s.withdraw.Handle(c.Request.Context(), command); err != nil {
			respondError(c, err)
			return
		}

	default:
		respondError(c, core.ErrInvalidArgument)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bankAccountId": bankAccountID.String(),
		"amount":        amount,
	})
}

func (s *Server) handleTransferInternal(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("accountID"))
	if err != nil {
		respondError(c, core.ErrInvalidArgument)
		return
	}

	fromBankAccountID, err := uuid.Parse(c.Query("from"))
	if err != nil {
		respondError(c, core.ErrInvalidArgument)
		return
	}

	toBankAccountID, err := uuid.Parse(c.Query("to"))
	if err != nil {
		respondError(c, core.ErrInvalidArgument)
		return
	}

	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		respondError(c, core.ErrInvalidArgument)
		return
	}

	command := transferinternal.BuildCommand(accountID, fromBankAccountID, toBankAccountID, amount, time.Now())

	if _, err := s.transferInternal.Handle(c.Request.Context(), command); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"from":   fromBankAccountID.String(),
		"to":     toBankAccountID.String(),
		"amount": amount,
	})
}

func (s *Server) handleGetAccount(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("accountID"))
	if err != nil {
		respondError(c, core.ErrInvalidArgument)
		return
	}

	storedEvents, _, err := s.accountLog.Load(c.Request.Context(), core.AccountStreamType, accountID.String())
	if err != nil {
		respondError(c, err)
		return
	}

	history, err := shell.DomainEventsFrom(storedEvents)
	if err != nil {
		respondError(c, err)
		return
	}

	account := core.ReduceAccount(history)
	if !account.Exists() {
		respondError(c, core.ErrNoSuchAccount)
		return
	}

	bankAccounts := make([]gin.H, 0, len(account.BankAccounts))
	for _, bankAccount := range account.BankAccounts {
		bankAccounts = append(bankAccounts, gin.H{
			"bankAccountId": bankAccount.ID,
			"balance":       bankAccount.Balance,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"accountId":    account.AccountID,
		"holderId":     account.HolderID,
		"bankAccounts": bankAccounts,
		"totalBalance": account.TotalBalance(),
	})
}

func (s *Server) handleInitiateTransfer(c *gin.Context) {
	sourceBankAccountID, err := uuid.Parse(c.Query("sourceBankAccountId"))
	if err != nil {
		respondError(c, core.ErrInvalidArgument)
		return
	}

	destinationBankAccountID, err := uuid.Parse(c.Query("destinationBankAccountId"))
	if err != nil {
		respondError(c, core.ErrInvalidArgument)
		return
	}

	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		respondError(c, core.ErrInvalidArgument)
		return
	}

	source, err := s.bankAccounts.Resolve(c.Request.Context(), sourceBankAccountID.String())
	if err != nil {
		respondError(c, err)
		return
	}

	destination, err := s.bankAccounts.Resolve(c.Request.Context(), destinationBankAccountID.String())
	if err != nil {
		respondError(c, err)
		return
	}

	sourceAccountID, err := uuid.Parse(source.AccountID)
	if err != nil {
		respondError(c, err)
		return
	}

	destinationAccountID, err := uuid.Parse(destination.AccountID)
	if err != nil {
		respondError(c, err)
		return
	}

	transferID := uuid.New()
	command := initiatetransfer.BuildCommand(
		transferID,
		sourceAccountID,
		sourceBankAccountID,
		destinationAccountID,
		destinationBankAccountID,
		amount,
		time.Now(),
	)

	if _, err := s.initiateTransfer.Handle(c.Request.Context(), command); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transferId": transferID.String(),
		"state":      transferreadmodel.StatePending,
	})
}

func (s *Server) handleGetTransfer(c *gin.Context) {
	transferID, err := uuid.Parse(c.Param("transferID"))
	if err != nil {
		respondError(c, core.ErrInvalidArgument)
		return
	}

	record, err := s.transfers.FindByID(c.Request.Context(), transferID.String())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}
