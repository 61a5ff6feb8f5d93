// Package ui is the terminal presentation layer: a finite-state navigation
// over the account and transaction services. Each state collects input,
// invokes a service, shows the result or error, and transitions to exactly
// one next state.
package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"bankdesk/internal/logger"
	"bankdesk/internal/models"
	"bankdesk/internal/services"
)

const bankName = "Children's Bank of Canada"

// State identifies a screen in the navigation flow.
type State int

const (
	StateLogin State = iota
	StateRegister
	StateResetPassword
	StateDashboard
	StateTransact
	StateHistory
	StateQuit
)

// AccountOperator defines the account operations the UI invokes.
type AccountOperator interface {
	Register(ctx context.Context, accountID int64, username, password string) error
	Authenticate(ctx context.Context, accountID int64, password string) (*models.Account, error)
	ResetPassword(ctx context.Context, accountID int64, username, newPassword, confirmPassword string) error
}

// TransactionOperator defines the transaction operations the UI invokes.
type TransactionOperator interface {
	Apply(ctx context.Context, accountID int64, kind models.Kind, amount float64) (float64, error)
	History(ctx context.Context, accountID int64) ([]models.TransactionDB, error)
}

// App drives the navigation flow. It never writes balance or password
// state directly; every mutation goes through the services.
type App struct {
	accounts     AccountOperator
	transactions TransactionOperator
	in           *bufio.Scanner
	out          io.Writer

	session   *models.Account
	sessionID string
}

// New creates an App reading input lines from in and writing screens to out.
func New(accounts AccountOperator, transactions TransactionOperator, in io.Reader, out io.Writer) *App {
	return &App{
		accounts:     accounts,
		transactions: transactions,
		in:           bufio.NewScanner(in),
		out:          out,
	}
}

// Run executes the navigation loop until the user quits, input ends, or
// the context is canceled.
func (a *App) Run(ctx context.Context) error {
	state := StateLogin
	for state != StateQuit {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch state {
		case StateLogin:
			state = a.loginPage(ctx)
		case StateRegister:
			state = a.registerPage(ctx)
		case StateResetPassword:
			state = a.resetPasswordPage(ctx)
		case StateDashboard:
			state = a.dashboardPage()
		case StateTransact:
			state = a.transactPage(ctx)
		case StateHistory:
			state = a.historyPage(ctx)
		}
	}
	fmt.Fprintln(a.out, "Goodbye!")
	return nil
}

func (a *App) loginPage(ctx context.Context) State {
	a.session = nil
	a.sessionID = ""

	fmt.Fprintf(a.out, "\n=== %s ===\n", bankName)
	fmt.Fprintln(a.out, "[1] Log in")
	fmt.Fprintln(a.out, "[2] Create account")
	fmt.Fprintln(a.out, "[3] Reset password")
	fmt.Fprintln(a.out, "[q] Quit")

	choice, ok := a.prompt("Choice")
	if !ok {
		return StateQuit
	}

	switch choice {
	case "1":
		return a.doLogin(ctx)
	case "2":
		return StateRegister
	case "3":
		return StateResetPassword
	case "q", "Q":
		return StateQuit
	default:
		return StateLogin
	}
}

func (a *App) doLogin(ctx context.Context) State {
	idStr, ok := a.prompt("User Id")
	if !ok {
		return StateQuit
	}
	password, ok := a.prompt("Password")
	if !ok {
		return StateQuit
	}
	if idStr == "" || password == "" {
		fmt.Fprintln(a.out, "Both user id and password are required")
		return StateLogin
	}

	accountID, err := parseAccountID(idStr)
	if err != nil {
		fmt.Fprintln(a.out, "User Id must be a number")
		return StateLogin
	}

	account, err := a.accounts.Authenticate(ctx, accountID, password)
	if err != nil {
		fmt.Fprintln(a.out, userMessage(err))
		return StateLogin
	}

	a.session = account
	a.sessionID = uuid.NewString()
	logger.Log.Infow("session started", "session_id", a.sessionID, "account_id", account.AccountID)
	return StateDashboard
}

func (a *App) registerPage(ctx context.Context) State {
	fmt.Fprintf(a.out, "\n--- New Account Registration ---\n")

	idStr, ok := a.prompt("User Id")
	if !ok {
		return StateQuit
	}
	if idStr == "" {
		return StateLogin
	}
	username, ok := a.prompt("Username")
	if !ok {
		return StateQuit
	}
	password, ok := a.prompt("Password")
	if !ok {
		return StateQuit
	}
	if username == "" || password == "" {
		fmt.Fprintln(a.out, "All fields are required")
		return StateLogin
	}

	accountID, err := parseAccountID(idStr)
	if err != nil {
		fmt.Fprintln(a.out, "User Id must be a number")
		return StateLogin
	}

	if err := a.accounts.Register(ctx, accountID, username, password); err != nil {
		fmt.Fprintln(a.out, userMessage(err))
		return StateLogin
	}

	fmt.Fprintln(a.out, "User added successfully!")
	return StateLogin
}

func (a *App) resetPasswordPage(ctx context.Context) State {
	fmt.Fprintf(a.out, "\n--- Change Password ---\n")

	idStr, ok := a.prompt("User Id")
	if !ok {
		return StateQuit
	}
	if idStr == "" {
		return StateLogin
	}
	username, ok := a.prompt("Username")
	if !ok {
		return StateQuit
	}
	newPassword, ok := a.prompt("New Password")
	if !ok {
		return StateQuit
	}
	confirmPassword, ok := a.prompt("Confirm Password")
	if !ok {
		return StateQuit
	}

	accountID, err := parseAccountID(idStr)
	if err != nil {
		fmt.Fprintln(a.out, "User Id must be a number")
		return StateLogin
	}

	if err := a.accounts.ResetPassword(ctx, accountID, username, newPassword, confirmPassword); err != nil {
		fmt.Fprintln(a.out, userMessage(err))
		return StateLogin
	}

	fmt.Fprintln(a.out, "Password updated successfully!")
	return StateLogin
}

func (a *App) dashboardPage() State {
	fmt.Fprintf(a.out, "\n=== Account Dashboard ===\n")
	fmt.Fprintf(a.out, "User ID: %d  Username: %s\n", a.session.AccountID, a.session.Username)
	fmt.Fprintf(a.out, "Balance: $%.2f\n", a.session.Balance)
	fmt.Fprintln(a.out, "[1] Make transaction")
	fmt.Fprintln(a.out, "[2] View transaction history")
	fmt.Fprintln(a.out, "[3] Logout")
	fmt.Fprintln(a.out, "[q] Quit")

	choice, ok := a.prompt("Choice")
	if !ok {
		return StateQuit
	}

	switch choice {
	case "1":
		return StateTransact
	case "2":
		return StateHistory
	case "3":
		logger.Log.Infow("session ended", "session_id", a.sessionID, "account_id", a.session.AccountID)
		return StateLogin
	case "q", "Q":
		return StateQuit
	default:
		return StateDashboard
	}
}

func (a *App) transactPage(ctx context.Context) State {
	fmt.Fprintf(a.out, "\n--- New Transaction ---\n")
	fmt.Fprintln(a.out, "[1] Withdraw")
	fmt.Fprintln(a.out, "[2] Deposit")

	choice, ok := a.prompt("Type")
	if !ok {
		return StateQuit
	}
	var kind models.Kind
	switch choice {
	case "1":
		kind = models.KindWithdrawal
	case "2":
		kind = models.KindDeposit
	default:
		return StateDashboard
	}

	amountStr, ok := a.prompt("Amount")
	if !ok {
		return StateQuit
	}
	amount, err := parseAmount(amountStr)
	if err != nil {
		fmt.Fprintln(a.out, "Please enter a valid numeric amount.")
		return StateDashboard
	}

	newBalance, err := a.transactions.Apply(ctx, a.session.AccountID, kind, amount)
	if err != nil {
		fmt.Fprintln(a.out, userMessage(err))
		return StateDashboard
	}

	a.session.Balance = newBalance
	logger.Log.Infow("transaction applied",
		"session_id", a.sessionID,
		"account_id", a.session.AccountID,
		"kind", kind,
		"amount", amount,
	)
	fmt.Fprintf(a.out, "%s of $%.2f successful!\n", kind, amount)
	return StateDashboard
}

func (a *App) historyPage(ctx context.Context) State {
	fmt.Fprintf(a.out, "\n--- Transaction History ---\n")
	fmt.Fprintf(a.out, "Current Balance: $%.2f\n", a.session.Balance)

	history, err := a.transactions.History(ctx, a.session.AccountID)
	if err != nil {
		fmt.Fprintln(a.out, userMessage(err))
		return StateDashboard
	}

	if len(history) == 0 {
		fmt.Fprintln(a.out, "No transactions found.")
	} else {
		fmt.Fprintf(a.out, "%-12s %-12s %s\n", "Type", "Amount", "Date")
		for _, txn := range history {
			fmt.Fprintf(a.out, "%-12s %-12.2f %s\n", txn.Kind, txn.Amount, txn.Timestamp)
		}
	}

	_, ok := a.prompt("Press Enter to go back")
	if !ok {
		return StateQuit
	}
	return StateDashboard
}

// prompt prints a label and reads one trimmed input line.
// ok is false when input is exhausted.
func (a *App) prompt(label string) (value string, ok bool) {
	fmt.Fprintf(a.out, "%s: ", label)
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

func parseAccountID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// parseAmount rejects non-numeric and non-positive input before the
// transaction service is ever invoked.
func parseAmount(s string) (float64, error) {
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("amount must be a positive number: %q", s)
	}
	return amount, nil
}

// userMessage maps service errors to the messages shown to the user.
func userMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrAccountNotFound):
		return "User Id not found, Try again!"
	case errors.Is(err, services.ErrInvalidCredentials):
		return "Incorrect Password, Try again!"
	case errors.Is(err, services.ErrDuplicateAccountID):
		return "User Id already exists, please try a different one."
	case errors.Is(err, services.ErrInvalidInput):
		return "All fields are required"
	case errors.Is(err, services.ErrPasswordMismatch):
		return "Passwords do not match"
	case errors.Is(err, services.ErrInvalidAmount):
		return "Please enter a valid numeric amount."
	case errors.Is(err, services.ErrInsufficientFunds):
		return "Insufficient balance for withdrawal."
	default:
		return fmt.Sprintf("An error occurred: %v", err)
	}
}
