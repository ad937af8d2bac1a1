// Package terminal is the menu-driven teller front end. It reads one answer
// per line so it can be driven by a keyboard or by a script.
package terminal

import (
	"bufio"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sheikh-saqib/atm-ledger-system/internal/atm"
	"github.com/shopspring/decimal"
)

var errQuit = errors.New("quit")

type Terminal struct {
	registry      *atm.Registry
	adminPassword string
	in            *bufio.Scanner
	out           io.Writer
}

func New(registry *atm.Registry, adminPassword string, in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		registry:      registry,
		adminPassword: adminPassword,
		in:            bufio.NewScanner(in),
		out:           out,
	}
}

// Run shows the main menu until the user exits or input ends.
func (t *Terminal) Run() error {
	t.println("Welcome to the ATM System!")
	for {
		t.println("")
		t.println(strings.Repeat("=", 40))
		t.println("ATM MANAGEMENT SYSTEM")
		t.println(strings.Repeat("=", 40))
		t.println("1. Create New Account")
		t.println("2. Login")
		t.println("3. Admin Panel")
		t.println("4. Exit")

		choice, err := t.ask("Enter your choice: ")
		if err != nil {
			return t.finish(err)
		}
		switch choice {
		case "1":
			err = t.createAccount()
		case "2":
			err = t.login()
		case "3":
			err = t.adminPanel()
		case "4":
			t.println("Thank you for using ATM System. Goodbye!")
			return nil
		default:
			t.println("Invalid choice! Please try again.")
		}
		if err != nil {
			return t.finish(err)
		}
	}
}

func (t *Terminal) finish(err error) error {
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

func (t *Terminal) createAccount() error {
	t.println("\n=== CREATE NEW ACCOUNT ===")
	number, err := t.ask("Enter account number (10 digits): ")
	if err != nil {
		return err
	}
	pin, err := t.ask("Enter 4-digit PIN: ")
	if err != nil {
		return err
	}
	name, err := t.ask("Enter account holder name: ")
	if err != nil {
		return err
	}
	minimum := t.registry.MinOpeningDeposit().StringFixed(2)
	deposit, ok, err := t.askAmount("Enter initial deposit (min Rs." + minimum + "): ")
	if err != nil || !ok {
		return err
	}

	if _, err := t.registry.CreateAccount(number, pin, name, deposit); err != nil {
		if errors.Is(err, atm.ErrDepositTooLow) {
			t.println("Minimum initial deposit is Rs." + minimum + "!")
			return nil
		}
		t.println(describe(err))
		return nil
	}
	t.println("Account created successfully!")
	return nil
}

func (t *Terminal) login() error {
	t.println("\n=== LOGIN ===")
	number, err := t.ask("Enter account number: ")
	if err != nil {
		return err
	}
	pin, err := t.ask("Enter PIN: ")
	if err != nil {
		return err
	}

	sess, err := t.registry.Login(number, pin)
	if err != nil {
		t.println(describe(err))
		return nil
	}
	t.printf("Login successful! Welcome, %s!\n", sess.Account.Holder())
	return t.accountMenu(sess.Account)
}

func (t *Terminal) accountMenu(a *atm.Account) error {
	for t.registry.IsLoggedIn() {
		t.println("")
		t.println(strings.Repeat("=", 40))
		t.println("         ACCOUNT MENU")
		t.println(strings.Repeat("=", 40))
		for i, item := range []string{
			"Check Balance", "Deposit Money", "Withdraw Money", "Transfer Money",
			"Transaction History", "Recent Activities", "Notifications", "Change PIN", "Logout",
		} {
			t.printf("%d. %s\n", i+1, item)
		}

		choice, err := t.ask("Enter your choice: ")
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			t.printf("\nCurrent Balance: Rs.%s\n", a.Balance().StringFixed(2))
		case "2":
			if amt, ok, err := t.askAmount("Enter deposit amount: Rs."); err != nil {
				return err
			} else if ok {
				t.report(a.Deposit(amt))
			}
		case "3":
			if amt, ok, err := t.askAmount("Enter withdrawal amount: Rs."); err != nil {
				return err
			} else if ok {
				t.report(a.Withdraw(amt))
			}
		case "4":
			amt, ok, err := t.askAmount("Enter transfer amount: Rs.")
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			to, err := t.ask("Enter recipient account number: ")
			if err != nil {
				return err
			}
			t.report(t.registry.TransferBetween(a, amt, to))
		case "5":
			t.history(a)
		case "6":
			t.recent(a)
		case "7":
			t.notifications(a)
		case "8":
			oldPin, err := t.ask("Enter current PIN: ")
			if err != nil {
				return err
			}
			newPin, err := t.ask("Enter new PIN: ")
			if err != nil {
				return err
			}
			t.report(a.ChangePin(oldPin, newPin))
		case "9":
			t.registry.Logout()
			t.println("Logged out successfully!")
		default:
			t.println("Invalid choice! Please try again.")
		}
	}
	return nil
}

func (t *Terminal) history(a *atm.Account) {
	entries := a.HistoryNewestFirst()
	if len(entries) == 0 {
		t.println("No transactions found.")
		return
	}
	t.println("\n=== TRANSACTION HISTORY ===")
	t.printf("%-24s%-15s%-27s%-15s\n", "Type", "Amount", "Date", "Balance")
	t.println(strings.Repeat("-", 81))
	for _, e := range entries {
		t.printf("%-24s%-15s%-27s%-15s\n",
			e.Label(), e.Amount.StringFixed(2), e.CreatedAt.Format("Mon Jan _2 15:04:05 2006"), e.BalanceAfter.StringFixed(2))
	}
}

func (t *Terminal) recent(a *atm.Account) {
	lines := a.RecentActivities()
	if len(lines) == 0 {
		t.println("No recent activities.")
		return
	}
	t.println("\n=== RECENT ACTIVITIES ===")
	for i, l := range lines {
		t.printf("%d. %s\n", i+1, l)
	}
}

func (t *Terminal) notifications(a *atm.Account) {
	notes := a.DrainNotifications()
	if len(notes) == 0 {
		t.println("No notifications.")
		return
	}
	t.println("\n=== NOTIFICATIONS ===")
	for _, n := range notes {
		t.println("* " + n)
	}
}

func (t *Terminal) adminPanel() error {
	pw, err := t.ask("Enter admin password: ")
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(pw), []byte(t.adminPassword)) != 1 {
		t.println("Invalid admin password!")
		return nil
	}
	t.println("\n=== ADMIN PANEL ===")
	t.println("\n=== ALL ACCOUNTS ===")
	t.printf("%-15s%-20s%-15s\n", "Account No.", "Holder Name", "Balance")
	t.println(strings.Repeat("-", 50))
	for _, s := range t.registry.ListAccounts() {
		t.printf("%-15s%-20s%-15s\n", s.Number, s.Holder, s.Balance.StringFixed(2))
	}
	return nil
}

// ask prints prompt and returns the next trimmed line. End of input is errQuit.
func (t *Terminal) ask(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)
	if !t.in.Scan() {
		if err := t.in.Err(); err != nil {
			return "", err
		}
		return "", errQuit
	}
	return strings.TrimSpace(t.in.Text()), nil
}

// askAmount reads a decimal. ok is false when the answer is not a number.
func (t *Terminal) askAmount(prompt string) (decimal.Decimal, bool, error) {
	raw, err := t.ask(prompt)
	if err != nil {
		return decimal.Zero, false, err
	}
	amt, err := decimal.NewFromString(raw)
	if err != nil {
		t.println("Please enter a valid amount.")
		return decimal.Zero, false, nil
	}
	return amt, true, nil
}

func (t *Terminal) report(notice string, err error) {
	if err != nil {
		t.println(describe(err))
		return
	}
	t.println(notice)
}

func (t *Terminal) println(s string) { fmt.Fprintln(t.out, s) }

func (t *Terminal) printf(format string, args ...any) { fmt.Fprintf(t.out, format, args...) }

func describe(err error) string {
	var authErr *atm.AuthError
	switch {
	case errors.As(err, &authErr):
		return fmt.Sprintf("Invalid PIN! Attempts remaining: %d", authErr.Remaining)
	case errors.Is(err, atm.ErrAuthFailure):
		return "Invalid old PIN!"
	case errors.Is(err, atm.ErrAccountNotFound):
		return "Account not found!"
	case errors.Is(err, atm.ErrAccountLocked):
		return "Account locked due to too many failed attempts!"
	case errors.Is(err, atm.ErrDuplicateAccount):
		return "Account already exists!"
	case errors.Is(err, atm.ErrInvalidPin):
		return "PIN must be 4 digits!"
	case errors.Is(err, atm.ErrInvalidAmount):
		return "Invalid amount!"
	case errors.Is(err, atm.ErrInsufficientFunds):
		return "Insufficient funds!"
	case errors.Is(err, atm.ErrRecipientNotFound):
		return "Recipient account not found!"
	case errors.Is(err, atm.ErrSameAccount):
		return "Cannot transfer to your own account!"
	}
	return "Error: " + err.Error()
}
