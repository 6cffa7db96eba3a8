// Package models defines the domain entities for the expense tracker.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultTimezone is assigned to users whose claims carry no timezone.
const DefaultTimezone = "UTC"

// DefaultLocale is assigned to users whose claims carry no locale.
const DefaultLocale = "en"

// AccountType enumerates the kinds of monetary containers a user can own.
type AccountType string

// Account types.
const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCreditCard AccountType = "credit_card"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeCash       AccountType = "cash"
	AccountTypeCrypto     AccountType = "crypto"
	AccountTypeLoan       AccountType = "loan"
	AccountTypeOther      AccountType = "other"
)

// AccountTypes lists every valid account type.
var AccountTypes = []AccountType{
	AccountTypeChecking,
	AccountTypeSavings,
	AccountTypeCreditCard,
	AccountTypeInvestment,
	AccountTypeCash,
	AccountTypeCrypto,
	AccountTypeLoan,
	AccountTypeOther,
}

// Valid reports whether t is a member of the closed account-type set.
func (t AccountType) Valid() bool {
	for _, known := range AccountTypes {
		if t == known {
			return true
		}
	}
	return false
}

// CategoryType enumerates category kinds. Transactions carry the same set.
type CategoryType string

// Category and transaction types.
const (
	CategoryTypeIncome   CategoryType = "income"
	CategoryTypeExpense  CategoryType = "expense"
	CategoryTypeTransfer CategoryType = "transfer"
)

// Valid reports whether t is income, expense, or transfer.
func (t CategoryType) Valid() bool {
	switch t {
	case CategoryTypeIncome, CategoryTypeExpense, CategoryTypeTransfer:
		return true
	}
	return false
}

// TransactionType aliases the category type set; a transaction's type and its
// category's type always come from the same closed set.
type TransactionType = CategoryType

// BudgetPeriod enumerates budgeting windows.
type BudgetPeriod string

// Budget periods.
const (
	BudgetPeriodWeekly    BudgetPeriod = "weekly"
	BudgetPeriodMonthly   BudgetPeriod = "monthly"
	BudgetPeriodQuarterly BudgetPeriod = "quarterly"
	BudgetPeriodYearly    BudgetPeriod = "yearly"
	BudgetPeriodCustom    BudgetPeriod = "custom"
)

// Valid reports whether p is a member of the closed budget-period set.
func (p BudgetPeriod) Valid() bool {
	switch p {
	case BudgetPeriodWeekly, BudgetPeriodMonthly, BudgetPeriodQuarterly,
		BudgetPeriodYearly, BudgetPeriodCustom:
		return true
	}
	return false
}

// GoalType enumerates the kinds of savings goals.
type GoalType string

// Goal types.
const (
	GoalTypeSavings       GoalType = "savings"
	GoalTypeDebtPayoff    GoalType = "debt_payoff"
	GoalTypeInvestment    GoalType = "investment"
	GoalTypeEmergencyFund GoalType = "emergency_fund"
	GoalTypeOther         GoalType = "other"
)

// Valid reports whether t is a member of the closed goal-type set.
func (t GoalType) Valid() bool {
	switch t {
	case GoalTypeSavings, GoalTypeDebtPayoff, GoalTypeInvestment,
		GoalTypeEmergencyFund, GoalTypeOther:
		return true
	}
	return false
}

// User is a local identity record synchronized from the external provider.
type User struct {
	ID        uuid.UUID  `json:"id"`
	AuthID    string     `json:"-"` // subject id at the external identity provider
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Timezone  string     `json:"timezone"`
	Locale    string     `json:"locale"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// Currency is a canonical ISO-4217-like currency record.
type Currency struct {
	ID     uuid.UUID `json:"id"`
	Code   string    `json:"code"` // unique, immutable once referenced
	Name   string    `json:"name"`
	Symbol string    `json:"symbol"`
}

// ExchangeRate is a directional, dated conversion rate between two currencies.
type ExchangeRate struct {
	ID             uuid.UUID       `json:"id"`
	FromCurrencyID uuid.UUID       `json:"from_currency_id"`
	ToCurrencyID   uuid.UUID       `json:"to_currency_id"`
	Rate           decimal.Decimal `json:"rate"`
	Date           time.Time       `json:"date"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Account is a per-user monetary container with a stored running balance.
type Account struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Type       AccountType     `json:"type"`
	Balance    decimal.Decimal `json:"balance"` // fixed at 2 decimal places
	CurrencyID uuid.UUID       `json:"currency_id"`
	UserID     uuid.UUID       `json:"-"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  *time.Time      `json:"-"`
}

// Category is a per-user hierarchical transaction label.
type Category struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Type      CategoryType `json:"type"`
	UserID    uuid.UUID    `json:"-"`
	ParentID  *uuid.UUID   `json:"parent_id,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	DeletedAt *time.Time   `json:"-"`
}

// Transaction is a monetary event against an account. Transfer-type
// transactions may be paired one-to-one with their counterpart row via
// TransferToID; the inverse direction is a back-reference with no storage
// of its own.
type Transaction struct {
	ID           uuid.UUID       `json:"id"`
	Amount       decimal.Decimal `json:"amount"` // fixed at 2 decimal places, always positive
	Type         TransactionType `json:"type"`
	Description  string          `json:"description"`
	Date         time.Time       `json:"date"`
	AccountID    uuid.UUID       `json:"account_id"`
	CategoryID   uuid.UUID       `json:"category_id"`
	CurrencyID   uuid.UUID       `json:"currency_id"`
	UserID       uuid.UUID       `json:"-"`
	TransferToID *uuid.UUID      `json:"transfer_to_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    *time.Time      `json:"-"`
}

// Budget is a declarative spending target attached to a category.
type Budget struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Amount         decimal.Decimal  `json:"amount"`
	Period         BudgetPeriod     `json:"period"`
	StartDate      time.Time        `json:"start_date"`
	EndDate        time.Time        `json:"end_date"`
	AlertThreshold *decimal.Decimal `json:"alert_threshold,omitempty"` // percentage, optional
	UserID         uuid.UUID        `json:"-"`
	CurrencyID     uuid.UUID        `json:"currency_id"`
	CategoryID     uuid.UUID        `json:"category_id"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	DeletedAt      *time.Time       `json:"-"`
}

// Goal is a declarative savings target.
type Goal struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	TargetDate    *time.Time      `json:"target_date,omitempty"`
	Type          GoalType        `json:"type"`
	IsCompleted   bool            `json:"is_completed"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	UserID        uuid.UUID       `json:"-"`
	CurrencyID    uuid.UUID       `json:"currency_id"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     *time.Time      `json:"-"`
}
