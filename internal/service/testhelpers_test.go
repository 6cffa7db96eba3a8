package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"fintrack/internal/database"
	"fintrack/internal/models"
	"fintrack/internal/repository"
)

var fixtureSeq int

func createTestUser(t *testing.T, db database.PGXDB) *models.User {
	t.Helper()

	fixtureSeq++
	user := &models.User{
		AuthID:    fmt.Sprintf("auth0|%s-%d", t.Name(), fixtureSeq),
		Email:     fmt.Sprintf("%s-%d@test.local", t.Name(), fixtureSeq),
		FirstName: "Test",
		LastName:  "User",
		Timezone:  models.DefaultTimezone,
		Locale:    models.DefaultLocale,
	}
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), user))
	return user
}

func currencyByCode(t *testing.T, db database.PGXDB, code string) *models.Currency {
	t.Helper()

	currency, err := repository.NewCurrencyRepository(db).GetByCode(context.Background(), code)
	require.NoError(t, err)
	return currency
}

func createTestAccount(t *testing.T, db database.PGXDB, user *models.User, currency *models.Currency, balance string) *models.Account {
	t.Helper()

	fixtureSeq++
	account := &models.Account{
		Name:       fmt.Sprintf("Account %d", fixtureSeq),
		Type:       models.AccountTypeChecking,
		Balance:    decimal.RequireFromString(balance),
		CurrencyID: currency.ID,
		UserID:     user.ID,
		IsActive:   true,
	}
	require.NoError(t, repository.NewAccountRepository(db).Create(context.Background(), account))
	return account
}

func createTestCategory(t *testing.T, db database.PGXDB, user *models.User, name string, typ models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:   name,
		Type:   typ,
		UserID: user.ID,
	}
	require.NoError(t, repository.NewCategoryRepository(db).Create(context.Background(), category))
	return category
}

func storeRate(t *testing.T, db database.PGXDB, from, to *models.Currency, rate string, date time.Time) {
	t.Helper()

	require.NoError(t, repository.NewExchangeRateRepository(db).Upsert(context.Background(), &models.ExchangeRate{
		FromCurrencyID: from.ID,
		ToCurrencyID:   to.ID,
		Rate:           decimal.RequireFromString(rate),
		Date:           date,
	}))
}

func accountBalance(t *testing.T, db database.PGXDB, account *models.Account) decimal.Decimal {
	t.Helper()

	fresh, err := repository.NewAccountRepository(db).GetByID(context.Background(), account.ID, account.UserID)
	require.NoError(t, err)
	return fresh.Balance
}
