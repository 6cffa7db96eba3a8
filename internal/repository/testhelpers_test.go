package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"fintrack/internal/database"
	"fintrack/internal/models"
)

var fixtureSeq int

// createTestUser inserts a user with a unique auth id and email.
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
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

// currencyByCode looks up a seeded currency.
func currencyByCode(t *testing.T, db database.PGXDB, code string) *models.Currency {
	t.Helper()

	currency, err := NewCurrencyRepository(db).GetByCode(context.Background(), code)
	require.NoError(t, err)
	return currency
}

// createTestAccount inserts an active account in the given currency.
func createTestAccount(t *testing.T, db database.PGXDB, user *models.User, currency *models.Currency) *models.Account {
	t.Helper()

	account := &models.Account{
		Name:       "Checking",
		Type:       models.AccountTypeChecking,
		CurrencyID: currency.ID,
		UserID:     user.ID,
		IsActive:   true,
	}
	require.NoError(t, NewAccountRepository(db).Create(context.Background(), account))
	return account
}

// createTestCategory inserts a root category.
func createTestCategory(t *testing.T, db database.PGXDB, user *models.User, name string, typ models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:   name,
		Type:   typ,
		UserID: user.ID,
	}
	require.NoError(t, NewCategoryRepository(db).Create(context.Background(), category))
	return category
}
