package models

// CategorySeed is a (name, type) pair used when provisioning a new user.
type CategorySeed struct {
	Name string
	Type CategoryType
}

// DefaultCategories is the fixed catalog seeded for every new user on first
// login: four income, twelve expense, and one transfer category.
var DefaultCategories = []CategorySeed{
	{Name: "Salary", Type: CategoryTypeIncome},
	{Name: "Freelance", Type: CategoryTypeIncome},
	{Name: "Investment Income", Type: CategoryTypeIncome},
	{Name: "Other Income", Type: CategoryTypeIncome},

	{Name: "Food & Dining", Type: CategoryTypeExpense},
	{Name: "Groceries", Type: CategoryTypeExpense},
	{Name: "Transportation", Type: CategoryTypeExpense},
	{Name: "Housing", Type: CategoryTypeExpense},
	{Name: "Utilities", Type: CategoryTypeExpense},
	{Name: "Healthcare", Type: CategoryTypeExpense},
	{Name: "Entertainment", Type: CategoryTypeExpense},
	{Name: "Shopping", Type: CategoryTypeExpense},
	{Name: "Education", Type: CategoryTypeExpense},
	{Name: "Travel", Type: CategoryTypeExpense},
	{Name: "Personal Care", Type: CategoryTypeExpense},
	{Name: "Other Expenses", Type: CategoryTypeExpense},

	{Name: "Transfer", Type: CategoryTypeTransfer},
}

// CurrencySeed describes a currency row inserted at startup.
type CurrencySeed struct {
	Code   string
	Name   string
	Symbol string
}

// SeedCurrencies is the canonical currency catalog.
var SeedCurrencies = []CurrencySeed{
	{Code: "USD", Name: "US Dollar", Symbol: "$"},
	{Code: "EUR", Name: "Euro", Symbol: "€"},
	{Code: "GBP", Name: "British Pound", Symbol: "£"},
	{Code: "JPY", Name: "Japanese Yen", Symbol: "¥"},
	{Code: "CNY", Name: "Chinese Yuan", Symbol: "¥"},
	{Code: "SGD", Name: "Singapore Dollar", Symbol: "S$"},
	{Code: "MYR", Name: "Malaysian Ringgit", Symbol: "RM"},
	{Code: "THB", Name: "Thai Baht", Symbol: "฿"},
	{Code: "IDR", Name: "Indonesian Rupiah", Symbol: "Rp"},
	{Code: "PHP", Name: "Philippine Peso", Symbol: "₱"},
	{Code: "VND", Name: "Vietnamese Dong", Symbol: "₫"},
	{Code: "KRW", Name: "South Korean Won", Symbol: "₩"},
	{Code: "INR", Name: "Indian Rupee", Symbol: "₹"},
	{Code: "AUD", Name: "Australian Dollar", Symbol: "A$"},
	{Code: "NZD", Name: "New Zealand Dollar", Symbol: "NZ$"},
	{Code: "HKD", Name: "Hong Kong Dollar", Symbol: "HK$"},
	{Code: "TWD", Name: "New Taiwan Dollar", Symbol: "NT$"},
	{Code: "CAD", Name: "Canadian Dollar", Symbol: "C$"},
	{Code: "CHF", Name: "Swiss Franc", Symbol: "CHF"},
	{Code: "BRL", Name: "Brazilian Real", Symbol: "R$"},
}
