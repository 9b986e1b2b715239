package domain_test

import (
	"testing"

	"github.com/coproledger/coproledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassFromCode(t *testing.T) {
	tests := []struct {
		code string
		want domain.AccountClass
	}{
		{"1000", domain.ClassLiability},
		{"2200", domain.ClassAsset},
		{"4110", domain.ClassAsset},
		{"4400", domain.ClassAsset},
		{"5500", domain.ClassAsset},
		{"6100", domain.ClassExpense},
		{"7000", domain.ClassRevenue},
		{"8100", domain.ClassExpense},
		{"9000", domain.ClassOffBalance},
		{"", domain.ClassOffBalance},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.ClassFromCode(tt.code), "code %q", tt.code)
	}
}

func TestNewAccount_DerivesClass(t *testing.T) {
	account := domain.NewAccount("org-1", "6100", "General charges")
	assert.Equal(t, domain.ClassExpense, account.Class)
	assert.True(t, account.Class.IsIncomeStatement())
	assert.False(t, account.Class.IsBalanceSheet())

	bank := domain.NewAccount("org-1", "5500", "Bank")
	assert.True(t, bank.Class.IsBalanceSheet())
}
