package ledger

import (
	"testing"
	"time"

	"oficina-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitInstallments_SumClosesWithTotal(t *testing.T) {
	cases := []struct {
		total string
		n     int
		want  []string
	}{
		{"300.00", 3, []string{"100.00", "100.00", "100.00"}},
		{"100.00", 3, []string{"33.33", "33.33", "33.34"}},
		{"0.05", 2, []string{"0.03", "0.02"}},
		{"999.99", 4, []string{"250.00", "250.00", "250.00", "249.99"}},
	}

	for _, tc := range cases {
		total := decimal.RequireFromString(tc.total)
		values := splitInstallments(total, tc.n)
		require.Len(t, values, tc.n, tc.total)

		sum := decimal.Zero
		for i, v := range values {
			assert.True(t, v.Equal(decimal.RequireFromString(tc.want[i])),
				"%s/%d parcela %d: got %s want %s", tc.total, tc.n, i+1, v, tc.want[i])
			sum = sum.Add(v)
		}
		assert.True(t, sum.Equal(total), "%s/%d: soma %s", tc.total, tc.n, sum)
	}
}

func TestAdvancePayable_IsCommissionKind(t *testing.T) {
	emp := uint(7)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	adv := &models.Advance{
		TenantID:    1,
		EmployeeID:  &emp,
		Amount:      decimal.RequireFromString("200.00"),
		PaymentDate: date,
		Description: "vale do mês",
	}

	p := advancePayable(adv)

	// Adiantamento é folha de comissão, não despesa operacional: é assim que
	// ele aparece junto do acerto do funcionário nos relatórios por tipo
	assert.Equal(t, models.PayableEmployeeCommission, p.Kind)
	assert.Equal(t, emp, *p.EmployeeID)
	assert.True(t, p.Value.Equal(adv.Amount))
	assert.Equal(t, date, p.CompetencyDate)
	assert.Equal(t, date, p.DueDate)
}
