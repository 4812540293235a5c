package cards

import (
	"testing"
	"time"

	"oficina-backend/internal/period"

	"github.com/stretchr/testify/assert"
)

func TestCycleMonthFor(t *testing.T) {
	const closingDay = 25

	// Até o fechamento entra no ciclo do próprio mês
	onClosing := time.Date(2026, 1, 25, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-01", CycleMonthFor(onClosing, closingDay).Key())

	before := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-01", CycleMonthFor(before, closingDay).Key())

	// Depois do fechamento cai no ciclo seguinte
	after := time.Date(2026, 1, 26, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-02", CycleMonthFor(after, closingDay).Key())

	// Virada de ano
	dec := time.Date(2025, 12, 28, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-01", CycleMonthFor(dec, closingDay).Key())
}

func TestCycleWindow(t *testing.T) {
	// Fim exclusivo: a janela cobre o dia de fechamento inteiro
	start, end := CycleWindow(period.Of(2026, 2), 25)
	assert.Equal(t, time.Date(2026, 1, 26, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 2, 26, 0, 0, 0, 0, time.UTC), end)
}

func TestCycleWindowShortMonth(t *testing.T) {
	// Fechamento dia 31: fevereiro fecha no último dia
	start, end := CycleWindow(period.Of(2026, 2), 31)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestCycleWindowContainsClosingDayTimestamp(t *testing.T) {
	// Despesa lançada no dia do fechamento com horário pertence à janela do
	// ciclo em que CycleMonthFor a classifica
	const closingDay = 25
	expense := time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)

	ref := CycleMonthFor(expense, closingDay)
	assert.Equal(t, "2026-02", ref.Key())

	start, end := CycleWindow(ref, closingDay)
	assert.False(t, expense.Before(start))
	assert.True(t, expense.Before(end))
}

func TestCycleWindowsPartitionTime(t *testing.T) {
	// Janelas consecutivas são adjacentes: o fim de uma é o início da próxima,
	// inclusive quando o fechamento cai em mês curto
	for _, closingDay := range []int{25, 31} {
		for m := time.January; m <= time.November; m++ {
			_, end := CycleWindow(period.Of(2026, int(m)), closingDay)
			start, _ := CycleWindow(period.Of(2026, int(m)+1), closingDay)
			assert.Equal(t, end, start, "fechamento dia %d, mês %d", closingDay, m)
		}
	}
}

func TestDueDateFor(t *testing.T) {
	// Fatura de janeiro vence no dia 10 de fevereiro
	assert.Equal(t,
		time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		DueDateFor(period.Of(2026, 1), 10))

	// Dia 31 em fevereiro ajusta para o fim do mês
	assert.Equal(t,
		time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		DueDateFor(period.Of(2026, 1), 31))
}
