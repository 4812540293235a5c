package cards

import (
	"time"

	"oficina-backend/internal/period"
)

// CycleMonthFor devolve o mês de referência da fatura em que uma despesa
// entra. Despesa após o dia de fechamento cai no ciclo do mês seguinte.
func CycleMonthFor(date time.Time, closingDay int) period.Month {
	m := period.FromDate(date)
	if date.Day() > closingDay {
		return m.Next()
	}
	return m
}

// CycleWindow devolve o intervalo [início, fim) coberto pelo ciclo de um mês
// de referência: do dia seguinte ao fechamento do mês anterior até o fim do
// dia de fechamento do mês de referência, ajustados para meses curtos. O fim
// é exclusivo para que despesas com horário no próprio dia de fechamento
// caiam dentro da janela e as janelas consecutivas particionem o tempo.
func CycleWindow(ref period.Month, closingDay int) (time.Time, time.Time) {
	prev := ref.Prev()
	start := prev.Day(closingDay).AddDate(0, 0, 1)
	end := ref.Day(closingDay).AddDate(0, 0, 1)
	return start, end
}

// DueDateFor devolve o vencimento da fatura: o dia de vencimento do mês
// seguinte ao de referência, ajustado para o fim do mês quando o dia não
// existe (ex.: dia 31 em fevereiro).
func DueDateFor(ref period.Month, dueDay int) time.Time {
	return ref.Next().Day(dueDay)
}
