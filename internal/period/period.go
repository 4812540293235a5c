package period

import (
	"fmt"
	"time"
)

// Month representa um mês de referência ("YYYY-MM").
// Todo o núcleo financeiro agrupa lançamentos por este valor.
type Month struct {
	Year  int
	Month time.Month
}

func FromDate(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// FromKey interpreta uma chave "YYYY-MM".
func FromKey(key string) (Month, error) {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return Month{}, fmt.Errorf("mês de referência inválido %q: %w", key, err)
	}
	return FromDate(t), nil
}

func Of(year, month int) Month {
	return Month{Year: year, Month: time.Month(month)}
}

// Key serializa como "YYYY-MM".
func (m Month) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End retorna o último dia do mês.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, -1)
}

func (m Month) Days() int {
	return m.End().Day()
}

// Day retorna o dia d dentro do mês, limitado ao último dia (fev/30 vira fev/28).
func (m Month) Day(d int) time.Time {
	if last := m.Days(); d > last {
		d = last
	}
	if d < 1 {
		d = 1
	}
	return time.Date(m.Year, m.Month, d, 0, 0, 0, 0, time.UTC)
}

func (m Month) Next() Month {
	return FromDate(m.Start().AddDate(0, 1, 0))
}

func (m Month) Prev() Month {
	return FromDate(m.Start().AddDate(0, -1, 0))
}

// Contains verifica se a data cai dentro do mês.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}
