package calculations

import "github.com/getrenters/renters-calculator/internal/feeschedule"

// ResolveTenures возвращает доступные сроки банка по возрастанию:
// объединение положительных ключей таблицы процентов и таблицы комиссий.
// Для nil или банка без таблиц возвращается пустой срез.
func ResolveTenures(inst *feeschedule.Institution) []int {
	tenures := inst.Tenures()
	if tenures == nil {
		return []int{}
	}
	return tenures
}
