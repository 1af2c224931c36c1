// Package checkout строит ссылку перехода к оформлению рассрочки.
package checkout

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Method - значение параметра method для программы рассрочки
const Method = "epp"

// Build добавляет к baseURL параметры amount, tenure, bank и method=epp.
// Существующая строка запроса сохраняется как есть. Если какой-либо вход
// отсутствует, возвращает false: переход не выполняется.
func Build(baseURL string, principal decimal.Decimal, tenureMonths int, bank string) (string, bool) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" || !principal.IsPositive() || tenureMonths <= 0 || bank == "" {
		return "", false
	}

	base, fragment, _ := strings.Cut(baseURL, "#")
	path, existing, _ := strings.Cut(base, "?")

	params := "amount=" + url.QueryEscape(principal.String()) +
		"&tenure=" + strconv.Itoa(tenureMonths) +
		"&bank=" + url.QueryEscape(bank) +
		"&method=" + Method

	var b strings.Builder
	b.WriteString(path)
	b.WriteByte('?')
	if existing != "" {
		b.WriteString(existing)
		if !strings.HasSuffix(existing, "&") {
			b.WriteByte('&')
		}
	}
	b.WriteString(params)
	if fragment != "" {
		b.WriteByte('#')
		b.WriteString(fragment)
	}
	return b.String(), true
}
