package cache

import "fmt"

// Ключи кеша. Запись любой сущности инвалидирует ее собственный ключ,
// ключи списков пользователя и зависящие от нее отчеты. Ключи сущностей
// и списков включают UID владельца: чужой запрос промахивается мимо кеша
// и уходит в хранилище, где действует фильтр по владельцу.

// SubscriptionKey — ключ одной подписки в рамках владельца.
func SubscriptionKey(userUID string, id int) string {
	return fmt.Sprintf("subscription:%s:%d", userUID, id)
}

// SubscriptionListKey — ключ страницы списка подписок пользователя.
func SubscriptionListKey(userUID string, limit, offset int) string {
	return fmt.Sprintf("subscriptions:user:%s:%d:%d", userUID, limit, offset)
}

// SubscriptionListPattern — шаблон всех страниц списка подписок пользователя.
func SubscriptionListPattern(userUID string) string {
	return "subscriptions:user:" + userUID + ":*"
}

// DealKey — ключ одной пожизненной сделки в рамках владельца.
func DealKey(userUID string, id int) string {
	return fmt.Sprintf("deal:%s:%d", userUID, id)
}

// DealListKey — ключ списка сделок пользователя.
func DealListKey(userUID string) string { return "deals:user:" + userUID }

// SummaryReportKey — ключ сводного отчета пользователя.
func SummaryReportKey(userUID string) string { return "report:summary:" + userUID }

// TaxReportKey — ключ налогового отчета пользователя за год.
func TaxReportKey(userUID string, year int) string {
	return fmt.Sprintf("report:tax:%s:%d", userUID, year)
}

// TaxReportPattern — шаблон всех налоговых отчетов пользователя.
func TaxReportPattern(userUID string) string { return "report:tax:" + userUID + ":*" }

// PortfolioReportKey — ключ отчета по портфелю сделок пользователя.
func PortfolioReportKey(userUID string) string { return "report:portfolio:" + userUID }
