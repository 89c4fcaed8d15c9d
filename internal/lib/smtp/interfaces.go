// Package smtp реализует почтовый транспорт с STARTTLS и plain-аутентификацией.
package smtp

import "io"

// Client описывает минимальный контракт SMTP-клиента,
// необходимый сервису рассылки. Позволяет подменять клиент в тестах.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}
