package httpclient

import (
	"net"
	"net/http"
	"time"
)

const (
	DefaultConnectTimeout = 5 * time.Second
	DefaultReadTimeout    = 30 * time.Second
)

// New собирает клиент для внешних API: connect ограничивает установку
// соединения и TLS, read ограничивает ожидание заголовков ответа.
// Общий Timeout покрывает и чтение тела.
func New(connect, read time.Duration) *http.Client {
	if connect <= 0 {
		connect = DefaultConnectTimeout
	}
	if read <= 0 {
		read = DefaultReadTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   connect,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = connect
	transport.ResponseHeaderTimeout = read

	return &http.Client{
		Transport: transport,
		Timeout:   connect + read,
	}
}
