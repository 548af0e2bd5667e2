package jsonserver

import (
	"errors"
	"fmt"

	"github.com/jhoicas/epi-control-api/internal/domain"
	"github.com/jhoicas/epi-control-api/internal/infrastructure/docstore"
)

// ErrorKind clasifica los fallos del cliente REST.
type ErrorKind string

const (
	// KindTransport el servidor no respondió (conexión rechazada, DNS, timeout).
	KindTransport ErrorKind = "transport"
	// KindHTTPStatus respuesta fuera de 2xx.
	KindHTTPStatus ErrorKind = "http_status"
	// KindDecode respuesta 2xx que no se pudo interpretar.
	KindDecode ErrorKind = "decode"
)

// APIError error tipado del cliente de json-server.
type APIError struct {
	Kind   ErrorKind
	Method string
	Path   string
	Status int    // solo KindHTTPStatus
	Body   string // solo KindHTTPStatus
	Err    error
}

func (e *APIError) Error() string {
	switch e.Kind {
	case KindTransport:
		return fmt.Sprintf("%s (%s %s): %v", domain.ErrStoreUnavailable.Error(), e.Method, e.Path, e.Err)
	case KindHTTPStatus:
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
	default:
		return fmt.Sprintf("respuesta inválida de %s %s: %v", e.Method, e.Path, e.Err)
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// Is permite usar errors.Is con los sentinelas de dominio.
func (e *APIError) Is(target error) bool {
	switch target {
	case domain.ErrNotFound:
		return e.Kind == KindHTTPStatus && e.Status == 404
	case domain.ErrStoreUnavailable:
		return e.Kind == KindTransport
	case docstore.ErrDecode:
		return e.Kind == KindDecode
	}
	return false
}

// IsTransport indica si err es un fallo de conexión con el servidor.
func IsTransport(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindTransport
}
