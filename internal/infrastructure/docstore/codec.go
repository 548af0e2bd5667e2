package docstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrDecode error al interpretar un documento devuelto por el backend.
var ErrDecode = errors.New("documento con formato inválido")

// NewID genera un identificador "<prefijo>_<uuid>".
func NewID(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	if prefix == "" {
		return id
	}
	return prefix + "_" + id
}

func decodeOne[T any](raw json.RawMessage) (*T, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &out, nil
}

func decodeAll[T any](raws []json.RawMessage) ([]*T, error) {
	out := make([]*T, 0, len(raws))
	for _, raw := range raws {
		v, err := decodeOne[T](raw)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// DocumentID extrae el campo "id" de un documento.
func DocumentID(raw json.RawMessage) (string, error) {
	var head struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(head.ID) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(head.ID, &s); err == nil {
		return s, nil
	}
	// json-server acepta ids numéricos en archivos escritos a mano.
	return strings.Trim(string(head.ID), `"`), nil
}

// ToDocument convierte una entidad en mapa para escribirla.
func ToDocument(v any) (map[string]any, error) {
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("serializar documento: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("serializar documento: %w", err)
	}
	return m, nil
}
