package utils

import (
	"bytes"
	"encoding/json"

	"go.uber.org/zap"
)

func UnmarshalAndHandle[T any](log *zap.Logger, data json.RawMessage, handler func(T)) {
	var evt T
	if err := json.Unmarshal(data, &evt); err != nil {
		log.Warn("Failed to unmarshal event data", zap.Error(err))
		return
	}
	handler(evt)
}

// MarshalJSON serializa sin escapar HTML y sin salto de línea final.
func MarshalJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// RoundTrip convierte v en su forma JSON genérica (mapas, slices, números según DecodeGeneric).
func RoundTrip(v interface{}) (interface{}, error) {
	data, err := MarshalJSON(v)
	if err != nil {
		return nil, err
	}
	return DecodeGeneric(data)
}

// DecodeGeneric decodifica JSON sin pasar los números por float64: los enteros quedan
// como int64 y el resto como json.Number con el texto original, así una plantilla
// imprime 1000000 y no 1e+06.
func DecodeGeneric(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out interface{}
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return normalizeNumbers(out), nil
}

func normalizeNumbers(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, item := range val {
			val[k] = normalizeNumbers(item)
		}
		return val
	case []interface{}:
		for i, item := range val {
			val[i] = normalizeNumbers(item)
		}
		return val
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return n
		}
		return val
	default:
		return v
	}
}
