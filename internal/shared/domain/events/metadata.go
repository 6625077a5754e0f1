package events

import "reflect"

// EventMetadata indica al relayer cómo decodificar el payload de un tipo de evento
// y a qué topic pertenece.
type EventMetadata struct {
	Type  reflect.Type
	Topic string
}

// Registry agrupa los metadatos por tipo de evento.
type Registry map[string]EventMetadata

// Merge copia los registros de otros contextos sobre r.
func (r Registry) Merge(others ...Registry) Registry {
	for _, o := range others {
		for k, v := range o {
			r[k] = v
		}
	}
	return r
}
