package cache

import "context"

// Cache es una caché clave-valor genérica; los valores viajan serializados en JSON.
type Cache interface {
	// Get rellena dest (puntero). Devuelve (false, nil) en un miss.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set guarda val con un TTL en segundos; <= 0 usa el TTL por defecto de la implementación.
	Set(ctx context.Context, key string, val interface{}, ttlSecs int) error

	Delete(ctx context.Context, key string) error
}
