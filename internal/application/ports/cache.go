package ports

import "time"

// Cache puerto del cache de lectura (resultados derivados por empresa).
// No es fuente de verdad: cualquier mutación exitosa invalida de forma
// gruesa todas las claves del tenant (corrección sobre hit ratio).
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	// InvalidatePrefix elimina todas las claves que empiecen por prefix.
	InvalidatePrefix(prefix string)
}

// TenantPrefix prefijo de todas las claves de una empresa.
func TenantPrefix(companyID string) string {
	return companyID + ":"
}

// TenantKey construye una clave scoped a la empresa.
func TenantKey(companyID, suffix string) string {
	return TenantPrefix(companyID) + suffix
}
