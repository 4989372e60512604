package ports

// AdminRegistry answers allow-list membership queries. Implementations are
// loaded once at startup and immutable for the process lifetime; a config
// reload requires a restart. Lookups must be case-insensitive and must
// fail closed: a malformed or missing allow-list means nobody is admin.
type AdminRegistry interface {
	IsAdmin(identity string) bool
}
