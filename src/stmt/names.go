package stmt

import (
	"sync"

	"github.com/tidesql/tidesql/dbstrings"
)

// NameResolver maps Go-style field names ("UserId") to SQL column names
// ("user_id"). Resolution happens once per name and is cached; result
// rows consult the cached mapping instead of re-deriving it per row.
type NameResolver struct {
	cache sync.Map // string -> string
}

// Resolve returns the SQL column name for a Go field name.
func (r *NameResolver) Resolve(name string) string {
	if v, ok := r.cache.Load(name); ok {
		return v.(string)
	}
	resolved := dbstrings.ToSnakeCase(name)
	actual, _ := r.cache.LoadOrStore(name, resolved)
	return actual.(string)
}

// FieldName returns the Go field name for a SQL column name.
func FieldName(column string) string {
	return dbstrings.ToPascalCase(column)
}
