package builtins

import "github.com/google/uuid"

// newUUID backs the uuidNew built-in: a v4 random identifier rendered
// as its standard 8-4-4-4-12 string form, since olus values have no
// dedicated UUID kind (spec §3's value sum is closed to
// builtin/number/string/closure) — unlike
// mcgru-funxy/internal/evaluator/builtins_uuid.go's dedicated *Uuid
// object, the program only ever sees the string.
func newUUID() string {
	return uuid.New().String()
}
