package query

import (
	"fmt"
	"strings"

	"github.com/desertthunder/albumsync/internal/models"
	"github.com/desertthunder/albumsync/internal/shared"
)

// UnresolvedError lists every reference in a field that matched no known name.
type UnresolvedError struct {
	Field string
	Names []string
}

func (e *UnresolvedError) Error() string {
	quoted := make([]string, len(e.Names))
	for i, n := range e.Names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return fmt.Sprintf("%v: the following names in '%s' do not exist: [%s]", shared.ErrUnresolvedReference, e.Field, strings.Join(quoted, ", "))
}

func (e *UnresolvedError) Unwrap() error { return shared.ErrUnresolvedReference }

// Resolve returns the identifier for ref. UUIDs pass through without lookup.
func Resolve(ref string, mapping models.NameMapping) (string, bool) {
	if shared.IsUUID(ref) {
		return ref, true
	}
	id, ok := mapping[ref]
	return id, ok
}

// ResolveAll resolves refs in order. If any reference is unknown, no IDs are
// returned and the error names all of the unknown references.
func ResolveAll(field string, refs []string, mapping models.NameMapping) ([]string, error) {
	ids := make([]string, 0, len(refs))
	var missing []string

	for _, ref := range refs {
		id, ok := Resolve(ref, mapping)
		if !ok {
			missing = append(missing, ref)
			continue
		}
		ids = append(ids, id)
	}

	if len(missing) > 0 {
		return nil, &UnresolvedError{Field: field, Names: missing}
	}
	return ids, nil
}
