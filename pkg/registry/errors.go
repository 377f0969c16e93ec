package registry

import "fmt"

// ErrNotFound reports a single-object lookup that matched nothing. List and
// search operations return empty results instead.
type ErrNotFound struct {
	Category  Category
	Authority string
	Code      string
}

func (e ErrNotFound) Error() string {
	if e.Authority == "" {
		return fmt.Sprintf("registry: no %s for %s", e.Category, e.Code)
	}
	return fmt.Sprintf("registry: no %s for %s:%s", e.Category, e.Authority, e.Code)
}
