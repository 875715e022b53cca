package todo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nissyi-gh/timecards/internal/model"
)

var (
	// ErrTodoNotFound is returned when no todo matches an id or prefix.
	ErrTodoNotFound = errors.New("todo not found")

	// ErrAmbiguousID is returned when a prefix matches more than one todo.
	ErrAmbiguousID = errors.New("ambiguous todo id prefix")
)

// Resolve finds a todo by full id or by a unique, case-insensitive prefix.
func Resolve(todos []model.Todo, idOrPrefix string) (model.Todo, error) {
	needle := strings.ToLower(strings.TrimSpace(idOrPrefix))
	if needle == "" {
		return model.Todo{}, fmt.Errorf("%w: empty id", ErrTodoNotFound)
	}

	var matches []model.Todo
	for _, t := range todos {
		id := strings.ToLower(t.ID)
		if id == needle {
			return t, nil
		}
		if strings.HasPrefix(id, needle) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return model.Todo{}, fmt.Errorf("%w: %s", ErrTodoNotFound, idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return model.Todo{}, fmt.Errorf("%w: %s matches %d todos", ErrAmbiguousID, idOrPrefix, len(matches))
	}
}

// ShortIDLength returns the shortest prefix length, never below minLen,
// that distinguishes every id in todos.
func ShortIDLength(todos []model.Todo, minLen int) int {
	length := minLen
	for i, a := range todos {
		for _, b := range todos[i+1:] {
			if n := commonPrefix(strings.ToLower(a.ID), strings.ToLower(b.ID)) + 1; n > length {
				length = n
			}
		}
	}
	return length
}

func commonPrefix(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}
