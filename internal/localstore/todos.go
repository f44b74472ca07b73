package localstore

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spiffcs/prdash/internal/model"
)

// ErrNotFound is returned when no entry has the requested ID.
var ErrNotFound = errors.New("entry not found")

// now is replaced in tests.
var now = time.Now

// AddTodo appends a new, incomplete to-do.
func (s *Store) AddTodo(text string) (model.Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Todo{}, errors.New("to-do text is empty")
	}

	ts := now()
	todo := model.Todo{
		ID:        strconv.FormatInt(ts.UnixMilli(), 10),
		Text:      text,
		CreatedAt: ts.UTC().Format(time.RFC3339),
	}

	todos := s.Todos()
	for _, t := range todos {
		if t.ID == todo.ID {
			todo.ID = strconv.FormatInt(ts.UnixNano(), 10)
			break
		}
	}

	if err := s.SaveTodos(append(todos, todo)); err != nil {
		return model.Todo{}, err
	}
	return todo, nil
}

// ToggleTodo flips the completed flag of the to-do with id.
func (s *Store) ToggleTodo(id string) (model.Todo, error) {
	todos := s.Todos()
	for i := range todos {
		if todos[i].ID == id {
			todos[i].Completed = !todos[i].Completed
			if err := s.SaveTodos(todos); err != nil {
				return model.Todo{}, err
			}
			return todos[i], nil
		}
	}
	return model.Todo{}, fmt.Errorf("to-do %s: %w", id, ErrNotFound)
}

// RemoveTodo deletes the to-do with id.
func (s *Store) RemoveTodo(id string) error {
	todos := s.Todos()
	kept := todos[:0]
	for _, t := range todos {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(todos) {
		return fmt.Errorf("to-do %s: %w", id, ErrNotFound)
	}
	return s.SaveTodos(kept)
}
