package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nissyi-gh/timecards/internal/model"
)

// LoadTodos decodes the todo list. A missing key yields an empty list.
func LoadTodos(kv KV) ([]model.Todo, error) {
	data, err := kv.Get(TodosKey)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var todos []model.Todo
	if err := json.Unmarshal(data, &todos); err != nil {
		return nil, fmt.Errorf("decode %s: %w", TodosKey, err)
	}
	return todos, nil
}

// SaveTodos encodes and stores the todo list.
func SaveTodos(kv KV, todos []model.Todo) error {
	if todos == nil {
		todos = []model.Todo{}
	}
	data, err := json.Marshal(todos)
	if err != nil {
		return fmt.Errorf("encode %s: %w", TodosKey, err)
	}
	return kv.Set(TodosKey, data)
}

// LoadStreak decodes the streak snapshot. A missing key yields the zero
// value.
func LoadStreak(kv KV) (model.StreakData, error) {
	data, err := kv.Get(StreakKey)
	if errors.Is(err, ErrNotFound) {
		return model.StreakData{}, nil
	}
	if err != nil {
		return model.StreakData{}, err
	}

	var sd model.StreakData
	if err := json.Unmarshal(data, &sd); err != nil {
		return model.StreakData{}, fmt.Errorf("decode %s: %w", StreakKey, err)
	}
	return sd, nil
}

// SaveStreak encodes and stores the streak snapshot.
func SaveStreak(kv KV, sd model.StreakData) error {
	data, err := json.Marshal(sd)
	if err != nil {
		return fmt.Errorf("encode %s: %w", StreakKey, err)
	}
	return kv.Set(StreakKey, data)
}
