package todo

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EncodeTasks serializes the collection as a JSON array, preserving order.
func EncodeTasks(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("encode tasks: %w", err)
	}
	return data, nil
}

// DecodeTasks parses a persisted snapshot. Entries that are not objects, fail to
// decode, or lack an id or description are skipped; dropped is how many.
// A blob that is not a JSON array yields an empty collection and an error.
func DecodeTasks(data []byte) (tasks []Task, dropped int, err error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, 0, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("decode tasks: %w", err)
	}

	tasks = make([]Task, 0, len(raw))
	for _, r := range raw {
		r = bytes.TrimSpace(r)
		if len(r) == 0 || r[0] != '{' {
			dropped++
			continue
		}
		var t Task
		if err := json.Unmarshal(r, &t); err != nil || t.ID == 0 || t.Description == "" {
			dropped++
			continue
		}
		if t.Priority < PriorityLow || t.Priority > PriorityHigh {
			t.Priority = PriorityLow
		}
		tasks = append(tasks, t)
	}
	return tasks, dropped, nil
}
