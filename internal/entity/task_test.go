package entity

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("in_progress")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if status != StatusInProgress {
		t.Errorf("Expected %s, got %s", StatusInProgress, status)
	}

	if _, err := ParseStatus("CANCELLED"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}
}

func TestParsePriority(t *testing.T) {
	priority, err := ParsePriority("high")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if priority != PriorityHigh {
		t.Errorf("Expected %s, got %s", PriorityHigh, priority)
	}

	if _, err := ParsePriority("URGENT"); !errors.Is(err, ErrInvalidPriority) {
		t.Errorf("Expected ErrInvalidPriority, got %v", err)
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2026, time.March, 5)

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(b) != `"2026-03-05"` {
		t.Errorf(`Expected "2026-03-05", got %s`, b)
	}

	var parsed Date
	if err := json.Unmarshal([]byte(`"2026-03-05"`), &parsed); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !parsed.Equal(d.Time) {
		t.Errorf("Expected %s, got %s", d, parsed)
	}

	if err := json.Unmarshal([]byte(`"05.03.2026"`), &parsed); !errors.Is(err, ErrInvalidDueDate) {
		t.Errorf("Expected ErrInvalidDueDate, got %v", err)
	}
}

func TestTaskJSONShape(t *testing.T) {
	due := NewDate(2026, time.January, 15)
	task := Task{
		ID:        7,
		Title:     "Test Task",
		Priority:  PriorityHigh,
		Status:    StatusPending,
		DueDate:   &due,
		CreatedAt: time.Date(2026, time.January, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, time.January, 1, 10, 0, 0, 0, time.UTC),
	}

	b, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if m["dueDate"] != "2026-01-15" {
		t.Errorf("Expected dueDate 2026-01-15, got %v", m["dueDate"])
	}
	if m["description"] != nil {
		t.Errorf("Expected null description, got %v", m["description"])
	}
	for _, key := range []string{"id", "title", "priority", "status", "assignee", "createdAt", "updatedAt"} {
		if _, ok := m[key]; !ok {
			t.Errorf("Expected key %q in task JSON", key)
		}
	}
}
