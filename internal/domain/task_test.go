package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewTask(t *testing.T) {
	t.Parallel() // Enable parallel execution

	userID := uuid.New()
	task, err := NewTask(userID, "Buy milk")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if task.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, task.UserID)
	}

	if task.Completed {
		t.Error("Expected new task to not be completed")
	}

	if task.Priority != PriorityMedium {
		t.Errorf("Expected default priority %s, got %s", PriorityMedium, task.Priority)
	}

	if task.Category != DefaultCategory {
		t.Errorf("Expected default category %s, got %s", DefaultCategory, task.Category)
	}

	if task.Tags == nil || len(task.Tags) != 0 {
		t.Errorf("Expected empty tags slice, got %v", task.Tags)
	}

	if task.DueDate != nil {
		t.Error("Expected no due date by default")
	}

	if task.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	// Test invalid userID
	_, err = NewTask(uuid.Nil, "Buy milk")
	if err != ErrTaskUserIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrTaskUserIDEmpty, err)
	}

	// Test blank title
	_, err = NewTask(userID, "   ")
	if err != ErrTaskTitleEmpty {
		t.Errorf("Expected error %v, got %v", ErrTaskTitleEmpty, err)
	}
}

func TestTaskValidate(t *testing.T) {
	t.Parallel()

	valid := Task{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Title:    "Write report",
		Priority: PriorityHigh,
		Category: "work",
	}

	if err := valid.Validate(); err != nil {
		t.Errorf("Expected no error for valid task, got %v", err)
	}

	invalid := valid
	invalid.Priority = Priority("urgent")
	if err := invalid.Validate(); err != ErrInvalidPriority {
		t.Errorf("Expected %v, got %v", ErrInvalidPriority, err)
	}
}

func TestPriorityOrdinal(t *testing.T) {
	t.Parallel()

	if !(PriorityHigh.Ordinal() > PriorityMedium.Ordinal() &&
		PriorityMedium.Ordinal() > PriorityLow.Ordinal()) {
		t.Error("Expected ordinal order high > medium > low")
	}

	if Priority("bogus").Ordinal() != 0 {
		t.Error("Expected unknown priority to sort below low")
	}
}

func TestPriorityIsValid(t *testing.T) {
	t.Parallel()

	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
		if !p.IsValid() {
			t.Errorf("Expected %s to be valid", p)
		}
	}

	if Priority("").IsValid() {
		t.Error("Expected empty priority to be invalid")
	}
}
