package domain

import (
	"sort"
	"time"
)

// DateLayout is how calendar dates are compared and stored, server-local time.
const DateLayout = "2006-01-02"

type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	Birthdate    string    `db:"birthdate"`
	PasswordHash string    `db:"password_hash"`
	Verified     bool      `db:"verified"`
	VerifyCode   string    `db:"verify_code"`
	CreatedAt    time.Time `db:"created_at"`

	Streak         int      `db:"streak"`
	LastStreakDate string   `db:"last_streak_date"` // YYYY-MM-DD, empty if never credited
	LastTaskDate   string   `db:"last_task_date"`   // YYYY-MM-DD, empty if never submitted
	CompletedTasks []string `db:"completed_tasks"`  // tasks submitted on LastTaskDate
}

// HasTask reports whether the task is already in the daily set.
func (u *User) HasTask(taskID string) bool {
	for _, t := range u.CompletedTasks {
		if t == taskID {
			return true
		}
	}
	return false
}

// AddTask adds a task to the daily set, keeping it duplicate-free.
func (u *User) AddTask(taskID string) {
	if !u.HasTask(taskID) {
		u.CompletedTasks = append(u.CompletedTasks, taskID)
	}
}

// SortedTasks returns the daily task set as an ordered slice for transport.
func (u *User) SortedTasks() []string {
	out := make([]string, len(u.CompletedTasks))
	copy(out, u.CompletedTasks)
	sort.Strings(out)
	return out
}
