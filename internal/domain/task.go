package domain

// TaskID identifies one of the daily brain-region minigames.
type TaskID string

const (
	TaskPrefrontal TaskID = "prefrontal"
	TaskTemporal   TaskID = "temporal"
	TaskOccipital  TaskID = "occipital"
	TaskParietal   TaskID = "parietal"
	TaskCerebellum TaskID = "cerebellum"
)

// TaskThreshold is how many distinct tasks must be completed in a day
// before the streak is credited.
const TaskThreshold = 5

var knownTasks = map[TaskID]bool{
	TaskPrefrontal: true,
	TaskTemporal:   true,
	TaskOccipital:  true,
	TaskParietal:   true,
	TaskCerebellum: true,
}

// ValidTask reports whether id names a known daily task.
func ValidTask(id string) bool {
	return knownTasks[TaskID(id)]
}
