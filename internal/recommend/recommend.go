// Package recommend picks a suggested task for a dashboard.
//
// Ordering among equal scores follows the order of the input slice, which in
// turn depends on how the store returned the rows.
package recommend

import (
	"sort"

	"github.com/skillanthropy/skillanthropy-api/internal/constants"
	"github.com/skillanthropy/skillanthropy-api/internal/models"
)

// Match is a scored candidate task.
type Match struct {
	Task         models.Task
	MatchScore   int
	UrgencyBonus int
}

// Score is the value candidates are ranked by.
func (m Match) Score() int {
	return m.MatchScore + m.UrgencyBonus
}

// Result is the outcome of a recommendation. Task is nil when nothing matched.
type Result struct {
	Task  *models.Task
	Title string
	Score int
}

// UrgencyBonus returns the tie-break bonus for an urgency level.
func UrgencyBonus(u models.TaskUrgency) int {
	switch u {
	case models.UrgencyHigh:
		return 2
	case models.UrgencyMedium:
		return 1
	default:
		return 0
	}
}

// MatchScore counts the task's required skills the volunteer has.
func MatchScore(required, skills []string) int {
	have := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		have[s] = struct{}{}
	}
	n := 0
	for _, r := range required {
		if _, ok := have[r]; ok {
			n++
		}
	}
	return n
}

// Rank returns the NOT_STARTED tasks the volunteer has not applied to and
// shares at least one skill with, best first.
func Rank(tasks []models.Task, volunteerID uint64, skills []string) []Match {
	matches := make([]Match, 0, len(tasks))
	for _, task := range tasks {
		if task.Status != models.TaskNotStarted {
			continue
		}
		if _, applied := task.ApplicationFrom(volunteerID); applied {
			continue
		}
		score := MatchScore(task.RequiredSkills(), skills)
		if score == 0 {
			continue
		}
		matches = append(matches, Match{
			Task:         task,
			MatchScore:   score,
			UrgencyBonus: UrgencyBonus(task.Urgency),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score() > matches[j].Score()
	})
	return matches
}

// ForVolunteer returns the best matching task for a volunteer.
func ForVolunteer(tasks []models.Task, volunteerID uint64, skills []string) Result {
	ranked := Rank(tasks, volunteerID, skills)
	if len(ranked) == 0 {
		return Result{Title: constants.NoMatchingTasks}
	}
	best := ranked[0]
	return Result{Task: &best.Task, Title: best.Task.Title, Score: best.Score()}
}

// MostPopular returns the task with the most applications. Used for charity dashboards.
func MostPopular(tasks []models.Task) Result {
	if len(tasks) == 0 {
		return Result{Title: constants.NoActiveTasks}
	}
	best := 0
	for i := 1; i < len(tasks); i++ {
		if len(tasks[i].Applications) > len(tasks[best].Applications) {
			best = i
		}
	}
	task := tasks[best]
	return Result{Task: &task, Title: task.Title, Score: len(task.Applications)}
}
