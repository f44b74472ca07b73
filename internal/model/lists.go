package model

// Todo is an entry in the local to-do list.
type Todo struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
}

// Movie is an entry in the local watch list.
type Movie struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Director string `json:"director"`
	Year     string `json:"year"`
	Genre    string `json:"genre"`
	Watched  bool   `json:"watched"`
	AddedAt  string `json:"addedAt"`
}

// Difficulty of a coding problem.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ProblemStatus tracks progress on a coding problem.
type ProblemStatus string

const (
	ProblemTodo       ProblemStatus = "todo"
	ProblemInProgress ProblemStatus = "in-progress"
	ProblemSolved     ProblemStatus = "solved"
)

// Problem is an entry in the local coding problem list.
type Problem struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Difficulty  Difficulty    `json:"difficulty"`
	Status      ProblemStatus `json:"status"`
	Tags        []string      `json:"tags"`
	URL         string        `json:"url,omitempty"`
	Notes       string        `json:"notes,omitempty"`
	CreatedAt   string        `json:"createdAt"`
}
