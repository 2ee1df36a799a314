package db

import "time"

// Translation is one cached answer of a named translation source. Present is
// false for a cached miss.
type Translation struct {
	Source    string
	Text      string
	Result    string
	Present   bool
	UpdatedAt time.Time
}

// Run statuses.
const (
	RunRunning  = "running"
	RunFinished = "finished"
	RunFailed   = "failed"
)

// Run records one vocabulary build.
type Run struct {
	ID           string
	Input        string
	Output       string
	Method       string
	Status       string
	Lemmas       int
	Excluded     int
	Translated   int
	Untranslated int
	Error        string
	StartedAt    time.Time
	FinishedAt   *time.Time
}
