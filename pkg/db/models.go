package db

// Run represents a database allocation run record
type Run struct {
	ID              string
	InputName       string
	Seed            int64
	Objective       float64
	Evaluations     int
	Passes          int
	Restarts        int
	Alpha           float64
	HeuristicTarget int
	CreatedAt       string // RFC3339
}

// Checkpoint represents the best objective of a run at an evaluation threshold
type Checkpoint struct {
	ID          string
	RunID       string
	Threshold   int
	Evaluations int
	Objective   float64
}

// AcceptedPublication represents one accepted (publication, author) pair of a run
type AcceptedPublication struct {
	ID            string
	RunID         string
	PublicationID string
	AuthorID      string
	IsMonograph   bool
	Points        float64
	Contribution  float64
}
