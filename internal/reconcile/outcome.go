package reconcile

// Action is the per-record reconciliation decision
type Action string

const (
	ActionCreated  Action = "created"
	ActionUpdated  Action = "updated"
	ActionSkipped  Action = "skipped"
	ActionRejected Action = "rejected"
)

// Outcome reports what happened to a single record
type Outcome struct {
	Title      string
	ExternalID string
	Action     Action
	Reason     string // set for rejected records
	NewUnits   int    // sub-entries created
}

// Summary aggregates the outcomes of one batch
type Summary struct {
	Source   string
	Created  int
	Updated  int
	Skipped  int
	Rejected int
	Outcomes []Outcome
}

func (s *Summary) add(o Outcome) {
	switch o.Action {
	case ActionCreated:
		s.Created++
	case ActionUpdated:
		s.Updated++
	case ActionSkipped:
		s.Skipped++
	case ActionRejected:
		s.Rejected++
	}
	s.Outcomes = append(s.Outcomes, o)
}

// Total returns the number of records in the batch
func (s *Summary) Total() int {
	return len(s.Outcomes)
}
