package task

// Status represents the lifecycle state of a Task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusFailure    Status = "failure"
)

// transitions is the task state machine. Terminal states map to nil.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusFailure},
	StatusProcessing: {StatusSuccess, StatusFailure},
	StatusSuccess:    nil,
	StatusFailure:    nil,
}

// IsValid returns true if the status is one of the defined constants.
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal returns true if no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailure
}

// CanTransitionTo reports whether the state machine allows s -> next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// Type identifies the kind of work a Task performs.
type Type string

// TypeImport is currently the only supported task type.
const TypeImport Type = "import"

// IsValid returns true if the type is supported.
func (t Type) IsValid() bool {
	return t == TypeImport
}

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}
