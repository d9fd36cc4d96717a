package engine

// OutcomeKind names the terminal result of an action. Outcomes are
// values, not errors: a blocked door is a normal answer, not a fault.
type OutcomeKind string

const (
	OutcomeMoved         OutcomeKind = "moved"
	OutcomeBlocked       OutcomeKind = "blocked"
	OutcomeNoSuchExit    OutcomeKind = "no_such_exit"
	OutcomeTaken         OutcomeKind = "taken"
	OutcomeInventoryFull OutcomeKind = "inventory_full"
	OutcomeAlreadyHeld   OutcomeKind = "already_held"
	OutcomeNotHeld       OutcomeKind = "not_held"
	OutcomeNoSuchItem    OutcomeKind = "no_such_item"
	OutcomeUsed          OutcomeKind = "used"
	OutcomeNoEffect      OutcomeKind = "no_effect"
	OutcomeDropped       OutcomeKind = "dropped"
	OutcomeOption        OutcomeKind = "option_applied"
	OutcomeNoSuchOption  OutcomeKind = "no_such_option"
)

// Outcome is the deterministic, final answer for one action against
// one state. Rejected actions leave the state untouched and the log
// unappended.
type Outcome struct {
	Kind     OutcomeKind `json:"kind"`
	Scene    string      `json:"scene,omitempty"`    // moved: the scene entered
	Message  string      `json:"message,omitempty"`  // success message or useless notification
	DelayMS  int         `json:"delay_ms,omitempty"` // display delay for Message
	Missing  []string    `json:"missing,omitempty"`  // blocked: required items not held
	Points   int         `json:"points,omitempty"`   // points awarded by this action
	Revealed []string    `json:"revealed,omitempty"` // target keys promoted by this action
}
