package checkout

// Step is a named state of the checkout wizard.
type Step string

const (
	StepShipping Step = "SHIPPING"
	StepPayment  Step = "PAYMENT"
	StepReview   Step = "REVIEW"
	StepPlaced   Step = "PLACED"
)

func (s Step) IsTerminal() bool {
	return s == StepPlaced
}

// String representation (for logging)
func (s Step) String() string {
	return string(s)
}

// transitions is the full set of legal moves. Forward moves are earned by
// step validation; backward moves are explicit and keep entered data.
var transitions = map[Step][]Step{
	StepShipping: {StepPayment},
	StepPayment:  {StepReview, StepShipping},
	StepReview:   {StepPlaced, StepPayment},
	StepPlaced:   {},
}

func canTransition(from, to Step) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
