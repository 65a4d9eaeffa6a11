package warehouse

type OutcomeStatus string

const (
	OutcomeRows  OutcomeStatus = "rows"
	OutcomeEmpty OutcomeStatus = "empty"
	OutcomeError OutcomeStatus = "error"
)

// Outcome separa "zero linhas" de "consulta falhou"
type Outcome struct {
	Status OutcomeStatus
	Rows   []Row
	Err    error
}

func (o Outcome) OK() bool {
	return o.Status != OutcomeError
}
