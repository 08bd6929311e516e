package client

import "github.com/stronghold-go/stronghold/procedure"

// ExecuteProcedure runs a single procedure against c's vault view.
func (c *Client) ExecuteProcedure(p procedure.Procedure) ([]byte, error) {
	return procedure.ExecuteProcedure(procedureState(c), c.provider, p)
}

// ExecuteProcedureChained runs ps in order, revoking the outputs of any
// preceding successful step if a later one fails.
func (c *Client) ExecuteProcedureChained(ps []procedure.Procedure) ([][]byte, error) {
	return procedure.ExecuteProcedureChained(procedureState(c), c.provider, ps)
}

func procedureState(c *Client) *procedure.State {
	return &procedure.State{KeyStore: c.state.KeyStore, DbView: c.state.DbView}
}
