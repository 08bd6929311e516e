package procedure

import (
	"log"

	"github.com/stronghold-go/stronghold/boxprovider"
	"github.com/stronghold-go/stronghold/ids"
)

// Procedure is one member of the closed set of cryptographic operations the
// vault can run without ever handing plaintext secret material to the
// caller. Execute performs the procedure's cryptographic work and any
// declared vault write, returning the procedure's public result (may be
// empty).
type Procedure interface {
	// outputs lists every location this procedure writes a secret to, so a
	// failed chain can revoke them.
	outputs() []ids.Location
	execute(r *runtime) ([]byte, error)
}

// ExecuteProcedure runs a single procedure to completion.
func ExecuteProcedure(state *State, provider boxprovider.BoxProvider, p Procedure) ([]byte, error) {
	return p.execute(&runtime{state: state, provider: provider})
}

// ExecuteProcedureChained runs ps in order. On the first failure, every
// output location written by a preceding successful step in this chain is
// revoked, best effort: a failure during revoke is logged but never
// replaces the original error.
func ExecuteProcedureChained(state *State, provider boxprovider.BoxProvider, ps []Procedure) ([][]byte, error) {
	r := &runtime{state: state, provider: provider}

	results := make([][]byte, 0, len(ps))

	var written []ids.Location

	for _, p := range ps {
		out, err := p.execute(r)
		if err != nil {
			revokeChain(r, written)
			return nil, err
		}

		results = append(results, out)
		written = append(written, p.outputs()...)
	}

	return results, nil
}

func revokeChain(r *runtime, written []ids.Location) {
	for _, loc := range written {
		if err := r.revokeSecret(loc); err != nil {
			log.Printf("procedure: revoke %x/%x after chain failure: %v", loc.VaultPath, loc.RecordPath, err)
		}
	}
}
