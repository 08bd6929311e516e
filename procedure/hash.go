package procedure

import (
	"github.com/stronghold-go/stronghold/ids"
)

// Sha2Hash digests the secret at Data's location and writes the digest to
// Output, also returning it directly.
type Sha2Hash struct {
	Variant Sha2Variant
	Data    ids.Location
	Output  ids.Location
}

func (p Sha2Hash) outputs() []ids.Location { return []ids.Location{p.Output} }

func (p Sha2Hash) execute(r *runtime) ([]byte, error) {
	data, err := r.readSecret(p.Data)
	if err != nil {
		return nil, err
	}

	h := hashFor(p.Variant)()
	h.Write(data)
	digest := h.Sum(nil)

	if err := r.writeSecret(p.Output, digest); err != nil {
		return nil, err
	}

	return digest, nil
}
