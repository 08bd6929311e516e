package procedure

import (
	"golang.org/x/crypto/curve25519"

	"github.com/stronghold-go/stronghold/ids"
)

// X25519DiffieHellman computes the X25519 shared secret between PrivateKey's
// location and the raw PublicKey, writing it to SharedKey.
type X25519DiffieHellman struct {
	PrivateKey ids.Location
	PublicKey  []byte
	SharedKey  ids.Location
}

func (p X25519DiffieHellman) outputs() []ids.Location { return []ids.Location{p.SharedKey} }

func (p X25519DiffieHellman) execute(r *runtime) ([]byte, error) {
	secret, err := r.readSecret(p.PrivateKey)
	if err != nil {
		return nil, err
	}

	scalar, err := privateScalar(secret)
	if err != nil {
		return nil, err
	}

	shared, err := curve25519.X25519(scalar, p.PublicKey)
	if err != nil {
		return nil, fatalf("x25519 diffie-hellman", err)
	}

	if err := r.writeSecret(p.SharedKey, shared); err != nil {
		return nil, err
	}

	return nil, nil
}
