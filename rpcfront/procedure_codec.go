package rpcfront

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/stronghold-go/stronghold/ids"
	"github.com/stronghold-go/stronghold/procedure"
)

// decodeProcedure maps a request envelope's "kind" field to one of the
// closed-set [procedure.Procedure] types. Only a representative subset of
// the runner's 21 procedures is wired over RPC; the rest remain reachable
// through the direct Go API ([client.Client.ExecuteProcedure]) and are not
// exposed to remote callers, a scope decision recorded in DESIGN.md rather
// than a gap in the runner itself.
func decodeProcedure(req *structpb.Struct) (procedure.Procedure, error) {
	kind, err := getString(req, "kind")
	if err != nil {
		return nil, err
	}

	switch kind {
	case "generate_key":
		keyType, err := decodeKeyType(req)
		if err != nil {
			return nil, err
		}

		output, err := decodeLocation(req, "output_vault_path", "output_record_path")
		if err != nil {
			return nil, err
		}

		return procedure.GenerateKey{Type: keyType, Output: output}, nil

	case "public_key":
		keyType, err := decodeKeyType(req)
		if err != nil {
			return nil, err
		}

		priv, err := decodeLocation(req, "private_key_vault_path", "private_key_record_path")
		if err != nil {
			return nil, err
		}

		return procedure.PublicKey{Type: keyType, PrivateKey: priv}, nil

	case "ed25519_sign":
		priv, err := decodeLocation(req, "private_key_vault_path", "private_key_record_path")
		if err != nil {
			return nil, err
		}

		msg, err := getBytes(req, "msg")
		if err != nil {
			return nil, err
		}

		return procedure.Ed25519Sign{PrivateKey: priv, Msg: msg}, nil

	case "sha2_hash":
		variant, err := decodeSha2Variant(req)
		if err != nil {
			return nil, err
		}

		data, err := decodeLocation(req, "data_vault_path", "data_record_path")
		if err != nil {
			return nil, err
		}

		output, err := decodeLocation(req, "output_vault_path", "output_record_path")
		if err != nil {
			return nil, err
		}

		return procedure.Sha2Hash{Variant: variant, Data: data, Output: output}, nil

	case "write_vault":
		data, err := getBytes(req, "data")
		if err != nil {
			return nil, err
		}

		loc, err := decodeLocation(req, "vault_path", "record_path")
		if err != nil {
			return nil, err
		}

		return procedure.WriteVault{Data: data, Location: loc}, nil

	default:
		return nil, fmt.Errorf("rpcfront: unknown or unwired procedure kind %q", kind)
	}
}

func decodeLocation(req *structpb.Struct, vaultKey, recordKey string) (ids.Location, error) {
	vaultPath, err := getBytes(req, vaultKey)
	if err != nil {
		return ids.Location{}, err
	}

	recordPath, err := getBytes(req, recordKey)
	if err != nil {
		return ids.Location{}, err
	}

	return ids.Generic(vaultPath, recordPath), nil
}

func decodeKeyType(req *structpb.Struct) (procedure.KeyType, error) {
	s, err := getString(req, "key_type")
	if err != nil {
		return 0, err
	}

	switch s {
	case "ed25519":
		return procedure.Ed25519, nil
	case "x25519":
		return procedure.X25519, nil
	case "secp256k1_ecdsa":
		return procedure.Secp256k1Ecdsa, nil
	default:
		return 0, fmt.Errorf("rpcfront: unknown key_type %q", s)
	}
}

func decodeSha2Variant(req *structpb.Struct) (procedure.Sha2Variant, error) {
	s, err := getString(req, "variant")
	if err != nil {
		return 0, err
	}

	switch s {
	case "sha256":
		return procedure.Sha256, nil
	case "sha512":
		return procedure.Sha512, nil
	default:
		return 0, fmt.Errorf("rpcfront: unknown sha2 variant %q", s)
	}
}
