// Package instruction decodes the wire format of incoming invocations: a
// one-byte variant tag followed by a borsh-encoded, variant-specific
// payload.
package instruction

import (
	"fmt"

	"github.com/near/borsh-go"

	"reviewledger/internal/domain"
)

type Kind uint8

const (
	KindCreateReview Kind = iota
	KindUpdateReview
	KindAppendComment
	KindBootstrapMint
)

func (k Kind) String() string {
	switch k {
	case KindCreateReview:
		return "create_review"
	case KindUpdateReview:
		return "update_review"
	case KindAppendComment:
		return "append_comment"
	case KindBootstrapMint:
		return "bootstrap_mint"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ReviewPayload is shared by the create and update variants. On update the
// title travels on the wire but the stored title stays authoritative.
type ReviewPayload struct {
	Title       string
	Rating      uint8
	Description string
}

type CommentPayload struct {
	Comment string
}

type Instruction struct {
	Kind    Kind
	Review  ReviewPayload
	Comment CommentPayload
}

// Unpack decodes an instruction buffer. Unknown tags and truncated payloads
// fail with ErrMalformedInstruction.
func Unpack(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return Instruction{}, fmt.Errorf("empty instruction buffer: %w", domain.ErrMalformedInstruction)
	}
	kind, payload := Kind(data[0]), data[1:]

	switch kind {
	case KindCreateReview, KindUpdateReview:
		var p ReviewPayload
		if err := borsh.Deserialize(&p, payload); err != nil {
			return Instruction{}, fmt.Errorf("decode %s payload: %v: %w", kind, err, domain.ErrMalformedInstruction)
		}
		if err := consumed(kind, p, payload); err != nil {
			return Instruction{}, err
		}
		return Instruction{Kind: kind, Review: p}, nil
	case KindAppendComment:
		var p CommentPayload
		if err := borsh.Deserialize(&p, payload); err != nil {
			return Instruction{}, fmt.Errorf("decode %s payload: %v: %w", kind, err, domain.ErrMalformedInstruction)
		}
		if err := consumed(kind, p, payload); err != nil {
			return Instruction{}, err
		}
		return Instruction{Kind: kind, Comment: p}, nil
	case KindBootstrapMint:
		if len(payload) != 0 {
			return Instruction{}, fmt.Errorf("%s carries %d payload bytes, want none: %w", kind, len(payload), domain.ErrMalformedInstruction)
		}
		return Instruction{Kind: kind}, nil
	}
	return Instruction{}, fmt.Errorf("unknown instruction tag %d: %w", data[0], domain.ErrMalformedInstruction)
}

// consumed rejects buffers the decode did not exhaust. Borsh decoding stops
// at the end of the last field, so a valid payload followed by trailing
// bytes would otherwise slip through; the encoding is canonical, so the
// re-serialized value measures exactly what the decode consumed.
func consumed(kind Kind, v any, payload []byte) error {
	enc, err := borsh.Serialize(v)
	if err != nil {
		return fmt.Errorf("reencode %s payload: %w", kind, err)
	}
	if len(enc) != len(payload) {
		return fmt.Errorf("%s payload is %d bytes, decoded %d: %w", kind, len(payload), len(enc), domain.ErrMalformedInstruction)
	}
	return nil
}

// Pack is the inverse of Unpack. The program never builds requests itself;
// this exists for tests and tooling that need well-formed buffers.
func Pack(in Instruction) ([]byte, error) {
	var (
		payload []byte
		err     error
	)
	switch in.Kind {
	case KindCreateReview, KindUpdateReview:
		payload, err = borsh.Serialize(in.Review)
	case KindAppendComment:
		payload, err = borsh.Serialize(in.Comment)
	case KindBootstrapMint:
	default:
		return nil, fmt.Errorf("unknown instruction kind %d: %w", uint8(in.Kind), domain.ErrMalformedInstruction)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", in.Kind, err)
	}
	return append([]byte{byte(in.Kind)}, payload...), nil
}
