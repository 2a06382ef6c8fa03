// Package record defines the persisted record schemas. Each record is a
// borsh-encoded structure: a length-prefixed discriminator string, a
// one-byte initialized flag, then the record-specific fields in declared
// order.
package record

import (
	"fmt"

	"github.com/near/borsh-go"

	"reviewledger/internal/domain"
)

const (
	ReviewDiscriminator  = "review"
	CounterDiscriminator = "counter"
	CommentDiscriminator = "comment"

	// MaxReviewSize caps a review slot; creation and update both reject
	// anything whose serialized form would exceed it.
	MaxReviewSize = 1000

	// MaxCommentSize caps a single comment slot the same way.
	MaxCommentSize = 1000
)

// borsh string overhead (u32 length prefix).
const strOverhead = 4

type Review struct {
	Discriminator string
	Initialized   bool
	Reviewer      domain.Address
	Rating        uint8
	Title         string
	Description   string
}

type CommentCounter struct {
	Discriminator string
	Initialized   bool
	Counter       uint64
}

type Comment struct {
	Discriminator string
	Initialized   bool
	Review        domain.Address
	Commenter     domain.Address
	Comment       string
}

// ReviewSize is the serialized size of a review with the given text fields.
func ReviewSize(title, description string) int {
	return strOverhead + len(ReviewDiscriminator) + 1 + 32 + 1 +
		strOverhead + len(title) + strOverhead + len(description)
}

// CounterSize is the fixed serialized size of a comment counter.
const CounterSize = strOverhead + len(CounterDiscriminator) + 1 + 8

// CommentSize is the serialized size of a comment with the given text.
func CommentSize(comment string) int {
	return strOverhead + len(CommentDiscriminator) + 1 + 32 + 32 +
		strOverhead + len(comment)
}

func (r Review) Encode() ([]byte, error)         { return borsh.Serialize(r) }
func (c CommentCounter) Encode() ([]byte, error) { return borsh.Serialize(c) }
func (c Comment) Encode() ([]byte, error)        { return borsh.Serialize(c) }

// Decode helpers tolerate trailing zero bytes, so a freshly allocated slot
// decodes to the zero record.

func DecodeReview(data []byte) (Review, error) {
	var r Review
	if err := borsh.Deserialize(&r, data); err != nil {
		return Review{}, fmt.Errorf("decode review record: %w", err)
	}
	return r, nil
}

func DecodeCounter(data []byte) (CommentCounter, error) {
	var c CommentCounter
	if err := borsh.Deserialize(&c, data); err != nil {
		return CommentCounter{}, fmt.Errorf("decode counter record: %w", err)
	}
	return c, nil
}

func DecodeComment(data []byte) (Comment, error) {
	var c Comment
	if err := borsh.Deserialize(&c, data); err != nil {
		return Comment{}, fmt.Errorf("decode comment record: %w", err)
	}
	return c, nil
}

// Classify reads only the common header and reports the discriminator, for
// tooling that walks slots of mixed record types.
func Classify(data []byte) (string, bool, error) {
	var hdr struct {
		Discriminator string
		Initialized   bool
	}
	if err := borsh.Deserialize(&hdr, data); err != nil {
		return "", false, fmt.Errorf("decode record header: %w", err)
	}
	return hdr.Discriminator, hdr.Initialized, nil
}
