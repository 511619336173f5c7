package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/fnb-pos/internal/domain/repository"
	"github.com/sangkips/fnb-pos/pkg/utils"
)

// ReceiptIssuer assigns income receipt codes from the per-day sequence.
// Call Issue inside the transaction that completes the order.
type ReceiptIssuer struct {
	sequences repository.ReceiptSequenceRepository
	prefix    string
	loc       *time.Location
}

// NewReceiptIssuer creates a receipt issuer; loc decides where a business day starts
func NewReceiptIssuer(sequences repository.ReceiptSequenceRepository, prefix string, loc *time.Location) *ReceiptIssuer {
	if loc == nil {
		loc = time.UTC
	}
	return &ReceiptIssuer{sequences: sequences, prefix: prefix, loc: loc}
}

// Issue returns the next receipt code for the business day of at
func (i *ReceiptIssuer) Issue(ctx context.Context, at time.Time) (string, error) {
	day := at.In(i.loc)
	seq, err := i.sequences.Next(ctx, utils.ReceiptDay(day))
	if err != nil {
		return "", fmt.Errorf("failed to allocate receipt number: %w", err)
	}
	return utils.FormatReceiptCode(i.prefix, day, seq), nil
}

// Location is the business timezone
func (i *ReceiptIssuer) Location() *time.Location {
	return i.loc
}
