package ports

import (
	"context"
	"fmt"

	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/pkg/errs"
)

// AadhaarStatus is the state of a carrier's identity check.
type AadhaarStatus string

const (
	AadhaarNotSubmitted AadhaarStatus = "not_submitted"
	AadhaarPending      AadhaarStatus = "pending"
	AadhaarVerified     AadhaarStatus = "verified"
	AadhaarRejected     AadhaarStatus = "rejected"
)

func ParseAadhaarStatus(s string) (AadhaarStatus, error) {
	switch st := AadhaarStatus(s); st {
	case AadhaarNotSubmitted, AadhaarPending, AadhaarVerified, AadhaarRejected:
		return st, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("aadhaar_status", fmt.Errorf("%q is not a valid status", s))
	}
}

// IdentityVerificationProvider reports carrier identity checks. Carriers
// without a record are AadhaarNotSubmitted.
type IdentityVerificationProvider interface {
	AadhaarStatus(ctx context.Context, carrierID kernel.UUID) (AadhaarStatus, error)
}

// IdentityVerificationRepository records the outcome of identity checks.
type IdentityVerificationRepository interface {
	IdentityVerificationProvider
	SetAadhaarStatus(ctx context.Context, carrierID kernel.UUID, status AadhaarStatus) error
}
