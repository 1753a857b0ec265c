package port

import (
	"context"
	"errors"

	"github.com/chainmind/order-lifecycle/internal/core/domain"
)

var (
	// ErrNoVendorUser means the vendor entity has no portal login
	// account. Expected: vendors exist without logins.
	ErrNoVendorUser = errors.New("vendor has no user account")

	// ErrNoVendorContact means no name/email could be resolved for
	// the vendor reference.
	ErrNoVendorContact = errors.New("vendor contact not found")
)

type RecipientResolver interface {
	// BusinessRecipients returns the user ids of all owner and
	// manager accounts in the business. An empty slice is valid.
	BusinessRecipients(ctx context.Context, businessID string) ([]string, error)

	// VendorUser returns the user id of the vendor entity's portal
	// account, or ErrNoVendorUser.
	VendorUser(ctx context.Context, vendorID string) (string, error)

	// VendorContact resolves a name/email pair for the vendor. A ref
	// already carrying both is returned as-is without a lookup.
	VendorContact(ctx context.Context, ref domain.VendorRef) (domain.VendorContact, error)
}
