package looter

import (
	"context"
	"fmt"
	"log/slog"
)

type AuthReason string

const (
	NotSignedIn            AuthReason = "not signed in (recreate the cookies file)"
	NotPrimeEligible       AuthReason = "not a valid prime subscription"
	NotLinkedGamingAccount AuthReason = "prime gaming account is not linked"
)

// AuthError means the supplied cookies are unusable. It is fatal for
// the whole run: nothing downstream can succeed and retrying cannot
// help until the user exports fresh cookies.
type AuthError struct {
	Reason AuthReason
}

func (e AuthError) Error() string {
	return fmt.Sprintf("authentication: %s", e.Reason)
}

// Account is the subset of the current-user payload the gate cares
// about.
type Account struct {
	SignedIn            bool
	PrimeEligible       bool
	LinkedGamingAccount bool
	DisplayName         string
}

// Authenticate validates the session before any offer is touched.
func (s *Service) Authenticate(ctx context.Context) (Account, error) {
	ctx, span := tracer.Start(ctx, "Authenticate")
	defer span.End()

	user, err := s.gw.CurrentUser(ctx)
	if err != nil {
		return Account{}, fmt.Errorf("fetching current user: %w", err)
	}

	account := Account{
		SignedIn:            user.IsSignedIn,
		PrimeEligible:       user.IsAmazonPrime,
		LinkedGamingAccount: user.IsTwitchPrime,
		DisplayName:         user.FirstName,
	}

	switch {
	case !account.SignedIn:
		return account, AuthError{Reason: NotSignedIn}
	case !account.PrimeEligible:
		return account, AuthError{Reason: NotPrimeEligible}
	case !account.LinkedGamingAccount:
		return account, AuthError{Reason: NotLinkedGamingAccount}
	}

	slog.InfoContext(ctx, "authenticated", "user", account.DisplayName)
	return account, nil
}
