package service

import (
	"context"

	"github.com/ncobase/nblog/data/repository"
	"github.com/ncobase/nblog/structs"
	"github.com/ncobase/ncore/ctxutil"
)

// callerSubject returns the provider subject id of the caller, or
// ErrNotAuthenticated when the identity middleware put none in the context.
func callerSubject(ctx context.Context) (string, error) {
	subject := ctxutil.GetUserID(ctx)
	if subject == "" {
		return "", ErrNotAuthenticated
	}
	return subject, nil
}

// callerIsAdmin reads the role decoded from the session claims. It is
// deliberately independent of local user lookup: admin-only operations must
// work even when local provisioning lags behind the identity provider.
func callerIsAdmin(ctx context.Context) bool {
	return ctxutil.GetUserIsAdmin(ctx)
}

// resolveCaller maps the caller identity to the local user record.
func resolveCaller(ctx context.Context, users repository.UserRepository) (*structs.User, error) {
	subject, err := callerSubject(ctx)
	if err != nil {
		return nil, err
	}
	user, err := users.FindByClerkID(ctx, subject)
	if err != nil {
		return nil, asUserLookupErr(err)
	}
	return user, nil
}
