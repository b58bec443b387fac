package identity

import "context"

type profileKey struct{}

// WithProfile attaches a verified profile to the context.
func WithProfile(ctx context.Context, profile Profile) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, profileKey{}, profile)
}

// ProfileFromContext returns the verified profile, if any.
func ProfileFromContext(ctx context.Context) (Profile, bool) {
	if ctx == nil {
		return Profile{}, false
	}
	profile, ok := ctx.Value(profileKey{}).(Profile)
	return profile, ok
}
