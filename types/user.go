package types

// User is the profile document returned by the auth server's userinfo
// endpoint. The shape is provider-dependent, so it is carried as a raw
// key/value document & never validated beyond presence.
type User map[string]any

// Id returns the user identifier claim, trying the common `id` &
// oidc-standard `sub` keys.
func (u User) Id() string {
	for _, key := range []string{"id", "sub"} {
		if v, ok := u[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
