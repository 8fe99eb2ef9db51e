package domain

// Identity is the caller identity asserted by the external identity provider
// and attached to every request by the auth middleware. The service trusts it
// opaquely; no credential verification happens here.
type Identity struct {
	UserID UserID
	Admin  bool
}

// IsZero reports whether no identity was attached.
func (i Identity) IsZero() bool {
	return i.UserID.IsNil()
}
