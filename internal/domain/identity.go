package domain

// Identity is the verified caller identity supplied by the auth gateway.
// It is passed explicitly into every ledger operation; there is no ambient
// request identity. Token carries the upstream credential so parent/child
// relationship checks can be made on the caller's behalf.
type Identity struct {
	Email     string
	IsParent  bool
	IsStudent bool
	Token     string
}
