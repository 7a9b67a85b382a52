package model

// User is a platform account, typically a playlist creator. Users have no
// lazy attributes.
type User struct{ base }

// NewUser builds a User bound to source.
func NewUser(source Resolver, f Fields) *User {
	u := &User{}
	u.init(KindUser, source, u, f)
	return u
}

// ID returns the numeric account id, or 0 when the provider uses a
// non-numeric one (see Get(FieldID)).
func (u *User) ID() int64 { return eagerValue[int64](&u.base, FieldID) }

// Gender returns the profile gender label, or "" when unset.
func (u *User) Gender() string { return eagerValue[string](&u.base, FieldGender) }

// AvatarURL returns the profile picture URL.
func (u *User) AvatarURL() string { return eagerValue[string](&u.base, FieldAvatarURL) }

// Signature returns the profile bio line.
func (u *User) Signature() string { return eagerValue[string](&u.base, FieldSignature) }
