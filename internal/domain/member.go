package domain

// Member represents a user's participation meta for a document group.
// No transport or lifecycle logic here.
type Member struct {
	UserID UserID
	Email  string
}

// NewMember avoids raw literals in adapters and keeps construction obvious.
func NewMember(user *User) Member {
	return Member{UserID: user.ID, Email: user.Email}
}
