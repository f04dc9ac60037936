package types

// VoteRecord maps product code -> attribute name -> the user's current
// outcome. A nil *bool is an explicit neutral vote; a missing attribute
// key means the user has never voted on that pair. Exactly one outcome
// is retained per (product, attribute): a new vote overwrites.
type VoteRecord map[string]map[string]*bool

// User is a single account document.
// The username doubles as the document ID, so it is unique by construction.
type User struct {
	Username string                 `json:"username" bson:"username"`
	Hash     string                 `json:"-" bson:"hash"`
	CreateT  int64                  `json:"create_t" bson:"create_t"`
	UpdateT  int64                  `json:"update_t" bson:"update_t"`
	Conf     map[string]interface{} `json:"conf" bson:"conf"`
	Vot      VoteRecord             `json:"vot" bson:"vot"`
}

// Outcome looks up the user's recorded outcome for a (product, attribute)
// pair. The second return reports whether any outcome was recorded at all,
// distinguishing "never voted" from an explicit neutral.
func (u *User) Outcome(code string, attribute string) (*bool, bool) {
	votes, ok := u.Vot[code]
	if !ok {
		return nil, false
	}

	outcome, ok := votes[attribute]
	return outcome, ok
}

// Session is the opaque handle issued on login.
// The wire field names (id/un/ts) are part of the client contract.
type Session struct {
	ID        string `json:"id"`
	Username  string `json:"un"`
	Timestamp int64  `json:"ts"`
}
