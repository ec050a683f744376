package store

// User is a player account keyed uniquely by Steam ID. Profile fields are
// refreshed on every login.
type User struct {
	ID          int32
	SteamID     string
	Username    string
	Avatar      string
	ProfileURL  string
	RealName    string
	LastLoginTs int64
	CreatedTs   int64
}

type FindUser struct {
	ID      *int32
	SteamID *string
}

type UpdateUser struct {
	ID          int32
	Username    *string
	Avatar      *string
	ProfileURL  *string
	RealName    *string
	LastLoginTs *int64
}
