package auth

type DBUser interface {
	ID() int
	Name() string // can be email address
}

type UserDB interface {
	GetUser(id int) (DBUser, error)
	GetUserByName(name string) (DBUser, error)
	InsertUser(name string) (DBUser, error)
	LoginUser(name, password string) (DBUser, error)
	SetPassword(u DBUser, password string) error
}
