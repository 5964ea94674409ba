package auth

type DBGroup interface {
	ID() int
	Name() string
	IsAdmin() bool
}

type GroupDB interface {
	GetGroupByName(name string) (DBGroup, error)
	GetGroupsOf(u DBUser) ([]DBGroup, error)
	InsertGroup(name string) error
	Join(g DBGroup, u DBUser) error
	SetAdmin(g DBGroup, admin bool) error
}
