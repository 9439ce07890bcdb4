package protocols

type IdGenerator interface {
	NextId() int64
}
