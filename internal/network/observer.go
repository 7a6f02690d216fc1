package network

// Observer receives activity notifications from a Network. Implementations
// must be cheap; they run inline with every call.
type Observer interface {
	CommandApplied(kind CommandKind, err error)
	Peeked(requested, produced int, effort uint64)
	Finalized(err error)
}

type noopObserver struct{}

func (noopObserver) CommandApplied(CommandKind, error) {}
func (noopObserver) Peeked(int, int, uint64)           {}
func (noopObserver) Finalized(error)                   {}
