package services

// seqGuard orders responses for one resource. Every fetch takes a number
// from next before it is sent; its result is applied only if apply accepts
// that number. Local mutations take and apply a number immediately, which
// makes every fetch issued before them stale.
type seqGuard struct {
	issued  uint64
	applied uint64
}

func (g *seqGuard) next() uint64 {
	g.issued++
	return g.issued
}

func (g *seqGuard) apply(n uint64) bool {
	if n <= g.applied {
		return false
	}
	g.applied = n
	return true
}

// local records a local mutation.
func (g *seqGuard) local() {
	g.apply(g.next())
}
