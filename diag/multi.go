package diag

// Multi sends every message to all of its sinks, in order.
type Multi []Sink

// Emit forwards m to each non-nil sink.
func (ms Multi) Emit(m Message) {
	for _, s := range ms {
		if s != nil {
			s.Emit(m)
		}
	}
}

// Filter drops messages below Min before passing them to Next.
type Filter struct {
	Min  Severity
	Next Sink
}

// Emit forwards m if it is severe enough.
func (f Filter) Emit(m Message) {
	if m.Severity < f.Min || f.Next == nil {
		return
	}
	f.Next.Emit(m)
}

var (
	_ Sink = Multi(nil)
	_ Sink = Filter{}
)
