package rarextract

import "context"

// Kind is the type of an extraction Event.
type Kind uint8

const (
	Started   Kind = iota + 1 // Started is sent once before unrar is located.
	Progress                  // Progress carries a chunk of the unrar output text.
	Completed                 // Completed is the last event and carries the result.
)

func (k Kind) String() string {
	switch k {
	case Started:
		return "started"
	case Progress:
		return "progress"
	case Completed:
		return "completed"
	}
	return "unknown"
}

// Event is a message sent by Stream.
type Event struct {
	Kind Kind   // Kind of the event.
	Text string // Text is the source archive for Started and the output chunk for Progress.
	Err  error  // Err is the extraction result for Completed, nil on success.
}

// Stream runs ExtractContext on a new goroutine and returns its events.
// The channel receives one Started event, any number of Progress events and
// then one Completed event, after which it is closed.
//
// The receiver must drain the channel until it is closed,
// otherwise unrar blocks once its output pipe is full.
func (x Extractor) Stream(ctx context.Context) <-chan Event {
	const buffer = 16
	events := make(chan Event, buffer)
	go func() {
		defer close(events)
		events <- Event{Kind: Started, Text: x.Source}
		err := x.ExtractContext(ctx, func(s string) {
			events <- Event{Kind: Progress, Text: s}
		})
		events <- Event{Kind: Completed, Err: err}
	}()
	return events
}
