package progress

import "context"

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// FuncSink adapts a function to Sink.
type FuncSink func(Event)

func (f FuncSink) OnEvent(evt Event) {
	if f != nil {
		f(evt)
	}
}

// Emit sends evt to sink when one is set, and gives up if ctx is done.
// A nil sink drops the event.
func Emit(ctx context.Context, sink Sink, evt Event) {
	if sink == nil || ctx.Err() != nil {
		return
	}
	sink.OnEvent(evt)
}
