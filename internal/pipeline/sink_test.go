package pipeline

import "testing"

func TestChannelSinkForwards(t *testing.T) {
	ch := make(chan Event, 1)
	Emit(ChannelSink{Ch: ch}, Event{Program: "a.toml", Stage: StageLoad, Status: StatusWorking})
	got := <-ch
	if got.Program != "a.toml" || got.Stage != StageLoad {
		t.Fatalf("unexpected event %+v", got)
	}
}

func TestNilSinks(t *testing.T) {
	Emit(nil, Event{})
	ChannelSink{}.OnEvent(Event{})
	var f FuncSink
	f.OnEvent(Event{})
}

func TestFinished(t *testing.T) {
	for status, want := range map[Status]bool{
		StatusQueued:  false,
		StatusWorking: false,
		StatusDone:    true,
		StatusCached:  true,
		StatusError:   true,
	} {
		if got := (Event{Status: status}).Finished(); got != want {
			t.Fatalf("%s: Finished() = %v, want %v", status, got, want)
		}
	}
}
