package memory

import "testing"

func TestPublishIndexesByTopic(t *testing.T) {
	pub := NewPublisher()

	if err := pub.Publish("payment_received", "first"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := pub.Publish("withdraw", "second"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := pub.Publish("payment_received", "third"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	deposits := pub.Events("payment_received")
	if len(deposits) != 2 || deposits[0] != "first" || deposits[1] != "third" {
		t.Fatalf("unexpected payment_received stream: %v", deposits)
	}
	if got := pub.Events("withdraw"); len(got) != 1 || got[0] != "second" {
		t.Fatalf("unexpected withdraw stream: %v", got)
	}
	if got := pub.Events("unused"); len(got) != 0 {
		t.Fatalf("unused topic should be empty, got %v", got)
	}
}

func TestEventsReturnsCopy(t *testing.T) {
	pub := NewPublisher()
	_ = pub.Publish("topic", "original")

	events := pub.Events("topic")
	events[0] = "mutated"

	if got := pub.Events("topic"); got[0] != "original" {
		t.Fatalf("log mutated through returned slice: %v", got)
	}
}
