package notify

import "testing"

func TestNotifier_Subscribe(t *testing.T) {
	n := New()

	var got []Change
	n.Subscribe(func(c Change) {
		got = append(got, c)
	})

	n.Notify(Change{Name: "tabs.show", NewValue: "never", Source: "config.lua"})
	n.Notify(Change{Name: "colors.hints.bg", NewValue: "red"})

	if len(got) != 2 {
		t.Fatalf("received %d changes, want 2", len(got))
	}
	if got[0].Name != "tabs.show" || got[0].Source != "config.lua" {
		t.Errorf("first change = %+v", got[0])
	}
}

func TestNotifier_SubscribeName(t *testing.T) {
	n := New()

	var got []Change
	n.SubscribeName("tabs.show", func(c Change) {
		got = append(got, c)
	})

	n.Notify(Change{Name: "colors.hints.bg", NewValue: "red"})
	n.Notify(Change{Name: "tabs.show", NewValue: "never"})

	if len(got) != 1 {
		t.Fatalf("received %d changes, want 1", len(got))
	}
	if got[0].NewValue != "never" {
		t.Errorf("NewValue = %v, want never", got[0].NewValue)
	}
}

func TestSubscription_Unsubscribe(t *testing.T) {
	n := New()

	count := 0
	sub := n.Subscribe(func(Change) { count++ })

	n.Notify(Change{Name: "a"})
	sub.Unsubscribe()
	n.Notify(Change{Name: "b"})

	if count != 1 {
		t.Errorf("observer called %d times, want 1", count)
	}
}

func TestNotifier_MultipleObservers(t *testing.T) {
	n := New()

	all, named := 0, 0
	n.Subscribe(func(Change) { all++ })
	n.SubscribeName("zoom.default", func(Change) { named++ })

	n.Notify(Change{Name: "zoom.default", NewValue: 1.5})

	if all != 1 || named != 1 {
		t.Errorf("all = %d, named = %d, want 1 and 1", all, named)
	}
}
