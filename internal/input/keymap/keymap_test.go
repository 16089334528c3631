package keymap

import "testing"

func TestRegistry_Bind(t *testing.T) {
	r := NewRegistry()

	if err := r.Bind(",a", "message-info foo", "normal"); err != nil {
		t.Fatalf("Bind() = %v", err)
	}

	cmd, ok := r.Lookup("normal", ",a")
	if !ok {
		t.Fatal("Lookup() ok = false")
	}
	if cmd == nil || *cmd != "message-info foo" {
		t.Errorf("Lookup() command = %v, want message-info foo", cmd)
	}
}

func TestRegistry_BindModes(t *testing.T) {
	r := NewRegistry()

	if err := r.Bind("<Ctrl-y>", "prompt-yes", "prompt"); err != nil {
		t.Fatalf("Bind() = %v", err)
	}

	if _, ok := r.Lookup("normal", "<Ctrl-y>"); ok {
		t.Error("binding should not leak into other modes")
	}
	cmd, ok := r.Lookup("prompt", "<Ctrl-y>")
	if !ok || cmd == nil || *cmd != "prompt-yes" {
		t.Errorf("Lookup(prompt) = %v, %v", cmd, ok)
	}
}

func TestRegistry_BindErrors(t *testing.T) {
	r := NewRegistry()

	if err := r.Bind("", "cmd", "normal"); err == nil {
		t.Error("Bind with empty keys should fail")
	}
	if err := r.Bind(",a", "cmd", "nosuchmode"); err == nil {
		t.Error("Bind with invalid mode should fail")
	}
	if err := r.Unbind("o", "nosuchmode"); err == nil {
		t.Error("Unbind with invalid mode should fail")
	}
}

func TestRegistry_Unbind(t *testing.T) {
	r := NewRegistry()

	if err := r.Unbind("o", "normal"); err != nil {
		t.Fatalf("Unbind() = %v", err)
	}

	cmd, ok := r.Lookup("normal", "o")
	if !ok {
		t.Fatal("Lookup() should report an override for an unbound sequence")
	}
	if cmd != nil {
		t.Errorf("command = %v, want nil for unbound", *cmd)
	}
	if !r.IsUnbound("normal", "o") {
		t.Error("IsUnbound() = false")
	}
}

func TestRegistry_RebindAfterUnbind(t *testing.T) {
	r := NewRegistry()

	if err := r.Unbind("o", "normal"); err != nil {
		t.Fatalf("Unbind() = %v", err)
	}
	if err := r.Bind("o", "open", "normal"); err != nil {
		t.Fatalf("Bind() = %v", err)
	}

	if r.IsUnbound("normal", "o") {
		t.Error("sequence should no longer be unbound")
	}
	cmd, _ := r.Lookup("normal", "o")
	if cmd == nil || *cmd != "open" {
		t.Errorf("command = %v, want open", cmd)
	}
}

func TestRegistry_OverridesAndModes(t *testing.T) {
	r := NewRegistry()
	if err := r.Bind(",a", "message-info foo", "normal"); err != nil {
		t.Fatalf("Bind() = %v", err)
	}
	if err := r.Unbind("x", "normal"); err != nil {
		t.Fatalf("Unbind() = %v", err)
	}
	if err := r.Bind("q", "quit", "hint"); err != nil {
		t.Fatalf("Bind() = %v", err)
	}

	over := r.Overrides("normal")
	if len(over) != 2 {
		t.Errorf("Overrides(normal) has %d entries, want 2", len(over))
	}

	modes := r.Modes()
	if len(modes) != 2 || modes[0] != "hint" || modes[1] != "normal" {
		t.Errorf("Modes() = %v, want [hint normal]", modes)
	}
}
