package component

import (
	"testing"

	"github.com/gin-gonic/gin"
)

type fakeApp struct {
	name string
}

func (f *fakeApp) Name() string         { return f.name }
func (f *fakeApp) Description() string  { return "fake" }
func (f *fakeApp) Register(gin.IRouter) {}

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register(&fakeApp{name: "chat"}); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	app, ok := reg.Get("chat")
	if !ok {
		t.Fatal("expected app to be found")
	}
	if app.Name() != "chat" {
		t.Errorf("expected name 'chat', got '%s'", app.Name())
	}

	if _, ok := reg.Get("missing"); ok {
		t.Error("expected missing app not to be found")
	}
}

func TestRegistry_DuplicateName(t *testing.T) {
	reg := NewRegistry()
	_ = reg.Register(&fakeApp{name: "chat"})

	if err := reg.Register(&fakeApp{name: "chat"}); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestRegistry_NamesSorted(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"tasks", "arcade", "chat"} {
		_ = reg.Register(&fakeApp{name: name})
	}

	names := reg.Names()
	want := []string{"arcade", "chat", "tasks"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("expected names[%d]=%s, got %s", i, want[i], names[i])
		}
	}
}
