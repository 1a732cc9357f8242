package loom_test

import (
	"errors"
	"testing"

	"github.com/km-arc/loom"
)

// ── test fixtures ────────────────────────────────────────────────────────────

type Base struct {
	Label string
}

type Sub struct {
	Base
}

type ServiceX struct {
	ID int
}

func registerSub(ctx *loom.Context, names ...loom.Name) *loom.Producer {
	return ctx.RegisterClass(loom.TypeOf[*Sub](), func(args []any) (any, error) {
		return &Sub{Base: Base{Label: "sub"}}, nil
	}, nil, loom.WithNames(names...))
}

// ── Registration fan-out ─────────────────────────────────────────────────────

func TestRegister_FanOut_AllQualifiersResolveSameInstance(t *testing.T) {
	ctx := loom.New()
	registerSub(ctx, "n")

	qualifiers := []loom.Qualifier{
		loom.TypeOf[*Sub](),
		loom.TypeOf[Base](),
		loom.Name("n"),
		loom.Qualify(loom.TypeOf[Base](), "n"),
		loom.Qualify(loom.TypeOf[*Sub](), "n"),
	}

	first, err := ctx.GetSync(qualifiers[0])
	if err != nil {
		t.Fatalf("GetSync(%v): %v", qualifiers[0], err)
	}

	for _, q := range qualifiers[1:] {
		got, err := ctx.GetSync(q)
		if err != nil {
			t.Fatalf("GetSync(%s): %v", loom.FormatQualifier(q), err)
		}
		if got != first {
			t.Errorf("GetSync(%s) = %p, want the same instance %p", loom.FormatQualifier(q), got, first)
		}
	}
}

func TestRegister_OverwritesIdenticalQualifierLocally(t *testing.T) {
	ctx := loom.New()
	ctx.RegisterValue("one", loom.WithNames("v"))
	ctx.RegisterValue("two", loom.WithNames("v"))

	got, err := ctx.GetSync(loom.Name("v"))
	if err != nil {
		t.Fatal(err)
	}
	if got != "two" {
		t.Errorf("got %v, want the later registration", got)
	}
}

func TestRegister_AsTypes(t *testing.T) {
	ctx := loom.New()
	ctx.RegisterValue(&ServiceX{ID: 9}, loom.As(loom.TypeOf[any]()))

	got, err := ctx.GetSync(loom.TypeOf[any]())
	if err != nil {
		t.Fatal(err)
	}
	if got.(*ServiceX).ID != 9 {
		t.Errorf("lookup via As-type returned %v", got)
	}
}

// ── Parent walk ──────────────────────────────────────────────────────────────

func TestLookup_WalksToParent(t *testing.T) {
	parent := loom.New()
	child := parent.Child()

	registerSub(parent)

	fromChild, err := child.GetSync(loom.TypeOf[*Sub]())
	if err != nil {
		t.Fatalf("child lookup: %v", err)
	}
	fromParent, err := parent.GetSync(loom.TypeOf[*Sub]())
	if err != nil {
		t.Fatalf("parent lookup: %v", err)
	}
	if fromChild != fromParent {
		t.Error("child resolution should hit the parent's cached singleton")
	}
}

func TestLookup_ChildShadowsParent(t *testing.T) {
	parent := loom.New()
	child := parent.Child()

	parent.RegisterValue("parent-value", loom.WithNames("v"))
	child.RegisterValue("child-value", loom.WithNames("v"))

	got, _ := child.GetSync(loom.Name("v"))
	if got != "child-value" {
		t.Errorf("child got %v, want its own registration", got)
	}
	got, _ = parent.GetSync(loom.Name("v"))
	if got != "parent-value" {
		t.Errorf("parent got %v, want its own registration", got)
	}
}

func TestLookup_NotFound(t *testing.T) {
	ctx := loom.New()
	_, err := ctx.Get(loom.Name("missing"))
	if !errors.Is(err, loom.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	var nf *loom.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %T, want *NotFoundError", err)
	}
	if nf.Qualifier != loom.Name("missing") {
		t.Errorf("error names qualifier %v", nf.Qualifier)
	}
}

// ── Has / Remove / FindContext ───────────────────────────────────────────────

func TestRemove_LocalOnly(t *testing.T) {
	parent := loom.New()
	child := parent.Child()
	registerSub(parent)

	// Not local to the child: no-op.
	if child.Remove(loom.TypeOf[*Sub]()) {
		t.Error("Remove on child should not remove a parent entry")
	}
	if !parent.Has(loom.TypeOf[*Sub]()) {
		t.Error("parent entry must survive a child Remove")
	}
	if !child.Has(loom.TypeOf[*Sub]()) {
		t.Error("child must still resolve through the parent")
	}

	if !parent.Remove(loom.TypeOf[*Sub]()) {
		t.Error("Remove on the owning context should report deletion")
	}
	if child.Has(loom.TypeOf[*Sub]()) {
		t.Error("child walk should no longer find the removed entry")
	}
}

func TestRemove_SiblingQualifiersSurvive(t *testing.T) {
	ctx := loom.New()
	registerSub(ctx, "n")

	ctx.Remove(loom.TypeOf[*Sub]())

	if ctx.Has(loom.TypeOf[*Sub]()) {
		t.Error("removed qualifier should be gone")
	}
	if !ctx.Has(loom.Name("n")) {
		t.Error("alias entry of the same producer must survive")
	}
	if !ctx.Has(loom.Qualify(loom.TypeOf[Base](), "n")) {
		t.Error("qualified-pair entry of the same producer must survive")
	}
}

func TestFindContext_NearestOwnerFirst(t *testing.T) {
	parent := loom.New()
	child := parent.Child()

	parent.RegisterValue("p", loom.WithNames("v"))

	if got := child.FindContext(loom.Name("v")); got != parent {
		t.Errorf("FindContext = %v, want parent", got)
	}

	child.RegisterValue("c", loom.WithNames("v"))
	if got := child.FindContext(loom.Name("v")); got != child {
		t.Errorf("FindContext = %v, want child after local registration", got)
	}

	if got := child.FindContext(loom.Name("nope")); got != nil {
		t.Errorf("FindContext for unknown qualifier = %v, want nil", got)
	}
}

// ── Active context ───────────────────────────────────────────────────────────

func TestActivate_ReturnsPrevious(t *testing.T) {
	a := loom.New()
	b := loom.New()

	prev := a.Activate()
	t.Cleanup(func() { prev.Activate() })

	if loom.Active() != a {
		t.Fatal("a should be active")
	}

	before := b.Activate()
	if before != a {
		t.Error("Activate should return the previously active context")
	}
	before.Activate()
	if loom.Active() != a {
		t.Error("re-activating the returned context must restore it")
	}
}

func TestLookup_RecipeObservesOwningContext(t *testing.T) {
	parent := loom.New()
	child := parent.Child()

	prevActive := loom.Active()
	t.Cleanup(func() { prevActive.Activate() })

	var seen *loom.Context
	parent.RegisterFactory(loom.TypeOf[*ServiceX](), func(args []any) (any, error) {
		seen = loom.Active()
		return &ServiceX{}, nil
	}, nil)

	// Resolving through the child must activate the owner (the parent) for
	// the duration of the recipe.
	if _, err := child.Get(loom.TypeOf[*ServiceX]()); err != nil {
		t.Fatal(err)
	}
	if seen != parent {
		t.Error("recipe should observe the producer-owning context as active")
	}
	if loom.Active() != prevActive {
		t.Error("previous active context must be restored after resolution")
	}
}

func TestLookup_ActiveRestoredOnFailure(t *testing.T) {
	ctx := loom.New()
	prevActive := loom.Active()
	t.Cleanup(func() { prevActive.Activate() })

	ctx.RegisterFactory(loom.TypeOf[*ServiceX](), func(args []any) (any, error) {
		return nil, errors.New("boom")
	}, nil, loom.WithScope(loom.Prototype))

	if _, err := ctx.Get(loom.TypeOf[*ServiceX]()); err == nil {
		t.Fatal("expected recipe error")
	}
	if loom.Active() != prevActive {
		t.Error("previous active context must be restored on the failure path")
	}
}

// ── Generic helpers ──────────────────────────────────────────────────────────

func TestResolve_Typed(t *testing.T) {
	ctx := loom.New()
	registerSub(ctx, "n")

	sub, err := loom.Resolve[*Sub](ctx)
	if err != nil {
		t.Fatal(err)
	}
	if sub.Label != "sub" {
		t.Errorf("Label = %q", sub.Label)
	}

	named, err := loom.ResolveNamed[*Sub](ctx, "n")
	if err != nil {
		t.Fatal(err)
	}
	if named != sub {
		t.Error("ResolveNamed should hit the same singleton")
	}
}
