package manager

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"reflect"
	"strings"
	"sync"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/componentkit/component"
	"github.com/kbukum/componentkit/defaultlogger"
	"github.com/kbukum/componentkit/errors"
	"github.com/kbukum/componentkit/logger"
	"github.com/kbukum/componentkit/observability"
	"github.com/kbukum/componentkit/testutil"
)

const testType = "test-type"

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	base := []Option{
		WithLogger(logger.Nop()),
		WithDefaultLoggerOptions(defaultlogger.WithWriter(io.Discard)),
	}
	m := New(append(base, opts...)...)
	if err := m.RegisterType(testType, testutil.AlwaysValid); err != nil {
		t.Fatalf("RegisterType: %v", err)
	}
	return m
}

func mustRegister(t *testing.T, m *Manager, name string, instance any) {
	t.Helper()
	if err := m.Register(name, testType, instance); err != nil {
		t.Fatalf("Register(%s): %v", name, err)
	}
}

func stateOf(t *testing.T, m *Manager, name string) component.State {
	t.Helper()
	info, ok := m.Component(name)
	if !ok {
		t.Fatalf("component %s not registered", name)
	}
	return info.State
}

// --- Type registry ---

func TestRegisterType_GetTypeReturnsSamePredicate(t *testing.T) {
	m := newTestManager(t)
	calls := 0
	validate := func(any) bool { calls++; return calls > 100 }

	if err := m.RegisterType("counting", validate); err != nil {
		t.Fatal(err)
	}
	got, ok := m.GetType("counting")
	if !ok {
		t.Fatal("expected type to be found")
	}
	got(nil)
	got(nil)
	if calls != 2 {
		t.Errorf("expected stored predicate to be the registered one, calls = %d", calls)
	}
}

func TestRegisterType_Invalid(t *testing.T) {
	m := newTestManager(t)

	tests := []struct {
		name     string
		typeName string
		validate Validator
	}{
		{"empty name", "", testutil.AlwaysValid},
		{"nil validator", "x", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := m.RegisterType(tc.typeName, tc.validate)
			if !errors.HasCode(err, errors.ErrCodeValidation) {
				t.Errorf("expected VALIDATION_ERROR, got %v", err)
			}
		})
	}
}

func TestRegisterType_Overwrites(t *testing.T) {
	m := newTestManager(t)
	if err := m.RegisterType("kind", testutil.NeverValid); err != nil {
		t.Fatal(err)
	}
	if err := m.Register("a", "kind", 1); !errors.HasCode(err, errors.ErrCodeRegistration) {
		t.Fatalf("expected rejection by first validator, got %v", err)
	}

	if err := m.RegisterType("kind", testutil.AlwaysValid); err != nil {
		t.Fatal(err)
	}
	if err := m.Register("a", "kind", 1); err != nil {
		t.Errorf("expected second validator to accept, got %v", err)
	}
}

func TestGetType_Missing(t *testing.T) {
	m := newTestManager(t)
	if v, ok := m.GetType("nope"); ok || v != nil {
		t.Error("expected not found")
	}
}

// --- Component registry ---

func TestRegister_Errors(t *testing.T) {
	m := newTestManager(t)
	if err := m.RegisterType("picky", func(c any) bool { _, ok := c.(string); return ok }); err != nil {
		t.Fatal(err)
	}
	var nilComponent *testutil.Component

	tests := []struct {
		name     string
		compName string
		typeName string
		instance any
		code     errors.ErrorCode
		contains string
	}{
		{"empty name", "", testType, 1, errors.ErrCodeValidation, "name"},
		{"empty type", "a", "", 1, errors.ErrCodeValidation, "type"},
		{"nil instance", "a", testType, nil, errors.ErrCodeValidation, "instance"},
		{"typed nil instance", "a", testType, nilComponent, errors.ErrCodeValidation, "instance"},
		{"unknown type", "a", "missing-type", 1, errors.ErrCodeRegistration, "unknown type: missing-type"},
		{"validator rejects", "a", "picky", 42, errors.ErrCodeRegistration, "object not a valid type: picky"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := m.Register(tc.compName, tc.typeName, tc.instance)
			if !errors.HasCode(err, tc.code) {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
			if !strings.Contains(err.Error(), tc.contains) {
				t.Errorf("expected %q in %q", tc.contains, err.Error())
			}
		})
	}

	if len(m.Components()) != 0 {
		t.Error("failed registrations must not mutate the registry")
	}
}

func TestRegister_StoresRegisteredRecord(t *testing.T) {
	m := newTestManager(t)
	c := testutil.NewComponent("db", nil, "logger")
	mustRegister(t, m, "db", c)

	got, ok, err := m.Get("db")
	if err != nil || !ok || got != c {
		t.Fatalf("Get(db) = %v, %v, %v", got, ok, err)
	}
	info, _ := m.Component("db")
	want := ComponentInfo{Name: "db", Type: testType, State: component.StateRegistered, Dependencies: []string{"logger"}}
	if !reflect.DeepEqual(info, want) {
		t.Errorf("Component(db) = %+v, want %+v", info, want)
	}
}

func TestRegister_OverwriteKeepsPosition(t *testing.T) {
	m := newTestManager(t)
	mustRegister(t, m, "a", 1)
	mustRegister(t, m, "b", 2)
	mustRegister(t, m, "a", 3)

	comps := m.Components()
	if len(comps) != 2 || comps[0].Name != "a" || comps[1].Name != "b" {
		t.Fatalf("unexpected components %+v", comps)
	}
	if got, _, _ := m.Get("a"); got != 3 {
		t.Errorf("expected overwritten instance, got %v", got)
	}
}

func TestRegister_AfterInit(t *testing.T) {
	m := newTestManager(t)
	if err := m.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	err := m.Register("late", testType, 1)
	if !errors.HasCode(err, errors.ErrCodeInvalidState) {
		t.Errorf("expected INVALID_STATE, got %v", err)
	}
}

func TestGet(t *testing.T) {
	m := newTestManager(t)

	got, ok, err := m.Get("missing")
	if err != nil || ok || got != nil {
		t.Errorf("Get(missing) = %v, %v, %v; want nil, false, nil", got, ok, err)
	}

	if _, _, err := m.Get(""); !errors.HasCode(err, errors.ErrCodeValidation) {
		t.Errorf("expected VALIDATION_ERROR for empty name, got %v", err)
	}
}

func TestGetAs(t *testing.T) {
	m := newTestManager(t)
	c := testutil.NewComponent("db", nil)
	mustRegister(t, m, "db", c)

	typed, ok, err := GetAs[*testutil.Component](m, "db")
	if err != nil || !ok || typed != c {
		t.Errorf("GetAs = %v, %v, %v", typed, ok, err)
	}

	cfg, ok, err := GetAs[component.Configurable](m, "db")
	if err != nil || !ok || cfg == nil {
		t.Errorf("GetAs interface = %v, %v, %v", cfg, ok, err)
	}

	_, ok, err = GetAs[string](m, "db")
	if ok || !errors.HasCode(err, errors.ErrCodeValidation) {
		t.Errorf("expected type mismatch error, got %v, %v", ok, err)
	}

	_, ok, err = GetAs[string](m, "missing")
	if ok || err != nil {
		t.Errorf("expected not found without error, got %v, %v", ok, err)
	}
}

func TestAddDependency(t *testing.T) {
	m := newTestManager(t)
	mustRegister(t, m, "a", &testutil.Inert{})

	if err := m.AddDependency("a", "b"); err != nil {
		t.Fatal(err)
	}
	if err := m.AddDependency("a", "b"); err != nil {
		t.Fatalf("duplicate AddDependency should be a no-op, got %v", err)
	}
	info, _ := m.Component("a")
	if !reflect.DeepEqual(info.Dependencies, []string{"b"}) {
		t.Errorf("Dependencies = %v", info.Dependencies)
	}

	if err := m.AddDependency("missing", "b"); !errors.HasCode(err, errors.ErrCodeValidation) {
		t.Errorf("expected VALIDATION_ERROR for unknown component, got %v", err)
	}
	if err := m.AddDependency("a", ""); !errors.HasCode(err, errors.ErrCodeValidation) {
		t.Errorf("expected VALIDATION_ERROR for empty dependency, got %v", err)
	}
}

// --- Init ordering ---

func TestInit_LinearChain(t *testing.T) {
	m := newTestManager(t)
	rec := testutil.NewRecorder()
	mustRegister(t, m, "A", testutil.NewComponent("A", rec, "B"))
	mustRegister(t, m, "B", testutil.NewComponent("B", rec, "C"))
	mustRegister(t, m, "C", testutil.NewComponent("C", rec))

	if err := m.Init(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got := rec.Names(testutil.HookInit); !reflect.DeepEqual(got, []string{"C", "B", "A"}) {
		t.Errorf("init order = %v, want [C B A]", got)
	}
	if m.State() != StateRunning {
		t.Errorf("state = %s, want running", m.State())
	}
	for _, name := range []string{"A", "B", "C", defaultlogger.Name} {
		if s := stateOf(t, m, name); s != component.StateReady {
			t.Errorf("%s state = %s, want ready", name, s)
		}
	}
}

func TestInit_DefaultLoggerFirst(t *testing.T) {
	m := newTestManager(t)
	mustRegister(t, m, "app", testutil.NewComponent("app", nil, "logger"))

	if err := m.Init(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got := m.Order(); !reflect.DeepEqual(got, []string{"logger", "app"}) {
		t.Errorf("Order() = %v", got)
	}
	if m.Components()[0].Name != defaultlogger.Name {
		t.Error("expected default logger first in registration order")
	}
	lg, ok, err := GetAs[*defaultlogger.Logger](m, defaultlogger.Name)
	if err != nil || !ok || lg == nil {
		t.Fatalf("expected default logger, got %v, %v", ok, err)
	}
	if _, ok := m.GetType(defaultlogger.TypeName); !ok {
		t.Error("expected logger type to be registered")
	}
}

func TestInit_UserLoggerKept(t *testing.T) {
	m := newTestManager(t)
	custom := testutil.NewComponent("logger", nil)
	mustRegister(t, m, "logger", custom)

	if err := m.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	got, _, _ := m.Get("logger")
	if got != custom {
		t.Error("expected user-registered logger to be kept")
	}
}

func TestInit_DefaultLoggerRejectedByUserType(t *testing.T) {
	m := newTestManager(t)
	if err := m.RegisterType(defaultlogger.TypeName, testutil.NeverValid); err != nil {
		t.Fatal(err)
	}
	err := m.Init(context.Background())
	if !errors.HasCode(err, errors.ErrCodeRegistration) {
		t.Errorf("expected REGISTRATION_ERROR, got %v", err)
	}
	if m.State() != StateFailed {
		t.Errorf("state = %s, want failed", m.State())
	}
}

func TestInit_DeterministicOrder(t *testing.T) {
	build := func() []string {
		m := newTestManager(t)
		mustRegister(t, m, "svc", testutil.NewComponent("svc", nil, "db", "queue"))
		mustRegister(t, m, "queue", testutil.NewComponent("queue", nil, "logger"))
		mustRegister(t, m, "db", testutil.NewComponent("db", nil, "logger"))
		mustRegister(t, m, "extra", &testutil.Inert{})
		if err := m.Init(context.Background()); err != nil {
			t.Fatal(err)
		}
		return m.Order()
	}

	want := []string{"logger", "db", "queue", "svc", "extra"}
	for i := 0; i < 10; i++ {
		if got := build(); !reflect.DeepEqual(got, want) {
			t.Fatalf("run %d: Order() = %v, want %v", i, got, want)
		}
	}
}

func TestInit_ManagerDependencyAndLateDeclaration(t *testing.T) {
	m := newTestManager(t)
	rec := testutil.NewRecorder()
	a := testutil.NewComponent("A", rec)
	mustRegister(t, m, "A", a)
	mustRegister(t, m, "B", testutil.NewComponent("B", rec))
	mustRegister(t, m, "C", testutil.NewComponent("C", rec))

	if err := m.AddDependency("A", "B"); err != nil {
		t.Fatal(err)
	}
	// Declared on the instance after registration.
	a.AddDependency("C")

	if err := m.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !rec.Before(testutil.HookInit, "B", "A") || !rec.Before(testutil.HookInit, "C", "A") {
		t.Errorf("init order = %v", rec.Names(testutil.HookInit))
	}
}

func TestInit_MissingDependency(t *testing.T) {
	m := newTestManager(t)
	rec := testutil.NewRecorder()
	mustRegister(t, m, "A", testutil.NewComponent("A", rec, "B"))

	err := m.Init(context.Background())
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != errors.ErrCodeDependency {
		t.Errorf("code = %s, want DEPENDENCY_ERROR", appErr.Code)
	}
	if appErr.Message != "'A' cannot find dependency 'B'" {
		t.Errorf("message = %q", appErr.Message)
	}
	if err.Error() != "'A' cannot find dependency 'B'" {
		t.Errorf("Error() = %q", err.Error())
	}
	if len(rec.Events()) != 0 {
		t.Error("no hook may run when the graph is invalid")
	}
	if m.State() != StateFailed {
		t.Errorf("state = %s, want failed", m.State())
	}
}

func TestInit_Cycle(t *testing.T) {
	m := newTestManager(t)
	mustRegister(t, m, "A", testutil.NewComponent("A", nil, "B"))
	mustRegister(t, m, "B", testutil.NewComponent("B", nil, "C"))
	mustRegister(t, m, "C", testutil.NewComponent("C", nil, "A"))

	err := m.Init(context.Background())
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeDependency {
		t.Fatalf("expected DEPENDENCY_ERROR, got %v", err)
	}
	if appErr.Message != "Dependency Cycle Found: A -> B -> C -> A" {
		t.Errorf("message = %q", appErr.Message)
	}
	if err.Error() != "Dependency Cycle Found: A -> B -> C -> A" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestInit_SelfDependency(t *testing.T) {
	m := newTestManager(t)
	mustRegister(t, m, "A", testutil.NewComponent("A", nil, "A"))

	err := m.Init(context.Background())
	appErr, _ := errors.AsAppError(err)
	if appErr == nil || appErr.Message != "Dependency Cycle Found: A -> A" {
		t.Errorf("unexpected error %v", err)
	}
	if err.Error() != "Dependency Cycle Found: A -> A" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestInit_Twice(t *testing.T) {
	m := newTestManager(t)
	if err := m.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := m.Init(context.Background()); !errors.HasCode(err, errors.ErrCodeInvalidState) {
		t.Errorf("expected INVALID_STATE, got %v", err)
	}
}

// --- Init failure ---

func TestInit_HookFailureFailsFast(t *testing.T) {
	m := newTestManager(t)
	rec := testutil.NewRecorder()
	boom := stderrors.New("boom")

	base := testutil.NewComponent("base", rec)
	broken := testutil.NewComponent("broken", rec, "base")
	broken.InitErr = boom
	mustRegister(t, m, "base", base)
	mustRegister(t, m, "broken", broken)
	mustRegister(t, m, "child", testutil.NewComponent("child", rec, "broken"))
	mustRegister(t, m, "grandchild", testutil.NewComponent("grandchild", rec, "child"))
	mustRegister(t, m, "unrelated", testutil.NewComponent("unrelated", rec))

	err := m.Init(context.Background())
	if !stderrors.Is(err, boom) {
		t.Fatalf("expected hook error to be reachable, got %v", err)
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("expected component name in %q", err.Error())
	}

	if got := rec.Names(testutil.HookInit); !reflect.DeepEqual(got, []string{"base", "broken"}) {
		t.Errorf("init calls = %v", got)
	}

	want := map[string]component.State{
		"logger":     component.StateReady,
		"base":       component.StateReady,
		"broken":     component.StateFailed,
		"child":      component.StateFailed,
		"grandchild": component.StateFailed,
		"unrelated":  component.StateRegistered,
	}
	for name, state := range want {
		if got := stateOf(t, m, name); got != state {
			t.Errorf("%s state = %s, want %s", name, got, state)
		}
	}
	if m.State() != StateFailed {
		t.Errorf("manager state = %s, want failed", m.State())
	}
	if len(rec.Names(testutil.HookShutdown)) != 0 {
		t.Error("failed init must not roll back")
	}
}

func TestInit_PanicBecomesError(t *testing.T) {
	m := newTestManager(t)
	c := testutil.NewComponent("p", nil)
	c.InitPanic = "kaboom"
	mustRegister(t, m, "p", c)

	err := m.Init(context.Background())
	if !errors.HasCode(err, errors.ErrCodeInternal) || !strings.Contains(err.Error(), "kaboom") {
		t.Errorf("expected internal error mentioning panic, got %v", err)
	}
	if stateOf(t, m, "p") != component.StateFailed {
		t.Error("expected panicking component to be failed")
	}
}

func TestInit_FailedManagerKeepsServingReady(t *testing.T) {
	m := newTestManager(t)
	ok := testutil.NewComponent("ok", nil)
	bad := testutil.NewComponent("bad", nil, "ok")
	bad.InitErr = stderrors.New("nope")
	mustRegister(t, m, "ok", ok)
	mustRegister(t, m, "bad", bad)

	if err := m.Init(context.Background()); err == nil {
		t.Fatal("expected init failure")
	}

	got, found, err := m.Get("ok")
	if err != nil || !found || got != ok {
		t.Errorf("Get(ok) = %v, %v, %v", got, found, err)
	}
	if _, err := m.Config("ok", "set", "k", "v"); err != nil {
		t.Errorf("Config on ready component: %v", err)
	}
	if _, err := m.Config("logger", defaultlogger.FeatureGetLevel); err != nil {
		t.Errorf("Config on default logger: %v", err)
	}
}

func TestInit_ContextCancelled(t *testing.T) {
	m := newTestManager(t)
	rec := testutil.NewRecorder()
	ctx, cancel := context.WithCancel(context.Background())

	first := testutil.NewComponent("first", rec)
	first.OnInit = func(context.Context) error { cancel(); return nil }
	mustRegister(t, m, "first", first)
	mustRegister(t, m, "second", testutil.NewComponent("second", rec))

	err := m.Init(ctx)
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if stateOf(t, m, "second") != component.StateRegistered {
		t.Error("expected second to stay registered")
	}
	if m.State() != StateFailed {
		t.Errorf("state = %s, want failed", m.State())
	}
}

func TestInit_HookCanUseManager(t *testing.T) {
	m := newTestManager(t)
	var seen any
	c := testutil.NewComponent("app", nil, "logger")
	c.OnInit = func(context.Context) error {
		lg, _, err := m.Get("logger")
		if err != nil {
			return err
		}
		seen = lg
		_, err = m.Config("logger", defaultlogger.FeatureSetLevel, "warn")
		return err
	}
	mustRegister(t, m, "app", c)

	if err := m.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	if seen == nil {
		t.Fatal("expected hook to see the logger")
	}
	if lvl, _ := m.Config("logger", defaultlogger.FeatureGetLevel); lvl != "warn" {
		t.Errorf("level = %v, want warn", lvl)
	}
}

// --- Shutdown ---

func TestShutdown_ReverseOrderBestEffort(t *testing.T) {
	m := newTestManager(t)
	rec := testutil.NewRecorder()
	errB := stderrors.New("b failed")
	errC := stderrors.New("c failed")

	a := testutil.NewComponent("A", rec, "B")
	b := testutil.NewComponent("B", rec, "C")
	b.ShutdownErr = errB
	c := testutil.NewComponent("C", rec)
	c.ShutdownErr = errC
	mustRegister(t, m, "A", a)
	mustRegister(t, m, "B", b)
	mustRegister(t, m, "C", c)
	mustRegister(t, m, "plain", &testutil.Inert{})

	if err := m.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	err := m.Shutdown(context.Background())

	if got := rec.Names(testutil.HookShutdown); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Errorf("shutdown order = %v, want [A B C]", got)
	}
	if !stderrors.Is(err, errB) || !stderrors.Is(err, errC) {
		t.Errorf("expected both failures joined, got %v", err)
	}
	for _, name := range []string{"A", "B", "C", "plain", "logger"} {
		if s := stateOf(t, m, name); s != component.StateStopped {
			t.Errorf("%s state = %s, want stopped", name, s)
		}
	}
	if m.State() != StateStopped {
		t.Errorf("manager state = %s, want stopped", m.State())
	}

	if err := m.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown should be a no-op, got %v", err)
	}
	if len(rec.Names(testutil.HookShutdown)) != 3 {
		t.Error("second Shutdown must not call hooks again")
	}
}

func TestShutdown_FreshManagerNoop(t *testing.T) {
	m := newTestManager(t)
	mustRegister(t, m, "A", testutil.NewComponent("A", nil))
	if err := m.Shutdown(context.Background()); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if m.State() != StateUninitialized {
		t.Errorf("state = %s, want uninitialized", m.State())
	}
}

func TestShutdown_OnlyReadyComponents(t *testing.T) {
	m := newTestManager(t)
	rec := testutil.NewRecorder()
	bad := testutil.NewComponent("bad", rec, "good")
	bad.InitErr = stderrors.New("nope")
	mustRegister(t, m, "good", testutil.NewComponent("good", rec))
	mustRegister(t, m, "bad", bad)
	mustRegister(t, m, "after", testutil.NewComponent("after", rec, "bad"))

	_ = m.Init(context.Background())
	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got := rec.Names(testutil.HookShutdown); !reflect.DeepEqual(got, []string{"good"}) {
		t.Errorf("shutdown calls = %v, want [good]", got)
	}
	if stateOf(t, m, "bad") != component.StateFailed {
		t.Error("failed component must stay failed")
	}
}

// --- Clear ---

func TestClear(t *testing.T) {
	m := newTestManager(t)
	mustRegister(t, m, "A", testutil.NewComponent("A", nil))
	if err := m.Init(context.Background()); err != nil {
		t.Fatal(err)
	}

	m.Clear()

	if m.State() != StateUninitialized {
		t.Errorf("state = %s, want uninitialized", m.State())
	}
	if len(m.Components()) != 0 || m.Order() != nil {
		t.Error("expected empty registry after Clear")
	}
	if _, ok := m.GetType(testType); ok {
		t.Error("expected types to be forgotten")
	}

	// The manager is usable again.
	if err := m.RegisterType(testType, testutil.AlwaysValid); err != nil {
		t.Fatal(err)
	}
	mustRegister(t, m, "B", testutil.NewComponent("B", nil))
	if err := m.Init(context.Background()); err != nil {
		t.Errorf("Init after Clear: %v", err)
	}
}

// --- Config dispatch ---

func TestConfig_Errors(t *testing.T) {
	m := newTestManager(t)
	mustRegister(t, m, "plain", &testutil.Inert{})
	mustRegister(t, m, "conf", testutil.NewComponent("conf", nil))

	tests := []struct {
		name     string
		compName string
		feature  string
		code     errors.ErrorCode
		contains string
	}{
		{"empty name", "", "x", errors.ErrCodeValidation, "name"},
		{"unknown component", "missing", "x", errors.ErrCodeValidation, "no such component"},
		{"empty feature", "conf", "", errors.ErrCodeValidation, "feature"},
		{"not configurable", "plain", "x", errors.ErrCodeConfiguration, "does not support configuration"},
		{"rejected by component", "conf", "bogus", errors.ErrCodeConfiguration, "unsupported feature: bogus"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := m.Config(tc.compName, tc.feature)
			if !errors.HasCode(err, tc.code) {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
			if !strings.Contains(err.Error(), tc.contains) {
				t.Errorf("expected %q in %q", tc.contains, err.Error())
			}
		})
	}
}

func TestConfig_PassesResultThrough(t *testing.T) {
	m := newTestManager(t)
	mustRegister(t, m, "conf", testutil.NewComponent("conf", nil))

	got, err := m.Config("conf", "echo", 1, "two")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []any{1, "two"}) {
		t.Errorf("Config(echo) = %v", got)
	}
}

func TestConfig_DefaultLogger(t *testing.T) {
	var out bytes.Buffer
	m := newTestManager(t, WithDefaultLoggerOptions(defaultlogger.WithWriter(&out)))
	if err := m.Init(context.Background()); err != nil {
		t.Fatal(err)
	}

	lvl, err := m.Config("logger", defaultlogger.FeatureGetLevel)
	if err != nil || lvl != "debug" {
		t.Fatalf("default level = %v, %v", lvl, err)
	}

	if _, err := m.Config("logger", defaultlogger.FeatureSetLevel, 1); err != nil {
		t.Fatal(err)
	}
	if lvl, _ := m.Config("logger", defaultlogger.FeatureGetLevel); lvl != "error" {
		t.Errorf("level = %v, want error", lvl)
	}

	_, err = m.Config("logger", defaultlogger.FeatureSetLevel, 8)
	if !errors.HasCode(err, errors.ErrCodeConfiguration) || !errors.HasCode(err, errors.ErrCodeValidation) {
		t.Errorf("expected configuration error wrapping validation error, got %v", err)
	}
	if lvl, _ := m.Config("logger", defaultlogger.FeatureGetLevel); lvl != "error" {
		t.Errorf("level changed on failure: %v", lvl)
	}

	lg, _, _ := GetAs[*defaultlogger.Logger](m, "logger")
	lg.Warn("hidden")
	lg.Error("shown")
	if out.String() != "unknown: !!! ERROR: shown\n" {
		t.Errorf("output = %q", out.String())
	}
}

// --- Introspection ---

func TestLevels(t *testing.T) {
	m := newTestManager(t)
	mustRegister(t, m, "server", testutil.NewComponent("server", nil, "store", "logger"))
	mustRegister(t, m, "store", testutil.NewComponent("store", nil, "logger"))

	if _, err := m.Levels(); !errors.HasCode(err, errors.ErrCodeDependency) {
		t.Errorf("expected missing logger before Init, got %v", err)
	}

	if err := m.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	levels, err := m.Levels()
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"logger"}, {"store"}, {"server"}}
	if !reflect.DeepEqual(levels, want) {
		t.Errorf("Levels() = %v, want %v", levels, want)
	}
}

func TestID(t *testing.T) {
	a, b := newTestManager(t), newTestManager(t)
	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("expected unique ids, got %q and %q", a.ID(), b.ID())
	}
}

// --- Telemetry ---

func TestTelemetry(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})

	m := newTestManager(t, WithTracerProvider(tp), WithMeterProvider(mp))
	mustRegister(t, m, "db", testutil.NewComponent("db", nil))
	if err := m.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Config("logger", defaultlogger.FeatureGetLevel); err != nil {
		t.Fatal(err)
	}
	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}

	names := map[string]int{}
	for _, s := range sr.Ended() {
		names[s.Name()]++
	}
	if names[observability.SpanInit] != 1 || names[observability.SpanInitComponent] != 2 ||
		names[observability.SpanConfig] != 1 || names[observability.SpanShutdown] != 1 {
		t.Errorf("unexpected spans %v", names)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatal(err)
	}
	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if sum, ok := md.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					totals[md.Name] += dp.Value
				}
			}
		}
	}
	if totals[observability.MetricInitTotal] != 2 || totals[observability.MetricShutdownTotal] != 2 ||
		totals[observability.MetricConfigTotal] != 1 {
		t.Errorf("unexpected metric totals %v", totals)
	}
}

// --- Concurrency ---

func TestConcurrentReads(t *testing.T) {
	m := newTestManager(t)
	for _, name := range []string{"a", "b", "c"} {
		mustRegister(t, m, name, testutil.NewComponent(name, nil))
	}
	if err := m.Init(context.Background()); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _, _ = m.Get("a")
				_, _ = m.Config("b", "set", "k", j)
				_ = m.Components()
			}
		}()
	}
	wg.Wait()
}
