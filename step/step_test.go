package step_test

import (
	"testing"

	"github.com/anthony-okoye/vestro/id"
	"github.com/anthony-okoye/vestro/profile"
	"github.com/anthony-okoye/vestro/step"
)

func TestInputsAccessors(t *testing.T) {
	t.Parallel()

	in := step.Inputs{
		"ticker":   "ACME",
		"years":    float64(10), // JSON numbers decode as float64
		"capital":  50000,
		"confirm":  true,
		"peers":    []any{"AAA", "BBB"},
		"nilValue": nil,
	}

	if !in.Has("ticker") || in.Has("missing") || in.Has("nilValue") {
		t.Error("Has misreported presence")
	}
	if got := in.String("ticker"); got != "ACME" {
		t.Errorf("String = %q", got)
	}
	if got := in.Int("years"); got != 10 {
		t.Errorf("Int = %d", got)
	}
	if got := in.Float("capital"); got != 50000 {
		t.Errorf("Float = %v", got)
	}
	if !in.Bool("confirm") {
		t.Error("Bool = false")
	}
	if got := in.Strings("peers"); len(got) != 2 || got[0] != "AAA" {
		t.Errorf("Strings = %v", got)
	}
	if got := in.Strings("missing"); got != nil {
		t.Errorf("Strings for absent key = %v, want nil", got)
	}
}

func TestOutcomeHelpers(t *testing.T) {
	t.Parallel()

	ok := step.Success(map[string]any{"k": "v"})
	if !ok.Success || ok.Data["k"] != "v" {
		t.Errorf("Success outcome malformed: %+v", ok)
	}

	bad := step.Failure("boom", "bang")
	if bad.Success || len(bad.Errors) != 2 {
		t.Errorf("Failure outcome malformed: %+v", bad)
	}

	warned := step.Success(nil).Warn("partial data")
	if len(warned.Warnings) != 1 {
		t.Errorf("Warn did not append: %+v", warned)
	}
}

func TestContextViews(t *testing.T) {
	t.Parallel()

	sid := id.NewSessionID()
	prof := &profile.Profile{UserID: "u1", RiskTolerance: profile.RiskMedium}
	outputs := map[int]map[string]any{
		4: {"ticker": "ACME", "price": 101.5, "tags": []any{"tech"}},
	}

	sc := step.NewContext(sid, "u1", prof, outputs)

	if sc.SessionID() != sid || sc.UserID() != "u1" {
		t.Error("identity accessors wrong")
	}

	got, ok := sc.Profile()
	if !ok || got.RiskTolerance != profile.RiskMedium {
		t.Error("Profile accessor wrong")
	}

	if out, ok := sc.Output(4); !ok || out["ticker"] != "ACME" {
		t.Errorf("Output(4) = %v, %v", out, ok)
	}
	if _, ok := sc.Output(9); ok {
		t.Error("Output(9) should be absent")
	}

	if v := sc.String(4, "ticker"); v != "ACME" {
		t.Errorf("String = %q", v)
	}
	if v := sc.Float(4, "price"); v != 101.5 {
		t.Errorf("Float = %v", v)
	}
	if v := sc.Strings(4, "tags"); len(v) != 1 || v[0] != "tech" {
		t.Errorf("Strings = %v", v)
	}
	if v := sc.String(9, "ticker"); v != "" {
		t.Errorf("absent step should yield zero value, got %q", v)
	}
}

func TestContextWithoutProfile(t *testing.T) {
	t.Parallel()

	sc := step.NewContext(id.NewSessionID(), "u2", nil, nil)
	if _, ok := sc.Profile(); ok {
		t.Error("expected no profile")
	}
	if _, ok := sc.Output(1); ok {
		t.Error("expected no outputs")
	}
}
