package commands

import (
	"errors"
	"testing"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/view week", TypeView},
		{"goto 2026-02-09", TypeGoto},
		{"/next", TypeNext},
		{"prev", TypePrev},
		{"today", TypeToday},
		{"export ics /tmp/out", TypeExport},
		{"/delete", TypeDelete},
		{"link personal", TypeLink},
		{"sort created", TypeSort},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseArguments(t *testing.T) {
	cmd, err := Parse("/export DOC")
	if err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if cmd.Export.Format != "doc" || cmd.Export.Dir != "." {
		t.Fatalf("unexpected export args: %+v", cmd.Export)
	}
	cmd, err = Parse("goto 2026-02-11")
	if err != nil {
		t.Fatalf("parse goto: %v", err)
	}
	if cmd.Goto.Date.Format("Mon") != "Wed" {
		t.Fatalf("unexpected goto date: %s", cmd.Goto.Date)
	}
}

func TestParseInvalidArguments(t *testing.T) {
	for _, in := range []string{"view year", "goto tomorrow", "export pdf", "link project", "sort random", "view"} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("%q: expected invalid argument, got %v", in, err)
		}
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/prev")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Step: func(dir int) (Result, error) {
			called = true
			if dir != -1 {
				t.Fatalf("unexpected direction: %d", dir)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("link work")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}
