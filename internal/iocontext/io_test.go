package iocontext

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestDefaultIO(t *testing.T) {
	streams := DefaultIO()
	if streams.Out == nil || streams.ErrOut == nil || streams.In == nil {
		t.Error("DefaultIO should return non-nil streams")
	}
}

func TestWithIO(t *testing.T) {
	out := &bytes.Buffer{}
	ctx := WithIO(context.Background(), &IO{Out: out, ErrOut: out, In: strings.NewReader("")})
	if GetIO(ctx).Out != out {
		t.Error("GetIO should return the injected streams")
	}
	if GetIO(context.Background()).Out == nil {
		t.Error("GetIO should fall back to process streams")
	}
}

func TestArgOrStdin(t *testing.T) {
	ctx := WithIO(context.Background(), &IO{In: strings.NewReader("  hello from stdin \n")})

	got, err := ArgOrStdin(ctx, "literal", 100)
	if err != nil || got != "literal" {
		t.Fatalf("ArgOrStdin(literal) = %q, %v", got, err)
	}

	got, err = ArgOrStdin(ctx, "-", 100)
	if err != nil || got != "hello from stdin" {
		t.Fatalf("ArgOrStdin(-) = %q, %v", got, err)
	}
}

func TestArgOrStdin_Limit(t *testing.T) {
	ctx := WithIO(context.Background(), &IO{In: strings.NewReader(strings.Repeat("x", 20))})
	if _, err := ArgOrStdin(ctx, "-", 10); err == nil {
		t.Fatal("expected limit error")
	}
}
