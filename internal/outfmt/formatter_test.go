package outfmt

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

type status struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

func TestFormatter_Output_JSON(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(WithMode(context.Background(), JSON), &buf, &buf)

	if err := f.Output(status{ID: 1, Text: "hi"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `"text": "hi"`) {
		t.Errorf("output should be indented JSON with wire names, got %s", buf.String())
	}
}

func TestFormatter_Output_Query(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithQuery(WithMode(context.Background(), JSON), "[.[].id]")
	f := NewFormatter(ctx, &buf, &buf)

	if err := f.Output([]status{{ID: 1}, {ID: 2}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	compact := strings.Join(strings.Fields(buf.String()), "")
	if compact != "[1,2]" {
		t.Errorf("expected [1,2], got %s", buf.String())
	}
}

func TestFormatter_Output_QueryError(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithQuery(WithMode(context.Background(), JSON), "[[[")
	f := NewFormatter(ctx, &buf, &buf)
	if err := f.Output(status{ID: 1}); err == nil {
		t.Fatal("expected invalid query error")
	}
}

func TestFormatter_Output_JSONL(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(WithMode(context.Background(), JSONL), &buf, &buf)

	if err := f.Output([]status{{ID: 1, Text: "a"}, {ID: 2, Text: "b"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[1], `"text":"b"`) {
		t.Fatalf("unexpected JSONL output: %q", buf.String())
	}
}

func TestFormatter_Output_TemplateInTextMode(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithTemplate(context.Background(), "{{range .}}{{.id}}:{{.text}} {{end}}")
	f := NewFormatter(ctx, &buf, &buf)

	if !f.Structured() {
		t.Fatal("a template makes output structured")
	}
	if err := f.Output([]status{{ID: 1, Text: "a"}, {ID: 2, Text: "b"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "1:a 2:b " {
		t.Fatalf("unexpected template output: %q", buf.String())
	}
}

func TestFormatter_Output_Text(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(WithMode(context.Background(), Text), &buf, &buf)

	if err := f.Output(status{ID: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("text mode Output should write nothing, got %q", buf.String())
	}
}

func TestFormatter_Table(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(WithMode(context.Background(), Text), &buf, &buf)

	if !f.StartTable([]string{"ID", "TEXT"}) {
		t.Fatal("StartTable should report text mode")
	}
	f.Row("1", "hello")
	f.Row("22", "x")
	if err := f.EndTable(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got %q", buf.String())
	}
	if strings.Index(lines[0], "TEXT") != strings.Index(lines[1], "hello") {
		t.Errorf("columns should align:\n%s", buf.String())
	}
}

func TestFormatter_StartTable_JSON(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(WithMode(context.Background(), JSON), &buf, &buf)
	if f.StartTable([]string{"ID"}) {
		t.Error("StartTable should return false in JSON mode")
	}
	if buf.Len() != 0 {
		t.Error("no header in JSON mode")
	}
}

func TestFormatter_EmptyAndWarn(t *testing.T) {
	var out, errOut bytes.Buffer
	f := NewFormatter(WithMode(context.Background(), JSON), &out, &errOut)

	f.Empty("No results found")
	f.Warn("rate limit low: %d left", 3)
	f.Success("done")

	if out.Len() != 0 {
		t.Errorf("stdout should stay clean in JSON mode, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "No results found") || !strings.Contains(errOut.String(), "rate limit low: 3 left") {
		t.Errorf("stderr missing messages: %q", errOut.String())
	}
}

func TestFormatter_SuccessText(t *testing.T) {
	var out bytes.Buffer
	f := NewFormatter(context.Background(), &out, &out)
	f.Success("Posted %d", 7)
	if !strings.Contains(out.String(), "Posted 7") {
		t.Fatalf("unexpected output %q", out.String())
	}
}
