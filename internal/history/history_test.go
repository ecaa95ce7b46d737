package history

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFindLastPRCheckpoint(t *testing.T) {
	entries := []Entry{
		{ID: "e1", Kind: KindUser, Text: "hi"},
		{ID: "e2", Kind: KindAssistant, Text: "done", Label: LabelPRCreated},
		{ID: "e3", Kind: KindUser, Text: "more"},
	}
	id, ok := FindLastPRCheckpoint(entries)
	if !ok || id != "e2" {
		t.Fatalf("got %q, %v", id, ok)
	}
}

func TestFindLastPRCheckpointPrefersNewest(t *testing.T) {
	entries := []Entry{
		{ID: "e1", Label: LabelPRCreated},
		{ID: "e2"},
		{ID: "e3", Label: LabelPRUpdate},
		{ID: "e4"},
	}
	if id, _ := FindLastPRCheckpoint(entries); id != "e3" {
		t.Fatalf("got %q, want e3", id)
	}
}

func TestFindLastPRCheckpointNone(t *testing.T) {
	if _, ok := FindLastPRCheckpoint([]Entry{{ID: "e1"}, {ID: "e2"}}); ok {
		t.Fatal("found checkpoint in unlabeled history")
	}
}

func TestEntriesAfter(t *testing.T) {
	entries := []Entry{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	after := EntriesAfter(entries, "b")
	if len(after) != 1 || after[0].ID != "c" {
		t.Fatalf("after b = %+v", after)
	}
	if got := EntriesAfter(entries, ""); len(got) != 3 {
		t.Fatalf("empty id should return all, got %d", len(got))
	}
	if got := EntriesAfter(entries, "missing"); len(got) != 3 {
		t.Fatalf("unknown id should return all, got %d", len(got))
	}
	if got := EntriesAfter(entries, "c"); len(got) != 0 {
		t.Fatalf("after last = %+v", got)
	}
}

func TestRenderEntryTruncation(t *testing.T) {
	long := strings.Repeat("x", 2000)
	out := Render([]Entry{{Kind: KindUser, Text: long}})
	line := strings.TrimSuffix(out, "\n")
	if want := "User: " + long[:500]; line != want {
		t.Fatalf("line length %d, want %d", len(line), len(want))
	}
}

func TestRenderTotalCap(t *testing.T) {
	var entries []Entry
	for i := 0; i < 100; i++ {
		entries = append(entries, Entry{Kind: KindAssistant, Text: strings.Repeat("y", 499)})
	}
	out := Render(entries)
	if len(out) > 8000 {
		t.Fatalf("rendered %d chars, cap is 8000", len(out))
	}
}

func TestRenderTruncatesOnRuneBoundary(t *testing.T) {
	// 499 ASCII bytes then a multi-byte rune straddling the 500-byte cap
	text := strings.Repeat("x", 499) + "é"
	out := Render([]Entry{{Kind: KindUser, Text: text}})
	if !utf8.ValidString(out) {
		t.Fatalf("rendered excerpt is not valid UTF-8: %q", out)
	}
	line := strings.TrimSuffix(out, "\n")
	if want := "User: " + strings.Repeat("x", 499); line != want {
		t.Fatalf("got %d bytes, want the rune dropped whole", len(line))
	}
}

func TestRenderTotalCapKeepsValidUTF8(t *testing.T) {
	// line length chosen so the 8000-byte cap lands inside a rune
	var entries []Entry
	for i := 0; i < 40; i++ {
		entries = append(entries, Entry{Kind: KindAssistant, Text: strings.Repeat("日", 160) + "a"})
	}
	out := Render(entries)
	if len(out) > 8000 {
		t.Fatalf("rendered %d chars, cap is 8000", len(out))
	}
	if !utf8.ValidString(out) {
		t.Fatal("total cap tore a rune")
	}
}

func TestRenderToolCalls(t *testing.T) {
	entries := []Entry{
		{Kind: KindToolCall, ToolName: ToolWrite, ToolArg: "src/app.go"},
		{Kind: KindToolCall, ToolName: ToolEdit, ToolArg: "main.go"},
		{Kind: KindToolCall, ToolName: ToolShell, ToolArg: "go test ./..."},
		{Kind: KindToolCall, ToolName: "web_search", ToolArg: "ignored"},
	}
	out := Render(entries)
	for _, want := range []string{"[tool] wrote src/app.go", "[tool] edited main.go", "[tool] ran: go test ./..."} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
	if strings.Contains(out, "web_search") || strings.Contains(out, "ignored") {
		t.Errorf("unrelated tool rendered: %q", out)
	}
}

func TestSinceLastCheckpoint(t *testing.T) {
	entries := []Entry{
		{ID: "e1", Kind: KindUser, Text: "old"},
		{ID: "e2", Label: LabelPRCreated},
		{ID: "e3", Kind: KindUser, Text: "new"},
	}
	got := SinceLastCheckpoint(entries)
	if len(got) != 1 || got[0].ID != "e3" {
		t.Fatalf("got %+v", got)
	}

	all := SinceLastCheckpoint([]Entry{{ID: "a"}, {ID: "b"}})
	if len(all) != 2 {
		t.Fatalf("no checkpoint should mean full history, got %d", len(all))
	}
}
