package highlight

import (
	"errors"
	"reflect"
	"testing"

	"github.com/darealtrueblue/codeforge/internal/buffer"
	"github.com/darealtrueblue/codeforge/internal/types"
)

func goLang(t *testing.T) *Language {
	t.Helper()
	lang, err := Compile(goSpec())
	if err != nil {
		t.Fatalf("compile go spec: %v", err)
	}
	return lang
}

func findKind(spans []types.HighlightSpan, kind types.TokenKind) *types.HighlightSpan {
	for i := range spans {
		if spans[i].Kind == kind {
			return &spans[i]
		}
	}
	return nil
}

func TestHighlightLineKeywordsAndStrings(t *testing.T) {
	lang := goLang(t)
	spans, state := lang.HighlightLine([]byte(`if x == "hi" { return 42 }`), StateNormal)
	if state != StateNormal {
		t.Errorf("exit state = %v, want normal", state)
	}

	kw := findKind(spans, types.KindKeyword)
	if kw == nil || kw.StartCol != 0 || kw.EndCol != 2 {
		t.Errorf("keyword span = %+v, want if at 0..2", kw)
	}
	str := findKind(spans, types.KindString)
	if str == nil || str.StartCol != 8 || str.EndCol != 12 {
		t.Errorf("string span = %+v, want 8..12", str)
	}
	num := findKind(spans, types.KindNumber)
	if num == nil || num.StartCol != 22 || num.EndCol != 24 {
		t.Errorf("number span = %+v, want 42 at 22..24", num)
	}
}

func TestKeywordDoesNotMatchInsideIdentifier(t *testing.T) {
	lang := goLang(t)
	spans, _ := lang.HighlightLine([]byte("iffy ifer ifif"), StateNormal)
	if kw := findKind(spans, types.KindKeyword); kw != nil {
		t.Errorf("unexpected keyword span %+v in identifier soup", kw)
	}
}

func TestCommentWinsOverOtherRules(t *testing.T) {
	lang := goLang(t)
	spans, _ := lang.HighlightLine([]byte(`// if "str" 42`), StateNormal)
	if len(spans) != 1 || spans[0].Kind != types.KindComment {
		t.Fatalf("spans = %+v, want single comment", spans)
	}
	if spans[0].StartCol != 0 || spans[0].EndCol != 14 {
		t.Errorf("comment span = %+v", spans[0])
	}
}

func TestStringSwallowsCommentOpener(t *testing.T) {
	lang := goLang(t)
	spans, state := lang.HighlightLine([]byte(`s := "/* not a comment"`), StateNormal)
	if state != StateNormal {
		t.Errorf("exit state = %v, want normal", state)
	}
	str := findKind(spans, types.KindString)
	if str == nil || str.StartCol != 5 {
		t.Errorf("string span = %+v", str)
	}
	if c := findKind(spans, types.KindComment); c != nil {
		t.Errorf("comment span %+v inside string", c)
	}
}

func TestFunctionSubmatchSpansNameOnly(t *testing.T) {
	lang := goLang(t)
	spans, _ := lang.HighlightLine([]byte("doWork(x)"), StateNormal)
	fn := findKind(spans, types.KindFunction)
	if fn == nil || fn.StartCol != 0 || fn.EndCol != 6 {
		t.Errorf("function span = %+v, want doWork at 0..6", fn)
	}
}

func TestBlockCommentCarriesState(t *testing.T) {
	lang := goLang(t)

	spans, state := lang.HighlightLine([]byte("x /* start"), StateNormal)
	if state != LineState(1) {
		t.Fatalf("exit state = %v, want block comment state", state)
	}
	c := findKind(spans, types.KindComment)
	if c == nil || c.StartCol != 2 || c.EndCol != 10 {
		t.Errorf("open span = %+v", c)
	}

	spans, state = lang.HighlightLine([]byte("all comment"), state)
	if state != LineState(1) {
		t.Errorf("middle line should stay in comment, state = %v", state)
	}
	if len(spans) != 1 || spans[0].EndCol != 11 {
		t.Errorf("middle spans = %+v", spans)
	}

	spans, state = lang.HighlightLine([]byte("end */ return"), state)
	if state != StateNormal {
		t.Errorf("exit state = %v, want normal after close", state)
	}
	if spans[0].Kind != types.KindComment || spans[0].EndCol != 6 {
		t.Errorf("close span = %+v", spans[0])
	}
	if kw := findKind(spans, types.KindKeyword); kw == nil || kw.StartCol != 7 {
		t.Errorf("keyword after close = %+v", kw)
	}
}

func TestHighlightLineIdempotent(t *testing.T) {
	lang := goLang(t)
	line := []byte(`for i := 0; i < len(xs); i++ { sum += xs[i] }`)
	first, s1 := lang.HighlightLine(line, StateNormal)
	second, s2 := lang.HighlightLine(line, StateNormal)
	if !reflect.DeepEqual(first, second) || s1 != s2 {
		t.Errorf("highlighting is not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestPlainTextProducesNoSpans(t *testing.T) {
	lang := PlainText()
	spans, state := lang.HighlightLine([]byte("anything at all /* here */"), StateNormal)
	if len(spans) != 0 || state != StateNormal {
		t.Errorf("plain text: spans=%v state=%v", spans, state)
	}
}

func TestCompileRejectsBadPattern(t *testing.T) {
	_, err := Compile(LanguageSpec{
		Name:  "broken",
		Rules: []RuleSpec{{Pattern: `([`, Kind: types.KindKeyword}},
	})
	if !errors.Is(err, ErrPatternCompile) {
		t.Errorf("err = %v, want ErrPatternCompile", err)
	}
}

func TestRegistryDetect(t *testing.T) {
	r := DefaultRegistry()
	if got := r.Detect("main.go").Name(); got != "go" {
		t.Errorf("Detect(main.go) = %q", got)
	}
	if got := r.Detect("app.PY").Name(); got != "python" {
		t.Errorf("Detect(app.PY) = %q, extension match should be case-insensitive", got)
	}
	if got := r.Detect("notes.txt").Name(); got != "text" {
		t.Errorf("Detect(notes.txt) = %q, want plain text", got)
	}
	if got := r.Get("nonexistent").Name(); got != "text" {
		t.Errorf("Get(nonexistent) = %q, want plain text", got)
	}
}

func TestEngineApplyEditRecomputesDirtyLines(t *testing.T) {
	doc := buffer.NewLineBufferFromString("package main\n\nvar x = 1\n")
	eng := NewEngine(goLang(t))
	eng.HighlightAll(doc)

	if kw := findKind(eng.LineSpans(2), types.KindKeyword); kw == nil {
		t.Fatal("expected var keyword on line 2")
	}

	// Turn line 2 into a comment.
	_, edit, err := doc.Insert(types.Position{Line: 2, Col: 0}, []byte("// "))
	if err != nil {
		t.Fatal(err)
	}
	first, last := eng.ApplyEdit(doc, edit)
	if first != 2 || last != 2 {
		t.Errorf("recomputed range = [%d, %d], want [2, 2]", first, last)
	}
	spans := eng.LineSpans(2)
	if len(spans) != 1 || spans[0].Kind != types.KindComment {
		t.Errorf("line 2 spans = %+v, want single comment", spans)
	}
}

func TestEngineCascadeOnBlockOpen(t *testing.T) {
	doc := buffer.NewLineBufferFromString("a := 1\nb := 2\nc := 3")
	eng := NewEngine(goLang(t))
	eng.HighlightAll(doc)

	// Opening an unterminated block comment on line 0 must re-lex every
	// following line into the comment state.
	_, edit, err := doc.Insert(types.Position{Line: 0, Col: 0}, []byte("/* "))
	if err != nil {
		t.Fatal(err)
	}
	first, last := eng.ApplyEdit(doc, edit)
	if first != 0 || last != 2 {
		t.Errorf("recomputed range = [%d, %d], want cascade to [0, 2]", first, last)
	}
	for i := 0; i < 3; i++ {
		spans := eng.LineSpans(i)
		if len(spans) != 1 || spans[0].Kind != types.KindComment {
			t.Errorf("line %d spans = %+v, want full comment", i, spans)
		}
	}

	// Closing it again restores the original tokens below.
	end := types.Position{Line: 0, Col: 3}
	_, edit, err = doc.Delete(types.Position{Line: 0, Col: 0}, end)
	if err != nil {
		t.Fatal(err)
	}
	eng.ApplyEdit(doc, edit)
	if kw := findKind(eng.LineSpans(2), types.KindNumber); kw == nil {
		t.Errorf("line 2 spans = %+v, want number restored", eng.LineSpans(2))
	}
}

func TestEngineLineSplice(t *testing.T) {
	doc := buffer.NewLineBufferFromString("var a = 1\nvar b = 2")
	eng := NewEngine(goLang(t))
	eng.HighlightAll(doc)

	// Insert a new line between the two.
	_, edit, err := doc.Insert(types.Position{Line: 0, Col: 9}, []byte("\nvar c = 3"))
	if err != nil {
		t.Fatal(err)
	}
	eng.ApplyEdit(doc, edit)
	if eng.LineCount() != 3 {
		t.Fatalf("cache covers %d lines, want 3", eng.LineCount())
	}
	for i := 0; i < 3; i++ {
		if kw := findKind(eng.LineSpans(i), types.KindKeyword); kw == nil {
			t.Errorf("line %d lost its keyword span: %+v", i, eng.LineSpans(i))
		}
	}
}
