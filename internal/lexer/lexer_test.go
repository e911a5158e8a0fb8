package lexer

import "testing"

func TestNextToken(t *testing.T) {
	input := `class Main inherits IO {
		main(): Object { out_string("Hello, World.\n") };
	};`

	tests := []struct {
		expectedLiteral string
		expectedType    TokenType
	}{
		{"class", CLASS},
		{"Main", TYPEID},
		{"inherits", INHERITS},
		{"IO", TYPEID},
		{"{", LBRACE},
		{"main", OBJECTID},
		{"(", LPAREN},
		{")", RPAREN},
		{":", COLON},
		{"Object", TYPEID},
		{"{", LBRACE},
		{"out_string", OBJECTID},
		{"(", LPAREN},
		{"Hello, World.\n", STR_CONST},
		{")", RPAREN},
		{"}", RBRACE},
		{";", SEMI},
		{"}", RBRACE},
		{";", SEMI},
		{"", EOF},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%s, got=%s (literal=%q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestKeywordsCaseInsensitive(t *testing.T) {
	input := `Class ELSE If In INHERITS isVOID LET loop Pool THEN WHILE Case Esac New OF NOT`
	tests := []TokenType{CLASS, ELSE, IF, IN, INHERITS, ISVOID, LET, LOOP, POOL, THEN, WHILE, CASE, ESAC, NEW, OF, NOT}

	l := New(input)
	for i, want := range tests {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("tests[%d] - expected %s, got %s (literal=%q)", i, want, tok.Type, tok.Literal)
		}
	}
}

func TestTrueFalseMustStartLowercase(t *testing.T) {
	l := New(`true True tRue false FALSE`)

	tok := l.NextToken()
	if tok.Type != BOOL_CONST || tok.Literal != "true" {
		t.Fatalf("expected BOOL_CONST true, got %s %q", tok.Type, tok.Literal)
	}

	// "True" starts with uppercase: it is a type identifier, not a bool literal.
	tok = l.NextToken()
	if tok.Type != TYPEID || tok.Literal != "True" {
		t.Fatalf("expected TYPEID True, got %s %q", tok.Type, tok.Literal)
	}

	// "tRue" starts lowercase: still recognized as the boolean literal.
	tok = l.NextToken()
	if tok.Type != BOOL_CONST || tok.Literal != "true" {
		t.Fatalf("expected BOOL_CONST true, got %s %q", tok.Type, tok.Literal)
	}

	tok = l.NextToken()
	if tok.Type != BOOL_CONST || tok.Literal != "false" {
		t.Fatalf("expected BOOL_CONST false, got %s %q", tok.Type, tok.Literal)
	}

	tok = l.NextToken()
	if tok.Type != TYPEID || tok.Literal != "FALSE" {
		t.Fatalf("expected TYPEID FALSE, got %s %q", tok.Type, tok.Literal)
	}
}

func TestStringEscapes(t *testing.T) {
	l := New(`"a\nb\tc\\d\"e\qf"`)
	tok := l.NextToken()
	if tok.Type != STR_CONST {
		t.Fatalf("expected STR_CONST, got %s (errs=%v)", tok.Type, l.Errors())
	}
	want := "a\nb\tc\\d\"e" + "qf"
	if tok.Literal != want {
		t.Fatalf("expected %q, got %q", want, tok.Literal)
	}
}

func TestUnterminatedStringRecovers(t *testing.T) {
	l := New("\"no closing quote\nclass")
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL for unterminated string, got %s", tok.Type)
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("expected 1 lex error, got %d", len(l.Errors()))
	}
	tok = l.NextToken()
	if tok.Type != CLASS {
		t.Fatalf("expected lexer to resync at newline and continue with CLASS, got %s", tok.Type)
	}
}

func TestStringTooLong(t *testing.T) {
	long := make([]byte, 1100)
	for i := range long {
		long[i] = 'a'
	}
	l := New(`"` + string(long) + `"`)
	l.NextToken()
	if len(l.Errors()) == 0 {
		t.Fatalf("expected a lex error for an over-long string literal")
	}
}

func TestNestedBlockComments(t *testing.T) {
	l := New("(* outer (* inner *) still-outer *) class")
	tok := l.NextToken()
	if tok.Type != CLASS {
		t.Fatalf("expected nested comment to be fully skipped, got %s", tok.Type)
	}
	if len(l.Errors()) != 0 {
		t.Fatalf("expected no errors, got %v", l.Errors())
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	l := New("(* never closed")
	tok := l.NextToken()
	if tok.Type != EOF {
		t.Fatalf("expected EOF, got %s", tok.Type)
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("expected 1 lex error for unterminated comment, got %d", len(l.Errors()))
	}
}

func TestLineComment(t *testing.T) {
	l := New("-- a comment\nclass")
	tok := l.NextToken()
	if tok.Type != CLASS {
		t.Fatalf("expected CLASS after line comment, got %s", tok.Type)
	}
}

func TestOperatorsAndPositions(t *testing.T) {
	l := New("<= <- < = ~")
	types := []TokenType{LE, ASSIGN, LT, EQ, TILDE}
	cols := []int{1, 4, 7, 9, 11}
	for i, want := range types {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("tests[%d] expected %s got %s", i, want, tok.Type)
		}
		if tok.Pos.Line != 1 || tok.Pos.Column != cols[i] {
			t.Fatalf("tests[%d] expected position 1:%d got %d:%d", i, cols[i], tok.Pos.Line, tok.Pos.Column)
		}
	}
}
