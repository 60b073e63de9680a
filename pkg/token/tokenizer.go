package token

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	pc "github.com/prataprc/goparsec"
)

// ----------------------------------------------------------------------------
// Parser combinator(s)

// This section defines the low-level parser combinators used to recognize
// each lexeme shape of the Jack language. Exactly like the VM parser in
// pkg/hackvm, we build a throwaway AST with
// 'goparsec' just to drive the scanner; the tree itself never survives past
// FromSource, it is immediately flattened into a '[]Token' by FromAST.

var ast = pc.NewAST("jack_tokens", 100)

var (
	pProgram = ast.ManyUntil("program", nil, pLexeme, pc.End())

	pLexeme = ast.OrdChoice("lexeme", nil, pString, pInteger, pWord, pSym)

	// String constants: up to (but excluding) the closing quote. Internal
	// whitespace is significant and must not be trimmed.
	pString = pc.Token(`"[^"]*"`, "STRING")

	// Integer constants: a maximal decimal digit run.
	pInteger = pc.Int()

	// Keywords and identifiers share a lexeme shape; disambiguated against
	// the reserved word set after scanning.
	pWord = pc.Token(`[A-Za-z_][0-9A-Za-z_]*`, "WORD")

	// The fixed single-character symbol set of the language.
	pSym = pc.Token(`[{}()\[\]\.,;\+\-\*/&\|<>=~]`, "SYMBOL")
)

// blockComment matches both '/* ... */' and '/** ... */' (non-nesting);
// lineComment matches '//' to end of line. Both are stripped before the
// lexemes above ever see the source, since a block comment can span lines
// and must be removed against the whole concatenated source, not a single
// line at a time.
var (
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineComment  = regexp.MustCompile(`//[^\n]*`)
)

// stripComments removes both comment forms, replacing them with a single
// space so that token boundaries straddling a removed comment never fuse
// two adjacent lexemes together (e.g. "foo/*c*/bar" must stay two words).
func stripComments(src []byte) []byte {
	out := blockComment.ReplaceAll(src, []byte(" "))
	out = lineComment.ReplaceAll(out, []byte(" "))
	return out
}

// Tokenizer lexes Jack source text into an ordered token stream.
type Tokenizer struct{ reader io.Reader }

// NewTokenizer returns a Tokenizer reading Jack source from r.
func NewTokenizer(r io.Reader) Tokenizer { return Tokenizer{reader: r} }

// Tokenize reads the whole input and returns its token stream. The AST built
// internally by the goparsec combinators above is discarded as soon as it is
// walked; no parse tree is exposed to, or needed by, the caller.
func (t *Tokenizer) Tokenize() ([]Token, error) {
	content, err := io.ReadAll(t.reader)
	if err != nil {
		return nil, fmt.Errorf("cannot read from 'io.Reader': %w", err)
	}

	stripped := stripComments(content)

	if idx := strings.IndexByte(string(stripped), '"'); idx >= 0 {
		if err := checkUnterminatedStrings(stripped); err != nil {
			return nil, err
		}
	}

	root, scanner := ast.Parsewith(pProgram, pc.NewScanner(stripped))
	if root == nil {
		return nil, fmt.Errorf("unable to tokenize: unexpected character at %q", remainder(scanner))
	}

	return flatten(root)
}

// checkUnterminatedStrings fails fast with the unterminated-string
// diagnostic spec.md requires, rather than letting the scanner silently
// swallow everything after a stray opening quote.
func checkUnterminatedStrings(src []byte) error {
	inString := false
	for _, b := range src {
		switch {
		case b == '"':
			inString = !inString
		case b == '\n' && inString:
			return fmt.Errorf("unterminated string constant")
		}
	}
	if inString {
		return fmt.Errorf("unterminated string constant")
	}
	return nil
}

func remainder(s pc.Scanner) string {
	if s == nil {
		return ""
	}
	text, _ := s.Match(`(?s).{0,20}`)
	return string(text)
}

// flatten walks the flat 'program' node produced by pProgram (one child per
// lexeme, in source order) and classifies each into a Token.
func flatten(root pc.Queryable) ([]Token, error) {
	tokens := make([]Token, 0, len(root.GetChildren()))

	for _, child := range root.GetChildren() {
		switch child.GetName() {
		case "lexeme":
			tok, err := classify(child.GetChildren()[0])
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		default:
			return nil, fmt.Errorf("unrecognized node %q in token stream", child.GetName())
		}
	}

	return tokens, nil
}

func classify(node pc.Queryable) (Token, error) {
	switch node.GetName() {
	case "STRING":
		raw := node.GetValue()
		return Token{Kind: StringConst, Value: strings.Trim(raw, `"`)}, nil

	case "INT":
		value := node.GetValue()
		n, err := strconv.ParseUint(value, 10, 16)
		if err != nil || n > 32767 {
			return Token{}, fmt.Errorf("integer constant out of range [0,32767]: %q", value)
		}
		return Token{Kind: IntConst, Value: value}, nil

	case "WORD":
		word := node.GetValue()
		if Keywords[word] {
			return Token{Kind: Keyword, Value: word}, nil
		}
		return Token{Kind: Identifier, Value: word}, nil

	case "SYMBOL":
		return Token{Kind: Symbol, Value: node.GetValue()}, nil

	default:
		return Token{}, fmt.Errorf("unrecognized lexeme node %q", node.GetName())
	}
}
