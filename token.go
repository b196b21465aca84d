package ferrite

import "fmt"

// TokenKind tags every lexeme the lexer can produce.
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokError

	// Literals
	TokIntLiteral
	TokFloatLiteral
	TokStringLiteral
	TokCharLiteral
	TokIdentifier

	// Keywords
	TokKwFn
	TokKwLet
	TokKwMut
	TokKwConst
	TokKwStruct
	TokKwEnum
	TokKwExtern
	TokKwReturn
	TokKwIf
	TokKwElse
	TokKwFor
	TokKwIn
	TokKwMatch
	TokKwTrue
	TokKwFalse
	TokKwPub
	TokKwSizeof
	TokKwNone

	// Punctuation / operators
	TokLParen
	TokRParen
	TokLBrace
	TokRBrace
	TokLBracket
	TokRBracket
	TokLAngleBracket
	TokRAngleBracket
	TokComma
	TokColon
	TokSemicolon
	TokDot
	TokArrow    // ->
	TokFatArrow // =>
	TokAssign   // =
	TokEq       // ==
	TokNeq      // !=
	TokLe       // <=
	TokGe       // >=
	TokPlus
	TokMinus
	TokStar
	TokSlash
	TokPercent
	TokAmp     // &
	TokAmpAmp  // &&
	TokPipe    // |
	TokPipePipe
	TokBang
	TokHash      // #
	TokEllipsis  // ...
)

var tokenNames = map[TokenKind]string{
	TokEOF: "eof", TokError: "error",
	TokIntLiteral: "int-literal", TokFloatLiteral: "float-literal",
	TokStringLiteral: "string-literal", TokCharLiteral: "char-literal",
	TokIdentifier: "identifier",
	TokKwFn: "fn", TokKwLet: "let", TokKwMut: "mut", TokKwConst: "const",
	TokKwStruct: "struct", TokKwEnum: "enum", TokKwExtern: "extern",
	TokKwReturn: "return", TokKwIf: "if", TokKwElse: "else",
	TokKwFor: "for", TokKwIn: "in", TokKwMatch: "match",
	TokKwTrue: "true", TokKwFalse: "false", TokKwPub: "pub",
	TokKwSizeof: "sizeof", TokKwNone: "none",
	TokLParen: "(", TokRParen: ")", TokLBrace: "{", TokRBrace: "}",
	TokLBracket: "[", TokRBracket: "]",
	TokLAngleBracket: "<", TokRAngleBracket: ">",
	TokComma: ",", TokColon: ":", TokSemicolon: ";", TokDot: ".",
	TokArrow: "->", TokFatArrow: "=>", TokAssign: "=",
	TokEq: "==", TokNeq: "!=", TokLe: "<=", TokGe: ">=",
	TokPlus: "+", TokMinus: "-", TokStar: "*", TokSlash: "/", TokPercent: "%",
	TokAmp: "&", TokAmpAmp: "&&", TokPipe: "|", TokPipePipe: "||",
	TokBang: "!", TokHash: "#", TokEllipsis: "...",
}

func (k TokenKind) String() string {
	if s, ok := tokenNames[k]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(k))
}

var keywords = map[string]TokenKind{
	"fn": TokKwFn, "let": TokKwLet, "mut": TokKwMut, "const": TokKwConst,
	"struct": TokKwStruct, "enum": TokKwEnum, "extern": TokKwExtern,
	"return": TokKwReturn, "if": TokKwIf, "else": TokKwElse,
	"for": TokKwFor, "in": TokKwIn, "match": TokKwMatch,
	"true": TokKwTrue, "false": TokKwFalse, "pub": TokKwPub,
	"sizeof": TokKwSizeof, "none": TokKwNone,
}

// Token is one lexeme plus its source span and, for literals, the
// source text needed by the analyzer to reconstruct the value.
type Token struct {
	Kind     TokenKind
	Text     string // raw source text (identifiers, literals) or "" for fixed punctuation
	Location SourceLocation
}

func (t Token) String() string {
	if t.Text != "" {
		return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
	}
	return t.Kind.String()
}
