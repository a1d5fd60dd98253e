package syntax

import "github.com/magelang/magelang/ir"

// tokenKind tags one lexical token of Mage source text (SPEC_FULL.md
// §5.10's textual notation).
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString // single-quoted literal: 'abc'
	tokInt    // bare decimal integer, used inside {m,n}

	tokEquals    // =
	tokSemicolon // ;
	tokColon     // :
	tokComma     // ,
	tokPipe      // |
	tokStar      // *
	tokPlus      // +
	tokQuestion  // ?
	tokAmp       // &
	tokBang      // !
	tokUnderscore
	tokDotDot  // ..
	tokPercent // %
	tokLParen
	tokRParen
	tokLBrace // {
	tokRBrace // }
	tokLBracket
	tokInvalid
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "EOF"
	case tokIdent:
		return "identifier"
	case tokString:
		return "string literal"
	case tokInt:
		return "integer"
	case tokEquals:
		return "'='"
	case tokSemicolon:
		return "';'"
	case tokColon:
		return "':'"
	case tokComma:
		return "','"
	case tokPipe:
		return "'|'"
	case tokStar:
		return "'*'"
	case tokPlus:
		return "'+'"
	case tokQuestion:
		return "'?'"
	case tokAmp:
		return "'&'"
	case tokBang:
		return "'!'"
	case tokUnderscore:
		return "'_'"
	case tokDotDot:
		return "'..'"
	case tokPercent:
		return "'%'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	case tokLBracket:
		return "'['"
	default:
		return "invalid token"
	}
}

// token is one scanned unit plus its source span. text carries the decoded
// value for tokIdent/tokString/tokInt; the punctuation kinds need no text.
type token struct {
	kind tokenKind
	text string
	span ir.Span
}

var keywords = map[string]bool{
	"pub":     true,
	"extern":  true,
	"token":   true,
	"skip":    true,
	"keyword": true,
}
