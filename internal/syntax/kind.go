// Package syntax implements the lossless ("green") concrete syntax tree for
// RAM assembly source: a shared, immutable tree where every byte of the
// input appears exactly once as token text, plus a position-aware "red"
// view (SyntaxNode/SyntaxToken) used by the AST layer.
package syntax

// Kind identifies the grammatical role of a token or tree node. Token kinds
// and node kinds share one namespace, matching how the parser's event
// stream and the green tree builder refer to both uniformly.
type Kind uint16

const (
	// EOF marks the end of the token stream. Never appears in a built tree.
	EOF Kind = iota

	// Trivia.
	WHITESPACE
	NEWLINE

	// Punctuation.
	COLON
	STAR
	EQUALS
	LBRACKET
	RBRACKET
	HASH

	// Literals and names.
	IDENTIFIER
	NUMBER
	STRING
	COMMENT_TEXT

	// Keywords. JUMP is recognized at lex time; the JMP alias is not —
	// it lexes as IDENTIFIER and is folded to JUMP later by the
	// instruction registry, matching the case-insensitive-alias
	// resolution the registry already performs for every other name.
	// READ and WRITE are deliberately absent here too: they lex as plain
	// IDENTIFIER and are only recognized as opcodes by the registry, so a
	// label named read: or write: stays parseable.
	LOAD_KW
	STORE_KW
	ADD_KW
	SUB_KW
	MUL_KW
	DIV_KW
	JUMP_KW
	JGTZ_KW
	JZERO_KW
	HALT_KW

	// ERROR_TOKEN wraps a single unrecognized byte.
	ERROR_TOKEN

	// Structural (node) kinds.
	ROOT
	LINE
	INSTRUCTION
	LABEL_DEF
	OPERAND
	DIRECT_OPERAND
	INDIRECT_OPERAND
	IMMEDIATE_OPERAND
	OPERAND_VALUE
	ARRAY_ACCESSOR
	COMMENT
	DOC_COMMENT
	COMMENT_GROUP
	MOD_STMT
	USE_STMT
	MODULE_PATH
	// ERROR_NODE wraps a run of tokens the grammar could not assign to any
	// production; it still holds every token verbatim, preserving
	// losslessness even where the parse failed.
	ERROR_NODE
)

var kindNames = [...]string{
	EOF:               "EOF",
	WHITESPACE:        "WHITESPACE",
	NEWLINE:           "NEWLINE",
	COLON:             "COLON",
	STAR:              "STAR",
	EQUALS:            "EQUALS",
	LBRACKET:          "LBRACKET",
	RBRACKET:          "RBRACKET",
	HASH:              "HASH",
	IDENTIFIER:        "IDENTIFIER",
	NUMBER:            "NUMBER",
	STRING:            "STRING",
	COMMENT_TEXT:      "COMMENT_TEXT",
	LOAD_KW:           "LOAD_KW",
	STORE_KW:          "STORE_KW",
	ADD_KW:            "ADD_KW",
	SUB_KW:            "SUB_KW",
	MUL_KW:            "MUL_KW",
	DIV_KW:            "DIV_KW",
	JUMP_KW:           "JUMP_KW",
	JGTZ_KW:           "JGTZ_KW",
	JZERO_KW:          "JZERO_KW",
	HALT_KW:           "HALT_KW",
	ERROR_TOKEN:       "ERROR_TOKEN",
	ROOT:              "ROOT",
	LINE:              "LINE",
	INSTRUCTION:       "INSTRUCTION",
	LABEL_DEF:         "LABEL_DEF",
	OPERAND:           "OPERAND",
	DIRECT_OPERAND:    "DIRECT_OPERAND",
	INDIRECT_OPERAND:  "INDIRECT_OPERAND",
	IMMEDIATE_OPERAND: "IMMEDIATE_OPERAND",
	OPERAND_VALUE:     "OPERAND_VALUE",
	ARRAY_ACCESSOR:    "ARRAY_ACCESSOR",
	COMMENT:           "COMMENT",
	DOC_COMMENT:       "DOC_COMMENT",
	COMMENT_GROUP:     "COMMENT_GROUP",
	MOD_STMT:          "MOD_STMT",
	USE_STMT:          "USE_STMT",
	MODULE_PATH:       "MODULE_PATH",
	ERROR_NODE:        "ERROR_NODE",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "UNKNOWN_KIND"
}

// IsTrivia reports whether k is whitespace or newline: text the grammar
// skips over when looking for the next meaningful token, but which the
// tree builder still attaches so the tree stays lossless.
func (k Kind) IsTrivia() bool {
	return k == WHITESPACE || k == NEWLINE
}

// IsKeyword reports whether k is one of the reserved opcode keywords.
func (k Kind) IsKeyword() bool {
	switch k {
	case LOAD_KW, STORE_KW, ADD_KW, SUB_KW, MUL_KW, DIV_KW, JUMP_KW, JGTZ_KW, JZERO_KW, HALT_KW:
		return true
	default:
		return false
	}
}

// keywords maps the upper-cased text of a reserved word to its Kind. JMP is
// deliberately absent: it is recognized as an alias only by the
// instruction registry, not the lexer.
var keywords = map[string]Kind{
	"LOAD":  LOAD_KW,
	"STORE": STORE_KW,
	"ADD":   ADD_KW,
	"SUB":   SUB_KW,
	"MUL":   MUL_KW,
	"DIV":   DIV_KW,
	"JUMP":  JUMP_KW,
	"JGTZ":  JGTZ_KW,
	"JZERO": JZERO_KW,
	"HALT":  HALT_KW,
}

// KeywordKind reports the Kind for text's upper-cased form if it names a
// reserved keyword, and whether such a keyword exists.
func KeywordKind(upperText string) (Kind, bool) {
	k, ok := keywords[upperText]
	return k, ok
}
