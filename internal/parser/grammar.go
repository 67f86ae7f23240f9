package parser

import (
	"github.com/ramtk/ram/internal/lexer"
	"github.com/ramtk/ram/internal/syntax"
)

// Each function here corresponds to one production of the grammar:
//
//	program        := line*
//	line           := ws* (comment | label_def | mod_stmt | use_stmt | instruction (ws* comment)? | empty) newline?
//	label_def      := IDENT ws* ":"
//	instruction    := OPCODE (ws+ operand)?
//	operand        := ("*" | "=")? operand_value
//	operand_value  := (NUMBER|IDENT) array_accessor?
//	array_accessor := "[" (NUMBER|IDENT) "]"
//	comment        := "#" COMMENT_TEXT?
//	mod_stmt       := "mod" ws+ IDENT
//	use_stmt       := "use" ws+ module_path
//	module_path    := STRING
//
// The parser never aborts on a bad token: every branch below either
// recognizes a production or records a diagnostic and consumes just enough
// to make progress, leaving the caller's loop (program) to retry on the
// next line.

// Program parses the whole token stream as the ROOT node.
func Program(p *Parser) {
	m := p.Start()
	for !p.At(syntax.EOF) {
		line(p)
	}
	m.Complete(p, syntax.ROOT)
}

func line(p *Parser) {
	m := p.Start()

	for p.At(syntax.WHITESPACE) {
		p.BumpAny()
	}

	switch {
	case p.At(syntax.EOF):
		m.Abandon(p)
		return
	case p.At(syntax.HASH):
		comment(p)
	case p.At(syntax.NEWLINE):
		p.BumpAny()
	case p.At(syntax.LBRACKET):
		p.ErrAndBump(
			"Unexpected opening bracket '['",
			"Square brackets can only be used in array accessors after an identifier or number",
		)
	case p.At(syntax.RBRACKET):
		p.ErrAndBump(
			"Unexpected closing bracket ']'",
			"This closing bracket doesn't match any opening bracket",
		)
	case p.At(syntax.ERROR_TOKEN):
		p.ErrAndBump(
			"Unexpected character: "+p.TokenText(),
			"Remove or replace this character",
		)
	case p.At(syntax.IDENTIFIER) && p.AtModStart():
		modStmt(p)
	case p.At(syntax.IDENTIFIER) && p.AtUseStart():
		useStmt(p)
	case p.At(syntax.IDENTIFIER) && p.AtLabelDefinitionStart():
		labelDefinition(p)
		for p.At(syntax.WHITESPACE) {
			p.BumpAny()
		}
		if p.AtInstructionStart() {
			instruction(p)
		}
	case p.At(syntax.IDENTIFIER) && p.AtInstructionStart():
		instruction(p)
	case p.At(syntax.IDENTIFIER):
		p.ErrAndBump(
			"Unexpected identifier: "+p.TokenText(),
			"Expected an instruction, label, or comment",
		)
	case p.AtInstructionStart():
		instruction(p)
	default:
		p.ErrAndBump(
			"Unexpected token: "+p.TokenText(),
			"Expected an instruction, label, or comment",
		)
	}

	for p.At(syntax.WHITESPACE) {
		p.BumpAny()
	}
	if p.At(syntax.HASH) {
		comment(p)
	}
	if p.At(syntax.NEWLINE) {
		p.BumpAny()
	}

	m.Complete(p, syntax.LINE)
}

func instruction(p *Parser) {
	m := p.Start()

	if p.AtInstructionStart() {
		p.BumpAny()
	} else {
		p.Error("Expected an instruction opcode", "Opcodes must be valid identifiers", p.TokenSpan())
	}

	for p.At(syntax.WHITESPACE) {
		p.BumpAny()
	}

	if !p.At(syntax.NEWLINE) && !p.At(syntax.HASH) && !p.At(syntax.EOF) {
		if p.At(syntax.LBRACKET) {
			unexpectedArrayAccessor(p)
		} else {
			operand(p)
		}
	}

	m.Complete(p, syntax.INSTRUCTION)
}

// unexpectedArrayAccessor handles `[...]` with no preceding operand value
// to attach to.
func unexpectedArrayAccessor(p *Parser) {
	openSpan := p.TokenSpan()
	p.BumpAny() // '['

	if p.At(syntax.NUMBER) || p.At(syntax.IDENTIFIER) {
		p.BumpAny()
		if p.At(syntax.RBRACKET) {
			closeSpan := p.TokenSpan()
			p.BumpAny()
			p.LabeledError(
				"Array accessor to nowhere",
				"Array accessors can only be used after an identifier or number",
				[]LabeledSpan{
					{Start: int(openSpan.Start), End: int(openSpan.End), Label: "here"},
					{Start: int(openSpan.Start), End: int(closeSpan.End), Label: "accessing nothing"},
				},
			)
		} else {
			p.LabeledError(
				"Unclosed array accessor to nowhere",
				"Array accessors can only be used after an identifier or number and must be closed with ']'",
				[]LabeledSpan{
					{Start: int(openSpan.Start), End: int(openSpan.End), Label: "here"},
					{Start: int(openSpan.Start), End: int(openSpan.End), Label: "accessing nothing"},
				},
			)
		}
	} else {
		p.Error("Empty array accessor", "Array accessors must contain a number or identifier", openSpan)
		if p.At(syntax.RBRACKET) {
			p.BumpAny()
		}
	}
}

func operand(p *Parser) {
	m := p.Start()

	switch {
	case p.At(syntax.STAR):
		inner := p.Start()
		p.BumpAny()
		operandValue(p)
		inner.Complete(p, syntax.INDIRECT_OPERAND)
	case p.At(syntax.EQUALS):
		inner := p.Start()
		p.BumpAny()
		operandValue(p)
		inner.Complete(p, syntax.IMMEDIATE_OPERAND)
	default:
		inner := p.Start()
		operandValue(p)
		inner.Complete(p, syntax.DIRECT_OPERAND)
	}

	m.Complete(p, syntax.OPERAND)
}

func operandValue(p *Parser) {
	m := p.Start()

	if p.At(syntax.NUMBER) || p.At(syntax.IDENTIFIER) {
		p.BumpAny()
		if p.At(syntax.LBRACKET) {
			arrayAccessor(p)
		}
	} else {
		p.Error("Expected a number or identifier", "Operands must be numbers or identifiers", p.TokenSpan())
	}

	m.Complete(p, syntax.OPERAND_VALUE)
}

func arrayAccessor(p *Parser) {
	m := p.Start()
	openSpan := p.TokenSpan()

	if p.At(syntax.LBRACKET) {
		p.BumpAny()
	}

	if p.At(syntax.NUMBER) || p.At(syntax.IDENTIFIER) {
		p.BumpAny()
	} else {
		p.Error("Expected a number or identifier as array index", "Array indices must be numbers or identifiers", p.TokenSpan())
	}

	if p.At(syntax.RBRACKET) {
		p.BumpAny()
	} else {
		p.Error("Unclosed bracket in array accessor", "Add a closing bracket ']' to complete the array accessor", openSpan)
	}

	m.Complete(p, syntax.ARRAY_ACCESSOR)
}

func labelDefinition(p *Parser) {
	m := p.Start()

	if p.At(syntax.IDENTIFIER) {
		p.BumpAny()
	} else {
		p.Error("Expected a label name", "Label names must start with a letter", p.TokenSpan())
	}

	for p.At(syntax.WHITESPACE) {
		p.BumpAny()
	}

	if p.At(syntax.COLON) {
		p.BumpAny()
	} else {
		p.Error("Expected a colon after label name", "Add a colon after the label name", p.TokenSpan())
	}

	m.Complete(p, syntax.LABEL_DEF)
}

func comment(p *Parser) {
	m := p.Start()

	if p.At(syntax.HASH) {
		p.BumpAny()
	} else {
		p.Error("Expected a comment starting with #", "Comments must start with #", p.TokenSpan())
	}

	kind := syntax.COMMENT
	if p.At(syntax.COMMENT_TEXT) {
		if lexer.IsDocComment(p.TokenText()) {
			kind = syntax.DOC_COMMENT
		}
		p.BumpAny()
	}

	m.Complete(p, kind)
}

func modStmt(p *Parser) {
	m := p.Start()
	p.BumpAny() // "mod"

	for p.At(syntax.WHITESPACE) {
		p.BumpAny()
	}

	if p.At(syntax.IDENTIFIER) {
		p.BumpAny()
	} else {
		p.Error("Expected a module name", "mod must be followed by an identifier", p.TokenSpan())
	}

	m.Complete(p, syntax.MOD_STMT)
}

func useStmt(p *Parser) {
	m := p.Start()
	p.BumpAny() // "use"

	for p.At(syntax.WHITESPACE) {
		p.BumpAny()
	}

	modulePath(p)

	m.Complete(p, syntax.USE_STMT)
}

func modulePath(p *Parser) {
	m := p.Start()
	if p.At(syntax.STRING) {
		p.BumpAny()
	} else {
		p.Error("Expected a module path string", `use must be followed by a quoted path, e.g. use "math/lib"`, p.TokenSpan())
	}
	m.Complete(p, syntax.MODULE_PATH)
}
