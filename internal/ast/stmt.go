package ast

import (
	"strings"

	"github.com/orizon-lang/swiftparse/internal/position"
)

// BlockStmt is a brace-delimited statement list. When the parser runs with
// opaque bodies the statements are not parsed and Verbatim holds the block
// text, braces included.
type BlockStmt struct {
	Span     position.Span
	Stmts    []Stmt
	Verbatim string
}

func (b *BlockStmt) GetSpan() position.Span { return b.Span }
func (b *BlockStmt) stmtNode()              {}
func (b *BlockStmt) String() string {
	if b.Verbatim != "" {
		return b.Verbatim
	}
	if len(b.Stmts) == 0 {
		return "{ }"
	}
	return "{ " + joinNodes(b.Stmts, "; ") + " }"
}

// IsOpaque reports whether the block was stored verbatim.
func (b *BlockStmt) IsOpaque() bool { return b.Verbatim != "" }

// DeclStmt wraps a declaration appearing in statement position.
type DeclStmt struct {
	Decl Decl
}

func (s *DeclStmt) GetSpan() position.Span { return s.Decl.GetSpan() }
func (s *DeclStmt) stmtNode()              {}
func (s *DeclStmt) String() string         { return s.Decl.String() }

// ExprStmt is an expression evaluated for its effect.
type ExprStmt struct {
	X Expr
}

func (s *ExprStmt) GetSpan() position.Span { return s.X.GetSpan() }
func (s *ExprStmt) stmtNode()              {}
func (s *ExprStmt) String() string         { return s.X.String() }

// ForInStmt: [try|try?|try!] [await] for pattern in sequence [where cond] { }
type ForInStmt struct {
	Span     position.Span
	Try      string // "", "try", "try?" or "try!"
	Await    bool
	Pattern  Pattern
	Sequence Expr
	Where    Expr
	Body     *BlockStmt
}

func (s *ForInStmt) GetSpan() position.Span { return s.Span }
func (s *ForInStmt) stmtNode()              {}
func (s *ForInStmt) String() string {
	var sb strings.Builder
	sb.WriteString("for ")
	if s.Try != "" {
		sb.WriteString(s.Try + " ")
	}
	if s.Await {
		sb.WriteString("await ")
	}
	sb.WriteString(s.Pattern.String() + " in " + s.Sequence.String())
	if s.Where != nil {
		sb.WriteString(" where " + s.Where.String())
	}
	sb.WriteString(" " + s.Body.String())
	return sb.String()
}

// WhileStmt: while conditions { }
type WhileStmt struct {
	Span       position.Span
	Conditions []Condition
	Body       *BlockStmt
}

func (s *WhileStmt) GetSpan() position.Span { return s.Span }
func (s *WhileStmt) stmtNode()              {}
func (s *WhileStmt) String() string {
	return "while " + joinNodes(s.Conditions, ", ") + " " + s.Body.String()
}

// RepeatWhileStmt: repeat { } while condition
type RepeatWhileStmt struct {
	Span      position.Span
	Body      *BlockStmt
	Condition Condition
}

func (s *RepeatWhileStmt) GetSpan() position.Span { return s.Span }
func (s *RepeatWhileStmt) stmtNode()              {}
func (s *RepeatWhileStmt) String() string {
	return "repeat " + s.Body.String() + " while " + s.Condition.String()
}

// DoCatchStmt: do { } catch pattern where cond { } ...
type DoCatchStmt struct {
	Span    position.Span
	Body    *BlockStmt
	Catches []*CatchClause
}

func (s *DoCatchStmt) GetSpan() position.Span { return s.Span }
func (s *DoCatchStmt) stmtNode()              {}
func (s *DoCatchStmt) String() string {
	out := "do " + s.Body.String()
	for _, c := range s.Catches {
		out += " " + c.String()
	}
	return out
}

// CatchClause is one handler; with neither Pattern nor Where it is the
// catch-all.
type CatchClause struct {
	Span    position.Span
	Pattern Pattern
	Where   Expr
	Body    *BlockStmt
}

func (c *CatchClause) GetSpan() position.Span { return c.Span }
func (c *CatchClause) String() string {
	s := "catch"
	if c.Pattern != nil {
		s += " " + c.Pattern.String()
	}
	if c.Where != nil {
		s += " where " + c.Where.String()
	}
	return s + " " + c.Body.String()
}

// IsCatchAll reports whether the clause matches every error.
func (c *CatchClause) IsCatchAll() bool { return c.Pattern == nil && c.Where == nil }

// IfStmt: if conditions { } else ...; Else is a *BlockStmt or *IfStmt.
type IfStmt struct {
	Span       position.Span
	Conditions []Condition
	Then       *BlockStmt
	Else       Stmt
}

func (s *IfStmt) GetSpan() position.Span { return s.Span }
func (s *IfStmt) stmtNode()              {}
func (s *IfStmt) String() string {
	out := "if " + joinNodes(s.Conditions, ", ") + " " + s.Then.String()
	if s.Else != nil {
		out += " else " + s.Else.String()
	}
	return out
}

// GuardStmt: guard conditions else { }
type GuardStmt struct {
	Span       position.Span
	Conditions []Condition
	Else       *BlockStmt
}

func (s *GuardStmt) GetSpan() position.Span { return s.Span }
func (s *GuardStmt) stmtNode()              {}
func (s *GuardStmt) String() string {
	return "guard " + joinNodes(s.Conditions, ", ") + " else " + s.Else.String()
}

// SwitchStmt: switch subject { case ...: ... default: ... }
type SwitchStmt struct {
	Span    position.Span
	Subject Expr
	Cases   []*CaseClause // in source order, default included
}

func (s *SwitchStmt) GetSpan() position.Span { return s.Span }
func (s *SwitchStmt) stmtNode()              {}
func (s *SwitchStmt) String() string {
	if len(s.Cases) == 0 {
		return "switch " + s.Subject.String() + " { }"
	}
	return "switch " + s.Subject.String() + " { " + joinNodes(s.Cases, " ") + " }"
}

// DefaultClause returns the default clause, or nil.
func (s *SwitchStmt) DefaultClause() *CaseClause {
	for _, c := range s.Cases {
		if c.Default {
			return c
		}
	}
	return nil
}

// CaseClause is a case or default label with the statements it guards.
// Body may be empty.
type CaseClause struct {
	Span    position.Span
	Default bool
	Items   []*CaseItem // empty for default
	Body    []Stmt
}

func (c *CaseClause) GetSpan() position.Span { return c.Span }
func (c *CaseClause) String() string {
	head := "default:"
	if !c.Default {
		head = "case " + joinNodes(c.Items, ", ") + ":"
	}
	if len(c.Body) == 0 {
		return head
	}
	return head + " " + joinNodes(c.Body, "; ")
}

// CaseItem is one pattern [where guard] arm of a case label.
type CaseItem struct {
	Span    position.Span
	Pattern Pattern
	Where   Expr
}

func (c *CaseItem) GetSpan() position.Span { return c.Span }
func (c *CaseItem) String() string {
	if c.Where != nil {
		return c.Pattern.String() + " where " + c.Where.String()
	}
	return c.Pattern.String()
}

// LabeledStmt: label: statement
type LabeledStmt struct {
	Span  position.Span
	Label *Ident
	Stmt  Stmt
}

func (s *LabeledStmt) GetSpan() position.Span { return s.Span }
func (s *LabeledStmt) stmtNode()              {}
func (s *LabeledStmt) String() string         { return s.Label.Name + ": " + s.Stmt.String() }

// ThrowStmt: throw value
type ThrowStmt struct {
	Span  position.Span
	Value Expr
}

func (s *ThrowStmt) GetSpan() position.Span { return s.Span }
func (s *ThrowStmt) stmtNode()              {}
func (s *ThrowStmt) String() string         { return "throw " + s.Value.String() }

// ReturnStmt: return [value]
type ReturnStmt struct {
	Span  position.Span
	Value Expr
}

func (s *ReturnStmt) GetSpan() position.Span { return s.Span }
func (s *ReturnStmt) stmtNode()              {}
func (s *ReturnStmt) String() string {
	if s.Value == nil {
		return "return"
	}
	return "return " + s.Value.String()
}

// BranchStmt is break, continue or fallthrough.
type BranchStmt struct {
	Span    position.Span
	Keyword string
	Label   *Ident // break and continue only
}

func (s *BranchStmt) GetSpan() position.Span { return s.Span }
func (s *BranchStmt) stmtNode()              {}
func (s *BranchStmt) String() string {
	if s.Label != nil {
		return s.Keyword + " " + s.Label.Name
	}
	return s.Keyword
}

// DeferStmt: defer { }
type DeferStmt struct {
	Span position.Span
	Body *BlockStmt
}

func (s *DeferStmt) GetSpan() position.Span { return s.Span }
func (s *DeferStmt) stmtNode()              {}
func (s *DeferStmt) String() string         { return "defer " + s.Body.String() }

// ExprCondition is a boolean expression condition.
type ExprCondition struct {
	X Expr
}

func (c *ExprCondition) GetSpan() position.Span { return c.X.GetSpan() }
func (c *ExprCondition) conditionNode()         {}
func (c *ExprCondition) String() string         { return c.X.String() }

// CaseCondition: case pattern = value
type CaseCondition struct {
	Span    position.Span
	Pattern Pattern
	Value   Expr
}

func (c *CaseCondition) GetSpan() position.Span { return c.Span }
func (c *CaseCondition) conditionNode()         {}
func (c *CaseCondition) String() string {
	return "case " + c.Pattern.String() + " = " + c.Value.String()
}

// BindingCondition: [async] let|var pattern [: type] [= value]
type BindingCondition struct {
	Span       position.Span
	Async      bool
	Introducer string // "let" or "var"
	Pattern    Pattern
	Type       Type
	Value      Expr // nil for the shorthand if let x
}

func (c *BindingCondition) GetSpan() position.Span { return c.Span }
func (c *BindingCondition) conditionNode()         {}
func (c *BindingCondition) String() string {
	s := c.Introducer + " " + c.Pattern.String()
	if c.Async {
		s = "async " + s
	}
	if c.Type != nil {
		s += ": " + c.Type.String()
	}
	if c.Value != nil {
		s += " = " + c.Value.String()
	}
	return s
}
