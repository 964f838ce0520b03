package ast

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/orizon-lang/swiftparse/internal/position"
)

// Modifier is one member of the closed declaration-modifier vocabulary.
type Modifier uint8

const (
	ModInfix Modifier = iota
	ModPostfix
	ModPrefix
	ModMutating
	ModNonmutating
	ModPrivate
	ModFileprivate
	ModInternal
	ModPublic
	ModOpen
	ModIndirect
	ModStatic
	ModClass
	ModFinal
	ModOverride
	ModRequired
	ModConvenience
	ModDynamic
	ModLazy
	ModOptional
	ModWeak
	ModUnowned
	ModNonisolated
	modifierCount
)

var modifierNames = [modifierCount]string{
	ModInfix:       "infix",
	ModPostfix:     "postfix",
	ModPrefix:      "prefix",
	ModMutating:    "mutating",
	ModNonmutating: "nonmutating",
	ModPrivate:     "private",
	ModFileprivate: "fileprivate",
	ModInternal:    "internal",
	ModPublic:      "public",
	ModOpen:        "open",
	ModIndirect:    "indirect",
	ModStatic:      "static",
	ModClass:       "class",
	ModFinal:       "final",
	ModOverride:    "override",
	ModRequired:    "required",
	ModConvenience: "convenience",
	ModDynamic:     "dynamic",
	ModLazy:        "lazy",
	ModOptional:    "optional",
	ModWeak:        "weak",
	ModUnowned:     "unowned",
	ModNonisolated: "nonisolated",
}

var modifierByName = func() map[string]Modifier {
	m := make(map[string]Modifier, modifierCount)
	for i, name := range modifierNames {
		m[name] = Modifier(i)
	}
	return m
}()

func (m Modifier) String() string {
	if m < modifierCount {
		return modifierNames[m]
	}
	return fmt.Sprintf("Modifier(%d)", int(m))
}

// LookupModifier maps a modifier spelling to its tag.
func LookupModifier(word string) (Modifier, bool) {
	m, ok := modifierByName[word]
	return m, ok
}

// IsVisibility reports whether m is one of the five access levels, the only
// modifiers that accept a (set) qualifier.
func (m Modifier) IsVisibility() bool {
	switch m {
	case ModPrivate, ModFileprivate, ModInternal, ModPublic, ModOpen:
		return true
	}
	return false
}

// IsFixity reports whether m is prefix, infix or postfix.
func (m Modifier) IsFixity() bool {
	return m == ModPrefix || m == ModInfix || m == ModPostfix
}

// ModifierTags is a set of modifiers.
type ModifierTags uint32

// Tags builds a tag set from the given modifiers.
func Tags(mods ...Modifier) ModifierTags {
	var t ModifierTags
	for _, m := range mods {
		t = t.With(m)
	}
	return t
}

func (t ModifierTags) Has(m Modifier) bool             { return t&(1<<m) != 0 }
func (t ModifierTags) With(m Modifier) ModifierTags    { return t | 1<<m }
func (t ModifierTags) Without(m Modifier) ModifierTags { return t &^ (1 << m) }
func (t ModifierTags) Len() int                        { return bits.OnesCount32(uint32(t)) }

// List returns the tags in vocabulary order.
func (t ModifierTags) List() []Modifier {
	var out []Modifier
	for m := Modifier(0); m < modifierCount; m++ {
		if t.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

func (t ModifierTags) String() string {
	list := t.List()
	parts := make([]string, len(list))
	for i, m := range list {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}

// Attribute is an @name marker with an optional verbatim argument list.
type Attribute struct {
	Span    position.Span
	Name    string
	Args    string // text between the parentheses, verbatim
	HasArgs bool
}

func (a *Attribute) GetSpan() position.Span { return a.Span }
func (a *Attribute) String() string {
	if a.HasArgs {
		return "@" + a.Name + "(" + a.Args + ")"
	}
	return "@" + a.Name
}

// ModifierSet is the unordered collection of modifiers and attributes
// preceding a declaration. Repeating a tag or an identical attribute has no
// effect.
type ModifierSet struct {
	Span         position.Span // zero when the set is empty
	Tags         ModifierTags
	SetterAccess ModifierTags // visibility levels given as private(set) and friends
	Attributes   []*Attribute
}

// IsEmpty reports whether no modifier or attribute was given.
func (s *ModifierSet) IsEmpty() bool {
	return s.Tags == 0 && s.SetterAccess == 0 && len(s.Attributes) == 0
}

// Has reports whether tag m is present.
func (s *ModifierSet) Has(m Modifier) bool { return s.Tags.Has(m) }

// Add inserts m and reports whether it was new.
func (s *ModifierSet) Add(m Modifier) bool {
	if s.Tags.Has(m) {
		return false
	}
	s.Tags = s.Tags.With(m)
	return true
}

// AddSetter inserts a setter visibility and reports whether it was new.
func (s *ModifierSet) AddSetter(m Modifier) bool {
	if s.SetterAccess.Has(m) {
		return false
	}
	s.SetterAccess = s.SetterAccess.With(m)
	return true
}

// AddAttribute appends a unless an identical attribute is already present.
func (s *ModifierSet) AddAttribute(a *Attribute) bool {
	for _, have := range s.Attributes {
		if have.Name == a.Name && have.HasArgs == a.HasArgs && have.Args == a.Args {
			return false
		}
	}
	s.Attributes = append(s.Attributes, a)
	return true
}

// Attribute returns the first attribute called name, or nil.
func (s *ModifierSet) Attribute(name string) *Attribute {
	for _, a := range s.Attributes {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Extend records span as covered by the set.
func (s *ModifierSet) Extend(span position.Span) {
	if !s.Span.IsValid() {
		s.Span = span
		return
	}
	s.Span = s.Span.Union(span)
}

func (s *ModifierSet) String() string {
	var parts []string
	for _, a := range s.Attributes {
		parts = append(parts, a.String())
	}
	for _, m := range s.SetterAccess.List() {
		parts = append(parts, m.String()+"(set)")
	}
	if s.Tags != 0 {
		parts = append(parts, s.Tags.String())
	}
	return strings.Join(parts, " ")
}
