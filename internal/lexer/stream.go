package lexer

import "iter"

// Tokens returns the token sequence of src. The sequence is lazy and
// restartable: each range over it starts a fresh lexer. It yields every
// token, including TokenIllegal ones paired with their *LexError, and ends
// after TokenEOF.
func Tokens(filename, src string) iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		l := NewWithFilename(src, filename)
		for {
			tok, err := l.NextToken()
			if !yield(tok, err) || tok.Type == TokenEOF {
				return
			}
		}
	}
}

// All tokenizes src completely. Illegal tokens are dropped from the result
// and reported through the error slice.
func All(filename, src string) ([]Token, []*LexError) {
	var (
		toks []Token
		errs []*LexError
	)
	for tok, err := range Tokens(filename, src) {
		if err != nil {
			if lexErr, ok := err.(*LexError); ok {
				errs = append(errs, lexErr)
			}
			continue
		}
		toks = append(toks, tok)
	}
	return toks, errs
}
