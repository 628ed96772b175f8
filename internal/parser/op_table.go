package parser

import "doclint/internal/token"

// Таблица приоритетов бинарных операторов шаблона
// Чем больше число, тем выше приоритет
const (
	precOr             = 1 // or
	precAnd            = 2 // and
	precNot            = 3 // унарный not
	precCompare        = 4 // == != < <= > >= in, not in
	precAdditive       = 5 // + -
	precConcat         = 6 // ~
	precMultiplicative = 7 // * / // %
	precPower          = 8 // **
)

// binaryOp returns the precedence of the operator at the current token and
// how many tokens it spans ("not in" is two). Zero precedence means no operator.
func (p *Parser) binaryOp() (prec, width int) {
	switch p.tok.Kind {
	case token.KwOr:
		return precOr, 1
	case token.KwAnd:
		return precAnd, 1
	case token.EqEq, token.BangEq, token.Lt, token.LtEq, token.Gt, token.GtEq, token.KwIn:
		return precCompare, 1
	case token.KwNot:
		if p.lx.Peek().Kind == token.KwIn {
			return precCompare, 2
		}
		return 0, 0
	case token.Plus, token.Minus:
		return precAdditive, 1
	case token.Tilde:
		return precConcat, 1
	case token.Star, token.Slash, token.SlashSlash, token.Percent:
		return precMultiplicative, 1
	case token.StarStar:
		return precPower, 1
	default:
		return 0, 0
	}
}
