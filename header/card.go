package header

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/fitsimage/errs"
)

// Card is one decoded header card.
//
// Value holds a string, bool, int64 or float64; nil means the keyword has an
// undefined value. Commentary cards (COMMENT, HISTORY, blank keyword) carry
// their text as a string Value.
type Card struct {
	Keyword string
	Value   any
	Comment string
}

// IsCommentary reports whether the card is a COMMENT, HISTORY or blank card.
func (c Card) IsCommentary() bool {
	return c.Keyword == KeyComment || c.Keyword == KeyHistory || c.Keyword == ""
}

// ParseCard decodes one 80-byte card. Shorter input is padded with spaces.
//
// An unparsable value returns an error wrapping errs.ErrHeader together with
// a card whose Value is the raw value text.
func ParseCard(raw []byte) (Card, error) {
	text := string(raw)
	if len(text) < CardSize {
		text += strings.Repeat(" ", CardSize-len(text))
	}
	text = text[:CardSize]

	card := Card{Keyword: strings.TrimRight(text[:8], " ")}

	if text[8:10] != "= " || card.IsCommentary() || card.Keyword == KeyEnd {
		if card.IsCommentary() {
			card.Value = strings.TrimRight(text[8:], " ")
		}

		return card, nil
	}

	field := strings.TrimLeft(text[10:], " ")
	if strings.HasPrefix(field, "'") {
		s, rest, ok := parseString(field)
		if !ok {
			card.Value = strings.TrimRight(field, " ")
			return card, fmt.Errorf("%w: %s: unterminated string", errs.ErrHeader, card.Keyword)
		}
		card.Value = s
		card.Comment = commentOf(rest)

		return card, nil
	}

	token, comment, _ := strings.Cut(field, "/")
	card.Comment = strings.TrimSpace(comment)
	token = strings.TrimSpace(token)

	value, err := parseValue(token)
	if err != nil {
		card.Value = token
		return card, fmt.Errorf("%w: %s: %w", errs.ErrHeader, card.Keyword, err)
	}
	card.Value = value

	return card, nil
}

// parseString decodes a quoted string starting at field[0]. Doubled quotes
// are literal quotes and trailing spaces are insignificant.
func parseString(field string) (string, string, bool) {
	var sb strings.Builder
	for i := 1; i < len(field); i++ {
		if field[i] != '\'' {
			sb.WriteByte(field[i])
			continue
		}
		if i+1 < len(field) && field[i+1] == '\'' {
			sb.WriteByte('\'')
			i++

			continue
		}

		return strings.TrimRight(sb.String(), " "), field[i+1:], true
	}

	return "", "", false
}

func commentOf(rest string) string {
	_, comment, found := strings.Cut(rest, "/")
	if !found {
		return ""
	}

	return strings.TrimSpace(comment)
}

func parseValue(token string) (any, error) {
	switch token {
	case "":
		return nil, nil
	case "T":
		return true, nil
	case "F":
		return false, nil
	}

	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return i, nil
	}

	f, err := strconv.ParseFloat(strings.NewReplacer("D", "E", "d", "e").Replace(token), 64)
	if err != nil {
		return nil, fmt.Errorf("unrecognized value %q", token)
	}

	return f, nil
}
