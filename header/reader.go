package header

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/fitsimage/errs"
)

// Header is the decoded primary header.
type Header struct {
	// Cards holds every card before END, in file order.
	Cards []Card
	// Size is the byte length of all header blocks, a multiple of BlockSize.
	Size int64
	// Raw holds the header blocks as read, used to fingerprint the file.
	Raw []byte
	// Malformed lists keywords whose values could not be parsed.
	Malformed []string
}

// ReadHeader reads whole header blocks from r until the block containing END.
//
// The first card must be SIMPLE = T. Reading stops after the END block, so r
// is left positioned at the start of the data region.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header
	block := make([]byte, BlockSize)

	for blockIdx := 0; ; blockIdx++ {
		if blockIdx >= MaxHeaderBlocks {
			return Header{}, fmt.Errorf("%w: no END card in first %d blocks", errs.ErrHeader, MaxHeaderBlocks)
		}

		if _, err := io.ReadFull(r, block); err != nil {
			if blockIdx == 0 {
				return Header{}, fmt.Errorf("%w: %w", errs.ErrNotFITS, err)
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return Header{}, fmt.Errorf("%w: missing END card", errs.ErrHeader)
			}

			return Header{}, fmt.Errorf("%w: read block %d: %w", errs.ErrHeader, blockIdx, err)
		}
		h.Raw = append(h.Raw, block...)
		h.Size += BlockSize

		for i := range CardsPerBlock {
			card, err := ParseCard(block[i*CardSize : (i+1)*CardSize])
			if err != nil {
				h.Malformed = append(h.Malformed, card.Keyword)
			}

			if blockIdx == 0 && i == 0 {
				if card.Keyword != KeySimple || card.Value != true {
					return Header{}, errs.ErrNotFITS
				}
			}

			if card.Keyword == KeyEnd {
				return h, nil
			}
			h.Cards = append(h.Cards, card)
		}
	}
}

// Lookup returns the last card with the given keyword.
func (h Header) Lookup(keyword string) (Card, bool) {
	for i := len(h.Cards) - 1; i >= 0; i-- {
		if h.Cards[i].Keyword == keyword {
			return h.Cards[i], true
		}
	}

	return Card{}, false
}
