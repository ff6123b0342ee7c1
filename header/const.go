package header

const (
	// BlockSize is the size of every FITS header and data record.
	BlockSize = 2880
	// CardSize is the size of one header card.
	CardSize = 80
	// CardsPerBlock is the number of cards in one header block.
	CardsPerBlock = BlockSize / CardSize

	// MaxAxes is the largest NAXIS the format allows.
	MaxAxes = 999
	// MaxHeaderBlocks bounds how far ReadHeader scans for END.
	MaxHeaderBlocks = 10000
)

// Reserved keywords.
const (
	KeySimple  = "SIMPLE"
	KeyBitpix  = "BITPIX"
	KeyNaxis   = "NAXIS"
	KeyExtend  = "EXTEND"
	KeyEnd     = "END"
	KeyBscale  = "BSCALE"
	KeyBzero   = "BZERO"
	KeyBlank   = "BLANK"
	KeyBunit   = "BUNIT"
	KeyBmaj    = "BMAJ"
	KeyBmin    = "BMIN"
	KeyBpa     = "BPA"
	KeyObject  = "OBJECT"
	KeyComment = "COMMENT"
	KeyHistory = "HISTORY"
)
