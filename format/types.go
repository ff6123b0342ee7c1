package format

type (
	// DataType is the on-disk sample representation, identified by BITPIX.
	DataType int8
	// MaskPolicy selects whether the magic-value mask is applied.
	MaskPolicy uint8
	// CompressionType selects how resident tiles are held in the cache.
	CompressionType uint8
)

const (
	TypeInvalid DataType = 0   // TypeInvalid marks an unrecognized BITPIX.
	TypeInt16   DataType = 16  // TypeInt16 is BITPIX = 16, big-endian two's complement.
	TypeFloat32 DataType = -32 // TypeFloat32 is BITPIX = -32, big-endian IEEE 754.

	MaskDefault    MaskPolicy = 0x0 // MaskDefault applies the format's intrinsic mask.
	MaskApply      MaskPolicy = 0x1 // MaskApply applies the magic-value mask explicitly.
	MaskDoNotApply MaskPolicy = 0x2 // MaskDoNotApply reports every pixel as valid.

	CompressionNone CompressionType = 0x1 // CompressionNone keeps tiles as raw bytes.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// DataTypeFromBITPIX maps a BITPIX value onto a supported DataType.
// It returns TypeInvalid for anything other than -32 and 16.
func DataTypeFromBITPIX(bitpix int64) DataType {
	switch bitpix {
	case int64(TypeInt16):
		return TypeInt16
	case int64(TypeFloat32):
		return TypeFloat32
	default:
		return TypeInvalid
	}
}

// Size returns the number of bytes of one sample, or 0 for TypeInvalid.
func (d DataType) Size() int {
	switch d {
	case TypeInt16:
		return 2
	case TypeFloat32:
		return 4
	default:
		return 0
	}
}

// BITPIX returns the header value that declares this data type.
func (d DataType) BITPIX() int {
	return int(d)
}

func (d DataType) String() string {
	switch d {
	case TypeInt16:
		return "Int16"
	case TypeFloat32:
		return "Float32"
	default:
		return "Invalid"
	}
}

func (m MaskPolicy) String() string {
	switch m {
	case MaskDefault:
		return "Default"
	case MaskApply:
		return "Apply"
	case MaskDoNotApply:
		return "DoNotApply"
	default:
		return "Unknown"
	}
}

// Applies reports whether the magic-value mask is honored under this policy.
func (m MaskPolicy) Applies() bool {
	return m != MaskDoNotApply
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
