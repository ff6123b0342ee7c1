// Package endian provides the byte order used to decode FITS sample data.
//
// FITS stores every binary value big-endian regardless of the host that wrote
// the file. Decoders take an EndianEngine rather than calling
// binary.BigEndian directly.
//
//	engine := endian.GetFITSEngine()
//	raw := engine.Uint16(buf[0:2])
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// It is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetFITSEngine returns the engine mandated by the FITS standard (big-endian).
func GetFITSEngine() EndianEngine {
	return binary.BigEndian
}
