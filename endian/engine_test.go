package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetFITSEngine(t *testing.T) {
	engine := GetFITSEngine()
	require.Equal(t, binary.BigEndian, engine)

	// BITPIX=16 sample -32768 is stored as 0x80 0x00.
	buf := []byte{0x80, 0x00}
	require.Equal(t, int16(-32768), int16(engine.Uint16(buf)))

	// BITPIX=-32 sample 1.0 is stored as 0x3F 0x80 0x00 0x00.
	buf = engine.AppendUint32(nil, 0x3F800000)
	require.Equal(t, []byte{0x3F, 0x80, 0x00, 0x00}, buf)
}
