package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name string
		data string
		id   uint64
	}{
		{"empty string", "", 0xef46db3751d8e999},
		{"short string", "test", 0x4fdcca5ddb678139},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.id, Fingerprint([]byte(tt.data)))
		})
	}
}

func TestFingerprintDetectsChange(t *testing.T) {
	block := make([]byte, 2880)
	copy(block, "SIMPLE  =                    T")
	before := Fingerprint(block)

	block[100] = 'X'
	assert.NotEqual(t, before, Fingerprint(block))
}

func BenchmarkFingerprint(b *testing.B) {
	block := make([]byte, 2880*4)
	for b.Loop() {
		Fingerprint(block)
	}
}
