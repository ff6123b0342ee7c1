package tile

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/fitsimage/compress"
	"github.com/arloliu/fitsimage/format"
	"github.com/arloliu/fitsimage/internal/options"
)

// Option configures a Store.
type Option = options.Option[*config]

type config struct {
	tileHint       int
	maxPixels      int
	compression    format.CompressionType
	logger         *slog.Logger
	fingerprint    uint64
	hasFingerprint bool
}

func defaultConfig() *config {
	return &config{
		tileHint:    DefaultTilePixels,
		compression: format.CompressionNone,
		logger:      slog.Default(),
	}
}

// WithTileHint sets the target number of pixels per tile. Zero selects
// DefaultTilePixels.
func WithTileHint(pixels int) Option {
	return options.New(func(c *config) error {
		if pixels < 0 {
			return fmt.Errorf("tile hint %d is negative", pixels)
		}
		if pixels == 0 {
			pixels = DefaultTilePixels
		}
		c.tileHint = pixels

		return nil
	})
}

// WithMaxCacheSize sets the initial cache ceiling in pixels. Negative values
// are clipped to 0, which means unlimited.
func WithMaxCacheSize(pixels int) Option {
	return options.NoError(func(c *config) {
		c.maxPixels = max(0, pixels)
	})
}

// WithCompression selects how cached tiles are held in memory.
func WithCompression(compressionType format.CompressionType) Option {
	return options.New(func(c *config) error {
		if _, err := compress.GetCodec(compressionType); err != nil {
			return err
		}
		c.compression = compressionType

		return nil
	})
}

// WithLogger sets the logger. A nil logger keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithFingerprint sets the expected hash of the header region [0, loc.Offset).
// Reopen fails if the file no longer matches it.
func WithFingerprint(sum uint64) Option {
	return options.NoError(func(c *config) {
		c.fingerprint = sum
		c.hasFingerprint = true
	})
}
