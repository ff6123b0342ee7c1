package fitsimage

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/fitsimage/compress"
	"github.com/arloliu/fitsimage/format"
	"github.com/arloliu/fitsimage/internal/options"
	"github.com/arloliu/fitsimage/tile"
)

// Option configures Open.
type Option = options.Option[*config]

type config struct {
	maskPolicy   format.MaskPolicy
	tileHint     int
	maxCacheSize int
	compression  format.CompressionType
	logger       *slog.Logger
}

func defaultConfig() *config {
	return &config{
		maskPolicy:  format.MaskDefault,
		tileHint:    tile.DefaultTilePixels,
		compression: format.CompressionNone,
		logger:      slog.Default(),
	}
}

// WithMaskPolicy selects whether magic values mask pixels. MaskDoNotApply
// reports every pixel as valid.
func WithMaskPolicy(policy format.MaskPolicy) Option {
	return options.New(func(c *config) error {
		switch policy {
		case format.MaskDefault, format.MaskApply, format.MaskDoNotApply:
			c.maskPolicy = policy
			return nil
		default:
			return fmt.Errorf("invalid mask policy: %d", policy)
		}
	})
}

// WithTileHint sets the target number of pixels per cached tile.
// Zero selects the default of 32768.
func WithTileHint(pixels int) Option {
	return options.New(func(c *config) error {
		if pixels < 0 {
			return fmt.Errorf("tile hint %d is negative", pixels)
		}
		c.tileHint = pixels

		return nil
	})
}

// WithMaxCacheSize sets the initial cache ceiling in pixels. Zero means
// unlimited; negative values are clipped to zero.
func WithMaxCacheSize(pixels int) Option {
	return options.NoError(func(c *config) {
		c.maxCacheSize = max(0, pixels)
	})
}

// WithCacheCompression keeps cached tiles compressed with the given codec.
func WithCacheCompression(compressionType format.CompressionType) Option {
	return options.New(func(c *config) error {
		if _, err := compress.GetCodec(compressionType); err != nil {
			return err
		}
		c.compression = compressionType

		return nil
	})
}

// WithLogger sets the structured logger. A nil logger keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	})
}
