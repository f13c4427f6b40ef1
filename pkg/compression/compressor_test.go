package compression

import (
	"bytes"
	"testing"
)

var sample = []byte("This is a test string that will be compressed and decompressed. " +
	"It contains some repetitive content content content to improve compression ratio. " +
	"255 128 0\n255 128 0\n255 128 0\n255 128 0\n255 128 0\n")

func TestRoundTripAllAlgorithms(t *testing.T) {
	for _, algorithm := range []Algorithm{None, Gzip, Snappy, LZ4, Zstd} {
		t.Run(string(algorithm), func(t *testing.T) {
			compressor, err := NewCompressor(&Config{Algorithm: algorithm, Level: Default})
			if err != nil {
				t.Fatalf("Failed to create %s compressor: %v", algorithm, err)
			}
			if got := compressor.Algorithm(); got != algorithm {
				t.Errorf("Algorithm() = %s, want %s", got, algorithm)
			}

			compressed, err := compressor.Compress(sample)
			if err != nil {
				t.Fatalf("Failed to compress: %v", err)
			}
			decompressed, err := compressor.Decompress(compressed)
			if err != nil {
				t.Fatalf("Failed to decompress: %v", err)
			}
			if !bytes.Equal(sample, decompressed) {
				t.Errorf("Decompressed data doesn't match original")
			}
		})
	}
}

func TestStreamRoundTripAllAlgorithms(t *testing.T) {
	for _, algorithm := range []Algorithm{None, Gzip, Snappy, LZ4, Zstd} {
		t.Run(string(algorithm), func(t *testing.T) {
			compressor, err := NewCompressor(&Config{Algorithm: algorithm, Level: Fastest})
			if err != nil {
				t.Fatalf("Failed to create %s compressor: %v", algorithm, err)
			}

			var compressed bytes.Buffer
			if err := compressor.CompressStream(&compressed, bytes.NewReader(sample)); err != nil {
				t.Fatalf("Failed to compress stream: %v", err)
			}

			var decompressed bytes.Buffer
			if err := compressor.DecompressStream(&decompressed, &compressed); err != nil {
				t.Fatalf("Failed to decompress stream: %v", err)
			}
			if !bytes.Equal(sample, decompressed.Bytes()) {
				t.Errorf("Stream round trip doesn't match original")
			}
		})
	}
}

func TestLZ4Levels(t *testing.T) {
	for _, level := range []Level{Fastest, Default, Better, Best} {
		t.Run(level.String(), func(t *testing.T) {
			compressor, err := NewCompressor(&Config{Algorithm: LZ4, Level: level})
			if err != nil {
				t.Fatalf("Failed to create LZ4 compressor at %s: %v", level.String(), err)
			}
			if got := compressor.Level(); got != level {
				t.Errorf("Level() = %v, want %v", got, level)
			}

			compressed, err := compressor.Compress(sample)
			if err != nil {
				t.Fatalf("Failed to compress: %v", err)
			}
			decompressed, err := compressor.Decompress(compressed)
			if err != nil {
				t.Fatalf("Failed to decompress: %v", err)
			}
			if !bytes.Equal(sample, decompressed) {
				t.Errorf("Round trip at %s doesn't match original", level.String())
			}
		})
	}
}

func TestCompressorPool(t *testing.T) {
	pool := NewCompressorPool(&Config{Algorithm: Zstd, Level: Default})

	for i := 0; i < 8; i++ {
		compressed, err := pool.Compress(sample)
		if err != nil {
			t.Fatalf("Pooled compress failed: %v", err)
		}
		decompressed, err := pool.Decompress(compressed)
		if err != nil {
			t.Fatalf("Pooled decompress failed: %v", err)
		}
		if !bytes.Equal(sample, decompressed) {
			t.Fatalf("Pooled round trip doesn't match original")
		}
	}
}

func TestNewCompressorRejectsUnknownAlgorithm(t *testing.T) {
	if _, err := NewCompressor(&Config{Algorithm: "brotli"}); err == nil {
		t.Error("expected error for unsupported algorithm")
	}
}

func TestNewCompressorNilConfigUsesDefault(t *testing.T) {
	compressor, err := NewCompressor(nil)
	if err != nil {
		t.Fatalf("Failed to create default compressor: %v", err)
	}
	if got := compressor.Algorithm(); got != Snappy {
		t.Errorf("default algorithm = %s, want %s", got, Snappy)
	}
}

func TestParseAlgorithm(t *testing.T) {
	cases := []struct {
		in      string
		want    Algorithm
		wantErr bool
	}{
		{"", None, false},
		{"none", None, false},
		{"GZIP", Gzip, false},
		{"Zstd", Zstd, false},
		{"lz4", LZ4, false},
		{"snappy", Snappy, false},
		{"brotli", "", true},
	}
	for _, tc := range cases {
		got, err := ParseAlgorithm(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseAlgorithm(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAlgorithm(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseAlgorithm(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"", Default, false},
		{"default", Default, false},
		{"FASTEST", Fastest, false},
		{"better", Better, false},
		{"best", Best, false},
		{"11", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseLevel(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseLevel(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLevel(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestAlgorithmExtension(t *testing.T) {
	cases := map[Algorithm]string{
		None:   "",
		Gzip:   ".gz",
		Snappy: ".sz",
		LZ4:    ".lz4",
		Zstd:   ".zst",
	}
	for algorithm, want := range cases {
		if got := algorithm.Extension(); got != want {
			t.Errorf("%s.Extension() = %q, want %q", algorithm, got, want)
		}
	}
}

func TestLevelString(t *testing.T) {
	cases := map[Level]string{
		Fastest:  "fastest",
		Default:  "default",
		Better:   "better",
		Best:     "best",
		Level(3): "level(3)",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", int(level), got, want)
		}
	}
}

func BenchmarkCompressZstd(b *testing.B) {
	pool := NewCompressorPool(&Config{Algorithm: Zstd, Level: Fastest})
	b.ReportAllocs()
	b.SetBytes(int64(len(sample)))
	for i := 0; i < b.N; i++ {
		if _, err := pool.Compress(sample); err != nil {
			b.Fatal(err)
		}
	}
}
