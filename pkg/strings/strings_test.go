package strings

import (
	"strings"
	"testing"
)

func TestBytesToString(t *testing.T) {
	b := []byte("hello world")
	s := BytesToString(b)

	if s != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", s)
	}

	// Test empty slice
	empty := BytesToString([]byte{})
	if empty != "" {
		t.Errorf("expected empty string, got '%s'", empty)
	}
}

func TestStringToBytes(t *testing.T) {
	s := "hello world"
	b := StringToBytes(s)

	if string(b) != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", string(b))
	}

	// Test empty string
	empty := StringToBytes("")
	if empty != nil {
		t.Errorf("expected nil slice, got %v", empty)
	}
}

func TestClone(t *testing.T) {
	original := strings.Repeat("x", 64)
	cloned := Clone(original)

	if cloned != original {
		t.Errorf("clone differs from original")
	}
	if Clone("") != "" {
		t.Errorf("expected empty clone")
	}
}

func TestBuilder(t *testing.T) {
	builder := NewBuilder(32)

	builder.WriteString("hello")
	builder.WriteByte(' ')
	builder.WriteString("world")

	result := builder.String()
	if result != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", result)
	}

	if builder.Len() != 11 {
		t.Errorf("expected length 11, got %d", builder.Len())
	}

	builder.Reset()
	if builder.Len() != 0 {
		t.Errorf("expected length 0 after reset, got %d", builder.Len())
	}
}

func TestBuilderWriteInt(t *testing.T) {
	builder := NewBuilder(16)

	builder.WriteInt(-42)
	builder.WriteByte(' ')
	builder.WriteUint(255)

	if got := builder.String(); got != "-42 255" {
		t.Errorf("expected '-42 255', got '%s'", got)
	}
}

func TestBuilderGrow(t *testing.T) {
	builder := NewBuilder(2)

	builder.Grow(100)
	if builder.Cap() < 100 {
		t.Errorf("expected capacity >= 100, got %d", builder.Cap())
	}

	builder.WriteString("data")
	if builder.String() != "data" {
		t.Errorf("grow corrupted contents: '%s'", builder.String())
	}
}

func TestBuilderWrite(t *testing.T) {
	builder := NewBuilder(8)

	n, err := builder.Write([]byte("abc"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 bytes written, got %d", n)
	}
	if builder.String() != "abc" {
		t.Errorf("expected 'abc', got '%s'", builder.String())
	}
}

func TestGetPutBuilder(t *testing.T) {
	for _, size := range []BuilderSize{Small, Medium, Large} {
		builder := GetBuilder(size)
		if builder.Len() != 0 {
			t.Errorf("pooled builder not reset, len %d", builder.Len())
		}
		builder.WriteString("scratch")
		PutBuilder(builder, size)

		again := GetBuilder(size)
		if again.Len() != 0 {
			t.Errorf("reused builder not reset, len %d", again.Len())
		}
		PutBuilder(again, size)
	}

	// Nil is tolerated.
	PutBuilder(nil, Small)
}

func TestConcat(t *testing.T) {
	cases := []struct {
		parts []string
		want  string
	}{
		{nil, ""},
		{[]string{"solo"}, "solo"},
		{[]string{"a", "b", "c"}, "abc"},
		{[]string{"image", ".ppm", ".gz"}, "image.ppm.gz"},
	}
	for _, tc := range cases {
		if got := Concat(tc.parts...); got != tc.want {
			t.Errorf("Concat(%v) = '%s', want '%s'", tc.parts, got, tc.want)
		}
	}
}

func TestSprintf(t *testing.T) {
	got := Sprintf("%s: %d of %d", "progress", 50, 100)
	if got != "progress: 50 of 100" {
		t.Errorf("unexpected result: '%s'", got)
	}

	// No args passes through untouched.
	if Sprintf("plain") != "plain" {
		t.Errorf("expected passthrough for no-arg format")
	}
}

func BenchmarkSprintf(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Sprintf("slot %d of %d", i, 1024)
	}
}

func BenchmarkBuilderReuse(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		builder := GetBuilder(Small)
		builder.WriteString("255 128 0")
		builder.WriteByte('\n')
		_ = builder.String()
		PutBuilder(builder, Small)
	}
}
