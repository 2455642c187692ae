package util

import "testing"

func TestBatchSplitsEvenly(t *testing.T) {
	chunks := Batch([]int{1, 2, 3, 4, 5, 6}, 2)
	if len(chunks) != 3 {
		t.Fatalf("expect 3 chunks, got %d", len(chunks))
	}
}

func TestBatchLastChunkSmaller(t *testing.T) {
	chunks := Batch([]int{1, 2, 3, 4, 5}, 2)
	if len(chunks) != 3 {
		t.Fatalf("expect 3 chunks, got %d", len(chunks))
	}
	if len(chunks[2]) != 1 {
		t.Fatalf("expect last chunk of size 1, got %d", len(chunks[2]))
	}
}

func TestBatchZeroSize(t *testing.T) {
	chunks := Batch([]int{1, 2, 3}, 0)
	if len(chunks) != 1 || len(chunks[0]) != 3 {
		t.Fatalf("expect single chunk with all items, got %v", chunks)
	}
	if Batch([]int{}, 0) != nil {
		t.Fatalf("expect nil for empty input")
	}
}

func TestHashBytesStable(t *testing.T) {
	a := HashBytes([]byte("1,Alice\n"))
	b := HashBytes([]byte("1,Alice\n"))
	c := HashBytes([]byte("2,Bob\n"))
	if a != b {
		t.Fatalf("same content should hash equal")
	}
	if a == c {
		t.Fatalf("different content should hash differently")
	}
}
