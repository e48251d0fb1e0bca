package auth

import "testing"

func TestHashProducesDistinctDigests(t *testing.T) {
	t.Parallel()

	hasher := NewHasher(4)
	first, err := hasher.Hash("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := hasher.Hash("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatalf("expected salted digests to differ")
	}
	if !hasher.Verify("password123", first) || !hasher.Verify("password123", second) {
		t.Fatalf("expected both digests to verify")
	}
}

func TestVerifyMismatchReturnsFalse(t *testing.T) {
	t.Parallel()

	hasher := NewHasher(4)
	digest, err := hasher.Hash("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hasher.Verify("battery staple", digest) {
		t.Fatalf("expected mismatch to verify false")
	}
	if hasher.Verify("", digest) {
		t.Fatalf("expected empty password to verify false")
	}
	if hasher.Verify("correct horse", "not-a-bcrypt-digest") {
		t.Fatalf("expected garbage digest to verify false")
	}
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	t.Parallel()

	hasher := NewHasher(4)
	if _, err := hasher.Hash(""); err == nil {
		t.Fatalf("expected error for empty password")
	}
}

func TestNewHasherClampsCost(t *testing.T) {
	t.Parallel()

	// Out-of-range costs fall back to the bcrypt default rather than failing
	// at hash time.
	hasher := NewHasher(99)
	digest, err := hasher.Hash("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !hasher.Verify("password123", digest) {
		t.Fatalf("expected digest to verify")
	}
}
