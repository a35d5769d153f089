package signature

import (
	"crypto/md5"
	"encoding/hex"
	"hash"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/port"
)

type md5Verifier struct {
	h hash.Hash
}

// NewMD5 returns the default content verifier rendering digests as lowercase hex
func NewMD5() port.SignatureVerifier {
	return &md5Verifier{h: md5.New()}
}

func (v *md5Verifier) Write(p []byte) (int, error) {
	return v.h.Write(p)
}

func (v *md5Verifier) Sum() string {
	return hex.EncodeToString(v.h.Sum(nil))
}

func (v *md5Verifier) Name() string {
	return "md5"
}
