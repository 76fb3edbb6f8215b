package planfsa

import (
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/aretw0/planfsa/pkg/domain"
)

// Fingerprint identifies a corpus: the SHA-256 of its plans in order.
func Fingerprint(plans []domain.Plan) string {
	h := sha256.New()
	for _, p := range plans {
		io.WriteString(h, "plan\n")
		for _, a := range p {
			io.WriteString(h, a.String())
			io.WriteString(h, "\n")
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
