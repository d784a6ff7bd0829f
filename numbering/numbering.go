/*
Package numbering generates document numbers for ledger records.

PURPOSE:
  Protocol, commitment and payment numbers follow the conventions of
  Brazilian public-sector paperwork. The ledger engine treats them as
  opaque strings; uniqueness is enforced by storage, not here. Handlers
  call these factories when a create request omits the number.

FORMATS:
  Protocol:   #####.######/YYYY-##   (e.g. 04213.002901/2026-17)
  Commitment: YYYYNE####             (e.g. 2026NE0042)
  Payment:    YYYYNP####             (e.g. 2026NP0042)
*/
package numbering

import (
	"fmt"
	"math/rand"
	"time"
)

// ProtocolNumber returns a fresh expense protocol number.
func ProtocolNumber() string {
	year := time.Now().Year()
	return fmt.Sprintf("%05d.%06d/%d-%02d",
		rand.Intn(100000), rand.Intn(1000000), year, rand.Intn(100))
}

// CommitmentNumber returns a fresh commitment (nota de empenho) number.
func CommitmentNumber() string {
	return fmt.Sprintf("%dNE%04d", time.Now().Year(), rand.Intn(10000))
}

// PaymentNumber returns a fresh payment (nota de pagamento) number.
func PaymentNumber() string {
	return fmt.Sprintf("%dNP%04d", time.Now().Year(), rand.Intn(10000))
}
