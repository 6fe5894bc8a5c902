package gitlib

import (
	"fmt"
	"time"
)

// Signature identifies who wrote or committed a change and when.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// String formats the signature the way git prints authors, the name followed
// by the email in angle brackets.
func (s Signature) String() string {
	return fmt.Sprintf("%s <%s>", s.Name, s.Email)
}
