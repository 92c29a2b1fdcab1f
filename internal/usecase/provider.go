// Package usecase holds one transaction script per business operation. Each
// use case validates input shape, checks authorization against the caller's
// persisted role map, then loads, mutates and saves through a repository. No
// broadcast logic lives here; fan-out is the gateway's job.
package usecase

import (
	"time"

	"github.com/google/uuid"
)

// IDProvider issues identifiers for newly created entities.
type IDProvider interface {
	NewID() (string, error)
}

// Clock supplies the current time; injectable for tests.
type Clock func() time.Time

type uuidProvider struct{}

// NewUUIDProvider constructs an IDProvider that issues UUIDv7 identifiers.
func NewUUIDProvider() IDProvider {
	return &uuidProvider{}
}

func (p *uuidProvider) NewID() (string, error) {
	value, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return value.String(), nil
}
