package id

import "github.com/google/uuid"

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() string
}

// UUIDGenerator issues random v4 identifiers, used for pipeline run IDs.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// Fixed always returns the same ID; test helper.
type Fixed string

func (f Fixed) NewID() string {
	return string(f)
}
