package utils

import (
	"github.com/google/uuid"
)

// NewEntityID returns an opaque unique id for any graph entity.
func NewEntityID() string {
	return uuid.New().String()
}
