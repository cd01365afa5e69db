package cache

import (
	"github.com/hutsix/hutsixassets-go/internal/domain"
)

// Ensure BadgerCache implements domain.Cache
var _ domain.Cache = (*BadgerCache)(nil)

// Options contains cache configuration options
type Options struct {
	// Directory defaults to ~/.hutsixassets/cache
	Directory string
	InMemory  bool
	// Logger enables badger's own logging
	Logger bool
}
