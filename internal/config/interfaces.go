package config

import "context"

// SecretProvider abstracts the retrieval of parameter values so that the
// loader can resolve _SSM_PARAM pointers from SSM in deployed environments and
// from the plain environment locally.
type SecretProvider interface {
	// GetParametersBatch resolves the given parameter paths. Only keys that
	// were found appear in the returned map.
	GetParametersBatch(ctx context.Context, keys []string) (map[string]string, error)
}
