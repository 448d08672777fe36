package cache

import goerrors "github.com/jmgilman/go/errors"

// errNotFound builds the error Get returns when the key is absent.
func errNotFound(key any) goerrors.PlatformError {
	return goerrors.Newf(goerrors.CodeNotFound, "cache: key %v not found", key)
}

// IsNotFound reports whether err represents a cache miss on Get.
func IsNotFound(err error) bool {
	pe, ok := err.(goerrors.PlatformError)
	return ok && pe.Code() == goerrors.CodeNotFound
}
