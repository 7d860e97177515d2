// Package provider implements translation backends.
package provider

import "github.com/ZaguanLabs/ltproxy"

// Backend is the interface for upstream translation services.
// This is an alias to the main package interface for convenience.
type Backend = ltproxy.Backend

// TranslationRequest is an alias to the main package type.
type TranslationRequest = ltproxy.TranslationRequest
