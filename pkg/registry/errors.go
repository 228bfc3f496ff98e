// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registry

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes sent in JSON error bodies.
const (
	// ErrCodeAssetUnknown indicates no asset is registered at the path.
	ErrCodeAssetUnknown = "ASSET_UNKNOWN"
	// ErrCodeAssetUnavailable indicates the asset could not be produced.
	ErrCodeAssetUnavailable = "ASSET_UNAVAILABLE"
	// ErrCodeUnsupported indicates the method is not supported.
	ErrCodeUnsupported = "UNSUPPORTED"
)

// ErrorDescriptor is a single error in an error response body.
type ErrorDescriptor struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  any    `json:"detail,omitempty"`
}

// ErrorResponse is the JSON body of a 4xx/5xx response.
type ErrorResponse struct {
	Errors []ErrorDescriptor `json:"errors"`
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, detail any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Errors: []ErrorDescriptor{{Code: code, Message: message, Detail: detail}},
	})
}

// Error implements the error interface.
func (e ErrorDescriptor) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
