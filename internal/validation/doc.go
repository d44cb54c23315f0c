// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

// Package validation provides struct validation using go-playground/validator v10.
//
// This package wraps the go-playground/validator library to provide a thread-safe
// singleton validator instance with user-friendly error messages. It integrates
// with the application's API error format for consistent error responses.
//
// # Overview
//
// The package provides:
//   - Thread-safe singleton validator (initialized once, cached struct info)
//   - Error translation to human-readable messages
//   - APIError conversion matching the application's error format
//   - Future v11 compatibility with WithRequiredStructEnabled
//
// # Quick Start
//
//	type StartGoalRequest struct {
//	    GoalID          string `validate:"required"`
//	    GoalName        string `validate:"omitempty,max=100"`
//	    TargetWordCount int    `validate:"min=1,max=10000"`
//	}
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    var req StartGoalRequest
//	    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
//	        // handle decode error
//	    }
//
//	    if verr := validation.ValidateStruct(&req); verr != nil {
//	        apiErr := verr.ToAPIError()
//	        respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	        return
//	    }
//
//	    // proceed with valid request
//	}
//
// # Common Validation Tags
//
// String validations:
//   - required: Field must not be empty
//   - min=n: Minimum length n characters
//   - max=n: Maximum length n characters
//
// Numeric validations:
//   - gte=n: Greater than or equal to n
//   - lte=n: Less than or equal to n
//   - min=n: Minimum value n
//   - max=n: Maximum value n
//
// Enum validations:
//   - oneof=a b c: Must be one of the specified values
//
// # Error Types
//
// ValidationError represents a single field validation failure:
//
//	type ValidationError struct {
//	    Field()   string      // Struct field name
//	    Tag()     string      // Validation tag that failed
//	    Param()   string      // Tag parameter (e.g., "3" for max=3)
//	    Value()   interface{} // Actual value that failed
//	    Error()   string      // Human-readable message
//	}
//
// RequestValidationError aggregates multiple field errors:
//
//	type RequestValidationError struct {
//	    Errors() []ValidationError
//	    Error()  string           // Combined message
//	    ToAPIError() *APIError    // Convert to API error format
//	}
//
// # API Error Integration
//
// The ToAPIError method produces errors matching the application format:
//
//	// Single field error
//	{
//	    "code": "bad_request",
//	    "message": "SelfRating must be at most 3",
//	    "details": {"field": "SelfRating", "tag": "max", "value": 9}
//	}
//
//	// Multiple field errors
//	{
//	    "code": "bad_request",
//	    "message": "Word: Word is required; SelfRating: SelfRating must be at most 3",
//	    "details": {
//	        "fields": [
//	            {"field": "Word", "tag": "required", "message": "..."},
//	            {"field": "SelfRating", "tag": "max", "message": "..."}
//	        ]
//	    }
//	}
//
// # Error Message Translation
//
// Human-readable messages are generated for common validation tags:
//
//	required   -> "Word is required"
//	min=0      -> "SelfRating must be at least 0"
//	max=3      -> "SelfRating must be at most 3"
//	max=50     -> "Nickname must be at most 50 characters"
//	oneof=a b  -> "SelfAssess must be one of: a b"
//
// # Struct Tag Examples
//
// Test start request:
//
//	type StartTestRequest struct {
//	    UserID       string `validate:"omitempty,max=64"`
//	    Nickname     string `validate:"omitempty,max=50"`
//	    QuestionType int    `validate:"min=0,max=6"`
//	    SelfAssess   string `validate:"omitempty,oneof=beginner intermediate advanced"`
//	}
//
// Matrix sampling query:
//
//	type MatrixQuery struct {
//	    SampleSize int `validate:"omitempty,min=10,max=2000"`
//	}
//
// # Thread Safety
//
// The singleton validator is initialized once and safe for concurrent use:
//
//	validate := validation.GetValidator()  // Thread-safe
//	err := validation.ValidateStruct(&req) // Thread-safe
//
// # Performance
//
// The validator caches struct reflection information:
//   - First validation of a struct type: ~1ms (reflection + caching)
//   - Subsequent validations: ~10us (cached)
//   - Memory: ~500 bytes per cached struct type
//
// # See Also
//
//   - internal/api: Request handlers using validation
//   - github.com/go-playground/validator/v10: Underlying library
package validation
