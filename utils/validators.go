package utils

import (
	"github.com/go-playground/validator/v10"
)

// Validate is the shared validator instance, used for payloads that do
// not pass through gin's binding (CSV rows).
var Validate = validator.New()
