package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/wms/backend/internal/domain/receipt"
)

// SetupValidator configures gin's binding validator. Field names in
// validation errors use the json/form tag instead of the Go field name,
// so clients see "purchase_order_id" rather than "PurchaseOrderID".
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	// quality_status rejects unknown quality dispositions at the binding
	// layer, before the request reaches the domain
	_ = v.RegisterValidation("quality_status", func(fl validator.FieldLevel) bool {
		return receipt.QualityStatus(fl.Field().String()).IsValid()
	})
}

// ValidationMessage returns a human-readable message for one field error
func ValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "uuid":
		return "Must be a valid UUID"
	case "min":
		return "Must be at least " + e.Param()
	case "max":
		return "Must be at most " + e.Param()
	case "oneof":
		return "Must be one of: " + e.Param()
	default:
		return "Invalid value"
	}
}
