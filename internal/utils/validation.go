package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldErrors formats validation errors into one readable entry per field.
func FieldErrors(err error) []string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		field := jsonFieldName(e)
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email", field))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of [%s]", field, e.Param()))
		case "min", "gte":
			messages = append(messages, fmt.Sprintf("%s must be at least %s", field, e.Param()))
		case "datetime":
			messages = append(messages, fmt.Sprintf("%s must match %s", field, e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid (%s)", field, e.Tag()))
		}
	}
	return messages
}

// jsonFieldName turns "CreateDoctorRequest.RoomNumber" style names into the lower
// snake/camel name the client sent, falling back to the struct field name.
func jsonFieldName(e validator.FieldError) string {
	if name := e.Field(); name != "" {
		return strings.ToLower(name[:1]) + name[1:]
	}
	return e.StructField()
}

// BindAndValidate binds the request body (JSON or form, by content type) to obj and
// validates it. If either step fails it sends a BadRequest response and returns false.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBind(obj); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			BadRequest(c, "Validation failed", FieldErrors(err)...)
			return false
		}
		BadRequest(c, "Invalid request payload", err.Error())
		return false
	}
	return true
}

var tagNameOnce sync.Once

// UseJSONFieldNames makes validator report the json tag name for each field.
func UseJSONFieldNames() {
	tagNameOnce.Do(registerTagNames)
}

func registerTagNames() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return ""
		})
	}
}
