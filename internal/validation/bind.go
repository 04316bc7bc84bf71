package validation

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ParseOrderForm reads the multipart form fields into a CreateOrderRequest.
// The integrations list and the credentials map arrive as JSON-encoded
// strings; a field that fails to decode is logged and treated as absent,
// the request itself continues. Validation runs afterwards.
func ParseOrderForm(c *gin.Context, log *zap.Logger) *CreateOrderRequest {
	req := &CreateOrderRequest{
		FullName:          c.PostForm("fullName"),
		Email:             c.PostForm("email"),
		Phone:             c.PostForm("phone"),
		Company:           c.PostForm("company"),
		ProjectName:       c.PostForm("projectName"),
		AutomationType:    c.PostForm("automationType"),
		CustomDescription: c.PostForm("customDescription"),
		ExampleLink:       c.PostForm("exampleLink"),
		DeliverySpeed:     c.PostForm("deliverySpeed"),
		PriorityNotes:     c.PostForm("priorityNotes"),
	}

	if raw := c.PostForm("integrations"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Integrations); err != nil {
			log.Warn("failed to parse integrations field, dropping it",
				zap.String("raw", raw), zap.Error(err))
			req.Integrations = nil
		}
	}
	if raw := c.PostForm("hasCredentials"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.HasCredentials); err != nil {
			log.Warn("failed to parse hasCredentials field, dropping it",
				zap.String("raw", raw), zap.Error(err))
			req.HasCredentials = nil
		}
	}

	return req
}

// Validate runs the schema over a decoded request.
func Validate(v *validatorv10.Validate, req interface{}) error {
	return v.Struct(req)
}
