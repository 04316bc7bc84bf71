package validation

// CreateOrderRequest is the decoded multipart payload for POST /api/orders.
// Integrations and HasCredentials arrive on the wire as JSON-encoded
// strings; ParseOrderForm decodes them before validation runs.
type CreateOrderRequest struct {
	FullName    string `form:"fullName" validate:"required"`
	Email       string `form:"email" validate:"required,email"`
	Phone       string `form:"phone" validate:"omitempty"`
	Company     string `form:"company" validate:"omitempty"`
	ProjectName string `form:"projectName" validate:"required"`

	AutomationType    string `form:"automationType" validate:"required,oneof=whatsapp_chatbot crm_integration email_automation file_sync custom_workflow"`
	CustomDescription string `form:"customDescription" validate:"omitempty"`

	Integrations   []string        `form:"-" validate:"required,min=1,dive,required"`
	HasCredentials map[string]bool `form:"-" validate:"omitempty"`

	ExampleLink   string `form:"exampleLink" validate:"omitempty"`
	DeliverySpeed string `form:"deliverySpeed" validate:"omitempty,oneof=standard fast"`
	PriorityNotes string `form:"priorityNotes" validate:"omitempty"`
}

// UpdateOrderRequest is the body for PATCH /api/orders/:id. The admin
// surface may only touch status and notes.
type UpdateOrderRequest struct {
	Status     *string `json:"status" validate:"omitempty,oneof=new in_review in_progress delivered closed"`
	AdminNotes *string `json:"adminNotes" validate:"omitempty"`
}
