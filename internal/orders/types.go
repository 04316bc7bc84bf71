package orders

import "time"

// Order statuses
const (
	StatusNew        = "new"
	StatusInReview   = "in_review"
	StatusInProgress = "in_progress"
	StatusDelivered  = "delivered"
	StatusClosed     = "closed"
)

// Automation types offered on the order form.
const (
	TypeWhatsappChatbot = "whatsapp_chatbot"
	TypeCRMIntegration  = "crm_integration"
	TypeEmailAutomation = "email_automation"
	TypeFileSync        = "file_sync"
	TypeCustomWorkflow  = "custom_workflow"
)

// Delivery speeds
const (
	DeliveryStandard = "standard"
	DeliveryFast     = "fast"
)

// AttachedFile describes an uploaded file associated with an order.
// The binary content lives on disk under the uploads dir; only metadata
// is kept on the order record.
type AttachedFile struct {
	OriginalName string `json:"originalName" dynamodbav:"original_name"`
	Filename     string `json:"filename" dynamodbav:"filename"`
	Path         string `json:"path" dynamodbav:"path"`
	Size         int64  `json:"size" dynamodbav:"size"`
	Mimetype     string `json:"mimetype" dynamodbav:"mimetype"`
}

// Order is the sole domain entity: a customer's automation-project
// request plus the admin-tracked lifecycle fields.
type Order struct {
	ID      string `json:"id" dynamodbav:"id"` // storage key
	OrderID string `json:"orderId" dynamodbav:"order_id"`

	FullName    string `json:"fullName" dynamodbav:"full_name"`
	Email       string `json:"email" dynamodbav:"email"`
	Phone       string `json:"phone" dynamodbav:"phone,omitempty"`
	Company     string `json:"company" dynamodbav:"company,omitempty"`
	ProjectName string `json:"projectName" dynamodbav:"project_name"`

	AutomationType    string `json:"automationType" dynamodbav:"automation_type"`
	CustomDescription string `json:"customDescription" dynamodbav:"custom_description,omitempty"`

	Integrations   []string        `json:"integrations" dynamodbav:"integrations"`
	HasCredentials map[string]bool `json:"hasCredentials" dynamodbav:"has_credentials,omitempty"`

	AttachedFiles []AttachedFile `json:"attachedFiles" dynamodbav:"attached_files,omitempty"`
	ExampleLink   string         `json:"exampleLink" dynamodbav:"example_link,omitempty"`

	DeliverySpeed string `json:"deliverySpeed" dynamodbav:"delivery_speed,omitempty"`
	PriorityNotes string `json:"priorityNotes" dynamodbav:"priority_notes,omitempty"`

	Status     string `json:"status" dynamodbav:"status"` // new | in_review | in_progress | delivered | closed
	AdminNotes string `json:"adminNotes" dynamodbav:"admin_notes,omitempty"`

	CreatedAt time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

// NewOrder carries the intake fields for a create; id, order code,
// status and timestamps are assigned by the store.
type NewOrder struct {
	FullName          string
	Email             string
	Phone             string
	Company           string
	ProjectName       string
	AutomationType    string
	CustomDescription string
	Integrations      []string
	HasCredentials    map[string]bool
	AttachedFiles     []AttachedFile
	ExampleLink       string
	DeliverySpeed     string
	PriorityNotes     string
}

// OrderUpdate is the partial patch accepted by the admin surface.
// Nil fields are left untouched.
type OrderUpdate struct {
	Status     *string `json:"status"`
	AdminNotes *string `json:"adminNotes"`
}
