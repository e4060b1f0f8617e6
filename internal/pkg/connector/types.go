package connector

import (
	"encoding/json"
	"time"
)

// RelationshipStatus is the connector's relationship state machine.
type RelationshipStatus string

const (
	RelationshipPending          RelationshipStatus = "Pending"
	RelationshipActive           RelationshipStatus = "Active"
	RelationshipRejected         RelationshipStatus = "Rejected"
	RelationshipRevoked          RelationshipStatus = "Revoked"
	RelationshipTerminated       RelationshipStatus = "Terminated"
	RelationshipDeletionProposed RelationshipStatus = "DeletionProposed"
)

// Request item and response item type tags.
const (
	TypeRequest                      = "Request"
	TypeRequestItemGroup             = "RequestItemGroup"
	TypeShareAttributeRequestItem    = "ShareAttributeRequestItem"
	TypeCreateAttributeRequestItem   = "CreateAttributeRequestItem"
	TypeProposeAttributeRequestItem  = "ProposeAttributeRequestItem"
	TypeConsentRequestItem           = "ConsentRequestItem"
	TypeTransferFileOwnershipRequest = "TransferFileOwnershipRequestItem"
	TypeRelationshipTemplateContent  = "RelationshipTemplateContent"
	TypeMail                         = "Mail"
)

// ResponseItemResult values.
const (
	ResultAccepted = "Accepted"
	ResultRejected = "Rejected"
	ResultFailed   = "Failed"
)

// Reference is the shareable pointer to a template or file.
type Reference struct {
	Truncated string `json:"truncated"`
	URL       string `json:"url,omitempty"`
}

// IdentityInfo describes the connector's own identity.
type IdentityInfo struct {
	Address   string `json:"address"`
	PublicKey string `json:"publicKey,omitempty"`
}

// RelationshipTemplate is an onboarding invitation owned by the connector.
type RelationshipTemplate struct {
	ID                     string          `json:"id"`
	IsOwn                  bool            `json:"isOwn"`
	CreatedBy              string          `json:"createdBy"`
	CreatedAt              time.Time       `json:"createdAt"`
	ExpiresAt              *time.Time      `json:"expiresAt,omitempty"`
	MaxNumberOfAllocations int             `json:"maxNumberOfAllocations,omitempty"`
	Reference              Reference       `json:"reference"`
	Content                json.RawMessage `json:"content,omitempty"`
}

// PasswordProtection locks a template behind a password or PIN.
type PasswordProtection struct {
	Password                  string `json:"password"`
	PasswordIsPin             bool   `json:"passwordIsPin,omitempty"`
	PasswordLocationIndicator string `json:"passwordLocationIndicator,omitempty"`
}

// TemplateContent wraps the request that fires when a peer accepts the template.
type TemplateContent struct {
	Type              string         `json:"@type"`
	OnNewRelationship RequestContent `json:"onNewRelationship"`
}

// CreateTemplateRequest is the body of a template creation call.
type CreateTemplateRequest struct {
	MaxNumberOfAllocations int                 `json:"maxNumberOfAllocations"`
	ExpiresAt              time.Time           `json:"expiresAt"`
	Content                TemplateContent     `json:"content"`
	PasswordProtection     *PasswordProtection `json:"passwordProtection,omitempty"`
}

// RelationshipAuditLogEntry is one status transition of a relationship.
type RelationshipAuditLogEntry struct {
	CreatedAt time.Time           `json:"createdAt"`
	CreatedBy string              `json:"createdBy"`
	Reason    string              `json:"reason"`
	OldStatus *RelationshipStatus `json:"oldStatus,omitempty"`
	NewStatus RelationshipStatus  `json:"newStatus"`
}

// PeerIdentity identifies the other side of a relationship.
type PeerIdentity struct {
	Address string `json:"address"`
}

// Relationship is an established (or pending) peer connection.
type Relationship struct {
	ID           string                      `json:"id"`
	TemplateID   string                      `json:"templateId,omitempty"`
	Peer         string                      `json:"peer"`
	PeerIdentity PeerIdentity                `json:"peerIdentity"`
	Status       RelationshipStatus          `json:"status"`
	AuditLog     []RelationshipAuditLogEntry `json:"auditLog"`
}

// MailContent is the content of a Mail message.
type MailContent struct {
	Type    string   `json:"@type"`
	To      []string `json:"to,omitempty"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// MessageRecipient tracks delivery to one recipient.
type MessageRecipient struct {
	Address    string     `json:"address"`
	ReceivedAt *time.Time `json:"receivedAt,omitempty"`
}

// Message is a mail exchanged with a peer.
type Message struct {
	ID         string             `json:"id"`
	IsOwn      bool               `json:"isOwn"`
	CreatedBy  string             `json:"createdBy"`
	CreatedAt  time.Time          `json:"createdAt"`
	WasReadAt  *time.Time         `json:"wasReadAt,omitempty"`
	Recipients []MessageRecipient `json:"recipients,omitempty"`
	Content    MailContent        `json:"content"`
}

// SendMessageRequest sends arbitrary content to recipients.
type SendMessageRequest struct {
	Recipients []string    `json:"recipients"`
	Content    interface{} `json:"content"`
}

// AttributeValue is the typed value of an attribute.
type AttributeValue struct {
	Type    string `json:"@type"`
	Value   string `json:"value,omitempty"`
	Consent string `json:"consent,omitempty"`
}

// AttributeContent is an identity or relationship attribute.
type AttributeContent struct {
	Type            string         `json:"@type"`
	Owner           string         `json:"owner"`
	Value           AttributeValue `json:"value"`
	Key             string         `json:"key,omitempty"`
	Confidentiality string         `json:"confidentiality,omitempty"`
}

// LocalAttribute is an attribute stored by the connector.
type LocalAttribute struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"createdAt"`
	Content   AttributeContent `json:"content"`
}

// AttributeQuery asks the peer for an identity attribute of a value type.
type AttributeQuery struct {
	Type      string `json:"@type"`
	ValueType string `json:"valueType"`
}

// RequestItem is a single item or a group of items of a request. Only the
// fields used by this module are modelled.
type RequestItem struct {
	Type                  string            `json:"@type"`
	Title                 string            `json:"title,omitempty"`
	Description           string            `json:"description,omitempty"`
	MustBeAccepted        *bool             `json:"mustBeAccepted,omitempty"`
	RequireManualDecision *bool             `json:"requireManualDecision,omitempty"`
	Attribute             *AttributeContent `json:"attribute,omitempty"`
	SourceAttributeID     string            `json:"sourceAttributeId,omitempty"`
	Query                 *AttributeQuery   `json:"query,omitempty"`
	Consent               string            `json:"consent,omitempty"`
	Link                  string            `json:"link,omitempty"`
	LinkDisplayText       string            `json:"linkDisplayText,omitempty"`
	FileReference         string            `json:"fileReference,omitempty"`
	Items                 []RequestItem     `json:"items,omitempty"`
}

// RequestContent is the content of an outgoing request.
type RequestContent struct {
	Type  string        `json:"@type,omitempty"`
	ID    string        `json:"id,omitempty"`
	Items []RequestItem `json:"items"`
}

// ResponseItem answers one request item.
type ResponseItem struct {
	Type   string `json:"@type"`
	Result string `json:"result"`
}

// ResponseContent is the content of a response to a request.
type ResponseContent struct {
	Result    string         `json:"result"`
	RequestID string         `json:"requestId,omitempty"`
	Items     []ResponseItem `json:"items"`
}

// Source points at the message or relationship a request/response travelled with.
type Source struct {
	Type      string `json:"type"`
	Reference string `json:"reference"`
}

// LocalResponse is the peer's answer to an outgoing request.
type LocalResponse struct {
	CreatedAt time.Time       `json:"createdAt"`
	Content   ResponseContent `json:"content"`
	Source    *Source         `json:"source,omitempty"`
}

// LocalRequest is an outgoing request kept by the connector.
type LocalRequest struct {
	ID        string         `json:"id"`
	IsOwn     bool           `json:"isOwn"`
	Peer      string         `json:"peer"`
	CreatedAt time.Time      `json:"createdAt"`
	Status    string         `json:"status"`
	Content   RequestContent `json:"content"`
	Source    *Source        `json:"source,omitempty"`
	Response  *LocalResponse `json:"response,omitempty"`
}

// CreateOutgoingRequest is the body of an outgoing request creation.
type CreateOutgoingRequest struct {
	Content RequestContent `json:"content"`
	Peer    string         `json:"peer"`
}

// File is an uploaded or loaded file.
type File struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Filesize  int64     `json:"filesize,omitempty"`
	Mimetype  string    `json:"mimetype"`
	Title     string    `json:"title,omitempty"`
	IsOwn     bool      `json:"isOwn"`
	CreatedAt time.Time `json:"createdAt"`
	Reference Reference `json:"reference"`
	Tags      []string  `json:"tags,omitempty"`
}

// UploadFileRequest uploads file content owned by the connector.
type UploadFileRequest struct {
	Content   []byte
	Filename  string
	Mimetype  string
	Title     string
	Tags      []string
	ExpiresAt time.Time
}

// Bool returns a pointer to b, for optional request item flags.
func Bool(b bool) *bool {
	return &b
}
